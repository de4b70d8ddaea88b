package audiofile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
)

const (
	// OutputBitDepth is the sample resolution written by Writer.
	OutputBitDepth = 24

	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

type wavDecoder struct {
	dec      *wav.Decoder
	buf      *audio.IntBuffer
	channels int
	bitDepth int
	scale    float64
}

func (r *Reader) openWAV() error {
	tag, err := wavFormatTag(r.file)
	if err != nil {
		return fmt.Errorf("%w: not a valid WAV file: %w", ErrUnsupportedFormat, err)
	}
	if tag != wavFormatPCM {
		return fmt.Errorf("%w: WAV encoding %#x is not integer PCM", ErrUnsupportedFormat, tag)
	}
	if _, err := r.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	d := wav.NewDecoder(r.file)
	if !d.IsValidFile() {
		return fmt.Errorf("%w: not a valid WAV file", ErrUnsupportedFormat)
	}

	bitDepth := int(d.BitDepth)
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d-bit WAV", ErrUnsupportedFormat, bitDepth)
	}

	if err := d.FwdToPCM(); err != nil {
		return fmt.Errorf("locate WAV data: %w", err)
	}
	if err := d.Err(); err != nil {
		return fmt.Errorf("locate WAV data: %w", err)
	}

	channels := int(d.NumChans)
	r.format = "wav"
	r.sampleRate = int(d.SampleRate)
	r.channels = channels
	r.bitDepth = bitDepth
	r.dec = &wavDecoder{
		dec: d,
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: int(d.SampleRate)},
			SourceBitDepth: bitDepth,
		},
		channels: channels,
		bitDepth: bitDepth,
		scale:    1 / math.Exp2(float64(bitDepth-1)),
	}

	return nil
}

// wavFormatTag returns the format tag of the fmt chunk, or the sub-format tag
// for WAVE_FORMAT_EXTENSIBLE files.
func wavFormatTag(rd io.Reader) (uint16, error) {
	p := riff.New(rd)
	if err := p.ParseHeaders(); err != nil {
		return 0, err
	}
	if p.Format != riff.WavFormatID {
		return 0, fmt.Errorf("RIFF form %q", p.Format[:])
	}

	for {
		ch, err := p.NextChunk()
		if err != nil {
			return 0, err
		}
		if ch.ID != riff.FmtID {
			ch.Drain()
			continue
		}

		body := make([]byte, ch.Size)
		if _, err := io.ReadFull(ch, body); err != nil {
			return 0, err
		}
		if len(body) < 16 {
			return 0, fmt.Errorf("fmt chunk of %d bytes", len(body))
		}
		tag := binary.LittleEndian.Uint16(body)
		if tag != wavFormatExtensible {
			return tag, nil
		}
		// cbSize(2) validBits(2) channelMask(4) precede the sub-format GUID.
		if len(body) < 26 {
			return 0, fmt.Errorf("extensible fmt chunk of %d bytes", len(body))
		}
		return binary.LittleEndian.Uint16(body[24:]), nil
	}
}

func (w *wavDecoder) readFrames(buf []float64) (int, error) {
	want := len(buf) / w.channels * w.channels
	if want == 0 {
		return 0, nil
	}
	if cap(w.buf.Data) < want {
		w.buf.Data = make([]int, want)
	}
	w.buf.Data = w.buf.Data[:want]

	n, err := w.dec.PCMBuffer(w.buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("audiofile: decode WAV: %w", err)
	}

	frames := n / w.channels
	if frames == 0 {
		return 0, io.EOF
	}
	for i, v := range w.buf.Data[:frames*w.channels] {
		buf[i] = float64(v) * w.scale
	}

	return frames, nil
}

func (w *wavDecoder) frames() int64 {
	size := w.dec.PCMLen()
	if size <= 0 {
		return -1
	}
	return size / int64(w.channels*w.bitDepth/8)
}

// Writer writes interleaved frames as 24-bit PCM WAV.
type Writer struct {
	path     string
	file     *os.File
	enc      *wav.Encoder
	buf      *audio.IntBuffer
	channels int
	frames   int64
	closed   bool
}

// Create creates (or truncates) path as a 24-bit PCM WAV file.
func Create(path string, sampleRate, channels int) (*Writer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audiofile: sample rate must be > 0, got %d", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrChannelCount, channels)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: create %s: %w", path, err)
	}

	return &Writer{
		path: path,
		file: f,
		enc:  wav.NewEncoder(f, sampleRate, OutputBitDepth, channels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: OutputBitDepth,
		},
		channels: channels,
	}, nil
}

// Path returns the file path.
func (w *Writer) Path() string { return w.path }

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int64 { return w.frames }

// WriteFrames quantizes buf to 24 bits and appends it. Values outside
// [-1, 1) are clipped.
func (w *Writer) WriteFrames(buf []float64) error {
	if len(buf)%w.channels != 0 {
		return fmt.Errorf("audiofile: %d samples is not a whole number of %d-channel frames", len(buf), w.channels)
	}
	if len(buf) == 0 {
		return nil
	}
	if cap(w.buf.Data) < len(buf) {
		w.buf.Data = make([]int, len(buf))
	}
	w.buf.Data = w.buf.Data[:len(buf)]

	const (
		full = 1 << (OutputBitDepth - 1)
		hi   = full - 1
		lo   = -full
	)
	for i, v := range buf {
		q := math.Round(v * full)
		switch {
		case q > hi:
			q = hi
		case q < lo:
			q = lo
		}
		w.buf.Data[i] = int(q)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("audiofile: write %s: %w", w.path, err)
	}
	w.frames += int64(len(buf) / w.channels)

	return nil
}

// Close finalizes the WAV header and closes the file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	encErr := w.enc.Close()
	fileErr := w.file.Close()
	if encErr != nil {
		return fmt.Errorf("audiofile: finalize %s: %w", w.path, encErr)
	}
	if fileErr != nil {
		return fmt.Errorf("audiofile: close %s: %w", w.path, fileErr)
	}
	return nil
}
