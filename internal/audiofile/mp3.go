package audiofile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always decodes to interleaved 16-bit little-endian stereo.
const (
	mp3Channels   = 2
	mp3FrameBytes = 4
)

// mp3Decoder converts the decoded PCM byte stream into frames.
type mp3Decoder struct {
	pcm     io.Reader
	length  int64
	scratch []byte
}

func (r *Reader) openMP3() error {
	d, err := mp3.NewDecoder(r.file)
	if err != nil {
		return fmt.Errorf("decode MP3: %w", err)
	}

	r.format = "mp3"
	r.sampleRate = d.SampleRate()
	r.channels = mp3Channels
	r.bitDepth = 16
	r.dec = &mp3Decoder{pcm: d, length: d.Length()}

	return nil
}

func (m *mp3Decoder) readFrames(buf []float64) (int, error) {
	want := len(buf) / mp3Channels
	if want == 0 {
		return 0, nil
	}
	size := want * mp3FrameBytes
	if cap(m.scratch) < size {
		m.scratch = make([]byte, size)
	}
	m.scratch = m.scratch[:size]

	n, err := io.ReadFull(m.pcm, m.scratch)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("audiofile: decode MP3: %w", err)
	}

	frames := n / mp3FrameBytes
	if frames == 0 {
		return 0, io.EOF
	}
	for i := range frames * mp3Channels {
		s := int16(binary.LittleEndian.Uint16(m.scratch[2*i:]))
		buf[i] = float64(s) / (1 << 15)
	}

	return frames, nil
}

func (m *mp3Decoder) frames() int64 {
	if m.length < 0 {
		return -1
	}
	return m.length / mp3FrameBytes
}
