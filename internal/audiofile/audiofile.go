// Package audiofile opens audio files as interleaved float64 frame streams
// and writes 24-bit PCM WAV files.
//
// Samples are scaled to [-1, 1). Readers pick a decoder from the file
// extension: .wav/.wave (integer PCM, 16/24/32 bit), .mp3 and .flac.
package audiofile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for unknown extensions and encodings.
	ErrUnsupportedFormat = errors.New("audiofile: unsupported format")
	// ErrChannelCount is returned when a stream has the wrong channel count.
	ErrChannelCount = errors.New("audiofile: unexpected channel count")
)

type decoder interface {
	readFrames(buf []float64) (int, error)
	frames() int64
}

// Reader streams interleaved frames from an audio file.
type Reader struct {
	path       string
	file       *os.File
	dec        decoder
	format     string
	sampleRate int
	channels   int
	bitDepth   int
}

// Open opens path and prepares a decoder chosen by its extension.
func Open(path string) (*Reader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".wave", ".mp3", ".flac":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: open %s: %w", path, err)
	}

	r := &Reader{path: path, file: f}
	switch ext {
	case ".mp3":
		err = r.openMP3()
	case ".flac":
		err = r.openFLAC()
	default:
		err = r.openWAV()
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("audiofile: %s: %w", path, err)
	}

	return r, nil
}

// Path returns the file path.
func (r *Reader) Path() string { return r.path }

// Format returns the container name ("wav", "mp3" or "flac").
func (r *Reader) Format() string { return r.format }

// SampleRate returns the sample rate in Hz.
func (r *Reader) SampleRate() int { return r.sampleRate }

// Channels returns the number of interleaved channels per frame.
func (r *Reader) Channels() int { return r.channels }

// BitDepth returns the source sample resolution in bits.
func (r *Reader) BitDepth() int { return r.bitDepth }

// Frames returns the total number of frames, or -1 if unknown.
func (r *Reader) Frames() int64 { return r.dec.frames() }

// ReadFrames fills buf with up to len(buf)/Channels() interleaved frames and
// returns the number of frames read. At end of stream it returns 0, io.EOF.
func (r *Reader) ReadFrames(buf []float64) (int, error) {
	return r.dec.readFrames(buf)
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// RequireChannels returns ErrChannelCount unless r has want channels.
func RequireChannels(r *Reader, want int) error {
	if r.channels != want {
		return fmt.Errorf("%w: %s has %d channels, want %d", ErrChannelCount, r.path, r.channels, want)
	}
	return nil
}
