package upmix

import (
	"errors"
	"fmt"
	"io"
)

// ErrPartialFrame is returned when an interleaved buffer does not hold a
// whole number of frames.
var ErrPartialFrame = errors.New("upmix: buffer length is not a whole number of frames")

// SliceSource reads interleaved stereo frames from memory.
type SliceSource struct {
	samples []float64
	pos     int
}

// NewSliceSource returns a Source over interleaved stereo samples. A trailing
// partial frame is never returned.
func NewSliceSource(interleaved []float64) *SliceSource {
	return &SliceSource{samples: interleaved}
}

// ReadFrames implements Source.
func (s *SliceSource) ReadFrames(buf []float64) (int, error) {
	frames := min(len(buf), len(s.samples)-s.pos) / InputChannels
	if frames == 0 {
		return 0, io.EOF
	}
	n := copy(buf[:InputChannels*frames], s.samples[s.pos:])
	s.pos += n
	return frames, nil
}

// SliceSink collects interleaved three-channel frames in memory.
type SliceSink struct {
	samples []float64
}

// NewSliceSink returns a Sink with room for capFrames frames.
func NewSliceSink(capFrames int) *SliceSink {
	return &SliceSink{samples: make([]float64, 0, max(capFrames, 0)*OutputChannels)}
}

// WriteFrames implements Sink.
func (s *SliceSink) WriteFrames(buf []float64) error {
	if len(buf)%OutputChannels != 0 {
		return fmt.Errorf("%w: %d samples for %d channels", ErrPartialFrame, len(buf), OutputChannels)
	}
	s.samples = append(s.samples, buf...)
	return nil
}

// Samples returns the collected interleaved samples.
func (s *SliceSink) Samples() []float64 { return s.samples }

// Frames returns the number of collected frames.
func (s *SliceSink) Frames() int { return len(s.samples) / OutputChannels }

// Process converts a whole interleaved stereo buffer and returns the
// interleaved left/right/center result, one output frame per input frame.
func Process(stereo []float64, cfg Config, opts ...Option) ([]float64, error) {
	if len(stereo)%InputChannels != 0 {
		return nil, fmt.Errorf("%w: %d samples for %d channels", ErrPartialFrame, len(stereo), InputChannels)
	}

	u, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	defer u.Close()

	sink := NewSliceSink(len(stereo) / InputChannels)
	if _, err := u.Run(NewSliceSource(stereo), sink); err != nil {
		return nil, err
	}

	return sink.Samples(), nil
}
