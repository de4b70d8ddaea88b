package upmix

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cwbudde/algo-upmix/dsp/buffer"
	"github.com/cwbudde/algo-upmix/dsp/transform"
)

const (
	// InputChannels is the number of interleaved channels read from a Source.
	InputChannels = 2
	// OutputChannels is the number of interleaved channels written to a Sink.
	OutputChannels = 3

	chanLeft   = 0
	chanRight  = 1
	chanCenter = 2
)

// Source provides interleaved stereo frames.
//
// ReadFrames fills buf with up to len(buf)/2 frames and returns the number of
// frames read. It returns 0 frames (optionally with io.EOF) at end of stream.
type Source interface {
	ReadFrames(buf []float64) (int, error)
}

// Sink consumes interleaved three-channel frames (left, right, center).
//
// WriteFrames must write all len(buf)/3 frames or fail. buf is only valid for
// the duration of the call.
type Sink interface {
	WriteFrames(buf []float64) error
}

// State is the phase of a conversion run.
type State int

const (
	// StateIdle means no run has started.
	StateIdle State = iota
	// StateWarmup means no output frame is final yet.
	StateWarmup
	// StateSteady means input is flowing and each iteration emits a block.
	StateSteady
	// StateDrain means the source is exhausted and buffered frames are flushed.
	StateDrain
	// StateDone means every frame read has been written.
	StateDone
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWarmup:
		return "warmup"
	case StateSteady:
		return "steady"
	case StateDrain:
		return "drain"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stats summarizes a finished run.
type Stats struct {
	// Read is the number of frames consumed from the source.
	Read int64
	// Written is the number of frames emitted to the sink.
	Written int64
	// Iterations is the number of analysis windows processed.
	Iterations int64
}

// Option configures an Upmixer.
type Option func(*Upmixer)

// WithProgress installs observability hooks. onStart runs once before the
// first window, onProgress after every emitted block with the running count
// of written frames. Either may be nil.
func WithProgress(onStart func(), onProgress func(written int64)) Option {
	return func(u *Upmixer) {
		u.onStart = onStart
		u.onProgress = onProgress
	}
}

// WithLogger sets the logger for run-level debug messages.
func WithLogger(logger *slog.Logger) Option {
	return func(u *Upmixer) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// Upmixer converts stereo streams into left/right/center streams.
type Upmixer struct {
	cfg    Config
	engine transform.Engine

	selector *Selector
	input    *buffer.Ring
	output   *buffer.Ring

	block      []float64
	left       []complex128
	right      []complex128
	center     []complex128
	centerTime []float64

	state      State
	onStart    func()
	onProgress func(int64)
	logger     *slog.Logger
}

// New validates cfg, plans the transform engine and preallocates all buffers.
// Nothing is allocated when cfg is invalid. The returned Upmixer must be
// closed to release the engine.
func New(cfg Config, opts ...Option) (*Upmixer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine, err := transform.New(cfg.Engine, cfg.WindowSize)
	if err != nil {
		return nil, fmt.Errorf("upmix: %w", err)
	}

	bins := cfg.Bins()
	u := &Upmixer{
		cfg:        cfg,
		engine:     engine,
		selector:   NewSelector(bins),
		input:      buffer.NewRing(cfg.WindowSize, InputChannels),
		output:     buffer.NewRing(cfg.WindowSize, OutputChannels),
		block:      make([]float64, InputChannels*cfg.SkipSize()),
		left:       make([]complex128, bins),
		right:      make([]complex128, bins),
		center:     make([]complex128, bins),
		centerTime: make([]float64, cfg.WindowSize),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(u)
		}
	}

	return u, nil
}

// Config returns the run configuration.
func (u *Upmixer) Config() Config { return u.cfg }

// State returns the phase reached by the most recent run.
func (u *Upmixer) State() State { return u.state }

// Close releases the transform engine. It is safe to call more than once.
func (u *Upmixer) Close() error {
	if u.engine == nil {
		return nil
	}
	err := u.engine.Close()
	u.engine = nil
	return err
}

// Run converts src into dst until every frame read has been written.
//
// Frames are processed in blocks of SkipSize. Each iteration reads one block,
// analyzes the current window, overlap-adds its center estimate and, after the
// warm-up, emits the oldest block, which no later window touches. Run resets
// all buffers first, so an Upmixer can convert several streams in sequence.
func (u *Upmixer) Run(src Source, dst Sink) (Stats, error) {
	if u.engine == nil {
		return Stats{}, fmt.Errorf("upmix: %w", transform.ErrClosed)
	}

	u.input.Reset()
	u.output.Reset()

	var (
		window     = u.cfg.WindowSize
		skip       = u.cfg.SkipSize()
		tail       = window - skip
		latency    = int64(u.cfg.Latency())
		normalizer = u.cfg.Normalizer()

		stats   Stats
		index   int64
		drained bool
	)

	u.setState(StateWarmup)
	u.logger.Debug("upmix started",
		"window_size", window,
		"overlap", u.cfg.Overlap,
		"skip_size", skip,
		"engine", u.cfg.Engine.String())

	if u.onStart != nil {
		u.onStart()
	}

	for {
		n := 0
		if !drained {
			var (
				eof bool
				err error
			)
			n, eof, err = readBlock(src, u.block)
			if err != nil {
				return stats, fmt.Errorf("upmix: read source: %w", err)
			}
			if eof {
				drained = true
				u.setState(StateDrain)
			}
		}
		clear(u.block[InputChannels*n:])
		stats.Read += int64(n)

		u.input.WriteTail(u.block)
		for i := range skip {
			u.output.Set(tail+i, chanLeft, u.block[InputChannels*i])
			u.output.Set(tail+i, chanRight, u.block[InputChannels*i+1])
			u.output.Set(tail+i, chanCenter, 0)
		}

		if err := u.engine.Forward(u.left, u.right, u.input.Window()); err != nil {
			return stats, fmt.Errorf("upmix: %w", err)
		}
		u.selector.Select(u.center, u.left, u.right)
		if err := u.engine.Inverse(u.centerTime, u.center); err != nil {
			return stats, fmt.Errorf("upmix: %w", err)
		}
		u.output.AddColumn(chanCenter, u.centerTime)
		stats.Iterations++

		if index >= latency {
			if !drained {
				u.setState(StateSteady)
			}

			for i := range skip {
				c := u.output.At(i, chanCenter) * normalizer
				u.output.Set(i, chanCenter, c)
				u.output.Set(i, chanLeft, u.output.At(i, chanLeft)-c)
				u.output.Set(i, chanRight, u.output.At(i, chanRight)-c)
			}

			toWrite := min(int64(skip), stats.Read-stats.Written)
			if toWrite > 0 {
				err := dst.WriteFrames(u.output.Window()[:OutputChannels*toWrite])
				if err != nil {
					return stats, fmt.Errorf("upmix: write sink: %w", err)
				}
			}
			stats.Written += toWrite
			if u.onProgress != nil {
				u.onProgress(stats.Written)
			}

			if drained && stats.Written == stats.Read {
				break
			}
		}

		u.input.Advance(skip)
		u.output.Advance(skip)
		index += int64(skip)
	}

	u.setState(StateDone)
	u.logger.Debug("upmix finished",
		"frames_read", stats.Read,
		"frames_written", stats.Written,
		"iterations", stats.Iterations)

	return stats, nil
}

func (u *Upmixer) setState(s State) {
	if u.state == s {
		return
	}
	u.state = s
	u.logger.Debug("upmix state", "state", s.String())
}

// readBlock fills buf with as many stereo frames as src yields before it
// reports end of stream. eof is true once src returned io.EOF or an empty read.
func readBlock(src Source, buf []float64) (n int, eof bool, err error) {
	want := len(buf) / InputChannels
	for n < want {
		got, err := src.ReadFrames(buf[InputChannels*n:])
		n += got
		switch {
		case errors.Is(err, io.EOF):
			return n, true, nil
		case err != nil:
			return n, false, err
		case got == 0:
			return n, true, nil
		}
	}
	return n, false, nil
}
