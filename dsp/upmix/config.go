package upmix

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-upmix/dsp/transform"
)

const (
	// DefaultWindowSize is the default analysis window length in frames.
	DefaultWindowSize = 4096
	// DefaultOverlap is the default number of windows covering each frame.
	DefaultOverlap = 128
)

var (
	// ErrInvalidConfig is returned for non-positive window size or overlap.
	ErrInvalidConfig = errors.New("upmix: invalid configuration")
	// ErrIndivisible is returned when the window size is not a multiple of the overlap.
	ErrIndivisible = errors.New("upmix: window size must be divisible by overlap")
)

// Config holds the immutable settings of a conversion run.
type Config struct {
	// WindowSize is the analysis window and transform length in frames.
	WindowSize int
	// Overlap is how many analysis windows cover each frame.
	Overlap int
	// Engine selects the transform implementation.
	Engine transform.Kind
}

// ConfigOption mutates a Config.
type ConfigOption func(*Config)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		WindowSize: DefaultWindowSize,
		Overlap:    DefaultOverlap,
		Engine:     transform.KindAlgoFFT,
	}
}

// WithWindowSize sets the analysis window length in frames.
func WithWindowSize(n int) ConfigOption {
	return func(cfg *Config) { cfg.WindowSize = n }
}

// WithOverlap sets the number of windows covering each frame.
func WithOverlap(n int) ConfigOption {
	return func(cfg *Config) { cfg.Overlap = n }
}

// WithEngine selects the transform engine.
func WithEngine(kind transform.Kind) ConfigOption {
	return func(cfg *Config) { cfg.Engine = kind }
}

// NewConfig applies opts to the default configuration and validates the result.
func NewConfig(opts ...ConfigOption) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("%w: window size must be > 0, got %d", ErrInvalidConfig, c.WindowSize)
	}
	if c.Overlap <= 0 {
		return fmt.Errorf("%w: overlap must be > 0, got %d", ErrInvalidConfig, c.Overlap)
	}
	if c.WindowSize%c.Overlap != 0 {
		return fmt.Errorf("%w: %d %% %d = %d", ErrIndivisible, c.WindowSize, c.Overlap, c.WindowSize%c.Overlap)
	}
	return nil
}

// SkipSize returns the hop between successive windows in frames.
func (c Config) SkipSize() int {
	return c.WindowSize / c.Overlap
}

// Normalizer returns the gain applied to the overlap-added center signal. It
// undoes the unnormalized inverse transform (WindowSize) and the number of
// windows summed at each frame (Overlap).
func (c Config) Normalizer() float64 {
	return 1 / (float64(c.WindowSize) * float64(c.Overlap))
}

// Latency returns how many frames beyond a block must be read before that
// block is emitted.
func (c Config) Latency() int {
	return c.WindowSize - c.SkipSize()
}

// Bins returns the number of spectrum bins per channel.
func (c Config) Bins() int {
	return transform.Bins(c.WindowSize)
}
