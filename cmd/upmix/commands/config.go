package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-upmix/dsp/transform"
	"github.com/cwbudde/algo-upmix/dsp/upmix"
)

// fileConfig is the on-disk YAML form of the run settings. Absent keys keep
// the built-in defaults.
type fileConfig struct {
	WindowSize *int   `yaml:"window_size,omitempty"`
	Overlap    *int   `yaml:"overlap,omitempty"`
	Engine     string `yaml:"engine,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`
}

// settings are the command-line flag values.
type settings struct {
	configPath string
	windowSize int
	overlap    int
	engine     string
	logLevel   string
	quiet      bool
}

func (s *settings) register(flags *pflag.FlagSet) {
	flags.StringVar(&s.configPath, "config", "", "YAML file with window_size, overlap, engine and log_level")
	flags.IntVar(&s.windowSize, "window-size", upmix.DefaultWindowSize, "analysis window length in frames")
	flags.IntVar(&s.overlap, "overlap", upmix.DefaultOverlap, "number of windows covering each frame")
	flags.StringVar(&s.engine, "engine", transform.KindAlgoFFT.String(), "transform engine (algofft, gonum)")
	flags.StringVar(&s.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVarP(&s.quiet, "quiet", "q", false, "disable the progress line")
}

// loadFileConfig reads a YAML settings file.
func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// resolve merges defaults, the optional config file and explicitly set flags,
// in increasing priority, and validates the result.
func (s *settings) resolve(flags *pflag.FlagSet) (upmix.Config, slog.Level, error) {
	windowSize := upmix.DefaultWindowSize
	overlap := upmix.DefaultOverlap
	engine := s.engine
	logLevel := s.logLevel

	if s.configPath != "" {
		fc, err := loadFileConfig(s.configPath)
		if err != nil {
			return upmix.Config{}, 0, err
		}
		if fc.WindowSize != nil {
			windowSize = *fc.WindowSize
		}
		if fc.Overlap != nil {
			overlap = *fc.Overlap
		}
		if fc.Engine != "" && !flags.Changed("engine") {
			engine = fc.Engine
		}
		if fc.LogLevel != "" && !flags.Changed("log-level") {
			logLevel = fc.LogLevel
		}
	}
	if flags.Changed("window-size") {
		windowSize = s.windowSize
	}
	if flags.Changed("overlap") {
		overlap = s.overlap
	}

	kind, err := transform.ParseKind(engine)
	if err != nil {
		return upmix.Config{}, 0, err
	}

	cfg, err := upmix.NewConfig(
		upmix.WithWindowSize(windowSize),
		upmix.WithOverlap(overlap),
		upmix.WithEngine(kind),
	)
	if err != nil {
		return upmix.Config{}, 0, err
	}

	level, err := parseLevel(logLevel)
	if err != nil {
		return upmix.Config{}, 0, err
	}

	return cfg, level, nil
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}
