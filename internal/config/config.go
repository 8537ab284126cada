// Package config holds process configuration read from SIGNALGRAPH_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/delaneyj/signalgraph/reactive"
)

type Config struct {
	LogLevel    slog.Level `env:"SIGNALGRAPH_LOG_LEVEL" envDefault:"INFO"`
	FlushBudget int        `env:"SIGNALGRAPH_FLUSH_BUDGET" envDefault:"0"`

	// Tracing is opt-in: nothing is exported unless an endpoint is set.
	OTelEnabled  bool   `env:"SIGNALGRAPH_OTEL_ENABLED" envDefault:"true"`
	OTelEndpoint string `env:"SIGNALGRAPH_OTEL_ENDPOINT"`

	Bench BenchConfig `envPrefix:"SIGNALGRAPH_BENCH_"`
}

// BenchConfig sizes the propagation grid and layered graph benchmarks.
type BenchConfig struct {
	Widths     []int `env:"WIDTHS" envDefault:"1,10,100,1000"`
	Heights    []int `env:"HEIGHTS" envDefault:"1,10,100,1000"`
	Iterations int   `env:"ITERATIONS" envDefault:"100"`
	Repeats    int   `env:"REPEATS" envDefault:"5"`
}

var ErrInvalid = errors.New("invalid config")

// Load reads and validates the configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.FlushBudget < 0 {
		return fmt.Errorf("%w: flush budget %d is negative", ErrInvalid, c.FlushBudget)
	}
	if c.Bench.Iterations < 1 {
		return fmt.Errorf("%w: bench iterations must be positive, got %d", ErrInvalid, c.Bench.Iterations)
	}
	if c.Bench.Repeats < 1 {
		return fmt.Errorf("%w: bench repeats must be positive, got %d", ErrInvalid, c.Bench.Repeats)
	}
	for _, sizes := range [][]int{c.Bench.Widths, c.Bench.Heights} {
		for _, n := range sizes {
			if n < 1 {
				return fmt.Errorf("%w: bench sizes must be positive, got %d", ErrInvalid, n)
			}
		}
	}
	return nil
}

// Logger builds a text logger at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// GraphOptions turns the configuration into options for reactive.New.
func (c Config) GraphOptions(logger *slog.Logger, hooks ...reactive.Hooks) []reactive.Option {
	opts := []reactive.Option{
		reactive.WithLogger(logger),
		reactive.WithFlushBudget(c.FlushBudget),
	}
	if len(hooks) > 0 {
		opts = append(opts, reactive.WithHooks(hooks...))
	}
	return opts
}
