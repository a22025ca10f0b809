package reactive

import (
	"log/slog"

	terrors "github.com/vango-dev/trellis/internal/errors"
	"github.com/vango-dev/trellis/pkg/telemetry"
)

// DefaultMaxUpdateCount is the number of times a single watcher may re-queue
// itself within one flush before the scheduler drops it.
const DefaultMaxUpdateCount = 100

// Config holds Runtime settings.
type Config struct {
	// Async batches watcher re-runs until the next microtask drain.
	// When false, flushes run synchronously and Dep notifications are
	// delivered in watcher id order. Default: true.
	Async bool

	// MaxUpdateCount bounds self re-queues per watcher per flush.
	// Default: 100.
	MaxUpdateCount int

	// Silent suppresses warnings.
	Silent bool

	// Logger receives warnings and unhandled errors.
	// Default: slog.Default().
	Logger *slog.Logger

	// ErrorHandler receives errors raised by user watchers, hooks, render
	// functions and nextTick callbacks once no component captured them.
	ErrorHandler func(err error, info string)

	// WarnHandler replaces logging of warnings when set.
	WarnHandler func(err *terrors.Error)

	// Metrics records scheduler metrics. Optional.
	Metrics *telemetry.Metrics

	// Tracer records flush spans. Optional.
	Tracer *telemetry.Tracer
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Async:          true,
		MaxUpdateCount: DefaultMaxUpdateCount,
		Logger:         slog.Default(),
	}
}

// Option configures a Runtime.
type Option func(*Config)

// WithAsync enables or disables asynchronous batching.
func WithAsync(async bool) Option {
	return func(c *Config) {
		c.Async = async
	}
}

// WithMaxUpdateCount sets the update loop guard threshold.
func WithMaxUpdateCount(n int) Option {
	return func(c *Config) {
		c.MaxUpdateCount = n
	}
}

// WithSilent suppresses warnings.
func WithSilent(silent bool) Option {
	return func(c *Config) {
		c.Silent = silent
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithErrorHandler sets the global error handler.
func WithErrorHandler(fn func(err error, info string)) Option {
	return func(c *Config) {
		c.ErrorHandler = fn
	}
}

// WithWarnHandler sets the warning handler.
func WithWarnHandler(fn func(err *terrors.Error)) Option {
	return func(c *Config) {
		c.WarnHandler = fn
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithTracer sets the tracer.
func WithTracer(t *telemetry.Tracer) Option {
	return func(c *Config) {
		c.Tracer = t
	}
}
