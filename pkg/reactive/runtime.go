package reactive

import (
	"log/slog"

	terrors "github.com/vango-dev/trellis/internal/errors"
)

// Runtime owns all reactive state for one render root: id counters, the
// active-collector stack, the scheduler queue and the microtask queue.
type Runtime struct {
	config Config
	logger *slog.Logger

	depUID     uint64
	watcherUID uint64

	target      *Watcher
	targetStack []*Watcher

	shouldObserve bool

	// scheduler
	queue     []*Watcher
	activated []Activator
	has       map[uint64]bool
	circular  map[uint64]int
	dropped   map[uint64]bool
	waiting   bool
	flushing  bool
	index     int

	// microtasks
	callbacks  []func()
	pending    bool
	onSchedule func()
}

// NewRuntime creates a Runtime with the given options.
func NewRuntime(opts ...Option) *Runtime {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxUpdateCount <= 0 {
		cfg.MaxUpdateCount = DefaultMaxUpdateCount
	}

	return &Runtime{
		config:        cfg,
		logger:        cfg.Logger,
		shouldObserve: true,
		has:           make(map[uint64]bool),
		circular:      make(map[uint64]int),
		dropped:       make(map[uint64]bool),
	}
}

// Config returns the runtime configuration.
func (rt *Runtime) Config() Config {
	return rt.config
}

// Logger returns the runtime logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

// Target returns the watcher currently collecting dependencies, or nil.
func (rt *Runtime) Target() *Watcher {
	return rt.target
}

// PushTarget makes w the active collector. Pushing nil suspends tracking,
// which is how hooks and prop defaults run untracked.
func (rt *Runtime) PushTarget(w *Watcher) {
	rt.targetStack = append(rt.targetStack, w)
	rt.target = w
}

// PopTarget restores the previous collector.
func (rt *Runtime) PopTarget() {
	n := len(rt.targetStack)
	if n == 0 {
		rt.target = nil
		return
	}
	rt.targetStack = rt.targetStack[:n-1]
	if n == 1 {
		rt.target = nil
		return
	}
	rt.target = rt.targetStack[n-2]
}

// Untracked runs fn with dependency collection suspended.
func (rt *Runtime) Untracked(fn func()) {
	rt.PushTarget(nil)
	defer rt.PopTarget()
	fn()
}

// ToggleObserving turns conversion of new values on or off.
func (rt *Runtime) ToggleObserving(value bool) {
	rt.shouldObserve = value
}

// IsObserving reports whether new values are converted on assignment.
func (rt *Runtime) IsObserving() bool {
	return rt.shouldObserve
}

// Warn reports a non-fatal diagnostic.
func (rt *Runtime) Warn(err *terrors.Error) {
	if rt.config.Silent || err == nil {
		return
	}
	if rt.config.WarnHandler != nil {
		rt.config.WarnHandler(err)
		return
	}
	attrs := []any{"code", err.Code}
	if err.Info != "" {
		attrs = append(attrs, "info", err.Info)
	}
	if err.Component != "" {
		attrs = append(attrs, "component", err.Component)
	}
	rt.logger.Warn(err.Message, attrs...)
}

// HandleError routes an error that no component captured to the global
// handler, falling back to the logger. A panicking handler is logged
// together with the original error.
func (rt *Runtime) HandleError(err error, info string) {
	if err == nil {
		return
	}
	if h := rt.config.ErrorHandler; h != nil {
		defer func() {
			if r := recover(); r != nil {
				rt.logError(terrors.FromPanic(r), "config.errorHandler")
				rt.logError(err, info)
			}
		}()
		h(err, info)
		return
	}
	rt.logError(err, info)
}

func (rt *Runtime) logError(err error, info string) {
	rt.logger.Error("unhandled error",
		"code", terrors.CodeOf(err),
		"info", info,
		"error", err,
	)
}

