package reactive

import (
	"context"
	"sync"
	"sync/atomic"

	terrors "github.com/vango-dev/trellis/internal/errors"
)

// Loop state values.
const (
	loopIdle int32 = iota
	loopRunning
	loopTerminated
)

// Loop runs tasks for one Runtime on a single goroutine and drains the
// Runtime's microtask queue after every task. It is the only type in this
// package that may be used from multiple goroutines.
//
//	loop := reactive.NewLoop(rt)
//	go loop.Run(ctx)
//	loop.Submit(func() { state.Set("count", 1) })
type Loop struct {
	rt *Runtime

	mu      sync.Mutex
	ingress []func()
	wake    chan struct{}
	done    chan struct{}
	state   atomic.Int32
}

// NewLoop creates a Loop driving rt. The Loop takes over microtask
// scheduling: NextTick calls made outside a task wake the loop.
func NewLoop(rt *Runtime) *Loop {
	l := &Loop{
		rt:   rt,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	rt.onSchedule = l.signal
	return l
}

// Run processes tasks until ctx is canceled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	if !l.state.CompareAndSwap(loopIdle, loopRunning) {
		if l.state.Load() == loopTerminated {
			return ErrLoopTerminated
		}
		return ErrLoopAlreadyRunning
	}
	defer func() {
		l.state.Store(loopTerminated)
		close(l.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			if l.state.Load() == loopTerminated {
				return nil
			}
			l.tick()
		}
	}
}

// Submit enqueues fn to run on the loop goroutine.
func (l *Loop) Submit(fn func()) error {
	l.mu.Lock()
	if l.state.Load() == loopTerminated {
		l.mu.Unlock()
		return ErrLoopTerminated
	}
	l.ingress = append(l.ingress, fn)
	l.mu.Unlock()

	l.signal()
	return nil
}

// Do runs fn on the loop goroutine and waits until fn and the microtasks it
// scheduled have completed, or ctx is canceled.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	err := l.Submit(func() {
		defer close(finished)
		fn()
		l.rt.Tick()
	})
	if err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopTerminated
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop after the task in progress. Pending tasks are
// discarded.
func (l *Loop) Close() error {
	l.mu.Lock()
	prev := l.state.Swap(loopTerminated)
	l.ingress = nil
	l.mu.Unlock()
	if prev == loopTerminated {
		return ErrLoopTerminated
	}
	if prev == loopIdle {
		close(l.done)
		return nil
	}
	l.signal()
	<-l.done
	return nil
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) tick() {
	l.mu.Lock()
	tasks := l.ingress
	l.ingress = nil
	l.mu.Unlock()

	for _, fn := range tasks {
		if l.state.Load() == loopTerminated {
			return
		}
		l.safeExecute(fn)
		l.rt.Tick()
	}
	l.rt.Tick()
}

// safeExecute runs a task, reporting a panic instead of stopping the loop.
func (l *Loop) safeExecute(fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.rt.HandleError(terrors.FromPanic(r), "loop task")
		}
	}()
	fn()
}
