package reactive

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	terrors "github.com/vango-dev/trellis/internal/errors"
)

// Activator is an instance whose activation was deferred until the end of
// the current flush.
type Activator interface {
	FlushActivated()
}

// QueueWatcher schedules w for the next flush. A watcher already pending is
// not queued twice. During a flush w is inserted by id into the part of the
// queue that has not run yet, or run next if its id has already passed.
func (rt *Runtime) QueueWatcher(w *Watcher) {
	id := w.id
	if rt.has[id] {
		return
	}
	if rt.flushing && rt.dropped[id] {
		return
	}
	rt.has[id] = true
	if !rt.flushing {
		rt.queue = append(rt.queue, w)
	} else {
		i := len(rt.queue) - 1
		for i > rt.index && rt.queue[i].id > id {
			i--
		}
		rt.queue = slices.Insert(rt.queue, i+1, w)
	}

	if rt.waiting {
		return
	}
	rt.waiting = true
	if !rt.config.Async {
		rt.flushSchedulerQueue()
		return
	}
	rt.NextTick(rt.flushSchedulerQueue)
}

// QueueActivated defers activation of a kept-alive instance until the
// patch of the current flush has completed.
func (rt *Runtime) QueueActivated(a Activator) {
	rt.activated = append(rt.activated, a)
}

// Flushing reports whether a flush is in progress.
func (rt *Runtime) Flushing() bool {
	return rt.flushing
}

func (rt *Runtime) flushSchedulerQueue() {
	start := time.Now()
	_, span := rt.config.Tracer.Start(context.Background(), "trellis.flush")
	defer span.End()

	rt.flushing = true
	completed := false
	defer func() {
		if !completed {
			rt.resetSchedulerState()
		}
	}()

	// Sorting ensures parents update before children (parents are created
	// first), user watchers run before the render watcher of their owner,
	// and watchers of a parent destroyed during the flush can be skipped.
	sort.SliceStable(rt.queue, func(i, j int) bool { return rt.queue[i].id < rt.queue[j].id })

	runs := 0
	for rt.index = 0; rt.index < len(rt.queue); rt.index++ {
		w := rt.queue[rt.index]
		id := w.id
		if rt.dropped[id] {
			continue
		}
		if w.before != nil {
			w.before()
		}
		delete(rt.has, id)
		w.Run()
		runs++
		rt.config.Metrics.IncWatcherRun(w.kind())

		if rt.has[id] {
			rt.circular[id]++
			if rt.circular[id] > rt.config.MaxUpdateCount {
				rt.dropped[id] = true
				delete(rt.has, id)
				rt.reportUpdateLoop(w)
			}
		}
	}

	activatedQueue := slices.Clone(rt.activated)
	updatedQueue := slices.Clone(rt.queue)

	rt.resetSchedulerState()
	completed = true

	for _, a := range activatedQueue {
		a.FlushActivated()
	}
	callUpdatedHooks(updatedQueue)

	span.SetAttributes(attribute.Int("trellis.flush.watchers", runs))
	rt.config.Metrics.ObserveFlush(time.Since(start), runs)
}

// callUpdatedHooks notifies owners in reverse queue order so that children
// settle before their parents. Each watcher is reported once per flush.
func callUpdatedHooks(queue []*Watcher) {
	seen := make(map[uint64]bool, len(queue))
	for i := len(queue) - 1; i >= 0; i-- {
		w := queue[i]
		if seen[w.id] {
			continue
		}
		seen[w.id] = true
		if w.owner != nil {
			w.owner.Updated(w)
		}
	}
}

func (rt *Runtime) reportUpdateLoop(w *Watcher) {
	info := "in a component render function"
	if w.user {
		info = fmt.Sprintf("in watcher with expression %q", w.expression)
	}
	rt.config.Metrics.IncLoopAbort()
	rt.Warn(terrors.New("E103").WithInfo(info).Wrap(ErrUpdateLoop))
}

func (rt *Runtime) resetSchedulerState() {
	rt.index = 0
	rt.queue = rt.queue[:0]
	rt.activated = rt.activated[:0]
	clear(rt.has)
	clear(rt.circular)
	clear(rt.dropped)
	rt.waiting = false
	rt.flushing = false
}
