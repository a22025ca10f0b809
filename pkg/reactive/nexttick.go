package reactive

import terrors "github.com/vango-dev/trellis/internal/errors"

// NextTick defers fn to the next microtask drain. Callbacks run in the order
// they were registered; the first registration since the last drain
// schedules the drain.
func (rt *Runtime) NextTick(fn func()) {
	if fn == nil {
		return
	}
	rt.callbacks = append(rt.callbacks, fn)
	if rt.pending {
		return
	}
	rt.pending = true
	if rt.onSchedule != nil {
		rt.onSchedule()
	}
}

// Pending reports whether callbacks are waiting for a drain.
func (rt *Runtime) Pending() bool {
	return rt.pending
}

// Tick drains the microtask queue, including callbacks registered while
// draining, and returns the number of callbacks run. Hosts that drive a
// Runtime without a Loop call Tick after each task.
func (rt *Runtime) Tick() int {
	n := 0
	for rt.pending {
		rt.pending = false
		copies := rt.callbacks
		rt.callbacks = nil
		for _, cb := range copies {
			rt.runCallback(cb)
			n++
		}
	}
	return n
}

func (rt *Runtime) runCallback(cb func()) {
	defer func() {
		if r := recover(); r != nil {
			rt.HandleError(terrors.New("E108").WithInfo("nextTick").Wrap(terrors.FromPanic(r)), "nextTick")
		}
	}()
	cb()
}
