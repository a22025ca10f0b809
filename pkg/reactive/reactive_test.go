package reactive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "github.com/vango-dev/trellis/internal/errors"
)

// newTestRuntime returns a runtime that records warnings and handled errors.
func newTestRuntime(t *testing.T, opts ...Option) (*Runtime, *[]*terrors.Error, *[]error) {
	t.Helper()
	var warnings []*terrors.Error
	var errs []error
	opts = append([]Option{
		WithWarnHandler(func(err *terrors.Error) { warnings = append(warnings, err) }),
		WithErrorHandler(func(err error, info string) { errs = append(errs, err) }),
	}, opts...)
	return NewRuntime(opts...), &warnings, &errs
}

func observed(rt *Runtime, kv ...any) *Object {
	o := ObjectOf(kv...)
	rt.Observe(o, false)
	return o
}

func TestSubscriptionExactness(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	state := observed(rt, "a", 1, "b", 2, "c", 3)

	runs := 0
	rt.NewWatcher(nil, func() any {
		runs++
		return state.Get("a").(int) + state.Get("b").(int)
	}, nil, WatcherOptions{})
	require.Equal(t, 1, runs)

	state.Set("c", 30)
	rt.Tick()
	assert.Equal(t, 1, runs, "write to unread field must not schedule the watcher")

	state.Set("a", 10)
	rt.Tick()
	assert.Equal(t, 2, runs)
}

func TestIdempotentWrites(t *testing.T) {
	tests := []struct {
		name string
		init any
		next any
	}{
		{"int", 1, 1},
		{"string", "x", "x"},
		{"nil", nil, nil},
		{"NaN", math.NaN(), math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, _, _ := newTestRuntime(t)
			state := observed(rt, "v", tt.init)

			runs := 0
			rt.NewWatcher(nil, func() any {
				runs++
				return state.Get("v")
			}, nil, WatcherOptions{})

			state.Set("v", tt.next)
			assert.False(t, rt.Pending(), "same-value write must not notify")
			rt.Tick()
			assert.Equal(t, 1, runs)
		})
	}
}

func TestResubscription(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	state := observed(rt, "useA", true, "a", "A", "b", "B")

	var seen []any
	w := rt.NewWatcher(nil, func() any {
		if state.Get("useA").(bool) {
			return state.Get("a")
		}
		return state.Get("b")
	}, func(value, old any) {
		seen = append(seen, value)
	}, WatcherOptions{})
	require.Len(t, w.Deps(), 2)

	state.Set("useA", false)
	rt.Tick()
	assert.Equal(t, []any{"B"}, seen)
	assert.Empty(t, state.FieldDep("a").Subs(), "watcher must leave the dep it no longer reads")

	state.Set("a", "A2")
	rt.Tick()
	assert.Equal(t, []any{"B"}, seen)

	state.Set("b", "B2")
	rt.Tick()
	assert.Equal(t, []any{"B", "B2"}, seen)
}

func TestSchedulerRunsInCreationOrder(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	state := observed(rt, "parent", 0, "child", 0)

	var order []string
	rt.NewWatcher(nil, func() any { return state.Get("parent") },
		func(_, _ any) { order = append(order, "parent") }, WatcherOptions{})
	rt.NewWatcher(nil, func() any { return state.Get("child") },
		func(_, _ any) { order = append(order, "child") }, WatcherOptions{})

	state.Set("child", 1)
	state.Set("parent", 1)
	rt.Tick()

	assert.Equal(t, []string{"parent", "child"}, order)
}

func TestSchedulerDedupesPendingWatchers(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	state := observed(rt, "n", 0)

	runs := 0
	rt.NewWatcher(nil, func() any { return state.Get("n") },
		func(_, _ any) { runs++ }, WatcherOptions{})

	for i := 1; i <= 5; i++ {
		state.Set("n", i)
	}
	rt.Tick()
	assert.Equal(t, 1, runs)
}

func TestSchedulerInsertsDuringFlush(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	state := observed(rt, "src", 0, "derived", 0)

	var order []string
	rt.NewWatcher(nil, func() any { return state.Get("src") }, func(v, _ any) {
		order = append(order, "first")
		state.Set("derived", v.(int)*2)
	}, WatcherOptions{})
	rt.NewWatcher(nil, func() any { return state.Get("derived") }, func(v, _ any) {
		order = append(order, "second")
	}, WatcherOptions{})

	state.Set("src", 2)
	require.Equal(t, 1, rt.Tick(), "one flush handles both watchers")
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSchedulerSortsIntoPendingTail(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	state := observed(rt, "a", 0, "b", 0, "c", 0, "d", 0)

	var order []int
	watch := func(n int, key string, after func()) {
		rt.NewWatcher(nil, func() any { return state.Get(key) }, func(_, _ any) {
			order = append(order, n)
			if after != nil {
				after()
			}
		}, WatcherOptions{})
	}
	watch(1, "a", func() { state.Set("c", 1) })
	watch(2, "b", nil)
	watch(3, "c", nil)
	watch(4, "d", nil)

	state.Set("d", 1)
	state.Set("b", 1)
	state.Set("a", 1)
	require.Equal(t, 1, rt.Tick())
	assert.Equal(t, []int{1, 2, 3, 4}, order, "3 is queued between the pending 2 and 4")
}

func TestSchedulerRerunsPassedWatcher(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	state := observed(rt, "x", 0, "y", 0)

	var order []string
	rt.NewWatcher(nil, func() any { return state.Get("x") }, func(_, _ any) {
		order = append(order, "x")
	}, WatcherOptions{})
	rt.NewWatcher(nil, func() any { return state.Get("y") }, func(v, _ any) {
		order = append(order, "y")
		state.Set("x", v.(int)+100)
	}, WatcherOptions{})

	state.Set("x", 1)
	state.Set("y", 1)
	require.Equal(t, 1, rt.Tick())
	assert.Equal(t, []string{"x", "y", "x"}, order)
	assert.Equal(t, 101, state.Get("x"))
}

func TestUpdateLoopGuard(t *testing.T) {
	rt, warnings, _ := newTestRuntime(t)
	state := observed(rt, "count", 0, "other", 0)

	calls := 0
	rt.NewWatcher(nil, func() any { return state.Get("count") }, func(v, _ any) {
		calls++
		state.Set("count", v.(int)+1)
	}, WatcherOptions{User: true, Expression: "count"})

	otherRuns := 0
	rt.NewWatcher(nil, func() any { return state.Get("other") },
		func(_, _ any) { otherRuns++ }, WatcherOptions{})

	state.Set("count", 1)
	state.Set("other", 1)
	rt.Tick()

	assert.Equal(t, DefaultMaxUpdateCount+1, calls)
	assert.Equal(t, 1, otherRuns, "other watchers keep running")
	require.Len(t, *warnings, 1)
	assert.Equal(t, "E103", (*warnings)[0].Code)
	assert.ErrorIs(t, (*warnings)[0], ErrUpdateLoop)
	assert.Contains(t, (*warnings)[0].Info, `"count"`)
	assert.False(t, rt.Flushing())
}

func TestLazyWatcherEvaluatesOnce(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	state := observed(rt, "n", 2)

	evals := 0
	computed := rt.NewWatcher(nil, func() any {
		evals++
		return state.Get("n").(int) * 10
	}, nil, WatcherOptions{Lazy: true})
	assert.Equal(t, 0, evals, "lazy watchers don't evaluate on creation")

	assert.Equal(t, 20, computed.Read())
	assert.Equal(t, 20, computed.Read())
	assert.Equal(t, 1, evals)

	state.Set("n", 3)
	assert.True(t, computed.Dirty())
	assert.False(t, rt.Pending(), "lazy watchers are never queued")
	assert.Equal(t, 30, computed.Read())
	assert.Equal(t, 2, evals)
}

func TestComputedDependencyChaining(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	state := observed(rt, "n", 1)

	computed := rt.NewWatcher(nil, func() any {
		return state.Get("n").(int) + 1
	}, nil, WatcherOptions{Lazy: true})

	var seen []any
	rt.NewWatcher(nil, func() any { return computed.Read() },
		func(v, _ any) { seen = append(seen, v) }, WatcherOptions{})

	state.Set("n", 5)
	rt.Tick()
	assert.Equal(t, []any{6}, seen)
}

func TestSyncModeOrdersNotificationsByID(t *testing.T) {
	rt, _, _ := newTestRuntime(t, WithAsync(false))
	state := observed(rt, "x", 0)

	var order []uint64
	var watchers []*Watcher
	for range 3 {
		var w *Watcher
		w = rt.NewWatcher(nil, func() any { return state.Get("x") },
			func(_, _ any) { order = append(order, w.ID()) }, WatcherOptions{})
		watchers = append(watchers, w)
	}
	// Reverse the subscriber list to make sure order comes from ids.
	dep := state.FieldDep("x")
	for _, w := range watchers {
		dep.RemoveSub(w)
	}
	for i := len(watchers) - 1; i >= 0; i-- {
		dep.AddSub(watchers[i])
	}

	state.Set("x", 1)
	assert.Equal(t, []uint64{watchers[0].ID(), watchers[1].ID(), watchers[2].ID()}, order)
	assert.False(t, rt.Pending())
}

func TestSyncWatcherRunsInline(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	state := observed(rt, "x", 0)

	var seen []any
	rt.NewWatcher(nil, func() any { return state.Get("x") },
		func(v, _ any) { seen = append(seen, v) }, WatcherOptions{Sync: true})

	state.Set("x", 1)
	state.Set("x", 2)
	assert.Equal(t, []any{1, 2}, seen)
}

func TestCallbackFiresForContainersEvenWhenSame(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	state := observed(rt, "list", []any{1})

	runs := 0
	rt.NewWatcher(nil, func() any { return state.Get("list") },
		func(_, _ any) { runs++ }, WatcherOptions{})

	state.Get("list").(*Array).Push(2)
	rt.Tick()
	assert.Equal(t, 1, runs)
}

func TestTeardown(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	state := observed(rt, "x", 0)

	runs := 0
	w := rt.NewWatcher(nil, func() any { return state.Get("x") },
		func(_, _ any) { runs++ }, WatcherOptions{})

	w.Teardown()
	w.Teardown()
	assert.False(t, w.Active())
	assert.Empty(t, state.FieldDep("x").Subs())

	state.Set("x", 1)
	rt.Tick()
	assert.Equal(t, 0, runs)
}

func TestTeardownBeforeFlushSkipsRun(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	state := observed(rt, "x", 0)

	runs := 0
	w := rt.NewWatcher(nil, func() any { return state.Get("x") },
		func(_, _ any) { runs++ }, WatcherOptions{})

	state.Set("x", 1)
	w.Teardown()
	rt.Tick()
	assert.Equal(t, 0, runs)
}

func TestUserGetterPanicIsReported(t *testing.T) {
	rt, _, errs := newTestRuntime(t)
	state := observed(rt, "x", 0)

	w := rt.NewWatcher(nil, func() any {
		if state.Get("x").(int) > 0 {
			panic("boom")
		}
		return state.Get("x")
	}, nil, WatcherOptions{User: true, Expression: "x"})

	state.Set("x", 1)
	rt.Tick()

	require.Len(t, *errs, 1)
	assert.Equal(t, "E105", terrors.CodeOf((*errs)[0]))
	assert.Equal(t, 0, w.Value(), "previous value is kept")
	assert.Nil(t, rt.Target())
}

func TestUserCallbackPanicIsReported(t *testing.T) {
	rt, _, errs := newTestRuntime(t)
	state := observed(rt, "x", 0)

	rt.NewWatcher(nil, func() any { return state.Get("x") },
		func(_, _ any) { panic("cb") }, WatcherOptions{User: true, Expression: "x"})

	state.Set("x", 1)
	rt.Tick()

	require.Len(t, *errs, 1)
	assert.Equal(t, "E106", terrors.CodeOf((*errs)[0]))
}

func TestRenderGetterPanicPropagates(t *testing.T) {
	rt, _, _ := newTestRuntime(t)

	assert.PanicsWithValue(t, "render", func() {
		rt.NewWatcher(nil, func() any { panic("render") }, nil, WatcherOptions{})
	})
	assert.Nil(t, rt.Target(), "collector stack is restored")
}

func TestNextTickOrderAndErrors(t *testing.T) {
	rt, _, errs := newTestRuntime(t)

	var order []int
	rt.NextTick(func() { order = append(order, 1) })
	rt.NextTick(func() {
		order = append(order, 2)
		rt.NextTick(func() { order = append(order, 4) })
	})
	rt.NextTick(func() { panic("tick") })
	rt.NextTick(func() { order = append(order, 3) })

	assert.True(t, rt.Pending())
	assert.Equal(t, 5, rt.Tick())
	assert.Equal(t, []int{1, 2, 3, 4}, order)
	require.Len(t, *errs, 1)
	assert.Equal(t, "E108", terrors.CodeOf((*errs)[0]))
	assert.Equal(t, 0, rt.Tick())
}

func TestFlushResetsAfterPanic(t *testing.T) {
	rt, _, _ := newTestRuntime(t, WithAsync(false))
	state := observed(rt, "x", 0)

	rt.NewWatcher(nil, func() any {
		if state.Get("x").(int) == 1 {
			panic("bad render")
		}
		return state.Get("x")
	}, nil, WatcherOptions{})

	assert.Panics(t, func() { state.Set("x", 1) })
	assert.False(t, rt.Flushing())

	assert.NotPanics(t, func() { state.Set("x", 2) })
}
