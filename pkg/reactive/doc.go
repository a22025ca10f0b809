// Package reactive provides the dependency tracking and update scheduling
// core of the trellis runtime.
//
// Reads of reactive containers made while a Watcher is evaluating subscribe
// that Watcher to the field that was read. Writes notify the subscribed
// watchers, which are batched by the scheduler and re-run once per flush in
// creation order.
//
// # Core Types
//
// Object and Array are the reactive containers. They start plain; Observe
// attaches an Observer that routes every field read and write through a Dep:
//
//	rt := reactive.NewRuntime()
//	state := reactive.NewObject(map[string]any{"count": 0})
//	rt.Observe(state, false)
//
// Watcher is a tracked computation. Its dependency set is exactly the set of
// Deps touched during its most recent run:
//
//	rt.NewWatcher(nil, func() any {
//	    return state.Get("count")
//	}, func(value, old any) {
//	    fmt.Println("count:", old, "->", value)
//	}, reactive.WatcherOptions{User: true})
//
//	state.Set("count", 1)
//	rt.Tick() // count: 0 -> 1
//
// # Scheduling
//
// Watchers that become dirty are queued and flushed on the next microtask
// drain (Runtime.Tick, or automatically by a Loop). With WithAsync(false) the
// flush runs synchronously inside the write that dirtied the first watcher.
//
// # Thread Safety
//
// A Runtime is single-threaded: all reads, writes and flushes for one
// Runtime must happen on one goroutine at a time. Loop serializes work
// submitted from other goroutines onto its own goroutine. Independent
// Runtimes share no state and may run concurrently.
package reactive
