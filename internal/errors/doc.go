// Package errors provides coded, structured diagnostics for the trellis runtime.
//
// Every diagnostic the runtime reports (invalid mutation targets, runaway
// update loops, render faults, hydration mismatches) carries a stable code
// that maps to a short message and a longer explanation:
//
//	err := errors.New("E103").
//	    WithInfo(`watcher "count"`).
//	    WithComponent("Counter")
//
//	fmt.Println(err.Format())
//	// Output:
//	// WARN E103: Infinite update loop
//	//
//	//   in <Counter>: watcher "count"
//	//
//	//   A watcher re-queued itself more times than the scheduler allows in a
//	//   single flush. Its remaining runs were dropped for this flush.
//
// # Categories
//
//   - reactive: observation and mutation of reactive containers
//   - scheduler: flush ordering and update loops
//   - render: render functions, hooks and templates
//   - patch: reconciliation and hydration
//   - config: configuration files
package errors
