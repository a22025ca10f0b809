// Package vtest provides testing helpers for trellis components.
//
// A Harness mounts a component into an in-memory document and collects
// the warnings and errors its runtime reports, so tests can drive state
// changes and events and assert on the rendered HTML.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.Mount(t, Counter)
//	    h.Dispatch("inc", "click", nil)
//	    h.ExpectContains("count: 1")
//	    h.ExpectNoWarnings()
//	}
//
// Dispatch and Set flush the scheduler before returning, so the document
// reflects the change. Tick flushes after changes made through other
// means, such as a reference to a child instance.
//
// # Static Assertions
//
// Plain vnode trees can be checked without mounting anything:
//
//	vtest.ExpectContains(t, vdom.P("hi"), "<p>hi</p>")
package vtest
