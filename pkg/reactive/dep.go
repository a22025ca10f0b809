package reactive

import (
	"slices"
	"sort"
)

// Dep is a dependency cell: a single observable point that holds the
// watchers subscribed to it.
type Dep struct {
	rt   *Runtime
	id   uint64
	subs []*Watcher
}

// NewDep creates a Dep owned by rt.
func (rt *Runtime) NewDep() *Dep {
	rt.depUID++
	return &Dep{rt: rt, id: rt.depUID}
}

// ID returns the unique identifier for this Dep.
func (d *Dep) ID() uint64 {
	return d.id
}

// AddSub subscribes w. Adding an existing subscriber is a no-op.
func (d *Dep) AddSub(w *Watcher) {
	if w == nil || slices.Contains(d.subs, w) {
		return
	}
	d.subs = append(d.subs, w)
}

// RemoveSub unsubscribes w, preserving the order of the remaining subscribers.
func (d *Dep) RemoveSub(w *Watcher) {
	if i := slices.Index(d.subs, w); i >= 0 {
		d.subs = slices.Delete(d.subs, i, i+1)
	}
}

// Subs returns a snapshot of the current subscribers in insertion order.
func (d *Dep) Subs() []*Watcher {
	return slices.Clone(d.subs)
}

// Depend registers the active watcher, if any, as a subscriber.
func (d *Dep) Depend() {
	if t := d.rt.target; t != nil {
		t.addDep(d)
	}
}

// Notify tells every subscriber that this Dep changed.
// The subscriber list is snapshotted first because an update may subscribe
// or unsubscribe synchronously.
func (d *Dep) Notify() {
	subs := slices.Clone(d.subs)
	if !d.rt.config.Async {
		// subs aren't sorted in the scheduler when flushing synchronously
		sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	}
	for _, s := range subs {
		s.Update()
	}
}
