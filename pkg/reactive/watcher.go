package reactive

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	terrors "github.com/vango-dev/trellis/internal/errors"
)

// Owner is the component instance a watcher belongs to.
type Owner interface {
	// AddWatcher records w in the owner's watcher list.
	AddWatcher(w *Watcher)

	// RemoveWatcher drops w from the owner's watcher list.
	RemoveWatcher(w *Watcher)

	// IsBeingDestroyed reports whether the owner is tearing down.
	IsBeingDestroyed() bool

	// Updated is called after a flush that ran w.
	Updated(w *Watcher)

	// HandleError reports a fault raised inside one of the owner's watchers.
	HandleError(err error, info string)
}

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	// Deep traverses the value so nested fields are tracked too.
	Deep bool

	// User marks a watcher created by application code. Its getter and
	// callback faults are reported instead of propagated.
	User bool

	// Lazy defers evaluation until Evaluate. Used for computed values.
	Lazy bool

	// Sync runs the watcher inline on notification instead of queuing it.
	Sync bool

	// Before runs ahead of each scheduled run.
	Before func()

	// Expression describes the getter in diagnostics.
	Expression string
}

// Watcher is a tracked computation. Its dependency set is exactly the set of
// Deps touched during its most recent evaluation.
type Watcher struct {
	rt     *Runtime
	id     uint64
	owner  Owner
	getter func() any
	cb     func(value, old any)
	before func()

	deep   bool
	user   bool
	lazy   bool
	sync   bool
	dirty  bool
	active bool

	expression string
	value      any

	deps      []*Dep
	newDeps   []*Dep
	depIDs    mapset.Set[uint64]
	newDepIDs mapset.Set[uint64]
}

// NewWatcher creates a watcher for getter. Unless opts.Lazy is set the
// getter is evaluated immediately. cb may be nil.
func (rt *Runtime) NewWatcher(owner Owner, getter func() any, cb func(value, old any), opts WatcherOptions) *Watcher {
	rt.watcherUID++
	w := &Watcher{
		rt:         rt,
		id:         rt.watcherUID,
		owner:      owner,
		getter:     getter,
		cb:         cb,
		before:     opts.Before,
		deep:       opts.Deep,
		user:       opts.User,
		lazy:       opts.Lazy,
		sync:       opts.Sync,
		dirty:      opts.Lazy,
		active:     true,
		expression: opts.Expression,
		depIDs:     mapset.NewThreadUnsafeSet[uint64](),
		newDepIDs:  mapset.NewThreadUnsafeSet[uint64](),
	}
	if w.getter == nil {
		w.getter = func() any { return nil }
	}
	if owner != nil {
		owner.AddWatcher(w)
	}
	if !w.lazy {
		w.value = w.Get()
	}
	return w
}

// ID returns the watcher id. Ids increase in creation order, so parents
// sort before their children.
func (w *Watcher) ID() uint64 {
	return w.id
}

// Value returns the last computed value.
func (w *Watcher) Value() any {
	return w.value
}

// Dirty reports whether a lazy watcher needs re-evaluation.
func (w *Watcher) Dirty() bool {
	return w.dirty
}

// Active reports whether the watcher has not been torn down.
func (w *Watcher) Active() bool {
	return w.active
}

// Owner returns the owning instance, or nil.
func (w *Watcher) Owner() Owner {
	return w.owner
}

// Expression returns the diagnostic description of the getter.
func (w *Watcher) Expression() string {
	return w.expression
}

// Deps returns the current dependency set.
func (w *Watcher) Deps() []*Dep {
	return slices.Clone(w.deps)
}

// Get evaluates the getter and re-collects dependencies.
func (w *Watcher) Get() any {
	rt := w.rt
	rt.PushTarget(w)

	value, ok := w.invokeGetter()
	if ok && w.deep {
		rt.traverse(value)
	}

	rt.PopTarget()
	w.cleanupDeps()
	return value
}

func (w *Watcher) invokeGetter() (value any, ok bool) {
	done := false
	defer func() {
		if done {
			return
		}
		r := recover()
		if !w.user {
			w.rt.PopTarget()
			w.cleanupDeps()
			panic(r)
		}
		err := terrors.New("E105").
			WithInfo(fmt.Sprintf("getter for watcher %q", w.expression)).
			Wrap(terrors.FromPanic(r))
		w.reportError(err)
		value, ok = w.value, false
	}()
	value = w.getter()
	done = true
	return value, true
}

func (w *Watcher) addDep(dep *Dep) {
	id := dep.id
	if w.newDepIDs.Contains(id) {
		return
	}
	w.newDepIDs.Add(id)
	w.newDeps = append(w.newDeps, dep)
	if !w.depIDs.Contains(id) {
		dep.AddSub(w)
	}
}

// cleanupDeps unsubscribes from every Dep that was not touched during the
// last evaluation and promotes the new set to current.
func (w *Watcher) cleanupDeps() {
	for _, dep := range w.deps {
		if !w.newDepIDs.Contains(dep.id) {
			dep.RemoveSub(w)
		}
	}
	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	w.newDepIDs.Clear()
	w.deps, w.newDeps = w.newDeps, w.deps[:0]
}

// Update is called when a dependency changes.
func (w *Watcher) Update() {
	switch {
	case w.lazy:
		w.dirty = true
	case w.sync:
		w.Run()
	default:
		w.rt.QueueWatcher(w)
	}
}

// Run re-evaluates the getter and invokes the callback when the value
// changed, is a container, or the watcher is deep.
func (w *Watcher) Run() {
	if !w.active {
		return
	}
	value := w.Get()
	if sameValue(value, w.value) && !isObject(value) && !w.deep {
		return
	}
	old := w.value
	w.value = value
	if w.cb == nil {
		return
	}
	if w.user {
		w.invokeCallback(value, old)
		return
	}
	w.cb(value, old)
}

func (w *Watcher) invokeCallback(value, old any) {
	defer func() {
		if r := recover(); r != nil {
			err := terrors.New("E106").
				WithInfo(fmt.Sprintf("callback for watcher %q", w.expression)).
				Wrap(terrors.FromPanic(r))
			w.reportError(err)
		}
	}()
	w.cb(value, old)
}

// Evaluate computes the value of a lazy watcher.
func (w *Watcher) Evaluate() {
	w.value = w.Get()
	w.dirty = false
}

// Depend subscribes the active watcher to every Dep of this watcher.
func (w *Watcher) Depend() {
	for i := len(w.deps) - 1; i >= 0; i-- {
		w.deps[i].Depend()
	}
}

// Read is the access path of a computed value: evaluate if dirty, forward
// dependencies to the active watcher, return the cached value.
func (w *Watcher) Read() any {
	if w.dirty {
		w.Evaluate()
	}
	if w.rt.target != nil {
		w.Depend()
	}
	return w.value
}

// Teardown unsubscribes from every dependency. It is idempotent.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	if w.owner != nil && !w.owner.IsBeingDestroyed() {
		w.owner.RemoveWatcher(w)
	}
	for i := len(w.deps) - 1; i >= 0; i-- {
		w.deps[i].RemoveSub(w)
	}
	w.active = false
}

func (w *Watcher) reportError(err *terrors.Error) {
	if w.owner != nil {
		w.owner.HandleError(err, err.Info)
		return
	}
	w.rt.HandleError(err, err.Info)
}

func (w *Watcher) kind() string {
	switch {
	case w.lazy:
		return "computed"
	case w.user:
		return "user"
	default:
		return "render"
	}
}
