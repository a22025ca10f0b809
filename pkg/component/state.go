package component

import (
	"fmt"

	terrors "github.com/vango-dev/trellis/internal/errors"
	"github.com/vango-dev/trellis/pkg/reactive"
)

// WatchOptions configures Instance.Watch.
type WatchOptions struct {
	Deep      bool
	Immediate bool
	Sync      bool
}

func (i *Instance) initState() {
	if len(i.opts.Props) > 0 {
		i.initProps()
	}
	i.initData()
	if len(i.opts.Computed) > 0 {
		i.initComputed()
	}
	for _, key := range sortedKeys(i.opts.Watch) {
		decl := i.opts.Watch[key]
		if decl.Handler == nil {
			continue
		}
		handler := decl.Handler
		i.Watch(key, func(value, old any) { handler(i, value, old) }, WatchOptions{
			Deep:      decl.Deep,
			Immediate: decl.Immediate,
			Sync:      decl.Sync,
		})
	}
}

func (i *Instance) initProps() {
	var propsData map[string]any
	if i.placeholder != nil && i.placeholder.ComponentOptions != nil {
		propsData = i.placeholder.ComponentOptions.PropsData
	}
	i.props = reactive.NewObject(nil)

	// Values passed by the parent are already observed (or deliberately
	// plain) on the parent side.
	isRoot := i.parent == nil
	if !isRoot {
		i.rt.ToggleObserving(false)
		defer i.rt.ToggleObserving(true)
	}
	for _, key := range sortedKeys(i.opts.Props) {
		value := i.resolveProp(key, propsData)
		i.rt.DefineReactiveWithSetter(i.props, key, value, false, func() {
			if !i.updatingChild {
				i.warn("E115", fmt.Sprintf("prop %q", key))
			}
		})
	}
}

func (i *Instance) resolveProp(key string, propsData map[string]any) any {
	if v, ok := propsData[key]; ok {
		return v
	}
	p := i.opts.Props[key]
	if p.DefaultFunc != nil {
		return i.callDefault(key, p)
	}
	return p.Default
}

func (i *Instance) callDefault(key string, p Prop) (v any) {
	i.rt.PushTarget(nil)
	defer func() {
		i.rt.PopTarget()
		if r := recover(); r != nil {
			err := terrors.New("E116").
				WithComponent(i.Name()).
				WithInfo(fmt.Sprintf("prop %q", key)).
				Wrap(terrors.FromPanic(r))
			i.HandleError(err, "prop default")
			v = p.Default
		}
	}()
	return p.DefaultFunc()
}

func (i *Instance) initData() {
	var m map[string]any
	if i.opts.Data != nil {
		m = i.callData()
	}
	i.data = reactive.NewObject(m)
	for _, key := range i.data.Keys() {
		if i.props != nil && i.props.Has(key) {
			i.warn("E102", fmt.Sprintf("data field %q is already declared as a prop", key))
		}
	}
	i.rt.Observe(i.data, true)
}

func (i *Instance) callData() (m map[string]any) {
	// Reads inside the data factory must not subscribe whatever watcher
	// created this instance.
	i.rt.PushTarget(nil)
	defer func() {
		i.rt.PopTarget()
		if r := recover(); r != nil {
			i.HandleError(terrors.FromPanic(r), "data()")
			m = nil
		}
	}()
	return i.opts.Data(i)
}

func (i *Instance) initComputed() {
	i.computed = make(map[string]*reactive.Watcher, len(i.opts.Computed))
	for _, key := range sortedKeys(i.opts.Computed) {
		getter := i.opts.Computed[key]
		if getter == nil {
			continue
		}
		i.computed[key] = i.rt.NewWatcher(i, func() any { return getter(i) }, nil, reactive.WatcherOptions{
			Lazy:       true,
			Expression: key,
		})
	}
}

// Watch watches a dot-delimited path starting at the instance (for example
// "user.name") and calls cb when its value changes. It returns a function
// that stops watching.
func (i *Instance) Watch(path string, cb func(value, old any), opts WatchOptions) (unwatch func()) {
	w := i.rt.WatchPath(i, i, path, cb, reactive.WatcherOptions{
		User: true,
		Deep: opts.Deep,
		Sync: opts.Sync,
	})
	return i.afterWatch(w, cb, opts)
}

// WatchFunc is Watch with an arbitrary getter.
func (i *Instance) WatchFunc(getter func() any, cb func(value, old any), opts WatchOptions) (unwatch func()) {
	w := i.rt.NewWatcher(i, getter, cb, reactive.WatcherOptions{
		User:       true,
		Deep:       opts.Deep,
		Sync:       opts.Sync,
		Expression: "function",
	})
	return i.afterWatch(w, cb, opts)
}

func (i *Instance) afterWatch(w *reactive.Watcher, cb func(value, old any), opts WatchOptions) func() {
	if opts.Immediate && cb != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					err := terrors.New("E106").
						WithInfo(fmt.Sprintf("callback for immediate watcher %q", w.Expression())).
						Wrap(terrors.FromPanic(r))
					i.HandleError(err, err.Info)
				}
			}()
			cb(w.Value(), nil)
		}()
	}
	return w.Teardown
}
