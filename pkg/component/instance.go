package component

import (
	"fmt"
	"maps"
	"slices"

	terrors "github.com/vango-dev/trellis/internal/errors"
	"github.com/vango-dev/trellis/pkg/reactive"
	"github.com/vango-dev/trellis/pkg/vdom"
)

// Keys of the read-only fields the parent owns.
const (
	attrsKey     = "$attrs"
	listenersKey = "$listeners"
)

// activation is the keep-alive state of an instance. An instance that was
// never activated or deactivated is activationUnset.
type activation uint8

const (
	activationUnset activation = iota
	activationActive
	activationInactive
)

// Instance is a live component.
type Instance struct {
	uid  uint64
	r    *Renderer
	rt   *reactive.Runtime
	opts *Options

	parent   *Instance
	root     *Instance
	children []*Instance

	// placeholder is the vnode representing this instance in its parent's
	// tree; nil for root instances.
	placeholder *vdom.VNode
	tree        *vdom.VNode
	elm         any

	watcher  *reactive.Watcher
	watchers []*reactive.Watcher
	computed map[string]*reactive.Watcher

	props  *reactive.Object
	data   *reactive.Object
	fields *reactive.Object
	slots  []*vdom.VNode

	renderFn RenderFunc

	isMounted        bool
	isDestroyed      bool
	isBeingDestroyed bool
	inactive         activation
	directInactive   bool
	updatingChild    bool
	mountingRender   bool

	// ext holds per-instance state of built-in components.
	ext any
}

var (
	_ reactive.Owner         = (*Instance)(nil)
	_ reactive.Activator     = (*Instance)(nil)
	_ reactive.Instance      = (*Instance)(nil)
	_ reactive.Getter        = (*Instance)(nil)
	_ vdom.ComponentInstance = (*Instance)(nil)
)

// New creates an instance of def. parent and placeholder are nil for a
// root instance. The instance is initialized (created hooks have run) but
// not mounted.
func New(r *Renderer, def *Options, parent *Instance, placeholder *vdom.VNode) *Instance {
	if def == nil {
		def = &Options{}
	}
	r.uid++
	i := &Instance{
		uid:         r.uid,
		r:           r,
		rt:          r.rt,
		opts:        def,
		placeholder: placeholder,
	}

	i.initLifecycle(parent)
	i.initRender()
	i.CallHook(BeforeCreate)
	i.initState()
	i.CallHook(Created)
	return i
}

func (i *Instance) initLifecycle(parent *Instance) {
	if parent != nil && !i.opts.Abstract {
		for parent.opts.Abstract && parent.parent != nil {
			parent = parent.parent
		}
		parent.children = append(parent.children, i)
	}
	i.parent = parent
	i.root = i
	if parent != nil {
		i.root = parent.root
	}
}

func (i *Instance) initRender() {
	i.fields = reactive.NewObject(nil)
	var attrs any
	var listeners map[string]vdom.Handler
	if p := i.placeholder; p != nil {
		attrs = attrsOf(p)
		if co := p.ComponentOptions; co != nil {
			listeners = co.Listeners
			i.slots = co.Children
		}
	}
	i.rt.DefineReactiveWithSetter(i.fields, attrsKey, attrs, true, func() {
		i.warnReadOnly(attrsKey)
	})
	i.rt.DefineReactiveWithSetter(i.fields, listenersKey, listeners, true, func() {
		i.warnReadOnly(listenersKey)
	})
}

func (i *Instance) warnReadOnly(key string) {
	if !i.updatingChild {
		i.warn("E107", key)
	}
}

func attrsOf(p *vdom.VNode) any {
	if p.Data == nil || len(p.Data.Attrs) == 0 {
		return nil
	}
	return reactive.NewObject(p.Data.Attrs).Freeze()
}

// ID returns the instance id, unique per Renderer.
func (i *Instance) ID() uint64 {
	return i.uid
}

// Name returns the component name used in diagnostics.
func (i *Instance) Name() string {
	if i.opts.Name != "" {
		return i.opts.Name
	}
	if i.placeholder != nil && i.placeholder.ComponentOptions != nil && i.placeholder.ComponentOptions.Tag != "" {
		return i.placeholder.ComponentOptions.Tag
	}
	if i.parent == nil {
		return "Root"
	}
	return "Anonymous"
}

// Options returns the definition of i.
func (i *Instance) Options() *Options {
	return i.opts
}

// Parent returns the nearest non-abstract parent instance.
func (i *Instance) Parent() *Instance {
	return i.parent
}

// RootInstance returns the root of the instance tree.
func (i *Instance) RootInstance() *Instance {
	return i.root
}

// Children returns the direct non-abstract child instances.
func (i *Instance) Children() []*Instance {
	return slices.Clone(i.children)
}

// Placeholder returns the vnode standing for i in its parent's tree.
func (i *Instance) Placeholder() *vdom.VNode {
	return i.placeholder
}

// Elm implements vdom.ComponentInstance.
func (i *Instance) Elm() any {
	return i.elm
}

// Root implements vdom.ComponentInstance.
func (i *Instance) Root() *vdom.VNode {
	return i.tree
}

// Slots returns the children passed by the parent.
func (i *Instance) Slots() []*vdom.VNode {
	return i.slots
}

// Data returns the observed root data.
func (i *Instance) Data() *reactive.Object {
	return i.data
}

// Props returns the resolved props.
func (i *Instance) Props() *reactive.Object {
	return i.props
}

// Attrs returns the attributes the parent set that are not declared props,
// or nil.
func (i *Instance) Attrs() *reactive.Object {
	attrs, _ := i.fields.Get(attrsKey).(*reactive.Object)
	return attrs
}

// Listeners returns the component listeners the parent registered.
func (i *Instance) Listeners() map[string]vdom.Handler {
	ls, _ := i.fields.Get(listenersKey).(map[string]vdom.Handler)
	return ls
}

// RenderWatcher returns the render watcher, or nil before mount.
func (i *Instance) RenderWatcher() *reactive.Watcher {
	return i.watcher
}

// Runtime returns the reactive runtime of i.
func (i *Instance) Runtime() *reactive.Runtime {
	return i.rt
}

// IsMounted reports whether the mounted hook has run.
func (i *Instance) IsMounted() bool {
	return i.isMounted
}

// IsDestroyed reports whether Destroy has completed its teardown.
func (i *Instance) IsDestroyed() bool {
	return i.isDestroyed
}

// IsInactive reports whether i is deactivated by a keep-alive ancestor.
func (i *Instance) IsInactive() bool {
	return i.inactive == activationInactive
}

// Get reads a computed value, prop, data field or $attrs/$listeners. It
// implements reactive.Getter, so watch paths start at the instance.
func (i *Instance) Get(key string) any {
	if w, ok := i.computed[key]; ok {
		return w.Read()
	}
	if i.props != nil && i.props.Has(key) {
		return i.props.Get(key)
	}
	if i.data != nil && i.data.Has(key) {
		return i.data.Get(key)
	}
	if i.fields.Has(key) {
		return i.fields.Get(key)
	}
	return nil
}

// Set assigns a data field. Assigning a prop or a parent-owned field is
// reported but still applied; new keys are refused with
// reactive.ErrRootData.
func (i *Instance) Set(key string, val any) error {
	switch {
	case i.props != nil && i.props.Has(key):
		i.props.Set(key, val)
	case i.data != nil && i.data.Has(key):
		i.data.Set(key, val)
	case i.fields.Has(key):
		i.fields.Set(key, val)
	default:
		_, err := i.rt.Set(i, key, val)
		return err
	}
	return nil
}

// Emit invokes the listener the parent registered for event.
func (i *Instance) Emit(event string, payload any) {
	fn := i.Listeners()[event]
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			i.HandleError(terrors.FromPanic(r), fmt.Sprintf("event handler for %q", event))
		}
	}()
	fn(payload)
}

// IsInstance implements reactive.Instance.
func (i *Instance) IsInstance() bool {
	return true
}

// AddWatcher implements reactive.Owner.
func (i *Instance) AddWatcher(w *reactive.Watcher) {
	if i.mountingRender {
		// The render watcher is registered before its first evaluation,
		// so ForceUpdate works from hooks fired during the initial patch.
		i.mountingRender = false
		i.watcher = w
	}
	i.watchers = append(i.watchers, w)
}

// RemoveWatcher implements reactive.Owner.
func (i *Instance) RemoveWatcher(w *reactive.Watcher) {
	if idx := slices.Index(i.watchers, w); idx >= 0 {
		i.watchers = slices.Delete(i.watchers, idx, idx+1)
	}
}

// IsBeingDestroyed implements reactive.Owner.
func (i *Instance) IsBeingDestroyed() bool {
	return i.isBeingDestroyed
}

// Updated implements reactive.Owner.
func (i *Instance) Updated(w *reactive.Watcher) {
	if w == i.watcher && i.isMounted && !i.isDestroyed {
		i.CallHook(Updated)
	}
}

// FlushActivated implements reactive.Activator.
func (i *Instance) FlushActivated() {
	i.Activate(true)
}

func (i *Instance) warn(code, info string) {
	i.rt.Warn(terrors.New(code).WithInfo(info).WithComponent(i.Name()))
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
