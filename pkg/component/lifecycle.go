package component

import (
	"fmt"

	terrors "github.com/vango-dev/trellis/internal/errors"
	"github.com/vango-dev/trellis/pkg/platform"
	"github.com/vango-dev/trellis/pkg/reactive"
	"github.com/vango-dev/trellis/pkg/vdom"
)

// Mount renders i in place of target, or detached when target is nil, and
// returns i. With hydrating set, an existing target that matches the
// rendered tree is adopted instead of recreated.
func (i *Instance) Mount(target platform.Node, hydrating bool) *Instance {
	i.elm = target
	i.renderFn = i.r.resolveRender(i)

	i.CallHook(BeforeMount)

	i.mountingRender = true
	i.rt.NewWatcher(i, func() any {
		i.update(i.render(), hydrating)
		hydrating = false
		return nil
	}, nil, reactive.WatcherOptions{
		Before: func() {
			if i.isMounted && !i.isDestroyed {
				i.CallHook(BeforeUpdate)
			}
		},
		Expression: i.Name() + " render",
	})
	i.mountingRender = false

	// Instances created for placeholders are marked mounted by their
	// insert hook once the parent tree is attached.
	if i.placeholder == nil {
		i.isMounted = true
		i.CallHook(Mounted)
	}
	return i
}

// update patches vnode against the previously committed tree.
func (i *Instance) update(vnode *vdom.VNode, hydrating bool) {
	prev := i.tree
	i.tree = vnode
	i.patch(prev, vnode, hydrating)

	// A parent whose root is this instance's placeholder shares its element.
	if i.placeholder != nil && i.parent != nil && i.placeholder == i.parent.tree {
		i.parent.elm = i.elm
	}
}

func (i *Instance) patch(prev, vnode *vdom.VNode, hydrating bool) {
	defer i.r.setActive(i)()
	if prev == nil {
		i.elm = i.r.patcher.Mount(i.elm, vnode, hydrating)
		return
	}
	i.elm = i.r.patcher.Patch(prev, vnode)
}

func (r *Renderer) setActive(i *Instance) (restore func()) {
	prev := r.active
	r.active = i
	return func() { r.active = prev }
}

// render runs the render function. A panicking render is reported and
// replaced by RenderError's tree, or by the previous tree.
func (i *Instance) render() (vnode *vdom.VNode) {
	defer func() {
		if r := recover(); r != nil {
			err := terrors.New("E110").
				WithComponent(i.Name()).
				Wrap(terrors.FromPanic(r))
			i.HandleError(err, "render")
			vnode = i.renderFallback(err)
		}
		if vnode == nil {
			vnode = vdom.Empty()
		}
		vnode.Parent = i.placeholder
	}()
	return i.renderFn(i)
}

func (i *Instance) renderFallback(cause error) (vnode *vdom.VNode) {
	if i.opts.RenderError == nil {
		return i.tree
	}
	defer func() {
		if r := recover(); r != nil {
			i.HandleError(terrors.FromPanic(r), "renderError")
			vnode = i.tree
		}
	}()
	return i.opts.RenderError(i, cause)
}

// ForceUpdate schedules a re-render even if no dependency changed.
func (i *Instance) ForceUpdate() {
	if i.watcher != nil {
		i.watcher.Update()
	}
}

// NextTick defers fn until after the next flush.
func (i *Instance) NextTick(fn func()) {
	i.rt.NextTick(fn)
}

// UpdateChildComponent moves new parent-owned inputs onto an existing
// instance: the placeholder, props, listeners and slot children.
func (i *Instance) UpdateChildComponent(propsData map[string]any, listeners map[string]vdom.Handler, placeholder *vdom.VNode, children []*vdom.VNode) {
	needsForceUpdate := len(children) > 0 || len(i.slots) > 0

	i.placeholder = placeholder
	if i.tree != nil {
		i.tree.Parent = placeholder
	}

	i.updatingChild = true
	defer func() { i.updatingChild = false }()

	i.fields.Set(attrsKey, attrsOf(placeholder))
	if len(listeners) == 0 {
		listeners = nil
	}
	i.fields.Set(listenersKey, listeners)

	if propsData != nil && i.props != nil {
		i.setProps(propsData)
	}

	if needsForceUpdate {
		i.slots = children
		i.ForceUpdate()
	}
}

func (i *Instance) setProps(propsData map[string]any) {
	i.rt.ToggleObserving(false)
	defer i.rt.ToggleObserving(true)
	for _, key := range sortedKeys(i.opts.Props) {
		i.props.Set(key, i.resolveProp(key, propsData))
	}
}

// Destroy tears i down: hooks, watchers, the rendered tree and the links to
// its parent. It is idempotent.
func (i *Instance) Destroy() {
	if i.isBeingDestroyed {
		return
	}
	i.CallHook(BeforeDestroy)
	i.isBeingDestroyed = true

	if p := i.parent; p != nil && !p.isBeingDestroyed && !i.opts.Abstract {
		p.removeChild(i)
	}
	if i.watcher != nil {
		i.watcher.Teardown()
	}
	for j := len(i.watchers) - 1; j >= 0; j-- {
		i.watchers[j].Teardown()
	}
	if ob := i.data.Observer(); ob != nil {
		ob.ReleaseRoot()
	}
	i.isDestroyed = true

	// Destroy hooks of the rendered tree, including child instances.
	i.r.patcher.Patch(i.tree, nil)
	i.CallHook(Destroyed)

	if i.placeholder != nil {
		i.placeholder.Parent = nil
	}
}

func (i *Instance) removeChild(child *Instance) {
	for j, c := range i.children {
		if c == child {
			i.children = append(i.children[:j], i.children[j+1:]...)
			return
		}
	}
}

func (i *Instance) isInInactiveTree() bool {
	for p := i.parent; p != nil; p = p.parent {
		if p.inactive == activationInactive {
			return true
		}
	}
	return false
}

// Activate marks a kept-alive instance and its subtree active. direct is
// set when i itself is the cached instance being reinserted.
func (i *Instance) Activate(direct bool) {
	if direct {
		i.directInactive = false
		if i.isInInactiveTree() {
			return
		}
	} else if i.directInactive {
		return
	}
	if i.inactive != activationActive {
		i.inactive = activationActive
		for _, c := range i.children {
			c.Activate(false)
		}
		i.CallHook(Activated)
	}
}

// Deactivate marks a kept-alive instance and its subtree inactive.
func (i *Instance) Deactivate(direct bool) {
	if direct {
		i.directInactive = true
		if i.isInInactiveTree() {
			return
		}
	}
	if i.inactive != activationInactive {
		i.inactive = activationInactive
		for _, c := range i.children {
			c.Deactivate(false)
		}
		i.CallHook(Deactivated)
	}
}

// CallHook runs the handlers registered for h without dependency tracking.
// A panicking handler is reported and the remaining handlers still run.
func (i *Instance) CallHook(h Hook) {
	handlers := i.opts.Hooks[h]
	if len(handlers) == 0 {
		return
	}
	i.rt.Untracked(func() {
		for _, fn := range handlers {
			i.invokeHook(h, fn)
		}
	})
}

func (i *Instance) invokeHook(h Hook, fn func(*Instance)) {
	defer func() {
		if r := recover(); r != nil {
			info := fmt.Sprintf("%s hook", h)
			err := terrors.New("E112").
				WithInfo(info).
				WithComponent(i.Name()).
				Wrap(terrors.FromPanic(r))
			i.HandleError(err, info)
		}
	}()
	fn(i)
}

// HandleError implements reactive.Owner. The error is offered to the
// ErrorCaptured handler of every ancestor, nearest first; an ancestor that
// returns true stops propagation. Otherwise the runtime handler gets it.
func (i *Instance) HandleError(err error, info string) {
	i.rt.PushTarget(nil)
	defer i.rt.PopTarget()

	for cur := i.parent; cur != nil; cur = cur.parent {
		if cur.opts.ErrorCaptured == nil {
			continue
		}
		if stop, ok := cur.captureError(err, i, info); ok && stop {
			return
		}
	}
	i.rt.HandleError(err, info)
}

func (i *Instance) captureError(err error, source *Instance, info string) (stop, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			i.rt.HandleError(terrors.FromPanic(r), "errorCaptured hook")
			stop, ok = false, false
		}
	}()
	return i.opts.ErrorCaptured(err, source, info), true
}
