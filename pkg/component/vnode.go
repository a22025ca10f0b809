package component

import (
	"fmt"

	"github.com/vango-dev/trellis/pkg/vdom"
)

// Component creates a placeholder for a child instance of def in i's tree.
//
// Arguments can be: nil, Props, vdom.Attr, []vdom.Attr, vdom.EventHandler,
// *vdom.VNode, []*vdom.VNode, string. Attributes named like a declared prop
// are passed as that prop; the rest end up on the child's root element and
// in its Attrs. Event handlers become component listeners (see Emit), and
// nodes become slot children.
func (i *Instance) Component(def *Options, args ...any) *vdom.VNode {
	co := &vdom.ComponentOptions{
		Ctor:  def,
		Tag:   def.Name,
		Hooks: i.r.hooks,
	}
	if len(def.Props) > 0 {
		co.PropsData = make(map[string]any)
	}
	v := &vdom.VNode{
		Kind:             vdom.KindComponent,
		Context:          i,
		ComponentOptions: co,
	}

	for _, arg := range args {
		switch a := arg.(type) {
		case nil:
			continue
		case Props:
			for k, val := range a {
				if co.PropsData == nil {
					co.PropsData = make(map[string]any)
				}
				co.PropsData[k] = val
			}
		case vdom.Attr:
			applyComponentAttr(v, def, a)
		case []vdom.Attr:
			for _, attr := range a {
				applyComponentAttr(v, def, attr)
			}
		case vdom.EventHandler:
			if a.Event == "" || a.Handler == nil {
				continue
			}
			if co.Listeners == nil {
				co.Listeners = make(map[string]vdom.Handler)
			}
			co.Listeners[a.Event] = a.Handler
		case *vdom.VNode:
			if a != nil {
				co.Children = append(co.Children, a)
			}
		case []*vdom.VNode:
			for _, c := range a {
				if c != nil {
					co.Children = append(co.Children, c)
				}
			}
		case string:
			co.Children = append(co.Children, vdom.Text(a))
		}
	}

	if def.Abstract {
		// Abstract components keep nothing but props, listeners and slots.
		v.Data = nil
	}

	v.Tag = fmt.Sprintf("trellis-component-%d", i.r.cid(def))
	if def.Name != "" {
		v.Tag += "-" + def.Name
	}
	return v
}

func applyComponentAttr(v *vdom.VNode, def *Options, a vdom.Attr) {
	if a.Key == "" {
		return
	}
	if a.Kind == vdom.AttrKey {
		if s, ok := a.Value.(string); ok {
			v.Key = s
		}
		return
	}
	if _, isProp := def.Props[a.Key]; isProp && a.Kind == vdom.AttrAttribute {
		v.ComponentOptions.PropsData[a.Key] = a.Value
		return
	}
	if v.Data == nil {
		v.Data = &vdom.Data{}
	}
	d := v.Data
	switch a.Kind {
	case vdom.AttrProperty:
		if d.Props == nil {
			d.Props = make(map[string]any)
		}
		d.Props[a.Key] = a.Value
	case vdom.AttrStyle:
		if d.Style == nil {
			d.Style = make(map[string]string)
		}
		s, _ := a.Value.(string)
		d.Style[a.Key] = s
	default:
		if d.Attrs == nil {
			d.Attrs = make(map[string]any)
		}
		d.Attrs[a.Key] = a.Value
	}
}

// componentHooks manage instances behind placeholders on behalf of the
// patcher.
type componentHooks struct {
	r *Renderer
}

var _ vdom.ComponentHooks = (*componentHooks)(nil)

func (h *componentHooks) Init(vnode *vdom.VNode, hydrating bool) {
	if child, ok := vnode.ComponentInstance.(*Instance); ok && !child.isDestroyed && vnode.Data != nil && vnode.Data.KeepAlive {
		// A kept-alive instance is reinserted: treat it as a patch.
		h.Prepatch(vnode, vnode)
		return
	}
	def, _ := vnode.ComponentOptions.Ctor.(*Options)
	child := New(h.r, def, h.r.active, vnode)
	vnode.ComponentInstance = child
	var target any
	if hydrating {
		target = vnode.Elm
	}
	child.Mount(target, hydrating)
}

func (h *componentHooks) Prepatch(old, vnode *vdom.VNode) {
	child := old.ComponentInstance.(*Instance)
	vnode.ComponentInstance = child
	co := vnode.ComponentOptions
	child.UpdateChildComponent(co.PropsData, co.Listeners, vnode, co.Children)
}

func (h *componentHooks) Insert(vnode *vdom.VNode) {
	child := vnode.ComponentInstance.(*Instance)
	if !child.isMounted {
		child.isMounted = true
		child.CallHook(Mounted)
	}
	if vnode.Data == nil || !vnode.Data.KeepAlive {
		return
	}
	if ctx, ok := vnode.Context.(*Instance); ok && ctx.isMounted {
		// The kept-alive subtree may still change during this flush;
		// activate once the whole patch has settled.
		h.r.rt.QueueActivated(child)
		return
	}
	child.Activate(true)
}

func (h *componentHooks) Destroy(vnode *vdom.VNode) {
	child, ok := vnode.ComponentInstance.(*Instance)
	if !ok || child.isDestroyed {
		return
	}
	if vnode.Data != nil && vnode.Data.KeepAlive {
		child.Deactivate(true)
		return
	}
	child.Destroy()
}
