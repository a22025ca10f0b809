package patch

import (
	"github.com/vango-dev/trellis/pkg/vdom"
)

// createModules applies the properties of vnode to its new element.
func (p *Patcher) createModules(empty, vnode *vdom.VNode) {
	p.updateAttrs(empty, vnode)
	p.updateProps(empty, vnode)
	p.updateStyle(empty, vnode)
	p.updateListeners(empty, vnode)
	for _, m := range p.modules {
		if m.Create != nil {
			m.Create(empty, vnode)
		}
	}
}

func (p *Patcher) updateModules(old, vnode *vdom.VNode) {
	p.updateAttrs(old, vnode)
	p.updateProps(old, vnode)
	p.updateStyle(old, vnode)
	p.updateListeners(old, vnode)
	for _, m := range p.modules {
		if m.Update != nil {
			m.Update(old, vnode)
		}
	}
}

func (p *Patcher) destroyModules(vnode *vdom.VNode) {
	if vnode.Data != nil && len(vnode.Data.Invokers) > 0 && vnode.Elm != nil {
		for _, name := range sortedKeys(vnode.Data.Invokers) {
			p.setters.RemoveListener(vnode.Elm, name)
			p.record(Op{Kind: OpRemoveListener, Node: vnode.Elm, Key: name})
		}
		vnode.Data.Invokers = nil
	}
	for _, m := range p.modules {
		if m.Destroy != nil {
			m.Destroy(vnode)
		}
	}
}

func dataOf(v *vdom.VNode) *vdom.Data {
	if v == nil || v.Data == nil {
		return &vdom.Data{}
	}
	return v.Data
}

// updateAttrs diffs attributes. Attributes the platform only honors as
// properties are routed to SetProperty.
func (p *Patcher) updateAttrs(old, vnode *vdom.VNode) {
	oldAttrs, attrs := dataOf(old).Attrs, dataOf(vnode).Attrs
	if len(oldAttrs) == 0 && len(attrs) == 0 {
		return
	}
	elm := vnode.Elm
	inputType := vnode.InputType()

	for _, key := range sortedKeys(attrs) {
		cur := attrs[key]
		prev, had := oldAttrs[key]
		if had && valuesEqual(prev, cur) {
			continue
		}
		if p.preds != nil && p.preds.MustUseProp(vnode.Tag, inputType, key) {
			p.setters.SetProperty(elm, key, cur)
			p.record(Op{Kind: OpSetProp, Node: elm, Key: key, Value: cur})
			continue
		}
		if isFalsyAttrValue(cur) {
			if had && !isFalsyAttrValue(prev) {
				p.setters.RemoveAttribute(elm, key)
				p.record(Op{Kind: OpRemoveAttr, Node: elm, Key: key})
			}
			continue
		}
		p.setters.SetAttribute(elm, key, cur)
		p.record(Op{Kind: OpSetAttr, Node: elm, Key: key, Value: cur})
	}
	for _, key := range sortedKeys(oldAttrs) {
		if _, ok := attrs[key]; ok {
			continue
		}
		p.setters.RemoveAttribute(elm, key)
		p.record(Op{Kind: OpRemoveAttr, Node: elm, Key: key})
	}
}

func (p *Patcher) updateProps(old, vnode *vdom.VNode) {
	oldProps, props := dataOf(old).Props, dataOf(vnode).Props
	if len(oldProps) == 0 && len(props) == 0 {
		return
	}
	elm := vnode.Elm

	for _, key := range sortedKeys(oldProps) {
		if _, ok := props[key]; !ok {
			p.setters.SetProperty(elm, key, nil)
			p.record(Op{Kind: OpSetProp, Node: elm, Key: key})
		}
	}
	for _, key := range sortedKeys(props) {
		cur := props[key]
		if prev, had := oldProps[key]; had && valuesEqual(prev, cur) {
			continue
		}
		p.setters.SetProperty(elm, key, cur)
		p.record(Op{Kind: OpSetProp, Node: elm, Key: key, Value: cur})
	}
}

func (p *Patcher) updateStyle(old, vnode *vdom.VNode) {
	oldStyle, style := dataOf(old).Style, dataOf(vnode).Style
	if len(oldStyle) == 0 && len(style) == 0 {
		return
	}
	elm := vnode.Elm

	for _, name := range sortedKeys(oldStyle) {
		if _, ok := style[name]; !ok {
			p.setters.RemoveStyle(elm, name)
			p.record(Op{Kind: OpRemoveStyle, Node: elm, Key: name})
		}
	}
	for _, name := range sortedKeys(style) {
		cur := style[name]
		if prev, had := oldStyle[name]; had && prev == cur {
			continue
		}
		p.setters.SetStyle(elm, name, cur)
		p.record(Op{Kind: OpSetStyle, Node: elm, Key: name, Value: cur})
	}
}

// updateListeners keeps one invoker per event attached to the element and
// swaps its handler on update.
func (p *Patcher) updateListeners(old, vnode *vdom.VNode) {
	oldData := dataOf(old)
	on := dataOf(vnode).On
	if len(oldData.Invokers) == 0 && len(on) == 0 {
		return
	}
	elm := vnode.Elm

	invokers := make(map[string]*vdom.Invoker, len(on))
	for _, name := range sortedKeys(on) {
		if inv, ok := oldData.Invokers[name]; ok {
			inv.Fn = on[name]
			invokers[name] = inv
			continue
		}
		inv := &vdom.Invoker{Fn: on[name]}
		p.setters.AddListener(elm, name, inv.Call)
		p.record(Op{Kind: OpAddListener, Node: elm, Key: name})
		invokers[name] = inv
	}
	for _, name := range sortedKeys(oldData.Invokers) {
		if _, ok := on[name]; !ok {
			p.setters.RemoveListener(elm, name)
			p.record(Op{Kind: OpRemoveListener, Node: elm, Key: name})
		}
	}
	if vnode.Data != nil {
		vnode.Data.Invokers = invokers
	}
}
