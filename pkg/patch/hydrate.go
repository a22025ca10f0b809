package patch

import (
	"strings"

	"github.com/vango-dev/trellis/pkg/platform"
	"github.com/vango-dev/trellis/pkg/vdom"
)

// hydrate adopts the existing node elm for vnode, recursively. It returns
// false on the first structural mismatch.
func (p *Patcher) hydrate(elm platform.Node, vnode *vdom.VNode, q *insertQueue) bool {
	vnode.Elm = elm
	if !p.assertNodeMatch(elm, vnode) {
		return false
	}

	if opts := vnode.ComponentOptions; opts != nil {
		if opts.Hooks != nil {
			opts.Hooks.Init(vnode, true)
		}
		if vnode.ComponentInstance != nil {
			// child component has hydrated its own tree
			p.initComponent(vnode, q)
		}
		return true
	}

	switch vnode.Kind {
	case vdom.KindElement:
		children := compact(vnode)
		if len(children) > 0 {
			nodes := p.hydrator.ChildNodes(elm)
			if len(nodes) == 0 {
				p.createChildren(vnode, q)
			} else {
				i := 0
				for _, child := range children {
					if i >= len(nodes) || !p.hydrate(nodes[i], child, q) {
						p.warnf("E122", "children of <%s> differ", vnode.Tag)
						return false
					}
					i++
				}
				if i != len(nodes) {
					p.warnf("E122", "<%s> has %d extra child nodes", vnode.Tag, len(nodes)-i)
					return false
				}
			}
		}
		if vnode.Data != nil {
			p.invokeCreateHooks(vnode, q)
		}

	case vdom.KindText:
		if p.hydrator.NodeText(elm) != vnode.Text {
			p.ops.SetTextContent(elm, vnode.Text)
			p.record(Op{Kind: OpSetText, Node: elm, Value: vnode.Text})
		}
	}
	return true
}

func (p *Patcher) assertNodeMatch(node platform.Node, vnode *vdom.VNode) bool {
	if vnode.ComponentOptions != nil {
		return true
	}
	kind := p.hydrator.NodeKind(node)
	if kind != vnode.Kind {
		return false
	}
	if kind == vdom.KindElement {
		return strings.EqualFold(vnode.Tag, p.ops.TagName(node))
	}
	return true
}
