package patch

import (
	"github.com/vango-dev/trellis/pkg/platform"
	"github.com/vango-dev/trellis/pkg/vdom"
)

// emptyNode is the "old" side of create hooks.
var emptyNode = &vdom.VNode{Kind: vdom.KindElement}

// createElm creates the platform node for vnode (and its subtree) and
// inserts it into parentElm before refElm. ownerArray/index identify the
// slot vnode came from so that an already committed vnode can be replaced
// with a clone.
func (p *Patcher) createElm(vnode *vdom.VNode, q *insertQueue, parentElm, refElm platform.Node, ownerArray []*vdom.VNode, index int) {
	if vnode.Elm != nil && ownerArray != nil {
		// This vnode was committed in a previous render. Overwriting its
		// Elm would break patching against it, so work on a clone.
		vnode = vnode.Clone()
		ownerArray[index] = vnode
	}

	if p.createComponent(vnode, q, parentElm, refElm) {
		return
	}

	switch vnode.Kind {
	case vdom.KindElement:
		if p.preds != nil && vnode.NS == "" && p.preds.IsUnknownElement(vnode.Tag) {
			p.warnf("E121", "<%s>", vnode.Tag)
		}
		if vnode.NS == "" && p.preds != nil {
			vnode.NS = p.preds.GetTagNamespace(vnode.Tag)
		}
		if vnode.NS != "" {
			vnode.Elm = p.ops.CreateElementNS(vnode.NS, vnode.Tag)
		} else {
			vnode.Elm = p.ops.CreateElement(vnode.Tag, vnode)
		}
		p.record(Op{Kind: OpCreate, Node: vnode.Elm, Tag: vnode.Tag})

		p.createChildren(vnode, q)
		if vnode.Data != nil {
			p.invokeCreateHooks(vnode, q)
		}
		p.insert(parentElm, vnode.Elm, refElm)

	case vdom.KindComment:
		vnode.Elm = p.ops.CreateComment(vnode.Text)
		p.record(Op{Kind: OpCreate, Node: vnode.Elm, Value: vnode.Text})
		p.insert(parentElm, vnode.Elm, refElm)

	default:
		vnode.Elm = p.ops.CreateTextNode(vnode.Text)
		p.record(Op{Kind: OpCreate, Node: vnode.Elm, Value: vnode.Text})
		p.insert(parentElm, vnode.Elm, refElm)
	}
}

// createComponent instantiates the component behind a placeholder. It
// returns false when vnode is not a placeholder.
func (p *Patcher) createComponent(vnode *vdom.VNode, q *insertQueue, parentElm, refElm platform.Node) bool {
	opts := vnode.ComponentOptions
	if opts == nil {
		return false
	}
	if opts.Hooks != nil {
		opts.Hooks.Init(vnode, false)
	}
	// After Init the instance has rendered and mounted its own tree; the
	// placeholder adopts its root element.
	if vnode.ComponentInstance != nil {
		p.initComponent(vnode, q)
		p.insert(parentElm, vnode.Elm, refElm)
	}
	return true
}

func (p *Patcher) initComponent(vnode *vdom.VNode, q *insertQueue) {
	if vnode.Data != nil && vnode.Data.PendingInsert != nil {
		q.push(vnode.Data.PendingInsert...)
		vnode.Data.PendingInsert = nil
	}
	vnode.Elm = vnode.ComponentInstance.Elm()
	if isPatchable(vnode) {
		p.invokeCreateHooks(vnode, q)
		return
	}
	// Empty component root: the placeholder still needs its insert hook.
	q.push(vnode)
}

func (p *Patcher) createChildren(vnode *vdom.VNode, q *insertQueue) {
	children := compact(vnode)
	if len(children) == 0 {
		return
	}
	p.checkDuplicateKeys(children)
	for i := range children {
		p.createElm(children[i], q, vnode.Elm, nil, children, i)
	}
}

func (p *Patcher) invokeCreateHooks(vnode *vdom.VNode, q *insertQueue) {
	p.createModules(emptyNode, vnode)
	if vnode.Data != nil && vnode.Data.Hook != nil {
		h := vnode.Data.Hook
		if h.Create != nil {
			h.Create(emptyNode, vnode)
		}
		if h.Insert != nil {
			q.push(vnode)
			return
		}
	}
	if vnode.ComponentOptions != nil {
		q.push(vnode)
	}
}

func (p *Patcher) insert(parent, elm, ref platform.Node) {
	if parent == nil || elm == nil {
		return
	}
	if ref != nil {
		if p.ops.ParentNode(ref) != parent {
			return
		}
		p.ops.InsertBefore(parent, elm, ref)
	} else {
		p.ops.AppendChild(parent, elm)
	}
	p.record(Op{Kind: OpInsert, Node: elm, Parent: parent, Ref: ref})
}

func (p *Patcher) removeNode(elm platform.Node) {
	if elm == nil {
		return
	}
	parent := p.ops.ParentNode(elm)
	// element may have already been removed by a parent
	if parent == nil {
		return
	}
	p.ops.RemoveChild(parent, elm)
	p.record(Op{Kind: OpRemove, Node: elm, Parent: parent})
}

// isPatchable reports whether the tree under vnode ends in an element,
// looking through nested component roots.
func isPatchable(vnode *vdom.VNode) bool {
	for vnode != nil && vnode.ComponentInstance != nil {
		vnode = vnode.ComponentInstance.Root()
	}
	return vnode != nil && vnode.Kind == vdom.KindElement
}

// compact drops nil children in place.
func compact(vnode *vdom.VNode) []*vdom.VNode {
	children := vnode.Children
	for i, c := range children {
		if c != nil {
			continue
		}
		out := append([]*vdom.VNode(nil), children[:i]...)
		for _, c := range children[i+1:] {
			if c != nil {
				out = append(out, c)
			}
		}
		vnode.Children = out
		return out
	}
	return children
}
