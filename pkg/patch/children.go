package patch

import (
	"github.com/vango-dev/trellis/pkg/platform"
	"github.com/vango-dev/trellis/pkg/vdom"
)

// sameVnode reports whether b can be patched in place of a.
func sameVnode(a, b *vdom.VNode) bool {
	return a.Key == b.Key &&
		a.Tag == b.Tag &&
		a.Kind == b.Kind &&
		hasData(a) == hasData(b) &&
		sameInputType(a, b) &&
		sameCtor(a, b)
}

// hasData reports whether v carries per-node data. Placeholders always do;
// their Data may be allocated late to hold pending insert hooks.
func hasData(v *vdom.VNode) bool {
	return v.Data != nil || v.ComponentOptions != nil
}

func sameInputType(a, b *vdom.VNode) bool {
	if a.Tag != "input" {
		return true
	}
	ta, tb := a.InputType(), b.InputType()
	return ta == tb || platform.IsTextInputType(ta) && platform.IsTextInputType(tb)
}

func sameCtor(a, b *vdom.VNode) (same bool) {
	ao, bo := a.ComponentOptions, b.ComponentOptions
	if ao == nil || bo == nil {
		return ao == nil && bo == nil
	}
	// Uncomparable definitions are never the same.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return ao.Ctor == bo.Ctor
}

func (p *Patcher) patchVnode(old, vnode *vdom.VNode, q *insertQueue, ownerArray []*vdom.VNode, index int) {
	if old == vnode {
		return
	}
	if vnode.Elm != nil && ownerArray != nil {
		vnode = vnode.Clone()
		ownerArray[index] = vnode
	}

	elm := old.Elm
	vnode.Elm = elm

	if opts := vnode.ComponentOptions; opts != nil && opts.Hooks != nil {
		opts.Hooks.Prepatch(old, vnode)
	}

	if vnode.Data != nil && isPatchable(vnode) {
		p.updateModules(old, vnode)
		if h := vnode.Data.Hook; h != nil && h.Update != nil {
			h.Update(old, vnode)
		}
	}

	switch vnode.Kind {
	case vdom.KindText, vdom.KindComment:
		if old.Text != vnode.Text {
			p.ops.SetTextContent(elm, vnode.Text)
			p.record(Op{Kind: OpSetText, Node: elm, Value: vnode.Text})
		}
	default:
		oldCh, ch := compact(old), compact(vnode)
		switch {
		case len(oldCh) > 0 && len(ch) > 0:
			p.updateChildren(elm, oldCh, ch, q)
		case len(ch) > 0:
			p.checkDuplicateKeys(ch)
			p.addVnodes(elm, nil, ch, 0, len(ch)-1, q)
		case len(oldCh) > 0:
			p.removeVnodes(oldCh, 0, len(oldCh)-1)
		}
	}
}

// updateChildren reconciles two child lists under parentElm.
func (p *Patcher) updateChildren(parentElm platform.Node, oldCh, newCh []*vdom.VNode, q *insertQueue) {
	oldStartIdx, newStartIdx := 0, 0
	oldEndIdx, newEndIdx := len(oldCh)-1, len(newCh)-1
	oldStartVnode, oldEndVnode := oldCh[0], oldCh[oldEndIdx]
	newStartVnode, newEndVnode := newCh[0], newCh[newEndIdx]

	var oldKeyToIdx map[string]int

	p.checkDuplicateKeys(newCh)

	for oldStartIdx <= oldEndIdx && newStartIdx <= newEndIdx {
		switch {
		case oldStartVnode == nil:
			// Moved out by the key lookup below.
			oldStartIdx++
			oldStartVnode = at(oldCh, oldStartIdx)

		case oldEndVnode == nil:
			oldEndIdx--
			oldEndVnode = at(oldCh, oldEndIdx)

		case sameVnode(oldStartVnode, newStartVnode):
			p.patchVnode(oldStartVnode, newStartVnode, q, newCh, newStartIdx)
			oldStartIdx++
			newStartIdx++
			oldStartVnode = at(oldCh, oldStartIdx)
			newStartVnode = at(newCh, newStartIdx)

		case sameVnode(oldEndVnode, newEndVnode):
			p.patchVnode(oldEndVnode, newEndVnode, q, newCh, newEndIdx)
			oldEndIdx--
			newEndIdx--
			oldEndVnode = at(oldCh, oldEndIdx)
			newEndVnode = at(newCh, newEndIdx)

		case sameVnode(oldStartVnode, newEndVnode):
			// Vnode moved right
			p.patchVnode(oldStartVnode, newEndVnode, q, newCh, newEndIdx)
			p.move(parentElm, oldStartVnode.Elm, p.ops.NextSibling(oldEndVnode.Elm))
			oldStartIdx++
			newEndIdx--
			oldStartVnode = at(oldCh, oldStartIdx)
			newEndVnode = at(newCh, newEndIdx)

		case sameVnode(oldEndVnode, newStartVnode):
			// Vnode moved left
			p.patchVnode(oldEndVnode, newStartVnode, q, newCh, newStartIdx)
			p.move(parentElm, oldEndVnode.Elm, oldStartVnode.Elm)
			oldEndIdx--
			newStartIdx++
			oldEndVnode = at(oldCh, oldEndIdx)
			newStartVnode = at(newCh, newStartIdx)

		default:
			if oldKeyToIdx == nil {
				oldKeyToIdx = createKeyToOldIdx(oldCh, oldStartIdx, oldEndIdx)
			}
			idxInOld := -1
			if newStartVnode.Key != "" {
				if i, ok := oldKeyToIdx[newStartVnode.Key]; ok {
					idxInOld = i
				}
			} else {
				idxInOld = findIdxInOld(newStartVnode, oldCh, oldStartIdx, oldEndIdx)
			}

			if idxInOld < 0 {
				p.createElm(newStartVnode, q, parentElm, oldStartVnode.Elm, newCh, newStartIdx)
			} else {
				vnodeToMove := oldCh[idxInOld]
				if vnodeToMove != nil && sameVnode(vnodeToMove, newStartVnode) {
					p.patchVnode(vnodeToMove, newStartVnode, q, newCh, newStartIdx)
					oldCh[idxInOld] = nil
					p.move(parentElm, vnodeToMove.Elm, oldStartVnode.Elm)
				} else {
					// same key but different element. treat as new element
					p.createElm(newStartVnode, q, parentElm, oldStartVnode.Elm, newCh, newStartIdx)
				}
			}
			newStartIdx++
			newStartVnode = at(newCh, newStartIdx)
		}
	}

	if oldStartIdx > oldEndIdx {
		var refElm platform.Node
		if next := at(newCh, newEndIdx+1); next != nil {
			refElm = next.Elm
		}
		p.addVnodes(parentElm, refElm, newCh, newStartIdx, newEndIdx, q)
	} else if newStartIdx > newEndIdx {
		p.removeVnodes(oldCh, oldStartIdx, oldEndIdx)
	}
}

func (p *Patcher) move(parent, elm, ref platform.Node) {
	p.ops.InsertBefore(parent, elm, ref)
	p.record(Op{Kind: OpMove, Node: elm, Parent: parent, Ref: ref})
}

func (p *Patcher) addVnodes(parentElm, refElm platform.Node, vnodes []*vdom.VNode, start, end int, q *insertQueue) {
	for i := start; i <= end; i++ {
		p.createElm(vnodes[i], q, parentElm, refElm, vnodes, i)
	}
}

func (p *Patcher) removeVnodes(vnodes []*vdom.VNode, start, end int) {
	for i := start; i <= end; i++ {
		ch := vnodes[i]
		if ch == nil {
			continue
		}
		p.removeNode(ch.Elm)
		if ch.HasTag() {
			p.invokeDestroyHook(ch)
		}
	}
}

func (p *Patcher) checkDuplicateKeys(children []*vdom.VNode) {
	if p.warn == nil {
		return
	}
	seen := make(map[string]bool, len(children))
	for _, c := range children {
		if c == nil || c.Key == "" {
			continue
		}
		if seen[c.Key] {
			p.warnf("E120", "key %q", c.Key)
			continue
		}
		seen[c.Key] = true
	}
}

// createKeyToOldIdx maps keys of old children in [start, end] to their
// index. Unkeyed children are never in the map.
func createKeyToOldIdx(children []*vdom.VNode, start, end int) map[string]int {
	m := make(map[string]int)
	for i := start; i <= end; i++ {
		if c := children[i]; c != nil && c.Key != "" {
			m[c.Key] = i
		}
	}
	return m
}

// findIdxInOld finds an unkeyed old child that node can be patched against.
func findIdxInOld(node *vdom.VNode, oldCh []*vdom.VNode, start, end int) int {
	for i := start; i <= end; i++ {
		if c := oldCh[i]; c != nil && sameVnode(node, c) {
			return i
		}
	}
	return -1
}

func at(list []*vdom.VNode, i int) *vdom.VNode {
	if i < 0 || i >= len(list) {
		return nil
	}
	return list[i]
}
