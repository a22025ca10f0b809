package vdom

import "fmt"

// Text creates a text node.
func Text(s string) *VNode { return &VNode{Kind: KindText, Text: s} }

// Textf creates a text node from a format string.
func Textf(format string, args ...any) *VNode { return Text(fmt.Sprintf(format, args...)) }

// Comment creates a comment node.
func Comment(s string) *VNode { return &VNode{Kind: KindComment, Text: s} }

// Empty is the placeholder a component renders when it has nothing to show.
func Empty() *VNode { return Comment("") }

// If returns node when cond holds. A nil child is skipped by the element
// constructors, so If can be used inline.
func If(cond bool, node *VNode) *VNode {
	if !cond {
		return nil
	}
	return node
}

// Choose returns a when cond holds and b otherwise.
func Choose(cond bool, a, b *VNode) *VNode {
	if cond {
		return a
	}
	return b
}

// Lazy calls build only when cond holds.
func Lazy(cond bool, build func() *VNode) *VNode {
	if !cond {
		return nil
	}
	return build()
}

// Range maps items to nodes, dropping nil results.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i := range items {
		if n := fn(items[i], i); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Times builds n nodes with fn.
func Times(n int, fn func(i int) *VNode) []*VNode {
	if n <= 0 {
		return nil
	}
	return Range(make([]struct{}, n), func(_ struct{}, i int) *VNode { return fn(i) })
}

// Walk visits v and its descendants in document order. Returning false
// from fn skips the children of that node.
func Walk(v *VNode, fn func(*VNode) bool) {
	if v == nil || !fn(v) {
		return
	}
	for _, c := range v.Children {
		Walk(c, fn)
	}
}
