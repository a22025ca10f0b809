package memdom

import (
	"slices"
	"strings"

	"github.com/vango-dev/trellis/pkg/vdom"
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
)

// Node is a document node.
type Node struct {
	Type      NodeType
	ID        int // Document-unique, assigned at creation
	Tag       string
	NS        string
	Text      string
	Attrs     map[string]string
	Props     map[string]any
	Style     map[string]string
	Listeners map[string]vdom.Handler
	Parent    *Node
	Children  []*Node
}

// Index returns the position of n among its siblings, or -1 when detached.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	return slices.Index(n.Parent.Children, n)
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	switch n.Type {
	case TextNode:
		return n.Text
	case CommentNode:
		return ""
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// Find returns the first descendant (or n itself) whose id attribute is id.
func (n *Node) Find(id string) *Node {
	if n.Type == ElementNode && n.Attrs["id"] == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Dispatch invokes the listener for event on n, if any. It reports whether
// a listener ran.
func (n *Node) Dispatch(event string, payload any) bool {
	fn, ok := n.Listeners[event]
	if !ok || fn == nil {
		return false
	}
	fn(payload)
	return true
}

func (n *Node) detach() {
	p := n.Parent
	if p == nil {
		return
	}
	if i := slices.Index(p.Children, n); i >= 0 {
		p.Children = slices.Delete(p.Children, i, i+1)
	}
	n.Parent = nil
}
