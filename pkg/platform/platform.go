// Package platform defines the collaborators the reconciler drives: node
// operations, property setters, tag predicates and hydration access. A
// platform adapter implements them for one display technology.
package platform

import "github.com/vango-dev/trellis/pkg/vdom"

// Node is an opaque platform node. Adapters use comparable node values,
// typically pointers.
type Node = any

// NodeOps creates and arranges platform nodes.
type NodeOps interface {
	CreateElement(tag string, vnode *vdom.VNode) Node
	CreateElementNS(namespace, tag string) Node
	CreateTextNode(text string) Node
	CreateComment(text string) Node

	// InsertBefore inserts node into parent before ref. A nil ref appends.
	// Inserting a node that is already attached moves it.
	InsertBefore(parent, node, ref Node)
	RemoveChild(parent, child Node)
	AppendChild(parent, child Node)

	// ParentNode returns the parent of node, or nil when detached.
	ParentNode(node Node) Node
	// NextSibling returns the following sibling of node, or nil.
	NextSibling(node Node) Node
	TagName(node Node) string
	SetTextContent(node Node, text string)
}

// Setters apply element properties by category.
type Setters interface {
	SetAttribute(el Node, key string, value any)
	RemoveAttribute(el Node, key string)
	SetProperty(el Node, key string, value any)
	SetStyle(el Node, name, value string)
	RemoveStyle(el Node, name string)

	// AddListener attaches the single listener for event on el.
	AddListener(el Node, event string, fn vdom.Handler)
	RemoveListener(el Node, event string)
}

// Predicates answer platform questions about tags.
type Predicates interface {
	IsReservedTag(tag string) bool
	// IsUnaryTag reports tags that never have children.
	IsUnaryTag(tag string) bool
	// MustUseProp reports attributes that must be set as properties.
	MustUseProp(tag, inputType, attr string) bool
	GetTagNamespace(tag string) string
	IsUnknownElement(tag string) bool
}

// Hydrator gives the reconciler read access to existing platform nodes.
type Hydrator interface {
	ChildNodes(node Node) []Node
	NodeKind(node Node) vdom.VKind
	NodeText(node Node) string
}

// Module receives callbacks for every patched element, alongside the
// built-in attribute, property, style and listener handling.
type Module struct {
	Name    string
	Create  func(empty, vnode *vdom.VNode)
	Update  func(old, vnode *vdom.VNode)
	Destroy func(vnode *vdom.VNode)
}
