package memdom

import (
	"slices"
	"strings"

	"github.com/vango-dev/trellis/pkg/platform"
	"github.com/vango-dev/trellis/pkg/vdom"
)

// MutationKind is the type of a logged mutation.
type MutationKind uint8

const (
	MutCreate MutationKind = iota
	MutInsert
	MutMove
	MutRemove
	MutText
	MutAttr
	MutProp
	MutStyle
	MutListener
)

// String returns the string representation of the MutationKind.
func (k MutationKind) String() string {
	switch k {
	case MutCreate:
		return "create"
	case MutInsert:
		return "insert"
	case MutMove:
		return "move"
	case MutRemove:
		return "remove"
	case MutText:
		return "text"
	case MutAttr:
		return "attr"
	case MutProp:
		return "prop"
	case MutStyle:
		return "style"
	case MutListener:
		return "listener"
	default:
		return "unknown"
	}
}

// Mutation is one logged change.
type Mutation struct {
	Kind   MutationKind
	Node   *Node
	Parent *Node
	Key    string
}

// Counts summarizes structural mutations.
type Counts struct {
	Creates int
	Inserts int
	Moves   int
	Removes int
}

// Document is an in-memory node tree.
type Document struct {
	nextID int
	body   *Node
	log    []Mutation
}

var (
	_ platform.NodeOps  = (*Document)(nil)
	_ platform.Setters  = (*Document)(nil)
	_ platform.Hydrator = (*Document)(nil)
)

// NewDocument creates a document with an empty body element.
func NewDocument() *Document {
	d := &Document{}
	d.body = d.newNode(ElementNode)
	d.body.Tag = "body"
	return d
}

// Body returns the body element.
func (d *Document) Body() *Node {
	return d.body
}

// Log returns the mutations recorded since the last Reset.
func (d *Document) Log() []Mutation {
	return slices.Clone(d.log)
}

// ResetLog clears the mutation log.
func (d *Document) ResetLog() {
	d.log = d.log[:0]
}

// Counts summarizes the structural mutations in the log.
func (d *Document) Counts() Counts {
	var c Counts
	for _, m := range d.log {
		switch m.Kind {
		case MutCreate:
			c.Creates++
		case MutInsert:
			c.Inserts++
		case MutMove:
			c.Moves++
		case MutRemove:
			c.Removes++
		}
	}
	return c
}

// CountsUnder summarizes structural mutations whose parent is parent.
func (d *Document) CountsUnder(parent *Node) Counts {
	var c Counts
	for _, m := range d.log {
		if m.Parent != parent {
			continue
		}
		switch m.Kind {
		case MutInsert:
			c.Inserts++
		case MutMove:
			c.Moves++
		case MutRemove:
			c.Removes++
		}
	}
	return c
}

func (d *Document) newNode(t NodeType) *Node {
	d.nextID++
	return &Node{Type: t, ID: d.nextID}
}

func (d *Document) logf(kind MutationKind, n, parent *Node, key string) {
	d.log = append(d.log, Mutation{Kind: kind, Node: n, Parent: parent, Key: key})
}

func asNode(n platform.Node) *Node {
	if n == nil {
		return nil
	}
	node, _ := n.(*Node)
	return node
}

// wrap avoids returning a typed nil inside a non-nil interface.
func wrap(n *Node) platform.Node {
	if n == nil {
		return nil
	}
	return n
}

// CreateElement implements platform.NodeOps.
func (d *Document) CreateElement(tag string, _ *vdom.VNode) platform.Node {
	n := d.newNode(ElementNode)
	n.Tag = tag
	d.logf(MutCreate, n, nil, tag)
	return n
}

// CreateElementNS implements platform.NodeOps.
func (d *Document) CreateElementNS(namespace, tag string) platform.Node {
	n := d.newNode(ElementNode)
	n.Tag = tag
	n.NS = namespace
	d.logf(MutCreate, n, nil, tag)
	return n
}

// CreateTextNode implements platform.NodeOps.
func (d *Document) CreateTextNode(text string) platform.Node {
	n := d.newNode(TextNode)
	n.Text = text
	d.logf(MutCreate, n, nil, "")
	return n
}

// CreateComment implements platform.NodeOps.
func (d *Document) CreateComment(text string) platform.Node {
	n := d.newNode(CommentNode)
	n.Text = text
	d.logf(MutCreate, n, nil, "")
	return n
}

// InsertBefore implements platform.NodeOps. Inserting an attached node is
// logged as a move.
func (d *Document) InsertBefore(parent, node, ref platform.Node) {
	p, n, r := asNode(parent), asNode(node), asNode(ref)
	if p == nil || n == nil {
		return
	}
	kind := MutInsert
	if n.Parent != nil {
		kind = MutMove
		n.detach()
	}
	i := len(p.Children)
	if r != nil {
		if j := slices.Index(p.Children, r); j >= 0 {
			i = j
		}
	}
	p.Children = slices.Insert(p.Children, i, n)
	n.Parent = p
	d.logf(kind, n, p, "")
}

// AppendChild implements platform.NodeOps.
func (d *Document) AppendChild(parent, child platform.Node) {
	d.InsertBefore(parent, child, nil)
}

// RemoveChild implements platform.NodeOps.
func (d *Document) RemoveChild(parent, child platform.Node) {
	p, c := asNode(parent), asNode(child)
	if c == nil || c.Parent != p {
		return
	}
	c.detach()
	d.logf(MutRemove, c, p, "")
}

// ParentNode implements platform.NodeOps.
func (d *Document) ParentNode(node platform.Node) platform.Node {
	n := asNode(node)
	if n == nil {
		return nil
	}
	return wrap(n.Parent)
}

// NextSibling implements platform.NodeOps.
func (d *Document) NextSibling(node platform.Node) platform.Node {
	n := asNode(node)
	if n == nil || n.Parent == nil {
		return nil
	}
	i := n.Index()
	if i < 0 || i+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[i+1]
}

// TagName implements platform.NodeOps.
func (d *Document) TagName(node platform.Node) string {
	if n := asNode(node); n != nil {
		return strings.ToUpper(n.Tag)
	}
	return ""
}

// SetTextContent implements platform.NodeOps.
func (d *Document) SetTextContent(node platform.Node, text string) {
	n := asNode(node)
	if n == nil {
		return
	}
	if n.Type == ElementNode {
		for _, c := range n.Children {
			c.Parent = nil
		}
		n.Children = nil
		if text != "" {
			t := d.newNode(TextNode)
			t.Text = text
			t.Parent = n
			n.Children = []*Node{t}
		}
	} else {
		n.Text = text
	}
	d.logf(MutText, n, nil, "")
}

// SetAttribute implements platform.Setters.
func (d *Document) SetAttribute(el platform.Node, key string, value any) {
	n := asNode(el)
	if n == nil {
		return
	}
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = attrString(value)
	d.logf(MutAttr, n, nil, key)
}

// RemoveAttribute implements platform.Setters.
func (d *Document) RemoveAttribute(el platform.Node, key string) {
	n := asNode(el)
	if n == nil {
		return
	}
	delete(n.Attrs, key)
	d.logf(MutAttr, n, nil, key)
}

// SetProperty implements platform.Setters. A nil value clears the property.
func (d *Document) SetProperty(el platform.Node, key string, value any) {
	n := asNode(el)
	if n == nil {
		return
	}
	if value == nil {
		delete(n.Props, key)
	} else {
		if n.Props == nil {
			n.Props = make(map[string]any)
		}
		n.Props[key] = value
	}
	d.logf(MutProp, n, nil, key)
}

// SetStyle implements platform.Setters.
func (d *Document) SetStyle(el platform.Node, name, value string) {
	n := asNode(el)
	if n == nil {
		return
	}
	if n.Style == nil {
		n.Style = make(map[string]string)
	}
	n.Style[name] = value
	d.logf(MutStyle, n, nil, name)
}

// RemoveStyle implements platform.Setters.
func (d *Document) RemoveStyle(el platform.Node, name string) {
	n := asNode(el)
	if n == nil {
		return
	}
	delete(n.Style, name)
	d.logf(MutStyle, n, nil, name)
}

// AddListener implements platform.Setters.
func (d *Document) AddListener(el platform.Node, event string, fn vdom.Handler) {
	n := asNode(el)
	if n == nil {
		return
	}
	if n.Listeners == nil {
		n.Listeners = make(map[string]vdom.Handler)
	}
	n.Listeners[event] = fn
	d.logf(MutListener, n, nil, event)
}

// RemoveListener implements platform.Setters.
func (d *Document) RemoveListener(el platform.Node, event string) {
	n := asNode(el)
	if n == nil {
		return
	}
	delete(n.Listeners, event)
	d.logf(MutListener, n, nil, event)
}

// ChildNodes implements platform.Hydrator.
func (d *Document) ChildNodes(node platform.Node) []platform.Node {
	n := asNode(node)
	if n == nil {
		return nil
	}
	out := make([]platform.Node, len(n.Children))
	for i, c := range n.Children {
		out[i] = c
	}
	return out
}

// NodeKind implements platform.Hydrator.
func (d *Document) NodeKind(node platform.Node) vdom.VKind {
	n := asNode(node)
	if n == nil {
		return vdom.KindComment
	}
	switch n.Type {
	case TextNode:
		return vdom.KindText
	case CommentNode:
		return vdom.KindComment
	default:
		return vdom.KindElement
	}
}

// NodeText implements platform.Hydrator.
func (d *Document) NodeText(node platform.Node) string {
	if n := asNode(node); n != nil {
		return n.Text
	}
	return ""
}

// Build creates a detached node tree for v without logging, as if the
// tree had been produced elsewhere (for example by a server render).
// Component placeholders are skipped.
func (d *Document) Build(v *vdom.VNode) *Node {
	if v == nil {
		return nil
	}
	var n *Node
	switch v.Kind {
	case vdom.KindText:
		n = d.newNode(TextNode)
		n.Text = v.Text
	case vdom.KindComment:
		n = d.newNode(CommentNode)
		n.Text = v.Text
	case vdom.KindElement:
		n = d.newNode(ElementNode)
		n.Tag = v.Tag
		if v.Data != nil {
			for k, val := range v.Data.Attrs {
				if n.Attrs == nil {
					n.Attrs = make(map[string]string)
				}
				n.Attrs[k] = attrString(val)
			}
		}
		for _, c := range v.Children {
			if cn := d.Build(c); cn != nil {
				cn.Parent = n
				n.Children = append(n.Children, cn)
			}
		}
	default:
		return nil
	}
	return n
}

// Attach appends a built node to parent without logging.
func (d *Document) Attach(parent, child *Node) {
	child.detach()
	child.Parent = parent
	parent.Children = append(parent.Children, child)
}
