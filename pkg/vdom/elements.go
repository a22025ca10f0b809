package vdom

// H creates an element with the given tag.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, string, EventHandler, *Hooks.
func H(tag string, args ...any) *VNode {
	return createElement(tag, args)
}

// createElement creates a new element VNode from factory arguments.
// Empty categories are left nil so that nodes without properties carry no Data.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind: KindElement,
		Tag:  tag,
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue

		case Attr:
			applyAttr(node, v)

		case []Attr:
			for _, a := range v {
				applyAttr(node, a)
			}

		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case string:
			// Shorthand for text node
			node.Children = append(node.Children, Text(v))

		case EventHandler:
			if v.Event == "" || v.Handler == nil {
				continue
			}
			d := node.data()
			if d.On == nil {
				d.On = make(map[string]Handler)
			}
			d.On[v.Event] = v.Handler

		case *Hooks:
			if v != nil {
				node.data().Hook = v
			}
		}
	}

	return node
}

func applyAttr(node *VNode, a Attr) {
	if a.Key == "" {
		return
	}
	switch a.Kind {
	case AttrKey:
		if s, ok := a.Value.(string); ok {
			node.Key = s
		}
	case AttrProperty:
		d := node.data()
		if d.Props == nil {
			d.Props = make(map[string]any)
		}
		d.Props[a.Key] = a.Value
	case AttrStyle:
		d := node.data()
		if d.Style == nil {
			d.Style = make(map[string]string)
		}
		s, _ := a.Value.(string)
		d.Style[a.Key] = s
	default:
		d := node.data()
		if d.Attrs == nil {
			d.Attrs = make(map[string]any)
		}
		d.Attrs[a.Key] = a.Value
	}
}

func (v *VNode) data() *Data {
	if v.Data == nil {
		v.Data = &Data{}
	}
	return v.Data
}

// Document structure elements

func Html(args ...any) *VNode { return createElement("html", args) }
func Head(args ...any) *VNode { return createElement("head", args) }
func Body(args ...any) *VNode { return createElement("body", args) }

// Content sectioning elements

func Header(args ...any) *VNode  { return createElement("header", args) }
func Footer(args ...any) *VNode  { return createElement("footer", args) }
func Main(args ...any) *VNode    { return createElement("main", args) }
func Nav(args ...any) *VNode     { return createElement("nav", args) }
func Section(args ...any) *VNode { return createElement("section", args) }
func H1(args ...any) *VNode      { return createElement("h1", args) }
func H2(args ...any) *VNode      { return createElement("h2", args) }
func H3(args ...any) *VNode      { return createElement("h3", args) }

// Text content elements

func Div(args ...any) *VNode  { return createElement("div", args) }
func P(args ...any) *VNode    { return createElement("p", args) }
func Span(args ...any) *VNode { return createElement("span", args) }
func Pre(args ...any) *VNode  { return createElement("pre", args) }
func Ul(args ...any) *VNode   { return createElement("ul", args) }
func Ol(args ...any) *VNode   { return createElement("ol", args) }
func Li(args ...any) *VNode   { return createElement("li", args) }
func Hr(args ...any) *VNode   { return createElement("hr", args) }

// Inline text semantics

func A(args ...any) *VNode      { return createElement("a", args) }
func Strong(args ...any) *VNode { return createElement("strong", args) }
func Em(args ...any) *VNode     { return createElement("em", args) }
func Code(args ...any) *VNode   { return createElement("code", args) }
func Br(args ...any) *VNode     { return createElement("br", args) }

// Tables

func Table(args ...any) *VNode { return createElement("table", args) }
func Thead(args ...any) *VNode { return createElement("thead", args) }
func Tbody(args ...any) *VNode { return createElement("tbody", args) }
func Tr(args ...any) *VNode    { return createElement("tr", args) }
func Th(args ...any) *VNode    { return createElement("th", args) }
func Td(args ...any) *VNode    { return createElement("td", args) }

// Forms

func Form(args ...any) *VNode     { return createElement("form", args) }
func Label(args ...any) *VNode    { return createElement("label", args) }
func Input(args ...any) *VNode    { return createElement("input", args) }
func Textarea(args ...any) *VNode { return createElement("textarea", args) }
func Button(args ...any) *VNode   { return createElement("button", args) }
func Select(args ...any) *VNode   { return createElement("select", args) }
func Option(args ...any) *VNode   { return createElement("option", args) }

// Embedded content

func Img(args ...any) *VNode { return createElement("img", args) }

// Svg creates an svg element in the SVG namespace.
func Svg(args ...any) *VNode {
	n := createElement("svg", args)
	n.NS = "svg"
	return n
}
