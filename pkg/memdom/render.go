package memdom

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// RenderConfig configures the HTML serializer.
type RenderConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// IncludeProps renders value/checked/selected properties as attributes.
	IncludeProps bool
}

// Renderer serializes committed nodes to HTML.
type Renderer struct {
	config RenderConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RenderConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderString renders n (with default settings) to a string.
func RenderString(n *Node) string {
	s, _ := NewRenderer(RenderConfig{IncludeProps: true}).RenderToString(n)
	return s
}

// RenderToString renders a node tree to an HTML string.
func (r *Renderer) RenderToString(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a node tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, n *Node) error {
	return r.renderNode(w, n, 0)
}

// RenderChildren renders the children of n without n itself.
func (r *Renderer) RenderChildren(w io.Writer, n *Node) error {
	for _, c := range n.Children {
		if err := r.renderNode(w, c, 0); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderNode(w io.Writer, n *Node, depth int) error {
	if n == nil {
		return nil
	}
	switch n.Type {
	case ElementNode:
		return r.renderElement(w, n, depth)
	case TextNode:
		_, err := io.WriteString(w, escapeText(n.Text))
		return err
	case CommentNode:
		_, err := fmt.Fprintf(w, "<!--%s-->", escapeComment(n.Text))
		return err
	default:
		return fmt.Errorf("unknown node type: %d", n.Type)
	}
}

func (r *Renderer) renderElement(w io.Writer, n *Node, depth int) error {
	tag := n.Tag

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, n); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	// Void elements have no closing tag
	if isVoidElement(tag) {
		if r.config.Pretty {
			io.WriteString(w, "\n")
		}
		return nil
	}

	hasBlockChildren := !isInlineElement(tag) && hasElementChild(n)
	if r.config.Pretty && hasBlockChildren {
		io.WriteString(w, "\n")
	}
	for _, c := range n.Children {
		if err := r.renderNode(w, c, depth+1); err != nil {
			return err
		}
	}
	if r.config.Pretty && hasBlockChildren {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
	return nil
}

// renderAttributes renders attributes, then properties when enabled, then
// style, each in sorted order for deterministic output.
func (r *Renderer) renderAttributes(w io.Writer, n *Node) error {
	attrs := make(map[string]string, len(n.Attrs))
	for k, v := range n.Attrs {
		attrs[k] = v
	}
	if r.config.IncludeProps {
		for k, v := range n.Props {
			if isBooleanAttr(k) {
				if b, ok := v.(bool); ok {
					if b {
						attrs[k] = k
					} else {
						delete(attrs, k)
					}
					continue
				}
			}
			attrs[k] = attrString(v)
		}
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := attrs[key]
		if isBooleanAttr(key) && (value == "true" || value == key) {
			if _, err := fmt.Fprintf(w, " %s", key); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(value)); err != nil {
			return err
		}
	}

	if len(n.Style) > 0 {
		names := make([]string, 0, len(n.Style))
		for k := range n.Style {
			names = append(names, k)
		}
		sort.Strings(names)
		var buf bytes.Buffer
		for i, name := range names {
			if i > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(&buf, "%s: %s;", name, n.Style[name])
		}
		if _, err := fmt.Fprintf(w, ` style="%s"`, escapeAttr(buf.String())); err != nil {
			return err
		}
	}
	return nil
}

func hasElementChild(n *Node) bool {
	for _, c := range n.Children {
		if c.Type == ElementNode {
			return true
		}
	}
	return false
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}

// attrString converts an attribute value to a string.
func attrString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
