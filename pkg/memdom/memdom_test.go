package memdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/trellis/pkg/vdom"
)

func TestInsertAndMoveLogging(t *testing.T) {
	d := NewDocument()
	ul := d.CreateElement("ul", nil).(*Node)
	a := d.CreateElement("li", nil).(*Node)
	b := d.CreateElement("li", nil).(*Node)

	d.AppendChild(ul, a)
	d.AppendChild(ul, b)
	d.InsertBefore(ul, b, a)

	require.Equal(t, []*Node{b, a}, ul.Children)
	assert.Equal(t, Counts{Creates: 3, Inserts: 2, Moves: 1}, d.Counts())

	d.ResetLog()
	d.RemoveChild(ul, a)
	assert.Equal(t, Counts{Removes: 1}, d.CountsUnder(ul))
	assert.Nil(t, a.Parent)
	assert.Equal(t, -1, a.Index())
}

func TestMoveAcrossParents(t *testing.T) {
	d := NewDocument()
	left := d.CreateElement("div", nil).(*Node)
	right := d.CreateElement("div", nil).(*Node)
	child := d.CreateTextNode("x").(*Node)
	d.AppendChild(left, child)
	d.ResetLog()

	d.AppendChild(right, child)

	assert.Empty(t, left.Children)
	assert.Same(t, right, child.Parent)
	assert.Equal(t, Counts{Moves: 1}, d.CountsUnder(right))
	assert.Equal(t, Counts{}, d.CountsUnder(left))
}

func TestParentAndSiblingNavigation(t *testing.T) {
	d := NewDocument()
	p := d.CreateElement("p", nil)
	first := d.CreateTextNode("a")
	second := d.CreateComment("b")
	d.AppendChild(p, first)
	d.AppendChild(p, second)

	assert.Same(t, p, d.ParentNode(first))
	assert.Same(t, second, d.NextSibling(first))
	assert.Nil(t, d.NextSibling(second))
	assert.Nil(t, d.ParentNode(p))
	assert.Equal(t, "P", d.TagName(p))
}

func TestSetTextContentOnElement(t *testing.T) {
	d := NewDocument()
	p := d.CreateElement("p", nil).(*Node)
	d.AppendChild(p, d.CreateTextNode("old"))
	d.AppendChild(p, d.CreateComment("c"))

	d.SetTextContent(p, "new")
	require.Len(t, p.Children, 1)
	assert.Equal(t, "new", p.TextContent())

	d.SetTextContent(p, "")
	assert.Empty(t, p.Children)
}

func TestSetters(t *testing.T) {
	d := NewDocument()
	n := d.CreateElement("input", nil).(*Node)

	d.SetAttribute(n, "id", "name")
	d.SetAttribute(n, "tabindex", 3)
	d.SetProperty(n, "value", "v")
	d.SetStyle(n, "color", "red")
	var got any
	d.AddListener(n, "input", func(e any) { got = e })

	assert.Equal(t, map[string]string{"id": "name", "tabindex": "3"}, n.Attrs)
	assert.True(t, n.Dispatch("input", "payload"))
	assert.Equal(t, "payload", got)

	d.RemoveAttribute(n, "tabindex")
	d.SetProperty(n, "value", nil)
	d.RemoveStyle(n, "color")
	d.RemoveListener(n, "input")

	assert.Equal(t, map[string]string{"id": "name"}, n.Attrs)
	assert.Empty(t, n.Props)
	assert.Empty(t, n.Style)
	assert.False(t, n.Dispatch("input", nil))

	kinds := make([]string, 0)
	for _, m := range d.Log()[1:] {
		kinds = append(kinds, m.Kind.String()+":"+m.Key)
	}
	want := []string{
		"attr:id", "attr:tabindex", "prop:value", "style:color", "listener:input",
		"attr:tabindex", "prop:value", "style:color", "listener:input",
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("mutation log mismatch (-want +got):\n%s", diff)
	}
}

func TestHydratorAccessors(t *testing.T) {
	d := NewDocument()
	root := d.Build(vdom.Div(vdom.ID("x"), vdom.P("hi"), vdom.Comment("c")))

	nodes := d.ChildNodes(root)
	require.Len(t, nodes, 2)
	assert.Equal(t, vdom.KindElement, d.NodeKind(root))
	assert.Equal(t, vdom.KindComment, d.NodeKind(nodes[1]))
	assert.Equal(t, vdom.KindText, d.NodeKind(nodes[0].(*Node).Children[0]))
	assert.Equal(t, "hi", d.NodeText(nodes[0].(*Node).Children[0]))
	assert.Empty(t, d.Log())
	assert.Same(t, root, root.Find("x"))
}

func TestRenderString(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{
			name: "nested elements",
			node: vdom.Div(vdom.Class("card"), vdom.H1("Title"), vdom.P("body")),
			want: `<div class="card"><h1>Title</h1><p>body</p></div>`,
		},
		{
			name: "void element",
			node: vdom.Div(vdom.Br(), vdom.Input(vdom.Type("text"))),
			want: `<div><br><input type="text"></div>`,
		},
		{
			name: "escaping",
			node: vdom.P(vdom.TitleAttr(`a "b"`), "<x> & y"),
			want: `<p title="a &quot;b&quot;">&lt;x&gt; &amp; y</p>`,
		},
		{
			name: "comment",
			node: vdom.Div(vdom.Comment("c")),
			want: `<div><!--c--></div>`,
		},
		{
			name: "comment cannot close early",
			node: vdom.Comment("a-->b"),
			want: `<!--a- ->b-->`,
		},
		{
			name: "boolean attribute",
			node: vdom.Button(vdom.Disabled(), "go"),
			want: `<button disabled>go</button>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDocument()
			assert.Equal(t, tt.want, RenderString(d.Build(tt.node)))
		})
	}
}

func TestRenderPropsAndStyle(t *testing.T) {
	d := NewDocument()
	n := d.CreateElement("input", nil).(*Node)
	d.SetProperty(n, "value", "v")
	d.SetProperty(n, "checked", true)
	d.SetStyle(n, "width", "1px")
	d.SetStyle(n, "color", "red")

	assert.Equal(t, `<input checked value="v" style="color: red; width: 1px;">`, RenderString(n))

	s, err := NewRenderer(RenderConfig{}).RenderToString(n)
	require.NoError(t, err)
	assert.Equal(t, `<input style="color: red; width: 1px;">`, s)
}

func TestRenderPretty(t *testing.T) {
	d := NewDocument()
	n := d.Build(vdom.Div(vdom.P("a")))

	s, err := NewRenderer(RenderConfig{Pretty: true}).RenderToString(n)
	require.NoError(t, err)
	assert.Equal(t, "<div>\n  <p>a</p>\n</div>\n", s)
}
