package patch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "github.com/vango-dev/trellis/internal/errors"
	"github.com/vango-dev/trellis/pkg/memdom"
	"github.com/vango-dev/trellis/pkg/platform"
	"github.com/vango-dev/trellis/pkg/vdom"
)

type harness struct {
	doc      *memdom.Document
	p        *Patcher
	ops      []Op
	warnings []*terrors.Error
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{doc: memdom.NewDocument()}
	opts = append([]Option{
		WithPredicates(platform.HTML{}),
		WithRecorder(func(op Op) { h.ops = append(h.ops, op) }),
		WithWarnHandler(func(e *terrors.Error) { h.warnings = append(h.warnings, e) }),
	}, opts...)
	h.p = New(h.doc, h.doc, opts...)
	return h
}

// mount creates vnode detached, attaches it to the body and clears logs.
func (h *harness) mount(vnode *vdom.VNode) *memdom.Node {
	h.p.Patch(nil, vnode)
	n := vnode.Elm.(*memdom.Node)
	h.doc.Attach(h.doc.Body(), n)
	h.doc.ResetLog()
	h.ops = nil
	return n
}

func (h *harness) countOps(kind OpKind) int {
	n := 0
	for _, op := range h.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func keyedList(keys ...string) *vdom.VNode {
	return vdom.Ul(vdom.Range(keys, func(k string, _ int) *vdom.VNode {
		return vdom.Li(vdom.Key(k), k)
	}))
}

func unkeyedList(items ...string) *vdom.VNode {
	return vdom.Ul(vdom.Range(items, func(s string, _ int) *vdom.VNode {
		return vdom.Li(s)
	}))
}

func TestKeyedDiffScenarios(t *testing.T) {
	tests := []struct {
		name    string
		from    []string
		to      []string
		want    memdom.Counts
		creates int
	}{
		{
			name: "rotate first to last",
			from: []string{"a", "b", "c", "d"},
			to:   []string{"b", "c", "d", "a"},
			want: memdom.Counts{Moves: 1},
		},
		{
			name:    "prepend",
			from:    []string{"a", "b", "c"},
			to:      []string{"d", "a", "b", "c"},
			want:    memdom.Counts{Inserts: 1},
			creates: 2, // li + text
		},
		{
			name: "remove middle",
			from: []string{"a", "b", "c"},
			to:   []string{"a", "c"},
			want: memdom.Counts{Removes: 1},
		},
		{
			name: "rotate last to first",
			from: []string{"a", "b", "c", "d"},
			to:   []string{"d", "a", "b", "c"},
			want: memdom.Counts{Moves: 1},
		},
		{
			name:    "append",
			from:    []string{"a", "b"},
			to:      []string{"a", "b", "c"},
			want:    memdom.Counts{Inserts: 1},
			creates: 2,
		},
		{
			name: "swap ends",
			from: []string{"a", "b", "c", "d"},
			to:   []string{"d", "b", "c", "a"},
			want: memdom.Counts{Moves: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			old := keyedList(tt.from...)
			ul := h.mount(old)
			before := make(map[string]*memdom.Node)
			for _, li := range ul.Children {
				before[li.TextContent()] = li
			}

			next := keyedList(tt.to...)
			h.p.Patch(old, next)

			assert.Equal(t, tt.want, h.doc.CountsUnder(ul))
			assert.Equal(t, tt.creates, h.doc.Counts().Creates)
			assert.Equal(t, strings.Join(tt.to, ""), ul.TextContent())
			for _, li := range ul.Children {
				if prev, ok := before[li.TextContent()]; ok {
					assert.Same(t, prev, li, "keyed node %q must be reused", li.TextContent())
				}
			}
			assert.Empty(t, h.warnings)
		})
	}
}

func TestKeyedDiffShuffles(t *testing.T) {
	tests := [][2][]string{
		{{"a", "b", "c", "d"}, {"d", "c", "b", "a"}},
		{{"a", "b", "c", "d", "e"}, {"c", "a", "e", "b", "d"}},
		{{"a", "b", "c"}, {"x", "b", "y"}},
		{{"a", "b", "c"}, {}},
		{{}, {"a", "b"}},
		{{"a", "b", "c", "d", "e", "f"}, {"f", "x", "b", "e", "a"}},
	}

	for _, tt := range tests {
		name := strings.Join(tt[0], "") + "->" + strings.Join(tt[1], "")
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			old := keyedList(tt[0]...)
			ul := h.mount(old)
			next := keyedList(tt[1]...)
			h.p.Patch(old, next)

			assert.Equal(t, strings.Join(tt[1], ""), ul.TextContent())
			require.Len(t, ul.Children, len(tt[1]))
			for i, li := range ul.Children {
				assert.Same(t, next.Children[i].Elm, li)
			}
		})
	}
}

func TestUnkeyedChildrenPatchInPlace(t *testing.T) {
	h := newHarness(t)
	old := unkeyedList("x", "y")
	ul := h.mount(old)
	first := ul.Children[0]

	next := unkeyedList("x", "z", "w")
	h.p.Patch(old, next)

	assert.Same(t, first, ul.Children[0])
	assert.Equal(t, "xzw", ul.TextContent())
	assert.Equal(t, 1, h.countOps(OpSetText))
	assert.Equal(t, memdom.Counts{Inserts: 1}, h.doc.CountsUnder(ul))
}

func TestMixedKeyedAndUnkeyed(t *testing.T) {
	h := newHarness(t)
	old := vdom.Ul(vdom.Li(vdom.Key("k"), "keyed"), vdom.Li("plain"))
	ul := h.mount(old)

	next := vdom.Ul(vdom.Li("plain"), vdom.Li(vdom.Key("k"), "keyed"))
	h.p.Patch(old, next)

	assert.Equal(t, "plainkeyed", ul.TextContent())
	assert.Equal(t, 0, h.doc.Counts().Creates)
}

func TestSameKeyDifferentTagIsReplaced(t *testing.T) {
	h := newHarness(t)
	old := vdom.Div(vdom.P(vdom.Key("k"), "p"))
	div := h.mount(old)

	next := vdom.Div(vdom.Span(vdom.Key("k"), "span"))
	h.p.Patch(old, next)

	require.Len(t, div.Children, 1)
	assert.Equal(t, "span", div.Children[0].Tag)
	assert.Equal(t, memdom.Counts{Inserts: 1, Removes: 1}, h.doc.CountsUnder(div))
}

func TestDuplicateKeysWarn(t *testing.T) {
	h := newHarness(t)
	h.p.Patch(nil, keyedList("a", "a"))

	require.Len(t, h.warnings, 1)
	assert.Equal(t, "E120", h.warnings[0].Code)
	assert.Contains(t, h.warnings[0].Info, `"a"`)
}

func TestUnknownElementWarns(t *testing.T) {
	h := newHarness(t)
	h.p.Patch(nil, vdom.H("dvi"))

	require.Len(t, h.warnings, 1)
	assert.Equal(t, "E121", h.warnings[0].Code)
}

func TestRootReplacement(t *testing.T) {
	h := newHarness(t)
	old := vdom.Div(vdom.ID("root"))
	h.mount(old)

	next := vdom.Section(vdom.ID("root"))
	elm := h.p.Patch(old, next)

	body := h.doc.Body()
	require.Len(t, body.Children, 1)
	assert.Same(t, elm, body.Children[0])
	assert.Equal(t, "section", body.Children[0].Tag)
	assert.Equal(t, 1, h.countOps(OpReplace))
}

func TestMountReplacesTarget(t *testing.T) {
	h := newHarness(t)
	app := h.doc.Build(vdom.Div(vdom.ID("app")))
	h.doc.Attach(h.doc.Body(), app)

	tree := vdom.Main(vdom.H1("hi"))
	h.p.Mount(app, tree, false)

	body := h.doc.Body()
	require.Len(t, body.Children, 1)
	assert.Equal(t, "main", body.Children[0].Tag)
	assert.Equal(t, "<body><main><h1>hi</h1></main></body>", memdom.RenderString(body))
}

func TestAttributeDiff(t *testing.T) {
	h := newHarness(t)
	old := vdom.Div(vdom.ID("a"), vdom.Class("x"), vdom.TitleAttr("t"))
	div := h.mount(old)

	next := vdom.Div(vdom.ID("a"), vdom.Class("y"), vdom.AttrOf("hidden", false))
	h.p.Patch(old, next)

	assert.Equal(t, map[string]string{"id": "a", "class": "y"}, div.Attrs)
	assert.Equal(t, 1, h.countOps(OpSetAttr))
	assert.Equal(t, 1, h.countOps(OpRemoveAttr))
}

func TestMustUsePropRoutesToProperty(t *testing.T) {
	h := newHarness(t)
	in := vdom.Input(vdom.Type("text"), vdom.AttrOf("value", "hello"))
	h.p.Patch(nil, in)

	n := in.Elm.(*memdom.Node)
	assert.Equal(t, "hello", n.Props["value"])
	assert.NotContains(t, n.Attrs, "value")
}

func TestPropsAndStyle(t *testing.T) {
	h := newHarness(t)
	old := vdom.Input(vdom.Checked(true), vdom.StyleProp("color", "red"), vdom.StyleProp("margin", "0"))
	n := h.mount(old)

	next := vdom.Input(vdom.Value("v"), vdom.StyleProp("color", "blue"))
	h.p.Patch(old, next)

	assert.Equal(t, map[string]any{"value": "v"}, n.Props)
	assert.Equal(t, map[string]string{"color": "blue"}, n.Style)
}

func TestListenerInvokerIsStable(t *testing.T) {
	h := newHarness(t)
	var got []string
	old := vdom.Button(vdom.OnClick(func(any) { got = append(got, "first") }))
	btn := h.mount(old)

	next := vdom.Button(vdom.OnClick(func(any) { got = append(got, "second") }))
	h.p.Patch(old, next)

	assert.Equal(t, 0, h.countOps(OpAddListener))
	assert.Equal(t, 0, h.countOps(OpRemoveListener))
	btn.Dispatch("click", nil)
	assert.Equal(t, []string{"second"}, got)

	last := vdom.Button(vdom.ID("no-listeners"))
	h.p.Patch(next, last)
	assert.Equal(t, 1, h.countOps(OpRemoveListener))
	assert.False(t, btn.Dispatch("click", nil))
}

func TestVnodeHooks(t *testing.T) {
	h := newHarness(t)
	var events []string
	hooks := &vdom.Hooks{
		Create: func(_, v *vdom.VNode) { events = append(events, "create") },
		Insert: func(v *vdom.VNode) {
			parent := v.Elm.(*memdom.Node).Parent
			events = append(events, "insert:"+parent.Tag)
		},
		Update:  func(_, _ *vdom.VNode) { events = append(events, "update") },
		Destroy: func(*vdom.VNode) { events = append(events, "destroy") },
	}

	old := vdom.Div(vdom.Span(hooks, "x"))
	div := h.mount(old)
	// The detached root patch still flushes insert hooks, after the span
	// has been attached to its parent.
	assert.Equal(t, []string{"create", "insert:div"}, events)
	events = nil

	next := vdom.Div(vdom.Span(hooks, "y"))
	h.p.Patch(old, next)
	assert.Equal(t, []string{"update"}, events)
	events = nil

	h.p.Patch(next, vdom.Div())
	assert.Equal(t, []string{"destroy"}, events)
	assert.Empty(t, div.Children)
}

func TestPatchToNilDestroys(t *testing.T) {
	h := newHarness(t)
	destroyed := 0
	hooks := &vdom.Hooks{Destroy: func(*vdom.VNode) { destroyed++ }}
	tree := vdom.Div(hooks, vdom.P(hooks))
	h.mount(tree)

	assert.Nil(t, h.p.Patch(tree, nil))
	assert.Equal(t, 2, destroyed)
}

func TestCommentAndTextUpdates(t *testing.T) {
	h := newHarness(t)
	old := vdom.Div(vdom.Comment("a"), vdom.Text("t"))
	div := h.mount(old)

	next := vdom.Div(vdom.Comment("b"), vdom.Text("u"))
	h.p.Patch(old, next)

	assert.Equal(t, "b", div.Children[0].Text)
	assert.Equal(t, "u", div.Children[1].Text)
	assert.Equal(t, 2, h.countOps(OpSetText))
}

func TestReusedVnodeIsCloned(t *testing.T) {
	h := newHarness(t)
	shared := vdom.Span("s")
	first := vdom.Div(shared)
	h.mount(first)

	second := vdom.Div(shared, shared)
	h.p.Patch(first, second)

	div := second.Elm.(*memdom.Node)
	require.Len(t, div.Children, 2)
	assert.NotSame(t, div.Children[0], div.Children[1])
	assert.True(t, second.Children[1].IsCloned)
}

func TestExtraModules(t *testing.T) {
	var calls []string
	h := newHarness(t, WithModules(platform.Module{
		Name:    "trace",
		Create:  func(_, v *vdom.VNode) { calls = append(calls, "create:"+v.Tag) },
		Update:  func(_, v *vdom.VNode) { calls = append(calls, "update:"+v.Tag) },
		Destroy: func(v *vdom.VNode) { calls = append(calls, "destroy:"+v.Tag) },
	}))

	old := vdom.Div(vdom.ID("m"))
	h.mount(old)
	next := vdom.Div(vdom.ID("m"))
	h.p.Patch(old, next)
	h.p.Patch(next, nil)

	assert.Equal(t, []string{"create:div", "update:div", "destroy:div"}, calls)
}

func TestHydration(t *testing.T) {
	h := newHarness(t)
	server := h.doc.Build(vdom.Div(vdom.ID("app"), vdom.P("hello"), vdom.Button("go")))
	h.doc.Attach(h.doc.Body(), server)

	clicked := false
	tree := vdom.Div(vdom.ID("app"), vdom.P("hello"), vdom.Button(vdom.OnClick(func(any) { clicked = true }), "go"))
	elm := h.p.Mount(server, tree, true)

	assert.Same(t, server, elm)
	assert.Equal(t, 0, h.doc.Counts().Creates)
	assert.Same(t, server.Children[1], tree.Children[1].Elm)
	assert.True(t, server.Children[1].Dispatch("click", nil))
	assert.True(t, clicked)
	assert.Empty(t, h.warnings)
}

func TestHydrationMismatchFallsBack(t *testing.T) {
	h := newHarness(t)
	server := h.doc.Build(vdom.Div(vdom.ID("app"), vdom.P("hello")))
	h.doc.Attach(h.doc.Body(), server)

	tree := vdom.Div(vdom.ID("app"), vdom.Span("hello"))
	elm := h.p.Mount(server, tree, true)

	assert.NotSame(t, server, elm)
	require.NotEmpty(t, h.warnings)
	assert.Equal(t, "E122", h.warnings[len(h.warnings)-1].Code)
	body := h.doc.Body()
	require.Len(t, body.Children, 1)
	assert.Equal(t, "span", body.Children[0].Children[0].Tag)
}

func TestSameVnode(t *testing.T) {
	text := func(typ string) *vdom.VNode { return vdom.Input(vdom.Type(typ)) }

	tests := []struct {
		name string
		a, b *vdom.VNode
		want bool
	}{
		{"same tag", vdom.Div(), vdom.Div(), true},
		{"different tag", vdom.Div(), vdom.Span(), false},
		{"different key", vdom.Div(vdom.Key(1)), vdom.Div(vdom.Key(2)), false},
		{"data vs none", vdom.Div(vdom.ID("x")), vdom.Div(), false},
		{"text inputs", text("text"), text("email"), true},
		{"text vs checkbox", text("text"), text("checkbox"), false},
		{"text vs comment", vdom.Text(""), vdom.Comment(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sameVnode(tt.a, tt.b))
		})
	}
}

type stubInstance struct {
	root *vdom.VNode
}

func (s *stubInstance) Elm() any          { return s.root.Elm }
func (s *stubInstance) Root() *vdom.VNode { return s.root }

type stubHooks struct {
	p      *Patcher
	render func(label string) *vdom.VNode
	events []string
}

func (s *stubHooks) Init(v *vdom.VNode, _ bool) {
	s.events = append(s.events, "init")
	root := s.render(v.ComponentOptions.PropsData["label"].(string))
	root.Parent = v
	s.p.Patch(nil, root)
	v.ComponentInstance = &stubInstance{root: root}
}

func (s *stubHooks) Prepatch(old, v *vdom.VNode) {
	s.events = append(s.events, "prepatch")
	inst := old.ComponentInstance.(*stubInstance)
	v.ComponentInstance = inst
	next := s.render(v.ComponentOptions.PropsData["label"].(string))
	next.Parent = v
	s.p.Patch(inst.root, next)
	inst.root = next
}

func (s *stubHooks) Insert(*vdom.VNode) { s.events = append(s.events, "insert") }

func (s *stubHooks) Destroy(v *vdom.VNode) {
	s.events = append(s.events, "destroy")
	s.p.Patch(v.ComponentInstance.Root(), nil)
}

func TestComponentPlaceholder(t *testing.T) {
	h := newHarness(t)
	stub := &stubHooks{p: h.p}
	stub.render = func(label string) *vdom.VNode {
		return vdom.Span(&vdom.Hooks{
			Insert: func(*vdom.VNode) { stub.events = append(stub.events, "root-insert") },
		}, label)
	}
	placeholder := func(label string) *vdom.VNode {
		return &vdom.VNode{
			Kind: vdom.KindComponent,
			Tag:  "trellis-component-1-stub",
			ComponentOptions: &vdom.ComponentOptions{
				Ctor:      "stub",
				PropsData: map[string]any{"label": label},
				Hooks:     stub,
			},
		}
	}

	old := vdom.Div(placeholder("one"))
	div := h.mount(old)
	assert.Equal(t, []string{"init", "root-insert", "insert"}, stub.events)
	assert.Equal(t, "<div><span>one</span></div>", memdom.RenderString(div))
	span := div.Children[0]
	stub.events = nil

	next := vdom.Div(placeholder("two"))
	h.p.Patch(old, next)
	assert.Equal(t, []string{"prepatch"}, stub.events)
	assert.Same(t, span, div.Children[0])
	assert.Equal(t, "two", div.TextContent())
	stub.events = nil

	h.p.Patch(next, vdom.Div())
	assert.Equal(t, []string{"destroy"}, stub.events)
	assert.Empty(t, div.Children)
}
