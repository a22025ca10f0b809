package vdom

import "testing"

func TestCreateElement(t *testing.T) {
	t.Run("basic element", func(t *testing.T) {
		node := Div()
		if node.Kind != KindElement {
			t.Errorf("Kind = %v, want KindElement", node.Kind)
		}
		if node.Tag != "div" {
			t.Errorf("Tag = %v, want div", node.Tag)
		}
		if node.Data != nil {
			t.Errorf("Data = %+v, want nil for a plain element", node.Data)
		}
	})

	t.Run("attributes by category", func(t *testing.T) {
		node := Input(Class("a", "b"), Value("v"), StyleProp("color", "red"), Key(7))
		if node.Data.Attrs["class"] != "a b" {
			t.Errorf("class = %v, want %q", node.Data.Attrs["class"], "a b")
		}
		if node.Data.Props["value"] != "v" {
			t.Errorf("value prop = %v, want v", node.Data.Props["value"])
		}
		if node.Data.Style["color"] != "red" {
			t.Errorf("color = %v, want red", node.Data.Style["color"])
		}
		if node.Key != "7" {
			t.Errorf("Key = %q, want 7", node.Key)
		}
		if _, ok := node.Data.Attrs["key"]; ok {
			t.Error("key must not be stored as an attribute")
		}
	})

	t.Run("key alone leaves data nil", func(t *testing.T) {
		if node := Li(Key("x")); node.Data != nil {
			t.Errorf("Data = %+v, want nil", node.Data)
		}
	})

	t.Run("children", func(t *testing.T) {
		node := Div(H1("Title"), nil, []*VNode{P(), nil, Span()}, "tail")
		if len(node.Children) != 4 {
			t.Fatalf("Children len = %v, want 4", len(node.Children))
		}
		if node.Children[3].Kind != KindText || node.Children[3].Text != "tail" {
			t.Errorf("last child = %+v, want text tail", node.Children[3])
		}
	})

	t.Run("attr slice", func(t *testing.T) {
		node := Div([]Attr{ID("x"), {}})
		if node.Data.Attrs["id"] != "x" || len(node.Data.Attrs) != 1 {
			t.Errorf("Attrs = %v, want only id", node.Data.Attrs)
		}
	})

	t.Run("hooks", func(t *testing.T) {
		h := &Hooks{Insert: func(*VNode) {}}
		if node := Div(h); node.Data.Hook != h {
			t.Error("hooks not attached")
		}
	})

	t.Run("custom tag", func(t *testing.T) {
		if node := H("my-widget"); node.Tag != "my-widget" {
			t.Errorf("Tag = %v, want my-widget", node.Tag)
		}
	})
}

func TestEventHandlers(t *testing.T) {
	var got any
	node := Button(OnClick(func(e any) { got = e }), On("", func(any) {}), OnInput(nil))

	if len(node.Data.On) != 1 {
		t.Fatalf("On = %v, want only click", node.Data.On)
	}
	inv := &Invoker{Fn: node.Data.On["click"]}
	inv.Call("evt")
	if got != "evt" {
		t.Errorf("handler got %v, want evt", got)
	}

	inv.Fn = nil
	inv.Call("ignored")
	if got != "evt" {
		t.Errorf("nil invoker called through: %v", got)
	}
}

func TestInputType(t *testing.T) {
	tests := []struct {
		name string
		node *VNode
		want string
	}{
		{"attribute", Input(Type("email")), "email"},
		{"property", Input(Prop("type", "checkbox")), "checkbox"},
		{"unset", Input(), ""},
		{"not an input", Button(Type("submit")), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.InputType(); got != tt.want {
				t.Errorf("InputType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClone(t *testing.T) {
	child := Span()
	orig := Div(ID("x"), child)
	orig.Elm = "committed"

	c := orig.Clone()
	if c == orig {
		t.Fatal("Clone returned the same node")
	}
	if c.Elm != nil {
		t.Errorf("clone Elm = %v, want nil", c.Elm)
	}
	if !c.IsCloned || orig.IsCloned {
		t.Error("only the clone must be marked")
	}
	if c.Data != orig.Data {
		t.Error("clone must share Data")
	}

	c.Children[0] = P()
	if orig.Children[0] != child {
		t.Error("clone must own its Children slice")
	}

	if (*VNode)(nil).Clone() != nil {
		t.Error("nil Clone must be nil")
	}
}

func TestKindPredicates(t *testing.T) {
	placeholder := &VNode{Kind: KindComponent, Tag: "c", ComponentOptions: &ComponentOptions{}}

	if !Empty().IsComment() || Div().IsComment() {
		t.Error("IsComment mismatch")
	}
	if !placeholder.IsComponent() || Div().IsComponent() {
		t.Error("IsComponent mismatch")
	}
	if Text("x").HasTag() || !Div().HasTag() || !placeholder.HasTag() {
		t.Error("HasTag mismatch")
	}
	if KindComponent.String() != "Component" || VKind(99).String() != "Unknown" {
		t.Error("VKind.String mismatch")
	}
}
