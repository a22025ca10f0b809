package main

import (
	"github.com/vango-dev/trellis/pkg/component"
	"github.com/vango-dev/trellis/pkg/reactive"
	"github.com/vango-dev/trellis/pkg/vdom"
)

// The demo app shows a keyed feed that rotates on every tick, a counter
// and a pair of tabs kept alive across switches.

var counter = &component.Options{
	Name: "Counter",
	Props: map[string]component.Prop{
		"label": {Default: "clicks"},
	},
	Data: func(*component.Instance) map[string]any {
		return map[string]any{"count": 0}
	},
	Render: func(i *component.Instance) *vdom.VNode {
		return vdom.Div(vdom.Class("counter"),
			vdom.Span(vdom.Textf("%v: %v", i.Get("label"), i.Get("count"))),
			vdom.Button(vdom.ID("increment"), vdom.On("click", func(any) {
				n, _ := i.Get("count").(int)
				i.Set("count", n+1)
				i.Emit("change", n+1)
			}), "+"),
		)
	},
}

var notes = &component.Options{
	Name: "Notes",
	Data: func(*component.Instance) map[string]any {
		return map[string]any{"text": ""}
	},
	Render: func(i *component.Instance) *vdom.VNode {
		return vdom.Div(vdom.Class("notes"),
			vdom.Input(vdom.ID("note"), vdom.Prop("value", i.Get("text")), vdom.On("input", func(ev any) {
				s, _ := ev.(string)
				i.Set("text", s)
			})),
			vdom.P(vdom.Textf("%d characters", len(stringOf(i.Get("text"))))),
		)
	},
}

var feed = &component.Options{
	Name: "Feed",
	Props: map[string]component.Prop{
		"items": {DefaultFunc: func() any { return reactive.NewArray() }},
	},
	Render: func(i *component.Instance) *vdom.VNode {
		items, _ := i.Get("items").(*reactive.Array)
		var children []*vdom.VNode
		if items != nil {
			for _, item := range items.Values() {
				children = append(children, vdom.Li(vdom.Key(item), vdom.Text(stringOf(item))))
			}
		}
		return vdom.Ul(vdom.Class("feed"), children)
	},
}

var tabs = map[string]*component.Options{
	"counter": counter,
	"notes":   notes,
}

// demoApp returns the root component of the demo.
func demoApp() *component.Options {
	return &component.Options{
		Name: "Demo",
		Data: func(*component.Instance) map[string]any {
			return map[string]any{
				"ticks":  0,
				"clicks": 0,
				"tab":    "counter",
				"items":  []any{"alpha", "beta", "gamma", "delta", "epsilon"},
			}
		},
		Computed: map[string]func(i *component.Instance) any{
			"head": func(i *component.Instance) any {
				items, _ := i.Get("items").(*reactive.Array)
				if items == nil || items.Len() == 0 {
					return ""
				}
				return items.At(0)
			},
		},
		Render: func(i *component.Instance) *vdom.VNode {
			tab := stringOf(i.Get("tab"))
			next := "notes"
			if tab == "notes" {
				next = "counter"
			}
			return vdom.Div(vdom.Class("demo"),
				vdom.H1("trellis"),
				vdom.P(vdom.Textf("tick %v, head %v, clicks %v", i.Get("ticks"), i.Get("head"), i.Get("clicks"))),
				vdom.Button(vdom.ID("toggle"), vdom.On("click", func(any) { i.Set("tab", next) }), "show "+next),
				i.Component(component.KeepAlive,
					i.Component(tabs[tab], vdom.On("change", func(n any) { i.Set("clicks", n) })),
				),
				i.Component(feed, component.Props{"items": i.Get("items")}),
			)
		},
	}
}

// tick advances the demo: the feed rotates by one.
func tick(root *component.Instance) {
	n, _ := root.Get("ticks").(int)
	root.Set("ticks", n+1)
	if items, ok := root.Get("items").(*reactive.Array); ok && items.Len() > 0 {
		items.Push(items.Shift())
	}
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}
