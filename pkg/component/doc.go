// Package component implements component instances on top of the reactive
// runtime and the reconciler.
//
// An instance owns its state (props, data, computed values and user
// watchers) and a render watcher. The render watcher re-runs the render
// function whenever state it read changes and patches the result against
// the previously committed tree:
//
//	rt := reactive.NewRuntime()
//	doc := memdom.NewDocument()
//	r := component.NewRenderer(rt, patch.New(doc, doc))
//
//	counter := &component.Options{
//	    Name: "Counter",
//	    Data: func(*component.Instance) map[string]any {
//	        return map[string]any{"count": 0}
//	    },
//	    Render: func(i *component.Instance) *vdom.VNode {
//	        return vdom.Button(
//	            vdom.OnClick(func(any) { i.Set("count", i.Get("count").(int)+1) }),
//	            vdom.Textf("%d", i.Get("count")),
//	        )
//	    },
//	}
//	app := r.Mount(counter, nil, false)
//
// Child components are rendered through placeholders created with
// Instance.Component. KeepAlive caches child instances across renders.
package component
