package component

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "github.com/vango-dev/trellis/internal/errors"
	"github.com/vango-dev/trellis/pkg/memdom"
	"github.com/vango-dev/trellis/pkg/patch"
	"github.com/vango-dev/trellis/pkg/platform"
	"github.com/vango-dev/trellis/pkg/reactive"
	"github.com/vango-dev/trellis/pkg/vdom"
)

type fixture struct {
	doc      *memdom.Document
	rt       *reactive.Runtime
	r        *Renderer
	warnings []*terrors.Error
	errs     []error
	infos    []string
}

func newFixture(t *testing.T, opts ...RendererOption) *fixture {
	t.Helper()
	f := &fixture{doc: memdom.NewDocument()}
	f.rt = reactive.NewRuntime(
		reactive.WithWarnHandler(func(e *terrors.Error) { f.warnings = append(f.warnings, e) }),
		reactive.WithErrorHandler(func(err error, info string) {
			f.errs = append(f.errs, err)
			f.infos = append(f.infos, info)
		}),
	)
	p := patch.New(f.doc, f.doc,
		patch.WithPredicates(platform.HTML{}),
		patch.WithWarnHandler(f.rt.Warn),
	)
	f.r = NewRenderer(f.rt, p, opts...)
	return f
}

// mount renders def in place of an empty #app element.
func (f *fixture) mount(def *Options) *Instance {
	app := f.doc.Build(vdom.Div(vdom.ID("app")))
	f.doc.Attach(f.doc.Body(), app)
	return f.r.Mount(def, app, false)
}

func (f *fixture) html(t *testing.T) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, memdom.NewRenderer(memdom.RenderConfig{}).RenderChildren(&sb, f.doc.Body()))
	return sb.String()
}

func (f *fixture) warningCodes() []string {
	codes := make([]string, 0, len(f.warnings))
	for _, w := range f.warnings {
		codes = append(codes, w.Code)
	}
	return codes
}

var allHooks = []Hook{
	BeforeCreate, Created, BeforeMount, Mounted, BeforeUpdate, Updated,
	Activated, Deactivated, BeforeDestroy, Destroyed,
}

func logHooks(log *[]string, name string) map[Hook][]func(*Instance) {
	m := make(map[Hook][]func(*Instance), len(allHooks))
	for _, h := range allHooks {
		m[h] = []func(*Instance){func(*Instance) {
			*log = append(*log, name+" "+h.String())
		}}
	}
	return m
}

func counterData(*Instance) map[string]any {
	return map[string]any{"count": 0}
}

func TestMountAndUpdate(t *testing.T) {
	f := newFixture(t)
	renders := 0
	inst := f.mount(&Options{
		Name: "Counter",
		Data: counterData,
		Render: func(i *Instance) *vdom.VNode {
			renders++
			return vdom.P(vdom.Textf("count: %v", i.Get("count")))
		},
	})

	assert.True(t, inst.IsMounted())
	assert.Equal(t, "<p>count: 0</p>", f.html(t))

	require.NoError(t, inst.Set("count", 1))
	require.NoError(t, inst.Set("count", 2))
	assert.Equal(t, "<p>count: 0</p>", f.html(t), "updates are batched until the tick")

	f.rt.Tick()
	assert.Equal(t, "<p>count: 2</p>", f.html(t))
	assert.Equal(t, 2, renders)

	inst.ForceUpdate()
	f.rt.Tick()
	assert.Equal(t, 3, renders)
	assert.Empty(t, f.warnings)
}

func TestSetUnknownKey(t *testing.T) {
	f := newFixture(t)
	inst := f.mount(&Options{Data: counterData, Render: emptyRender})

	err := inst.Set("missing", 1)
	assert.ErrorIs(t, err, reactive.ErrRootData)
	assert.Equal(t, []string{"E102"}, f.warningCodes())
	assert.Nil(t, inst.Get("missing"))
}

func TestLifecycleOrder(t *testing.T) {
	f := newFixture(t)
	var log []string

	child := &Options{
		Name:  "Child",
		Props: map[string]Prop{"label": {Default: "none"}},
		Render: func(i *Instance) *vdom.VNode {
			return vdom.Span(vdom.Textf("%v", i.Get("label")))
		},
		Hooks: logHooks(&log, "child"),
	}
	parent := &Options{
		Name: "Parent",
		Data: counterData,
		Render: func(i *Instance) *vdom.VNode {
			return vdom.Div(
				vdom.Textf("parent %v", i.Get("count")),
				i.Component(child, Props{"label": i.Get("count")}),
			)
		},
		Hooks: logHooks(&log, "parent"),
	}

	inst := f.mount(parent)
	assert.Equal(t, []string{
		"parent beforeCreate", "parent created", "parent beforeMount",
		"child beforeCreate", "child created", "child beforeMount",
		"child mounted", "parent mounted",
	}, log)
	assert.Equal(t, "<div>parent 0<span>0</span></div>", f.html(t))

	require.Len(t, inst.Children(), 1)
	c := inst.Children()[0]
	assert.Same(t, inst, c.Parent())
	assert.Same(t, inst, c.RootInstance())
	assert.Equal(t, "Child", c.Name())

	log = nil
	require.NoError(t, inst.Set("count", 1))
	f.rt.Tick()
	assert.Equal(t, []string{
		"parent beforeUpdate", "child beforeUpdate",
		"child updated", "parent updated",
	}, log)
	assert.Equal(t, "<div>parent 1<span>1</span></div>", f.html(t))
	assert.Empty(t, f.warnings)

	log = nil
	inst.Destroy()
	assert.Equal(t, []string{
		"parent beforeDestroy", "child beforeDestroy", "child destroyed", "parent destroyed",
	}, log)
	assert.True(t, c.IsDestroyed())
	assert.False(t, inst.RenderWatcher().Active())

	log = nil
	inst.Destroy()
	assert.Empty(t, log, "destroy is idempotent")
}

func TestChildDestroyedWhenRemoved(t *testing.T) {
	f := newFixture(t)
	var log []string
	child := &Options{
		Name:   "Child",
		Render: func(*Instance) *vdom.VNode { return vdom.Span("child") },
		Hooks:  logHooks(&log, "child"),
	}
	inst := f.mount(&Options{
		Data: func(*Instance) map[string]any { return map[string]any{"show": true} },
		Render: func(i *Instance) *vdom.VNode {
			show, _ := i.Get("show").(bool)
			return vdom.Div(vdom.If(show, i.Component(child)))
		},
	})
	require.Len(t, inst.Children(), 1)
	c := inst.Children()[0]

	log = nil
	require.NoError(t, inst.Set("show", false))
	f.rt.Tick()

	assert.Equal(t, []string{"child beforeDestroy", "child destroyed"}, log)
	assert.True(t, c.IsDestroyed())
	assert.False(t, c.RenderWatcher().Active())
	assert.Empty(t, inst.Children())
}

func TestDefaultName(t *testing.T) {
	f := newFixture(t)
	root := f.mount(&Options{Render: emptyRender})
	assert.Equal(t, "Root", root.Name())
}

func TestPropsAreReadOnlyInChild(t *testing.T) {
	f := newFixture(t)
	var c *Instance
	child := &Options{
		Name:  "Child",
		Props: map[string]Prop{"label": {}, "size": {DefaultFunc: func() any { return 3 }}},
		Render: func(i *Instance) *vdom.VNode {
			return vdom.Span(vdom.Textf("%v/%v", i.Get("label"), i.Get("size")))
		},
		Hooks: map[Hook][]func(*Instance){Created: {func(i *Instance) { c = i }}},
	}
	f.mount(&Options{
		Render: func(i *Instance) *vdom.VNode {
			return vdom.Div(i.Component(child, vdom.AttrOf("label", "x"), vdom.TitleAttr("t")))
		},
	})

	require.NotNil(t, c)
	assert.Equal(t, `<div><span title="t">x/3</span></div>`, f.html(t))
	assert.Equal(t, "t", c.Attrs().Get("title"))
	assert.False(t, c.Props().Has("title"))
	assert.Empty(t, f.warnings)

	require.NoError(t, c.Set("label", "y"))
	assert.Equal(t, []string{"E115"}, f.warningCodes())
	assert.Equal(t, "Child", f.warnings[0].Component)

	require.NoError(t, c.Set("$attrs", nil))
	assert.Equal(t, []string{"E115", "E107"}, f.warningCodes())
}

func TestPropDefaultPanicFallsBack(t *testing.T) {
	f := newFixture(t)
	child := &Options{
		Name: "Child",
		Props: map[string]Prop{"size": {
			Default:     5,
			DefaultFunc: func() any { panic("no size") },
		}},
		Render: func(i *Instance) *vdom.VNode {
			return vdom.Span(vdom.Textf("%v", i.Get("size")))
		},
	}
	root := f.mount(&Options{
		Data: func(*Instance) map[string]any { return map[string]any{"n": 1} },
		Render: func(i *Instance) *vdom.VNode {
			return vdom.Div(vdom.P(vdom.Textf("%v", i.Get("n"))), i.Component(child))
		},
	})

	assert.Equal(t, `<div><p>1</p><span>5</span></div>`, f.html(t))
	require.Len(t, f.errs, 1)
	assert.Equal(t, "E116", terrors.CodeOf(f.errs[0]))
	assert.Equal(t, "prop default", f.infos[0])
	assert.True(t, f.rt.IsObserving(), "observation is restored after a failed default")

	require.NoError(t, root.Set("n", 2))
	f.rt.Tick()
	assert.Equal(t, `<div><p>2</p><span>5</span></div>`, f.html(t))
}

func TestEmit(t *testing.T) {
	f := newFixture(t)
	var c *Instance
	child := &Options{
		Render: func(*Instance) *vdom.VNode { return vdom.Span() },
		Hooks:  map[Hook][]func(*Instance){Mounted: {func(i *Instance) { c = i }}},
	}
	var got []any
	f.mount(&Options{
		Render: func(i *Instance) *vdom.VNode {
			return vdom.Div(i.Component(child,
				vdom.On("save", func(payload any) { got = append(got, payload) }),
				vdom.On("fail", func(any) { panic("listener failed") }),
			))
		},
	})

	require.NotNil(t, c)
	c.Emit("save", 42)
	c.Emit("unknown", 1)
	assert.Equal(t, []any{42}, got)

	c.Emit("fail", nil)
	require.Len(t, f.infos, 1)
	assert.Equal(t, `event handler for "fail"`, f.infos[0])
}

func TestRenderErrorKeepsPreviousTree(t *testing.T) {
	f := newFixture(t)
	inst := f.mount(&Options{
		Name: "Fragile",
		Data: counterData,
		Render: func(i *Instance) *vdom.VNode {
			if i.Get("count") == 1 {
				panic("boom")
			}
			return vdom.P(vdom.Textf("%v", i.Get("count")))
		},
	})

	require.NoError(t, inst.Set("count", 1))
	f.rt.Tick()

	assert.Equal(t, "<p>0</p>", f.html(t))
	require.Len(t, f.errs, 1)
	assert.Equal(t, "render", f.infos[0])
	assert.Equal(t, "E110", terrors.CodeOf(f.errs[0]))

	require.NoError(t, inst.Set("count", 2))
	f.rt.Tick()
	assert.Equal(t, "<p>2</p>", f.html(t), "the instance recovers on the next change")
}

func TestRenderErrorFallback(t *testing.T) {
	f := newFixture(t)
	var cause error
	f.mount(&Options{
		Render: func(*Instance) *vdom.VNode { panic(errors.New("broken")) },
		RenderError: func(_ *Instance, err error) *vdom.VNode {
			cause = err
			return vdom.P("fallback")
		},
	})

	assert.Equal(t, "<p>fallback</p>", f.html(t))
	require.Error(t, cause)
	assert.Contains(t, cause.Error(), "broken")
}

func TestErrorCaptured(t *testing.T) {
	tests := []struct {
		name       string
		stop       bool
		wantGlobal int
	}{
		{name: "stops propagation", stop: true, wantGlobal: 0},
		{name: "continues to the runtime handler", stop: false, wantGlobal: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			broken := &Options{
				Name:   "Broken",
				Render: func(*Instance) *vdom.VNode { panic("bad render") },
			}
			var source *Instance
			var info string
			f.mount(&Options{
				Name: "Boundary",
				ErrorCaptured: func(_ error, src *Instance, i string) bool {
					source, info = src, i
					return tt.stop
				},
				Render: func(i *Instance) *vdom.VNode {
					return vdom.Div(i.Component(broken))
				},
			})

			require.NotNil(t, source)
			assert.Equal(t, "Broken", source.Name())
			assert.Equal(t, "render", info)
			assert.Len(t, f.errs, tt.wantGlobal)
			assert.Equal(t, "<div><!----></div>", f.html(t))
		})
	}
}

func TestHookPanicIsReported(t *testing.T) {
	f := newFixture(t)
	ran := false
	def := &Options{Render: emptyRender}
	def.OnHook(Mounted, func(*Instance) { panic("hook failed") })
	def.OnHook(Mounted, func(*Instance) { ran = true })

	f.mount(def)
	assert.True(t, ran, "later handlers still run")
	require.Len(t, f.errs, 1)
	assert.Equal(t, "mounted hook", f.infos[0])
	assert.Equal(t, "E112", terrors.CodeOf(f.errs[0]))
}

func TestComputedAndWatch(t *testing.T) {
	f := newFixture(t)
	evaluations := 0
	type change struct{ value, old any }
	var changes []change

	inst := f.mount(&Options{
		Data: func(*Instance) map[string]any {
			return map[string]any{"first": "a", "last": "b"}
		},
		Computed: map[string]func(*Instance) any{
			"full": func(i *Instance) any {
				evaluations++
				return i.Get("first").(string) + " " + i.Get("last").(string)
			},
		},
		Watch: map[string]Watch{
			"full": {
				Handler: func(_ *Instance, value, old any) {
					changes = append(changes, change{value, old})
				},
				Immediate: true,
			},
		},
		Render: func(i *Instance) *vdom.VNode {
			return vdom.P(vdom.Textf("%v", i.Get("full")))
		},
	})

	assert.Equal(t, "<p>a b</p>", f.html(t))
	assert.Equal(t, []change{{"a b", nil}}, changes)
	assert.Equal(t, 1, evaluations, "the watcher and the render share one evaluation")

	require.NoError(t, inst.Set("first", "c"))
	f.rt.Tick()
	assert.Equal(t, "<p>c b</p>", f.html(t))
	assert.Equal(t, []change{{"a b", nil}, {"c b", "a b"}}, changes)
	assert.Equal(t, 2, evaluations)
}

func TestWatchAndUnwatch(t *testing.T) {
	f := newFixture(t)
	inst := f.mount(&Options{Data: counterData, Render: emptyRender})

	var seen []any
	unwatch := inst.Watch("count", func(value, _ any) { seen = append(seen, value) }, WatchOptions{})
	var doubled []any
	inst.WatchFunc(func() any { return inst.Get("count").(int) * 2 },
		func(value, _ any) { doubled = append(doubled, value) },
		WatchOptions{Sync: true})

	require.NoError(t, inst.Set("count", 1))
	assert.Equal(t, []any{2}, doubled, "sync watchers run immediately")
	assert.Empty(t, seen)
	f.rt.Tick()
	assert.Equal(t, []any{1}, seen)

	unwatch()
	require.NoError(t, inst.Set("count", 2))
	f.rt.Tick()
	assert.Equal(t, []any{1}, seen)
	assert.Equal(t, []any{2, 4}, doubled)
}

func TestImmediateWatchPanicIsReported(t *testing.T) {
	f := newFixture(t)
	f.mount(&Options{
		Data: counterData,
		Watch: map[string]Watch{
			"count": {
				Handler:   func(*Instance, any, any) { panic("no") },
				Immediate: true,
			},
		},
		Render: emptyRender,
	})
	require.Len(t, f.errs, 1)
	assert.Equal(t, "E106", terrors.CodeOf(f.errs[0]))
}

func TestTemplateCompilation(t *testing.T) {
	compiles := 0
	compiler := CompilerFunc(func(template string) (RenderFunc, error) {
		compiles++
		if template == "" {
			return nil, errors.New("empty")
		}
		if strings.HasPrefix(template, "!") {
			return nil, errors.New("syntax error")
		}
		return func(*Instance) *vdom.VNode { return vdom.P(template) }, nil
	})

	t.Run("compiled once per definition", func(t *testing.T) {
		f := newFixture(t, WithCompiler(compiler))
		def := &Options{Template: "hello"}
		compiles = 0
		f.mount(def)
		f.mount(def)
		assert.Equal(t, 1, compiles)
		assert.Equal(t, "<p>hello</p><p>hello</p>", f.html(t))
	})

	t.Run("compile error", func(t *testing.T) {
		f := newFixture(t, WithCompiler(compiler))
		f.mount(&Options{Template: "!bad"})
		assert.Equal(t, []string{"E113"}, f.warningCodes())
		assert.Equal(t, "<!---->", f.html(t))
	})

	t.Run("no compiler", func(t *testing.T) {
		f := newFixture(t)
		f.mount(&Options{Template: "hello"})
		assert.Equal(t, []string{"E111"}, f.warningCodes())
	})

	t.Run("no render", func(t *testing.T) {
		f := newFixture(t)
		f.mount(&Options{Name: "Blank"})
		assert.Equal(t, []string{"E111"}, f.warningCodes())
		assert.Equal(t, "Blank", f.warnings[0].Component)
	})
}

func TestHydrate(t *testing.T) {
	f := newFixture(t)
	server := f.doc.Build(vdom.Div(vdom.ID("app"), vdom.P("count: 0"), vdom.Span("child")))
	f.doc.Attach(f.doc.Body(), server)
	f.doc.ResetLog()

	child := &Options{Render: func(*Instance) *vdom.VNode { return vdom.Span("child") }}
	inst := f.r.Mount(&Options{
		Data: counterData,
		Render: func(i *Instance) *vdom.VNode {
			return vdom.Div(vdom.ID("app"), vdom.P(vdom.Textf("count: %v", i.Get("count"))), i.Component(child))
		},
	}, server, true)

	assert.Same(t, server, inst.Elm())
	assert.Equal(t, 0, f.doc.Counts().Creates)
	require.Len(t, inst.Children(), 1)
	assert.Same(t, server.Children[1], inst.Children()[0].Elm())
	assert.Empty(t, f.warnings)

	require.NoError(t, inst.Set("count", 5))
	f.rt.Tick()
	assert.Equal(t, `<div id="app"><p>count: 5</p><span>child</span></div>`, f.html(t))
	assert.Equal(t, 0, f.doc.Counts().Creates)
}

func TestSyncRuntime(t *testing.T) {
	f := &fixture{doc: memdom.NewDocument()}
	f.rt = reactive.NewRuntime(reactive.WithAsync(false))
	f.r = NewRenderer(f.rt, patch.New(f.doc, f.doc))

	inst := f.mount(&Options{
		Data: counterData,
		Render: func(i *Instance) *vdom.VNode {
			return vdom.P(vdom.Textf("%v", i.Get("count")))
		},
	})
	require.NoError(t, inst.Set("count", 3))
	assert.Equal(t, "<p>3</p>", f.html(t))
}
