package component

import (
	"fmt"
	"log/slog"

	terrors "github.com/vango-dev/trellis/internal/errors"
	"github.com/vango-dev/trellis/pkg/patch"
	"github.com/vango-dev/trellis/pkg/platform"
	"github.com/vango-dev/trellis/pkg/reactive"
	"github.com/vango-dev/trellis/pkg/vdom"
)

// Renderer ties one runtime to one patcher. Every instance created through
// it shares both.
type Renderer struct {
	rt       *reactive.Runtime
	patcher  *patch.Patcher
	compiler Compiler
	logger   *slog.Logger
	hooks    *componentHooks

	// active is the instance whose tree is being patched. Child instances
	// created during that patch link to it as their parent.
	active *Instance

	uid      uint64
	cids     map[*Options]int
	compiled map[*Options]RenderFunc
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithCompiler sets the compiler for Options.Template.
func WithCompiler(c Compiler) RendererOption {
	return func(r *Renderer) {
		r.compiler = c
	}
}

// WithLogger overrides the runtime's logger for lifecycle diagnostics.
func WithLogger(logger *slog.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(rt *reactive.Runtime, p *patch.Patcher, opts ...RendererOption) *Renderer {
	r := &Renderer{
		rt:       rt,
		patcher:  p,
		logger:   rt.Logger(),
		cids:     make(map[*Options]int),
		compiled: make(map[*Options]RenderFunc),
	}
	r.hooks = &componentHooks{r: r}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Runtime returns the reactive runtime.
func (r *Renderer) Runtime() *reactive.Runtime {
	return r.rt
}

// Patcher returns the patcher.
func (r *Renderer) Patcher() *patch.Patcher {
	return r.patcher
}

// Mount creates a root instance of def and mounts it in place of target.
// A nil target renders detached; the result is available from Elm.
func (r *Renderer) Mount(def *Options, target platform.Node, hydrating bool) *Instance {
	return New(r, def, nil, nil).Mount(target, hydrating)
}

// cid returns a stable per-definition id used in placeholder tags.
func (r *Renderer) cid(def *Options) int {
	id, ok := r.cids[def]
	if !ok {
		id = len(r.cids) + 1
		r.cids[def] = id
	}
	return id
}

// resolveRender returns the render function of def, compiling its
// template on first use.
func (r *Renderer) resolveRender(i *Instance) RenderFunc {
	def := i.opts
	if def.Render != nil {
		return def.Render
	}
	if fn, ok := r.compiled[def]; ok {
		return fn
	}
	if def.Template == "" || r.compiler == nil {
		info := "no render function"
		if def.Template != "" {
			info = "template given but the renderer has no compiler"
		}
		i.warn("E111", info)
		return emptyRender
	}
	fn, err := r.compiler.Compile(def.Template)
	if err != nil {
		r.rt.Warn(terrors.New("E113").
			WithInfo(fmt.Sprintf("template of %s", i.Name())).
			WithComponent(i.Name()).
			Wrap(err))
		fn = emptyRender
	}
	r.compiled[def] = fn
	return fn
}

func emptyRender(*Instance) *vdom.VNode {
	return vdom.Empty()
}
