package vtest

import (
	"strings"
	"testing"

	terrors "github.com/vango-dev/trellis/internal/errors"
	"github.com/vango-dev/trellis/pkg/component"
	"github.com/vango-dev/trellis/pkg/memdom"
	"github.com/vango-dev/trellis/pkg/patch"
	"github.com/vango-dev/trellis/pkg/platform"
	"github.com/vango-dev/trellis/pkg/reactive"
	"github.com/vango-dev/trellis/pkg/vdom"
)

// Harness is a mounted component under test.
type Harness struct {
	t    testing.TB
	doc  *memdom.Document
	rt   *reactive.Runtime
	root *component.Instance
	app  *memdom.Node

	warnings []*terrors.Error
	errs     []error
}

type harnessConfig struct {
	runtime  []reactive.Option
	renderer []component.RendererOption
}

// Option configures a Harness.
type Option func(*harnessConfig)

// WithRuntimeOptions adds options to the runtime of the harness.
func WithRuntimeOptions(opts ...reactive.Option) Option {
	return func(c *harnessConfig) {
		c.runtime = append(c.runtime, opts...)
	}
}

// WithRendererOptions adds options to the component renderer.
func WithRendererOptions(opts ...component.RendererOption) Option {
	return func(c *harnessConfig) {
		c.renderer = append(c.renderer, opts...)
	}
}

// Mount renders def in place of an empty #app element.
func Mount(t testing.TB, def *component.Options, opts ...Option) *Harness {
	t.Helper()
	var cfg harnessConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Harness{t: t, doc: memdom.NewDocument()}
	ropts := append([]reactive.Option{
		reactive.WithWarnHandler(func(e *terrors.Error) { h.warnings = append(h.warnings, e) }),
		reactive.WithErrorHandler(func(err error, _ string) { h.errs = append(h.errs, err) }),
	}, cfg.runtime...)
	h.rt = reactive.NewRuntime(ropts...)

	p := patch.New(h.doc, h.doc,
		patch.WithPredicates(platform.HTML{}),
		patch.WithWarnHandler(h.rt.Warn),
	)
	r := component.NewRenderer(h.rt, p, cfg.renderer...)

	h.app = h.doc.Build(vdom.Div(vdom.ID("app")))
	h.doc.Attach(h.doc.Body(), h.app)
	h.root = r.Mount(def, h.app, false)
	return h
}

// Root returns the mounted instance.
func (h *Harness) Root() *component.Instance {
	return h.root
}

// Document returns the document the component is mounted in.
func (h *Harness) Document() *memdom.Document {
	return h.doc
}

// Tick drains the scheduler.
func (h *Harness) Tick() {
	h.rt.Tick()
}

// Set assigns a data field of the root and flushes.
func (h *Harness) Set(key string, val any) {
	h.t.Helper()
	if err := h.root.Set(key, val); err != nil {
		h.t.Fatalf("Set(%q): %v", key, err)
	}
	h.Tick()
}

// Dispatch invokes the listener for event on the element with the given
// id and flushes.
func (h *Harness) Dispatch(id, event string, payload any) {
	h.t.Helper()
	n := h.doc.Body().Find(id)
	if n == nil {
		h.t.Fatalf("no element #%s in:\n%s", id, clip(h.HTML()))
	}
	if !n.Dispatch(event, payload) {
		h.t.Fatalf("element #%s has no %q listener", id, event)
	}
	h.Tick()
}

// HTML renders the document body without the body element.
func (h *Harness) HTML() string {
	var sb strings.Builder
	r := memdom.NewRenderer(memdom.RenderConfig{})
	if err := r.RenderChildren(&sb, h.doc.Body()); err != nil {
		h.t.Fatalf("render: %v", err)
	}
	return sb.String()
}

// Warnings returns the codes of the reported warnings, in order.
func (h *Harness) Warnings() []string {
	codes := make([]string, 0, len(h.warnings))
	for _, w := range h.warnings {
		codes = append(codes, w.Code)
	}
	return codes
}

// Errors returns the errors passed to the runtime's error handler.
func (h *Harness) Errors() []error {
	return h.errs
}

// ExpectContains asserts that the rendered document contains expected.
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	if html := h.HTML(); !strings.Contains(html, expected) {
		h.t.Errorf("expected rendered output to contain %q, got:\n%s", expected, clip(html))
	}
}

// ExpectNotContains asserts that the rendered document does not contain
// unexpected.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	if html := h.HTML(); strings.Contains(html, unexpected) {
		h.t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, clip(html))
	}
}

// ExpectNoWarnings asserts that nothing was warned or reported.
func (h *Harness) ExpectNoWarnings() {
	h.t.Helper()
	if len(h.warnings) > 0 {
		h.t.Errorf("unexpected warnings: %v", h.Warnings())
	}
	if len(h.errs) > 0 {
		h.t.Errorf("unexpected errors: %v", h.errs)
	}
}
