package patch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	terrors "github.com/vango-dev/trellis/internal/errors"
	"github.com/vango-dev/trellis/pkg/platform"
	"github.com/vango-dev/trellis/pkg/telemetry"
	"github.com/vango-dev/trellis/pkg/vdom"
)

// Patcher applies virtual tree changes to one platform.
type Patcher struct {
	ops      platform.NodeOps
	setters  platform.Setters
	preds    platform.Predicates
	hydrator platform.Hydrator
	modules  []platform.Module

	warn     func(*terrors.Error)
	recorder Recorder
	metrics  *telemetry.Metrics
	tracer   *telemetry.Tracer
}

// Option configures a Patcher.
type Option func(*Patcher)

// WithPredicates sets the tag predicates. Without them namespaces are not
// inferred, attributes are never promoted to properties and unknown
// elements are not reported.
func WithPredicates(preds platform.Predicates) Option {
	return func(p *Patcher) {
		p.preds = preds
	}
}

// WithHydrator sets the hydration accessor. By default the NodeOps value is
// used when it implements platform.Hydrator.
func WithHydrator(h platform.Hydrator) Option {
	return func(p *Patcher) {
		p.hydrator = h
	}
}

// WithModules adds extra per-element modules.
func WithModules(modules ...platform.Module) Option {
	return func(p *Patcher) {
		p.modules = append(p.modules, modules...)
	}
}

// WithWarnHandler sets where reconciler warnings go.
func WithWarnHandler(fn func(*terrors.Error)) Option {
	return func(p *Patcher) {
		p.warn = fn
	}
}

// WithRecorder sets a recorder that receives every applied operation.
func WithRecorder(r Recorder) Option {
	return func(p *Patcher) {
		p.recorder = r
	}
}

// WithMetrics counts applied operations and patch durations.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(p *Patcher) {
		p.metrics = m
	}
}

// WithTracer records a span per top-level patch.
func WithTracer(t *telemetry.Tracer) Option {
	return func(p *Patcher) {
		p.tracer = t
	}
}

// New creates a Patcher.
func New(ops platform.NodeOps, setters platform.Setters, opts ...Option) *Patcher {
	p := &Patcher{
		ops:     ops,
		setters: setters,
	}
	if h, ok := ops.(platform.Hydrator); ok {
		p.hydrator = h
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NodeOps returns the node operations the Patcher drives.
func (p *Patcher) NodeOps() platform.NodeOps {
	return p.ops
}

// insertQueue collects vnodes whose insert hooks fire once the whole tree
// is attached.
type insertQueue struct {
	nodes []*vdom.VNode
}

func (q *insertQueue) push(v ...*vdom.VNode) {
	q.nodes = append(q.nodes, v...)
}

// Patch reconciles old into vnode and returns the platform node of vnode.
//
//   - old == nil creates vnode without attaching it (a component's first
//     render).
//   - vnode == nil destroys old.
//   - otherwise same nodes are patched in place and different nodes are
//     replaced in old's parent.
func (p *Patcher) Patch(old, vnode *vdom.VNode) any {
	return p.patch(old, nil, vnode, false)
}

// Mount renders vnode in place of the existing platform node target. With
// hydrating set, target is adopted when it matches vnode. A nil target
// creates vnode detached.
func (p *Patcher) Mount(target platform.Node, vnode *vdom.VNode, hydrating bool) any {
	return p.patch(nil, target, vnode, hydrating)
}

func (p *Patcher) patch(old *vdom.VNode, target platform.Node, vnode *vdom.VNode, hydrating bool) any {
	if vnode == nil {
		if old != nil {
			p.invokeDestroyHook(old)
		}
		return nil
	}

	start := time.Now()
	_, span := p.tracer.Start(context.Background(), "trellis.patch",
		attribute.String("trellis.vnode.tag", vnode.Tag))
	defer func() {
		span.End()
		p.metrics.ObservePatch(time.Since(start))
	}()

	q := &insertQueue{}
	isInitialPatch := false

	switch {
	case old == nil && target == nil:
		isInitialPatch = true
		p.createElm(vnode, q, nil, nil, nil, 0)

	case old != nil && sameVnode(old, vnode):
		p.patchVnode(old, vnode, q, nil, 0)

	default:
		if old == nil {
			if hydrating {
				if p.hydrator != nil && p.hydrate(target, vnode, q) {
					p.invokeInsertHook(vnode, q, true)
					return target
				}
				p.warnf("E122", "hydrating <%s>: rendered tree does not match existing content", vnode.Tag)
			}
			old = p.emptyNodeAt(target)
		}

		oldElm := old.Elm
		parentElm := p.ops.ParentNode(oldElm)

		var next platform.Node
		if oldElm != nil {
			next = p.ops.NextSibling(oldElm)
		}
		p.createElm(vnode, q, parentElm, next, nil, 0)
		p.record(Op{Kind: OpReplace, Node: vnode.Elm, Ref: oldElm})

		if vnode.Parent != nil {
			p.updateAncestors(vnode)
		}

		if parentElm != nil {
			p.removeVnodes([]*vdom.VNode{old}, 0, 0)
		} else if old.HasTag() {
			p.invokeDestroyHook(old)
		}
	}

	p.invokeInsertHook(vnode, q, isInitialPatch)
	return vnode.Elm
}

// updateAncestors points every placeholder whose component rendered vnode
// as its root at vnode's new element.
func (p *Patcher) updateAncestors(vnode *vdom.VNode) {
	patchable := isPatchable(vnode)
	for ancestor := vnode.Parent; ancestor != nil; ancestor = ancestor.Parent {
		p.destroyModules(ancestor)
		ancestor.Elm = vnode.Elm
		if patchable {
			p.createModules(emptyNode, ancestor)
		}
	}
}

// emptyNodeAt wraps an existing platform node in a childless vnode.
func (p *Patcher) emptyNodeAt(elm platform.Node) *vdom.VNode {
	v := &vdom.VNode{Kind: vdom.KindElement, Elm: elm}
	if elm != nil {
		v.Tag = strings.ToLower(p.ops.TagName(elm))
	}
	return v
}

func (p *Patcher) invokeInsertHook(vnode *vdom.VNode, q *insertQueue, initial bool) {
	// A component's first patch defers insert hooks until its placeholder
	// is inserted into the parent tree.
	if initial && vnode.Parent != nil {
		if vnode.Parent.Data == nil {
			vnode.Parent.Data = &vdom.Data{}
		}
		vnode.Parent.Data.PendingInsert = q.nodes
		return
	}
	for _, v := range q.nodes {
		if v.ComponentOptions != nil && v.ComponentOptions.Hooks != nil {
			v.ComponentOptions.Hooks.Insert(v)
		}
		if v.Data != nil && v.Data.Hook != nil && v.Data.Hook.Insert != nil {
			v.Data.Hook.Insert(v)
		}
	}
}

func (p *Patcher) invokeDestroyHook(vnode *vdom.VNode) {
	if vnode.Data != nil || vnode.ComponentOptions != nil {
		if vnode.ComponentOptions != nil && vnode.ComponentOptions.Hooks != nil {
			vnode.ComponentOptions.Hooks.Destroy(vnode)
		}
		if vnode.Data != nil && vnode.Data.Hook != nil && vnode.Data.Hook.Destroy != nil {
			vnode.Data.Hook.Destroy(vnode)
		}
		p.destroyModules(vnode)
	}
	for _, c := range vnode.Children {
		if c != nil {
			p.invokeDestroyHook(c)
		}
	}
}

func (p *Patcher) record(op Op) {
	p.metrics.IncPatchOp(op.Kind.String())
	if p.recorder != nil {
		p.recorder(op)
	}
}

func (p *Patcher) warnf(code, format string, args ...any) {
	if p.warn == nil {
		return
	}
	e := terrors.New(code)
	p.warn(e.WithInfo(fmt.Sprintf(format, args...)))
}
