package component

import (
	"github.com/vango-dev/trellis/pkg/vdom"
)

// Hook identifies a lifecycle hook.
type Hook uint8

const (
	BeforeCreate Hook = iota + 1
	Created
	BeforeMount
	Mounted
	BeforeUpdate
	Updated
	Activated
	Deactivated
	BeforeDestroy
	Destroyed
)

// String returns the hook name used in diagnostics.
func (h Hook) String() string {
	switch h {
	case BeforeCreate:
		return "beforeCreate"
	case Created:
		return "created"
	case BeforeMount:
		return "beforeMount"
	case Mounted:
		return "mounted"
	case BeforeUpdate:
		return "beforeUpdate"
	case Updated:
		return "updated"
	case Activated:
		return "activated"
	case Deactivated:
		return "deactivated"
	case BeforeDestroy:
		return "beforeDestroy"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// RenderFunc produces the tree of an instance.
type RenderFunc func(i *Instance) *vdom.VNode

// Compiler turns a template into a render function.
type Compiler interface {
	Compile(template string) (RenderFunc, error)
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(template string) (RenderFunc, error)

// Compile calls f.
func (f CompilerFunc) Compile(template string) (RenderFunc, error) {
	return f(template)
}

// Prop declares a prop.
type Prop struct {
	// Default is used when the parent does not pass the prop.
	Default any

	// DefaultFunc computes the default per instance. It wins over Default.
	DefaultFunc func() any
}

// Watch declares a user watcher.
type Watch struct {
	Handler   func(i *Instance, value, old any)
	Deep      bool
	Immediate bool
	Sync      bool
}

// Options is a component definition. The same *Options value must be used
// for every render of a component: its pointer identity decides whether a
// placeholder can be patched in place.
type Options struct {
	// Name is used in diagnostics and by KeepAlive include/exclude.
	Name string

	// Abstract components are skipped when linking parents and children.
	Abstract bool

	Props    map[string]Prop
	Data     func(i *Instance) map[string]any
	Computed map[string]func(i *Instance) any
	Watch    map[string]Watch

	Render   RenderFunc
	Template string

	// RenderError renders a replacement tree after Render panicked.
	RenderError func(i *Instance, err error) *vdom.VNode

	Hooks map[Hook][]func(i *Instance)

	// ErrorCaptured is called for errors raised in descendants. Returning
	// true stops further propagation.
	ErrorCaptured func(err error, source *Instance, info string) bool
}

// OnHook appends fn to the handlers of h and returns o.
func (o *Options) OnHook(h Hook, fn func(i *Instance)) *Options {
	if o.Hooks == nil {
		o.Hooks = make(map[Hook][]func(*Instance))
	}
	o.Hooks[h] = append(o.Hooks[h], fn)
	return o
}

// Props are the prop values passed to a child component.
type Props map[string]any
