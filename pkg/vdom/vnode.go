package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComment                // Comment or empty placeholder
	KindComponent              // Nested component placeholder
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// VNode is a virtual tree node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag, or the component tag for placeholders
	Data     *Data    // Properties and hooks; nil for plain nodes
	Children []*VNode // Child nodes
	Key      string   // Reconciliation key; "" means unkeyed
	Text     string   // For KindText and KindComment
	NS       string   // Element namespace

	// Elm is the committed platform node. Set by the reconciler.
	Elm any

	// Context is the component instance whose render produced this node.
	Context any

	// ComponentOptions is set on component placeholders.
	ComponentOptions *ComponentOptions

	// ComponentInstance is set once a placeholder's instance exists.
	ComponentInstance ComponentInstance

	// Parent is the placeholder of the component that rendered this node
	// as its root.
	Parent *VNode

	// IsCloned marks a copy made by Clone.
	IsCloned bool
}

// Data holds element properties by category plus lifecycle hooks.
type Data struct {
	Attrs map[string]any     // Platform attributes
	Props map[string]any     // Platform properties (value, checked, ...)
	Style map[string]string  // Style declarations
	On    map[string]Handler // Event listeners

	// Hook holds user-level vnode hooks and, on component placeholders,
	// the component management hooks.
	Hook *Hooks

	// KeepAlive marks a placeholder whose instance is cached by a
	// keep-alive ancestor.
	KeepAlive bool

	// PendingInsert holds insert-queue entries deferred from a component's
	// initial patch until the placeholder itself is inserted.
	PendingInsert []*VNode

	// Invokers holds the attached listener wrappers. Managed by the reconciler.
	Invokers map[string]*Invoker
}

// Handler is an event listener.
type Handler func(event any)

// Invoker is the listener actually attached to a platform node. Updating
// Fn swaps the handler without detaching and re-attaching.
type Invoker struct {
	Fn Handler
}

// Call invokes the current handler.
func (i *Invoker) Call(event any) {
	if i.Fn != nil {
		i.Fn(event)
	}
}

// Hooks are per-vnode callbacks invoked by the reconciler.
type Hooks struct {
	Create  func(empty, vnode *VNode)
	Insert  func(vnode *VNode)
	Update  func(old, vnode *VNode)
	Destroy func(vnode *VNode)
}

// ComponentHooks manage the instance behind a component placeholder.
type ComponentHooks interface {
	// Init creates (or reuses) and mounts the instance.
	Init(vnode *VNode, hydrating bool)

	// Prepatch transfers new placeholder data to the existing instance.
	Prepatch(old, vnode *VNode)

	// Insert runs once the instance's output is attached.
	Insert(vnode *VNode)

	// Destroy destroys or deactivates the instance.
	Destroy(vnode *VNode)
}

// ComponentOptions describes a component placeholder.
type ComponentOptions struct {
	Ctor      any                // Component definition
	PropsData map[string]any     // Props passed by the parent
	Listeners map[string]Handler // Component event listeners
	Children  []*VNode           // Slot content
	Tag       string             // Tag used in the parent template
	Hooks     ComponentHooks     // Instance management
}

// ComponentInstance is the instance behind a component placeholder.
type ComponentInstance interface {
	// Elm returns the platform node of the instance's root.
	Elm() any

	// Root returns the vnode tree the instance last rendered.
	Root() *VNode
}

// IsComment reports whether v is a comment node.
func (v *VNode) IsComment() bool {
	return v != nil && v.Kind == KindComment
}

// IsComponent reports whether v is a component placeholder.
func (v *VNode) IsComponent() bool {
	return v != nil && v.ComponentOptions != nil
}

// HasTag reports whether v creates a platform element or a component.
func (v *VNode) HasTag() bool {
	return v != nil && v.Tag != ""
}

// InputType returns the type attribute of an input element, or "".
func (v *VNode) InputType() string {
	if v == nil || v.Tag != "input" || v.Data == nil {
		return ""
	}
	if t, ok := v.Data.Attrs["type"].(string); ok {
		return t
	}
	if t, ok := v.Data.Props["type"].(string); ok {
		return t
	}
	return ""
}

// Clone returns a shallow copy of v for reusing a node that has already
// been committed elsewhere. The copy shares Data and child nodes but owns
// its Children slice and has no Elm.
func (v *VNode) Clone() *VNode {
	if v == nil {
		return nil
	}
	c := *v
	if v.Children != nil {
		c.Children = append([]*VNode(nil), v.Children...)
	}
	c.Elm = nil
	c.IsCloned = true
	return &c
}

// Attr represents a single categorized property.
type Attr struct {
	Kind  AttrKind
	Key   string
	Value any
}

// AttrKind selects the Data category an Attr is stored in.
type AttrKind uint8

const (
	AttrAttribute AttrKind = iota
	AttrProperty
	AttrStyle
	AttrKey
)

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event listener.
type EventHandler struct {
	Event   string  // "click", "input", etc.
	Handler Handler // Function to call
}
