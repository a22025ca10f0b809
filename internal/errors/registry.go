package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Reactive (E101-E109)

	"E101": {
		Category: CategoryReactive,
		Message:  "Cannot set or delete reactive property on nil or primitive value",
		Detail:   "Set and Delete only operate on *Object and *Array containers. The call was ignored.",
	},
	"E102": {
		Category: CategoryReactive,
		Message:  "Avoid adding or deleting reactive properties on instance root data",
		Detail:   "Root data of a component must be declared up front by its data factory. Set the property to nil instead of deleting it.",
	},
	"E104": {
		Category: CategoryReactive,
		Message:  "Failed watching path",
		Detail:   "Watchers only accept simple dot-delimited paths. For full control, use a getter function instead.",
	},
	"E105": {
		Category: CategoryReactive,
		Message:  "Watcher getter failed",
		Detail:   "The tracked function of a user watcher panicked. The watcher keeps its previous value.",
	},
	"E106": {
		Category: CategoryReactive,
		Message:  "Watcher callback failed",
		Detail:   "The callback of a user watcher panicked.",
	},
	"E107": {
		Category: CategoryReactive,
		Message:  "Read-only property assigned",
		Detail:   "This property is owned by the parent component and is replaced on every parent render.",
	},

	// Scheduler (E103, E108)

	"E103": {
		Category: CategoryScheduler,
		Message:  "Infinite update loop",
		Detail:   "A watcher re-queued itself more times than the scheduler allows in a single flush. Its remaining runs were dropped for this flush.",
	},
	"E108": {
		Category: CategoryScheduler,
		Message:  "nextTick callback failed",
		Detail:   "A callback scheduled with NextTick panicked. Remaining callbacks still ran.",
	},

	// Render (E110-E119)

	"E110": {
		Category: CategoryRender,
		Message:  "Render function failed",
		Detail:   "The render function panicked. The previously committed tree was kept.",
	},
	"E111": {
		Category: CategoryRender,
		Message:  "Failed to mount component: template or render function not defined",
		Detail:   "Provide a Render function, or a Template together with a Compiler on the Renderer.",
	},
	"E112": {
		Category: CategoryRender,
		Message:  "Lifecycle hook failed",
		Detail:   "A lifecycle hook panicked. Other hooks and the lifecycle transition continued.",
	},
	"E113": {
		Category: CategoryRender,
		Message:  "Template compilation failed",
		Detail:   "The template compiler returned an error. The component renders an empty node.",
	},
	"E114": {
		Category: CategoryRender,
		Message:  "Multiple root nodes returned from render function",
		Detail:   "A render function must return a single root node.",
	},
	"E115": {
		Category: CategoryRender,
		Message:  "Prop mutated directly",
		Detail:   "Props are overwritten whenever the parent re-renders. Use data or a computed value based on the prop instead.",
	},
	"E116": {
		Category: CategoryRender,
		Message:  "Prop default function failed",
		Detail:   "The DefaultFunc of a prop panicked. The static Default value was used instead.",
	},

	// Patch (E120-E129)

	"E120": {
		Category: CategoryPatch,
		Message:  "Duplicate keys detected",
		Detail:   "Sibling nodes share a key. Reordering guarantees only hold for unique keys.",
	},
	"E121": {
		Category: CategoryPatch,
		Message:  "Unknown custom element",
		Detail:   "The tag is not reserved by the platform and no component was registered for it.",
	},
	"E122": {
		Category: CategoryPatch,
		Message:  "Hydration mismatch",
		Detail:   "The existing output does not match the virtual tree. Bailing hydration and performing full client-side render.",
	},

	// Config (E130-E139)

	"E130": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file has invalid values.",
	},
	"E131": {
		Category: CategoryConfig,
		Message:  "Configuration read failed",
		Detail:   "The configuration file could not be read or parsed.",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
