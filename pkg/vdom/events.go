package vdom

// On attaches a listener for the named event.
func On(name string, handler Handler) EventHandler {
	return EventHandler{Event: name, Handler: handler}
}

// Mouse events

// OnClick handles click events.
func OnClick(handler Handler) EventHandler { return On("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler Handler) EventHandler { return On("dblclick", handler) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(handler Handler) EventHandler { return On("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler Handler) EventHandler { return On("keyup", handler) }

// Form events

// OnInput handles input events (fired when value changes).
func OnInput(handler Handler) EventHandler { return On("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler Handler) EventHandler { return On("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler Handler) EventHandler { return On("submit", handler) }

// OnFocus handles focus events.
func OnFocus(handler Handler) EventHandler { return On("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler Handler) EventHandler { return On("blur", handler) }
