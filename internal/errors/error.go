package errors

import (
	"errors"
	"fmt"
)

// Category represents the subsystem that produced an error.
type Category string

const (
	CategoryReactive  Category = "reactive"
	CategoryScheduler Category = "scheduler"
	CategoryRender    Category = "render"
	CategoryPatch     Category = "patch"
	CategoryConfig    Category = "config"
)

// Error is a structured runtime diagnostic.
type Error struct {
	// Code is a unique error identifier (e.g., "E103").
	Code string

	// Category is the subsystem that reported the error.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Info names where the error happened ("render", `callback for watcher "a.b"`).
	Info string

	// Component is the name of the component instance involved, if any.
	Component string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Info != "" {
		msg += " (" + e.Info + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithInfo records where the error happened.
func (e *Error) WithInfo(info string) *Error {
	e.Info = info
	return e
}

// WithComponent records the component the error belongs to.
func (e *Error) WithComponent(name string) *Error {
	e.Component = name
	return e
}

// WithDetail replaces the registered explanation.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return New(code).Wrap(err)
}

// FromPanic converts a recovered panic value into an error.
func FromPanic(v any) error {
	switch x := v.(type) {
	case nil:
		return nil
	case error:
		return x
	case string:
		return errors.New(x)
	default:
		return fmt.Errorf("%v", x)
	}
}

// CodeOf returns the code of err, or "" when err is not a coded Error.
func CodeOf(err error) string {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
