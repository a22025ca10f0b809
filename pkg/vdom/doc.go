// Package vdom provides the virtual tree: lightweight descriptions of the
// rendered output that render functions produce and the reconciler diffs.
//
// # Core Types
//
// VNode is the fundamental building block representing elements, text,
// comments and component placeholders. Data holds the per-category
// properties of an element (attributes, DOM properties, style, listeners)
// and its lifecycle hooks.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), Key("row-1"),
//	    H1(Text("Title")),
//	    Input(Type("text"), Value(name), OnInput(handler)),
//	)
//
// # Components
//
// A component placeholder carries ComponentOptions. Its ComponentHooks
// create, update, insert and destroy the instance behind it; once created,
// ComponentInstance exposes the platform node the instance rendered.
package vdom
