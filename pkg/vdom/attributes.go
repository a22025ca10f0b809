package vdom

import (
	"fmt"
	"strings"
)

// attr creates an attribute Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Kind: AttrAttribute, Key: key, Value: value}
}

// AttrOf sets an arbitrary attribute.
func AttrOf(key string, value any) Attr { return attr(key, value) }

// Prop sets a platform property rather than an attribute.
func Prop(key string, value any) Attr { return Attr{Kind: AttrProperty, Key: key, Value: value} }

// StyleProp sets one style declaration.
func StyleProp(name, value string) Attr { return Attr{Kind: AttrStyle, Key: name, Value: value} }

// Key sets the reconciliation key.
// The key is converted to a string using fmt.Sprintf.
func Key(key any) Attr {
	return Attr{Kind: AttrKey, Key: "key", Value: fmt.Sprintf("%v", key)}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// DataAttr creates a data-* attribute.
// Example: DataAttr("id", "123") → data-id="123"
func DataAttr(key, value string) Attr { return attr("data-"+key, value) }

// TitleAttr sets the title attribute.
func TitleAttr(title string) Attr { return attr("title", title) }

// Link attributes

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", text) }

// Form attributes

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Disabled sets the disabled attribute.
func Disabled() Attr { return attr("disabled", true) }

// For sets the for attribute of a label.
func For(id string) Attr { return attr("for", id) }

// Value sets the value property. Values are properties so that edits made
// on the platform side don't desynchronize them.
func Value(value any) Attr { return Prop("value", value) }

// Checked sets the checked property.
func Checked(checked bool) Attr { return Prop("checked", checked) }

// Selected sets the selected property.
func Selected(selected bool) Attr { return Prop("selected", selected) }
