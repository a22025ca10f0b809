package memdom

import "github.com/vango-dev/trellis/pkg/platform"

var html platform.HTML

func isVoidElement(tag string) bool {
	return html.IsUnaryTag(tag)
}

// Phrasing content stays on one line in pretty output.
var phrasing = set(
	"a", "abbr", "b", "br", "cite", "code", "em", "i", "kbd", "label",
	"mark", "q", "s", "small", "span", "strong", "sub", "sup", "time",
	"u", "var",
)

func isInlineElement(tag string) bool {
	return phrasing[tag]
}

// Boolean attributes render bare when their value is "true" or their own
// name.
var booleanAttrs = set(
	"allowfullscreen", "async", "autofocus", "autoplay", "checked",
	"controls", "default", "defer", "disabled", "formnovalidate", "hidden",
	"inert", "ismap", "loop", "multiple", "muted", "nomodule", "novalidate",
	"open", "playsinline", "readonly", "required", "reversed", "selected",
)

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
