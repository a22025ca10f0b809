package vtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/trellis/pkg/memdom"
	"github.com/vango-dev/trellis/pkg/vdom"
)

// RenderToString renders a tree without a runtime. Component placeholders
// produce no output.
//
//	html := vtest.RenderToString(vdom.P("hi"))
func RenderToString(node *vdom.VNode) string {
	if n := memdom.NewDocument().Build(node); n != nil {
		return memdom.RenderString(n)
	}
	return ""
}

// ExpectContains fails t unless the rendered node contains want.
func ExpectContains(t testing.TB, node *vdom.VNode, want string) {
	t.Helper()
	expectIn(t, node, want, "text %q", want)
}

// ExpectElement fails t unless the rendered node has a <tag> element.
func ExpectElement(t testing.TB, node *vdom.VNode, tag string) {
	t.Helper()
	expectIn(t, node, "<"+tag, "element <%s>", tag)
}

// ExpectAttribute fails t unless some element carries attr="value".
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	expectIn(t, node, attr+`="`+value+`"`, "attribute %s=%q", attr, value)
}

func expectIn(t testing.TB, node *vdom.VNode, needle, what string, args ...any) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, needle) {
		return
	}
	args = append(args, clip(html))
	t.Errorf("missing "+what+" in:\n%s", args...)
}

const clipAt = 500

func clip(s string) string {
	if len(s) <= clipAt {
		return s
	}
	return s[:clipAt] + "..."
}
