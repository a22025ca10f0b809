package memdom

import "strings"

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)

	// Attribute values are always double quoted. Whitespace control
	// characters are kept as references so values survive a round trip.
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)

	// "--" would end a comment early.
	commentEscaper = strings.NewReplacer("--", "- -")
)

func escapeText(s string) string    { return textEscaper.Replace(s) }
func escapeAttr(s string) string    { return attrEscaper.Replace(s) }
func escapeComment(s string) string { return commentEscaper.Replace(s) }
