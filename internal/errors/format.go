package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
)

type style string

const (
	styleReset  style = "\033[0m"
	styleRed    style = "\033[31m"
	styleYellow style = "\033[33m"
	styleCyan   style = "\033[36m"
	styleGray   style = "\033[90m"
	styleBold   style = "\033[1m"
)

var plain atomic.Bool

// DisableColors turns off ANSI escapes in Format and PrintError.
func DisableColors() { plain.Store(true) }

// EnableColors turns ANSI escapes back on.
func EnableColors() { plain.Store(false) }

func paint(text string, styles ...style) string {
	if plain.Load() || len(styles) == 0 {
		return text
	}
	var b strings.Builder
	for _, s := range styles {
		b.WriteString(string(s))
	}
	b.WriteString(text)
	b.WriteString(string(styleReset))
	return b.String()
}

// Format renders the error as a multi-line block for a terminal.
func (e *Error) Format() string {
	var b strings.Builder

	head := "ERROR: "
	if e.Code != "" {
		head = "ERROR " + e.Code + ": "
	}
	fmt.Fprintf(&b, "\n%s%s\n\n", paint(head, styleRed, styleBold), e.Message)

	var where []string
	if e.Component != "" {
		where = append(where, paint("in <"+e.Component+">", styleCyan))
	}
	if e.Info != "" {
		where = append(where, e.Info)
	}
	if len(where) > 0 {
		fmt.Fprintf(&b, "  %s\n\n", strings.Join(where, ": "))
	}

	if lines := fill(e.Detail, 70); len(lines) > 0 {
		for _, line := range lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteByte('\n')
	}

	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s%s\n", paint("Cause: ", styleYellow), e.Wrapped)
	}
	return b.String()
}

// FormatCompact renders the error on one line.
func (e *Error) FormatCompact() string {
	parts := make([]string, 0, 3)
	if e.Component != "" {
		parts = append(parts, "<"+e.Component+">")
	}
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	parts = append(parts, msg)
	if e.Info != "" {
		parts = append(parts, paint("("+e.Info+")", styleGray))
	}
	return strings.Join(parts, " ")
}

type jsonError struct {
	Code      string   `json:"code,omitempty"`
	Category  Category `json:"category"`
	Message   string   `json:"message"`
	Detail    string   `json:"detail,omitempty"`
	Info      string   `json:"info,omitempty"`
	Component string   `json:"component,omitempty"`
	Cause     string   `json:"cause,omitempty"`
}

// FormatJSON renders the error as a JSON object.
func (e *Error) FormatJSON() string {
	out := jsonError{
		Code:      e.Code,
		Category:  e.Category,
		Message:   e.Message,
		Detail:    e.Detail,
		Info:      e.Info,
		Component: e.Component,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

// fill breaks text into lines of at most width bytes on word boundaries.
// A single word longer than width gets a line of its own.
func fill(text string, width int) []string {
	var (
		lines []string
		line  []string
		n     int
	)
	for _, word := range strings.Fields(text) {
		if n > 0 && n+1+len(word) > width {
			lines = append(lines, strings.Join(line, " "))
			line, n = line[:0], 0
		}
		if n > 0 {
			n++
		}
		line = append(line, word)
		n += len(word)
	}
	if n > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return lines
}

// PrintError writes err to stderr, using Format for *Error values.
func PrintError(err error) {
	FprintError(os.Stderr, err)
}

// FprintError is PrintError with an explicit writer.
func FprintError(w io.Writer, err error) {
	var te *Error
	if errors.As(err, &te) {
		io.WriteString(w, te.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint("ERROR:", styleRed, styleBold), err)
}
