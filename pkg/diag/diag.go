// Package diag renders parser errors for terminals: the message, the input,
// and a caret underline beneath the offending span.
package diag

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/lemonberrylabs/boolcalc/pkg/expr"
)

var (
	colorError = lipgloss.Color("#EF4444")
	colorMuted = lipgloss.Color("#6B7280")

	MessageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	SourceStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	CaretStyle = lipgloss.NewStyle().
			Foreground(colorError)
)

// indent precedes the echoed input and the caret line.
const indent = "  "

// Render formats err for display. Errors without a position render as their
// message only. When styled is false the output is plain text.
func Render(input string, err error, styled bool) string {
	se, ok := expr.AsSpanError(err)
	if !ok {
		return style(MessageStyle, err.Error(), styled)
	}
	return RenderSpan(input, se.Error(), se.Position(), styled)
}

// RenderSpan formats message followed by input with span underlined. It is
// used directly when the span arrives from elsewhere, such as a remote
// error's details.
func RenderSpan(input, message string, span expr.Span, styled bool) string {
	var sb strings.Builder
	sb.WriteString(style(MessageStyle, message, styled))
	sb.WriteByte('\n')
	sb.WriteString(indent)
	sb.WriteString(style(SourceStyle, Flatten(input), styled))
	sb.WriteByte('\n')
	sb.WriteString(indent)
	sb.WriteString(strings.Repeat(" ", span.Start))
	sb.WriteString(style(CaretStyle, Underline(span), styled))
	return sb.String()
}

// Flatten replaces every whitespace character with a single space so that
// character offsets line up with terminal columns.
func Flatten(input string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, input)
}

// Underline returns the caret run covering span.
func Underline(span expr.Span) string {
	n := span.Len()
	if n < 1 {
		n = 1
	}
	return strings.Repeat("^", n)
}

func style(s lipgloss.Style, text string, styled bool) string {
	if !styled {
		return text
	}
	return s.Render(text)
}
