package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

var colorEnabled = true

// DisableColors turns off ANSI colors in Format.
func DisableColors() { colorEnabled = false }

// EnableColors turns on ANSI colors in Format.
func EnableColors() { colorEnabled = true }

func color(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

func red(text string) string  { return color(colorRed, text) }
func blue(text string) string { return color(colorBlue, text) }
func cyan(text string) string { return color(colorCyan, text) }
func gray(text string) string { return color(colorGray, text) }
func bold(text string) string { return color(colorBold, text) }

// Format renders the error for a terminal.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	if e.Code != "" {
		b.WriteString(red(bold("ERROR " + e.Code + ": ")))
	} else {
		b.WriteString(red(bold("ERROR: ")))
	}
	b.WriteString(e.Message)
	b.WriteString("\n\n")

	if e.Location != nil {
		b.WriteString("  " + cyan(e.Location.String()) + "\n\n")
		for i, line := range e.Context {
			n := e.ContextStart + i
			if n == e.Location.Line {
				fmt.Fprintf(&b, "  %s%4d%s%s\n", red("→ "), n, gray(" │ "), line)
				if e.Location.Column > 0 {
					b.WriteString("        " + gray("│ ") + strings.Repeat(" ", e.Location.Column-1) + red("^") + "\n")
				}
				continue
			}
			fmt.Fprintf(&b, "    %4d%s%s\n", n, gray(" │ "), line)
		}
		if len(e.Context) > 0 {
			b.WriteString("\n")
		}
	}

	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	}
	if e.Wrapped != nil {
		b.WriteString("  " + gray("Cause: ") + e.Wrapped.Error() + "\n\n")
	}
	if e.Suggestion != "" {
		b.WriteString("  " + cyan("Hint: ") + e.Suggestion + "\n\n")
	}
	if e.DocURL != "" {
		b.WriteString("  " + gray("Learn more: ") + blue(e.DocURL) + "\n")
	}
	return b.String()
}

// FormatCompact returns a single line: [location: ]code: message.
func (e *Error) FormatCompact() string {
	var b strings.Builder
	if e.Location != nil {
		b.WriteString(e.Location.String() + ": ")
	}
	if e.Code != "" {
		b.WriteString(e.Code + ": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

type jsonError struct {
	Code       string        `json:"code,omitempty"`
	Category   Category      `json:"category"`
	Message    string        `json:"message"`
	Detail     string        `json:"detail,omitempty"`
	Location   *jsonLocation `json:"location,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
	Cause      string        `json:"cause,omitempty"`
	DocURL     string        `json:"docUrl,omitempty"`
}

// MarshalJSON encodes the error for machine consumers.
func (e *Error) MarshalJSON() ([]byte, error) {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Location != nil {
		out.Location = &jsonLocation{File: e.Location.File, Line: e.Location.Line, Column: e.Location.Column}
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	return json.Marshal(out)
}

func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+len(word)+1 > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// Print writes err to w, fully formatted when it is or wraps an *Error.
func Print(w io.Writer, err error) {
	var xe *Error
	if stderrors.As(err, &xe) {
		fmt.Fprint(w, xe.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", red(bold("ERROR:")), err.Error())
}
