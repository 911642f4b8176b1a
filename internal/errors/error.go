package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
)

// Category groups error codes.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryConfig  Category = "config"
	CategoryStorage Category = "storage"
	CategoryHTTP    Category = "http"
	CategoryCLI     Category = "cli"
)

// Location is a position in a file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Error is a structured error with a code, hints and an optional location.
type Error struct {
	// Code is the registered identifier, e.g. "X101".
	Code string

	Category Category

	// Message is the short description.
	Message string

	// Detail is a longer explanation.
	Detail string

	Location *Location

	// Context holds the lines around Location, starting at ContextStart.
	Context      []string
	ContextStart int

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is matches another *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithLocation records a file position and reads the lines around it.
func (e *Error) WithLocation(file string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.ContextStart, e.Context = readContextLines(file, line, 3)
	return e
}

// WithSuggestion adds a fix suggestion.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detail text.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap sets the underlying error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// readContextLines returns up to size lines centred on target and the
// number of the first one.
func readContextLines(filename string, target, size int) (int, []string) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, nil
	}
	defer file.Close()

	start, end := max(target-size/2, 1), target+size/2
	var lines []string
	scanner := bufio.NewScanner(file)
	for n := 1; n <= end && scanner.Scan(); n++ {
		if n >= start {
			lines = append(lines, scanner.Text())
		}
	}
	return start, lines
}

// New creates an Error from a registered code. Unknown codes produce an
// "Unknown error" with no category.
func New(code string) *Error {
	t, ok := registry[code]
	if !ok {
		return &Error{Code: code, Message: "Unknown error"}
	}
	return &Error{
		Code:     code,
		Category: t.Category,
		Message:  t.Message,
		Detail:   t.Detail,
		DocURL:   t.DocURL,
	}
}

// Newf creates an uncoded Error with a formatted message.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...)}
}

// FromError returns err itself when it already is an *Error, otherwise a
// new Error for code wrapping it.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var xe *Error
	if stderrors.As(err, &xe) {
		return xe
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is or wraps an *Error with code.
func HasCode(err error, code string) bool {
	return stderrors.Is(err, &Error{Code: code})
}
