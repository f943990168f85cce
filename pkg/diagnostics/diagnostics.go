// Package diagnostics renders and collects the errors reported by the
// scanner, parser and interpreter.
//
// Every diagnostic shares one line format:
//
//	[line <N>] Error<location>: <message>
//
// where location is empty for general errors, " at end" for errors at the
// end of input and " at '<lexeme>'" otherwise.
package diagnostics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bingcicle/rox/pkg/token"
)

// Format renders a single diagnostic line.
func Format(line int, location, message string) string {
	return fmt.Sprintf("[line %d] Error%s: %s", line, location, message)
}

// Location describes where tok sits for use with Format.
func Location(tok token.Token) string {
	if tok.Kind == token.EOF {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", tok.Lexeme)
}

// List collects errors without stopping at the first one.
type List []error

// Add appends err when it is non-nil. Nested lists are flattened.
func (l *List) Add(err error) {
	if err == nil {
		return
	}
	var nested List
	if errors.As(err, &nested) {
		*l = append(*l, nested...)
		return
	}
	*l = append(*l, err)
}

// Len reports the number of collected errors.
func (l List) Len() int {
	return len(l)
}

// Err returns the list as an error, or nil when empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Error joins every diagnostic on its own line.
func (l List) Error() string {
	lines := make([]string, 0, len(l))
	for _, err := range l {
		lines = append(lines, err.Error())
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (l List) Unwrap() []error {
	return l
}

// Prefix wraps every error in the list with a source label such as a file
// path, preserving the original errors for errors.As.
func (l List) Prefix(label string) List {
	if label == "" {
		return l
	}
	out := make(List, 0, len(l))
	for _, err := range l {
		out = append(out, &labeled{label: label, err: err})
	}
	return out
}

type labeled struct {
	label string
	err   error
}

func (e *labeled) Error() string {
	return e.label + ": " + e.err.Error()
}

func (e *labeled) Unwrap() error {
	return e.err
}
