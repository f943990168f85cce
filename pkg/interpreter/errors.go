package interpreter

import (
	"fmt"

	"github.com/bingcicle/rox/pkg/diagnostics"
	"github.com/bingcicle/rox/pkg/runtime"
	"github.com/bingcicle/rox/pkg/token"
)

// RuntimeError is a fault in the running program, located at the token that
// triggered it.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return diagnostics.Format(e.Token.Line, diagnostics.Location(e.Token), e.Message)
}

func runtimeErrorf(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// returnSignal unwinds a function body up to its call boundary.
type returnSignal struct {
	keyword token.Token
	value   runtime.Value
}

func (r returnSignal) Error() string {
	return "return"
}
