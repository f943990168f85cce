package diagnostics

import (
	"errors"
	"testing"

	"github.com/bingcicle/rox/pkg/token"
)

func TestFormatAndLocation(t *testing.T) {
	if got := Format(3, "", "Unterminated string."); got != "[line 3] Error: Unterminated string." {
		t.Fatalf("unexpected format %q", got)
	}
	tok := token.New(token.Semicolon, ";", nil, 7)
	if got := Format(tok.Line, Location(tok), "Expect expression."); got != "[line 7] Error at ';': Expect expression." {
		t.Fatalf("unexpected format %q", got)
	}
	if got := Location(token.New(token.EOF, "", nil, 1)); got != " at end" {
		t.Fatalf("unexpected EOF location %q", got)
	}
}

func TestListCollectsAndFlattens(t *testing.T) {
	var inner List
	inner.Add(errors.New("a"))
	inner.Add(nil)
	inner.Add(errors.New("b"))

	var outer List
	if outer.Err() != nil {
		t.Fatalf("empty list should report no error")
	}
	outer.Add(inner.Err())
	outer.Add(errors.New("c"))
	if outer.Len() != 3 {
		t.Fatalf("expected 3 flattened errors, got %d", outer.Len())
	}
	if got := outer.Error(); got != "a\nb\nc" {
		t.Fatalf("unexpected joined message %q", got)
	}
}

func TestListPrefixPreservesUnderlyingErrors(t *testing.T) {
	sentinel := errors.New("boom")
	list := List{sentinel}.Prefix("main.rox")
	if got := list.Error(); got != "main.rox: boom" {
		t.Fatalf("unexpected prefixed message %q", got)
	}
	if !errors.Is(list, sentinel) {
		t.Fatalf("expected errors.Is to see through the label")
	}
}
