package token

import "testing"

func TestKindString(t *testing.T) {
	if got := LeftParen.String(); got != "LEFT_PAREN" {
		t.Fatalf("expected LEFT_PAREN, got %s", got)
	}
	if got := EOF.String(); got != "EOF" {
		t.Fatalf("expected EOF, got %s", got)
	}
	if got := Kind(999).String(); got != "unknown_kind_999" {
		t.Fatalf("unexpected fallback %s", got)
	}
}

func TestLookupIdentifier(t *testing.T) {
	for text, kind := range Keywords {
		if got := LookupIdentifier(text); got != kind {
			t.Fatalf("%s: expected %s, got %s", text, kind, got)
		}
	}
	for _, text := range []string{"orchid", "_x", "While", "fn"} {
		if got := LookupIdentifier(text); got != Identifier {
			t.Fatalf("%s: expected IDENTIFIER, got %s", text, got)
		}
	}
}

func TestTokenString(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{New(Plus, "+", nil, 1), "PLUS +"},
		{New(Number, "1.50", 1.5, 2), "NUMBER 1.50 1.5"},
		{New(String, `"hi"`, "hi", 3), `STRING "hi" "hi"`},
		{New(EOF, "", nil, 4), "EOF "},
	}
	for _, tc := range cases {
		if got := tc.tok.String(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
