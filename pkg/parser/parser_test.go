package parser_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bingcicle/rox/pkg/ast"
	"github.com/bingcicle/rox/pkg/diagnostics"
	"github.com/bingcicle/rox/pkg/parser"
	"github.com/bingcicle/rox/pkg/scanner"
)

func mustParse(t *testing.T, source string) []ast.Statement {
	t.Helper()
	stmts, err := parser.ParseSource(source)
	if err != nil {
		t.Fatalf("ParseSource(%q) returned error: %v", source, err)
	}
	return stmts
}

func parseErrors(t *testing.T, source string) []string {
	t.Helper()
	tokens, err := scanner.Scan(source)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	stmts, err := parser.Parse(tokens)
	if err == nil {
		t.Fatalf("expected parse error for %q", source)
	}
	if stmts != nil {
		t.Fatalf("expected no statements on error, got %d", len(stmts))
	}
	var list diagnostics.List
	if !errors.As(err, &list) {
		t.Fatalf("expected diagnostics.List, got %T", err)
	}
	messages := make([]string, 0, list.Len())
	for _, e := range list {
		var perr *parser.ParseError
		if !errors.As(e, &perr) {
			t.Fatalf("expected *parser.ParseError, got %T", e)
		}
		messages = append(messages, perr.Error())
	}
	return messages
}

func TestParsePrecedence(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"1 + 2 * 3;", "(; (+ 1 (* 2 3)))"},
		{"1 - 2 - 3;", "(; (- (- 1 2) 3))"},
		{"-1 - -2;", "(; (- (- 1) (- 2)))"},
		{"!!true;", "(; (! (! true)))"},
		{"(1 + 2) * 3;", "(; (* (group (+ 1 2)) 3))"},
		{"1 < 2 == 3 >= 4;", "(; (== (< 1 2) (>= 3 4)))"},
		{"a or b and c;", "(; (or a (and b c)))"},
		{"a = b = 3;", "(; (= a (= b 3)))"},
		{"f(1)(2, \"x\");", "(; (call (call f 1) 2 \"x\"))"},
		{"nil != false;", "(; (!= nil false))"},
	}
	for _, tc := range cases {
		stmts := mustParse(t, tc.source)
		if len(stmts) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", tc.source, len(stmts))
		}
		if got := ast.Print(stmts[0]); got != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.source, tc.want, got)
		}
	}
}

func TestParseStatements(t *testing.T) {
	source := `
var a;
var b = "hi";
print b;
{ var c = 1; }
if (a) print 1; else print 2;
while (a) a = false;
fun add(x, y) { return x + y; }
fun noop() { return; }
`
	want := strings.Join([]string{
		"(var a)",
		"(var b \"hi\")",
		"(print b)",
		"(block (var c 1))",
		"(if a (print 1) (print 2))",
		"(while a (; (= a false)))",
		"(fun add (x y) (return (+ x y)))",
		"(fun noop () (return))",
	}, "\n")
	if got := ast.PrintProgram(mustParse(t, source)); got != want {
		t.Fatalf("unexpected program:\n%s\nwant:\n%s", got, want)
	}
}

func TestForLoopDesugarsToWhile(t *testing.T) {
	stmts := mustParse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	want := "(block (var i 0) (while (< i 3) (block (print i) (; (= i (+ i 1))))))"
	if got := ast.Print(stmts[0]); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	stmts = mustParse(t, "for (;;) print 1;")
	if got := ast.Print(stmts[0]); got != "(while true (print 1))" {
		t.Fatalf("expected bare while loop, got %s", got)
	}
}

func TestParseDanglingElseBindsToNearestIf(t *testing.T) {
	stmts := mustParse(t, "if (a) if (b) print 1; else print 2;")
	want := "(if a (if b (print 1) (print 2)))"
	if got := ast.Print(stmts[0]); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestParseBuildsExpectedNodes(t *testing.T) {
	stmts := mustParse(t, "makeCounter()(1);")
	stmt, ok := stmts[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", stmts[0])
	}
	outer, ok := stmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected CallExpression, got %T", stmt.Expression)
	}
	if outer.Paren.Lexeme != ")" || len(outer.Arguments) != 1 {
		t.Fatalf("unexpected outer call %#v", outer)
	}
	if _, ok := outer.Callee.(*ast.CallExpression); !ok {
		t.Fatalf("expected nested call callee, got %T", outer.Callee)
	}
}

func TestParseMissingSemicolon(t *testing.T) {
	msgs := parseErrors(t, "print 1")
	if len(msgs) != 1 || msgs[0] != "[line 1] Error at end: Expect ';' after value." {
		t.Fatalf("unexpected errors %q", msgs)
	}
}

func TestParseMissingParen(t *testing.T) {
	msgs := parseErrors(t, "(1 + 2;")
	if len(msgs) != 1 || msgs[0] != "[line 1] Error at ';': Expect ')' after expression." {
		t.Fatalf("unexpected errors %q", msgs)
	}
}

func TestParseSynchronizesAfterError(t *testing.T) {
	msgs := parseErrors(t, "print ;\nvar x = 1;\nprint );\nprint x;")
	want := []string{
		"[line 1] Error at ';': Expect expression.",
		"[line 3] Error at ')': Expect expression.",
	}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d errors, got %q", len(want), msgs)
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Fatalf("error %d: expected %q, got %q", i, want[i], msgs[i])
		}
	}
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	msgs := parseErrors(t, "1 + 2 = 3; a + b = c;")
	if len(msgs) != 2 {
		t.Fatalf("expected both targets reported, got %q", msgs)
	}
	for _, msg := range msgs {
		if msg != "[line 1] Error at '=': Invalid assignment target." {
			t.Fatalf("unexpected error %q", msg)
		}
	}
}

func TestParseTopLevelReturn(t *testing.T) {
	msgs := parseErrors(t, "return 1;")
	if len(msgs) != 1 || msgs[0] != "[line 1] Error at 'return': Can't return from top-level code." {
		t.Fatalf("unexpected errors %q", msgs)
	}
}

func TestParseClassKeywordIsNotAnExpression(t *testing.T) {
	msgs := parseErrors(t, "class Foo {}")
	if len(msgs) == 0 || msgs[0] != "[line 1] Error at 'class': Expect expression." {
		t.Fatalf("unexpected errors %q", msgs)
	}
}

func TestParseArgumentLimit(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = fmt.Sprint(i)
	}
	msgs := parseErrors(t, "f("+strings.Join(args, ", ")+");")
	if len(msgs) != 1 || msgs[0] != "[line 1] Error at '255': Can't have more than 255 arguments." {
		t.Fatalf("unexpected errors %q", msgs)
	}

	params := make([]string, 256)
	for i := range params {
		params[i] = fmt.Sprintf("p%d", i)
	}
	msgs = parseErrors(t, "fun f("+strings.Join(params, ", ")+") {}")
	if len(msgs) != 1 || msgs[0] != "[line 1] Error at 'p255': Can't have more than 255 parameters." {
		t.Fatalf("unexpected errors %q", msgs)
	}
}

func TestParseSourceCombinesLexicalAndSyntaxErrors(t *testing.T) {
	_, err := parser.ParseSource("@\nprint 1")
	if err == nil {
		t.Fatalf("expected errors")
	}
	want := "[line 1] Error: Unexpected character '@'.\n[line 2] Error at end: Expect ';' after value."
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestParseEmptyProgram(t *testing.T) {
	stmts := mustParse(t, "// nothing here\n")
	if len(stmts) != 0 {
		t.Fatalf("expected no statements, got %d", len(stmts))
	}
}

func TestParseRejectsExcessiveNesting(t *testing.T) {
	depth := parser.MaxNesting + 100
	cases := map[string]string{
		"parens":      "print " + strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + ";",
		"unary":       strings.Repeat("-", depth) + "1;",
		"assignments": strings.Repeat("a = ", depth) + "1;",
		"blocks":      strings.Repeat("{", depth) + strings.Repeat("}", depth),
		"functions":   strings.Repeat("fun f() {", depth) + strings.Repeat("}", depth),
	}
	for name, source := range cases {
		msgs := parseErrors(t, source)
		if len(msgs) == 0 || !strings.HasSuffix(msgs[0], "Too much nesting.") {
			t.Fatalf("%s: expected nesting error, got %q", name, msgs)
		}
	}
}

func TestParsePathologicalNestingDoesNotCrash(t *testing.T) {
	const depth = 200000
	_, err := parser.ParseSource("print " + strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + ";\nprint 2;")
	if err == nil || !strings.Contains(err.Error(), "Too much nesting.") {
		t.Fatalf("expected nesting error, got %v", err)
	}
}

func TestParseAllowsModerateNesting(t *testing.T) {
	const depth = 100
	stmts := mustParse(t, "print "+strings.Repeat("(", depth)+"1"+strings.Repeat(")", depth)+";")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	mustParse(t, strings.Repeat("{", depth)+"print 1;"+strings.Repeat("}", depth))
}
