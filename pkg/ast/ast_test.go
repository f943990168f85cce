package ast

import (
	"testing"

	"github.com/bingcicle/rox/pkg/token"
)

func TestPrintExpressions(t *testing.T) {
	cases := []struct {
		node Node
		want string
	}{
		{Bin("+", Num(1), Bin("*", Num(2), Num(3))), "(+ 1 (* 2 3))"},
		{Un("-", Group(Num(2.5))), "(- (group 2.5))"},
		{Or(Bool(true), And(Nil(), Var("x"))), "(or true (and nil x))"},
		{Assign("a", Str("hi")), `(= a "hi")`},
		{Call("f", Num(1), Var("y")), "(call f 1 y)"},
		{CallExpr(Call("g")), "(call (call g))"},
	}
	for _, tc := range cases {
		if got := Print(tc.node); got != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, got)
		}
	}
}

func TestPrintStatements(t *testing.T) {
	program := []Statement{
		Let("a", nil),
		Let("b", Num(1)),
		If(Var("b"), PrintStmt(Var("b")), nil),
		While(Bool(false), Block(Expr(Var("a")))),
		Fn("id", []string{"x"}, Ret(Var("x"))),
		Fn("noop", nil, Ret(nil)),
	}
	want := "(var a)\n(var b 1)\n(if b (print b))\n(while false (block (; a)))\n(fun id (x) (return x))\n(fun noop () (return))"
	if got := PrintProgram(program); got != want {
		t.Fatalf("unexpected program:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildersAssignTokenKinds(t *testing.T) {
	if tok := Tok("=="); tok.Kind != token.EqualEqual {
		t.Fatalf("expected EQUAL_EQUAL, got %s", tok.Kind)
	}
	if tok := Tok("while"); tok.Kind != token.While {
		t.Fatalf("expected keyword kind, got %s", tok.Kind)
	}
	if tok := Tok("counter"); tok.Kind != token.Identifier || tok.Line != 1 {
		t.Fatalf("unexpected identifier token %#v", tok)
	}
	if fn := Fn("f", []string{"a", "b"}); len(fn.Params) != 2 || fn.NodeType() != NodeFunctionDeclaration {
		t.Fatalf("unexpected function node %#v", fn)
	}
}
