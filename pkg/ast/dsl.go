package ast

import "github.com/bingcicle/rox/pkg/token"

var operatorKinds = map[string]token.Kind{
	"-":   token.Minus,
	"+":   token.Plus,
	"/":   token.Slash,
	"*":   token.Star,
	"!":   token.Bang,
	"!=":  token.BangEqual,
	"=":   token.Equal,
	"==":  token.EqualEqual,
	">":   token.Greater,
	">=":  token.GreaterEqual,
	"<":   token.Less,
	"<=":  token.LessEqual,
	"and": token.And,
	"or":  token.Or,
	")":   token.RightParen,
}

// Tok synthesizes a line-1 token for lexeme. Operators and keywords get
// their dedicated kinds; everything else becomes an identifier.
func Tok(lexeme string) token.Token {
	if kind, ok := operatorKinds[lexeme]; ok {
		return token.New(kind, lexeme, nil, 1)
	}
	return token.New(token.LookupIdentifier(lexeme), lexeme, nil, 1)
}

// Literal helpers.

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Num(value float64) *NumberLiteral {
	return NewNumberLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Nil() *NilLiteral {
	return NewNilLiteral()
}

// Expression helpers.

func Var(name string) *VariableExpression {
	return NewVariableExpression(Tok(name))
}

func Un(operator string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(Tok(operator), operand)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(left, Tok(operator), right)
}

func And(left, right Expression) *LogicalExpression {
	return NewLogicalExpression(left, Tok("and"), right)
}

func Or(left, right Expression) *LogicalExpression {
	return NewLogicalExpression(left, Tok("or"), right)
}

func Group(expr Expression) *GroupingExpression {
	return NewGroupingExpression(expr)
}

func Assign(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(Tok(name), value)
}

func CallExpr(callee Expression, args ...Expression) *CallExpression {
	return NewCallExpression(callee, Tok(")"), args)
}

func Call(name string, args ...Expression) *CallExpression {
	return CallExpr(Var(name), args...)
}

// Statement helpers.

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func PrintStmt(expr Expression) *PrintStatement {
	return NewPrintStatement(expr)
}

func Let(name string, initializer Expression) *VarDeclaration {
	return NewVarDeclaration(Tok(name), initializer)
}

func Block(statements ...Statement) *BlockStatement {
	return NewBlockStatement(statements)
}

func If(condition Expression, then Statement, elseBranch Statement) *IfStatement {
	return NewIfStatement(condition, then, elseBranch)
}

func While(condition Expression, body Statement) *WhileStatement {
	return NewWhileStatement(condition, body)
}

func Fn(name string, params []string, body ...Statement) *FunctionDeclaration {
	tokens := make([]token.Token, 0, len(params))
	for _, param := range params {
		tokens = append(tokens, Tok(param))
	}
	return NewFunctionDeclaration(Tok(name), tokens, body)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(Tok("return"), value)
}
