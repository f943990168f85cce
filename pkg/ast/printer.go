package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a node in parenthesized prefix form, e.g. `(+ 1 (* 2 3))`.
func Print(node Node) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

// PrintProgram renders one top-level statement per line.
func PrintProgram(statements []Statement) string {
	lines := make([]string, 0, len(statements))
	for _, stmt := range statements {
		lines = append(lines, Print(stmt))
	}
	return strings.Join(lines, "\n")
}

func writeNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("<nil>")
	case *StringLiteral:
		b.WriteString(strconv.Quote(n.Value))
	case *NumberLiteral:
		b.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *BooleanLiteral:
		b.WriteString(strconv.FormatBool(n.Value))
	case *NilLiteral:
		b.WriteString("nil")
	case *UnaryExpression:
		parenthesize(b, n.Operator.Lexeme, n.Operand)
	case *BinaryExpression:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *LogicalExpression:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *GroupingExpression:
		parenthesize(b, "group", n.Expression)
	case *VariableExpression:
		b.WriteString(n.Name.Lexeme)
	case *AssignmentExpression:
		parenthesize(b, "= "+n.Name.Lexeme, n.Value)
	case *CallExpression:
		nodes := make([]Node, 0, len(n.Arguments)+1)
		nodes = append(nodes, n.Callee)
		for _, arg := range n.Arguments {
			nodes = append(nodes, arg)
		}
		parenthesize(b, "call", nodes...)
	case *ExpressionStatement:
		parenthesize(b, ";", n.Expression)
	case *PrintStatement:
		parenthesize(b, "print", n.Expression)
	case *VarDeclaration:
		if n.Initializer == nil {
			parenthesize(b, "var "+n.Name.Lexeme)
			return
		}
		parenthesize(b, "var "+n.Name.Lexeme, n.Initializer)
	case *BlockStatement:
		parenthesize(b, "block", statementNodes(n.Body)...)
	case *IfStatement:
		if n.Else == nil {
			parenthesize(b, "if", n.Condition, n.Then)
			return
		}
		parenthesize(b, "if", n.Condition, n.Then, n.Else)
	case *WhileStatement:
		parenthesize(b, "while", n.Condition, n.Body)
	case *FunctionDeclaration:
		params := make([]string, 0, len(n.Params))
		for _, param := range n.Params {
			params = append(params, param.Lexeme)
		}
		head := fmt.Sprintf("fun %s (%s)", n.Name.Lexeme, strings.Join(params, " "))
		parenthesize(b, head, statementNodes(n.Body)...)
	case *ReturnStatement:
		if n.Value == nil {
			parenthesize(b, "return")
			return
		}
		parenthesize(b, "return", n.Value)
	default:
		fmt.Fprintf(b, "<%s>", node.NodeType())
	}
}

func parenthesize(b *strings.Builder, head string, nodes ...Node) {
	b.WriteByte('(')
	b.WriteString(head)
	for _, node := range nodes {
		b.WriteByte(' ')
		writeNode(b, node)
	}
	b.WriteByte(')')
}

func statementNodes(statements []Statement) []Node {
	out := make([]Node, 0, len(statements))
	for _, stmt := range statements {
		out = append(out, stmt)
	}
	return out
}
