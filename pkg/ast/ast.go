package ast

import "github.com/bingcicle/rox/pkg/token"

type NodeType string

const (
	NodeStringLiteral        NodeType = "StringLiteral"
	NodeNumberLiteral        NodeType = "NumberLiteral"
	NodeBooleanLiteral       NodeType = "BooleanLiteral"
	NodeNilLiteral           NodeType = "NilLiteral"
	NodeUnaryExpression      NodeType = "UnaryExpression"
	NodeBinaryExpression     NodeType = "BinaryExpression"
	NodeLogicalExpression    NodeType = "LogicalExpression"
	NodeGroupingExpression   NodeType = "GroupingExpression"
	NodeVariableExpression   NodeType = "VariableExpression"
	NodeAssignmentExpression NodeType = "AssignmentExpression"
	NodeCallExpression       NodeType = "CallExpression"
	NodeExpressionStatement  NodeType = "ExpressionStatement"
	NodePrintStatement       NodeType = "PrintStatement"
	NodeVarDeclaration       NodeType = "VarDeclaration"
	NodeBlockStatement       NodeType = "BlockStatement"
	NodeIfStatement          NodeType = "IfStatement"
	NodeWhileStatement       NodeType = "WhileStatement"
	NodeFunctionDeclaration  NodeType = "FunctionDeclaration"
	NodeReturnStatement      NodeType = "ReturnStatement"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Literals

type StringLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value string
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type NumberLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value float64
}

func NewNumberLiteral(value float64) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value bool
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NilLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker
}

func NewNilLiteral() *NilLiteral {
	return &NilLiteral{nodeImpl: newNodeImpl(NodeNilLiteral)}
}

// Expressions

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator token.Token
	Operand  Expression
}

func NewUnaryExpression(operator token.Token, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Left     Expression
	Operator token.Token
	Right    Expression
}

func NewBinaryExpression(left Expression, operator token.Token, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Left: left, Operator: operator, Right: right}
}

// LogicalExpression is a short-circuiting `and` / `or`.
type LogicalExpression struct {
	nodeImpl
	expressionMarker

	Left     Expression
	Operator token.Token
	Right    Expression
}

func NewLogicalExpression(left Expression, operator token.Token, right Expression) *LogicalExpression {
	return &LogicalExpression{nodeImpl: newNodeImpl(NodeLogicalExpression), Left: left, Operator: operator, Right: right}
}

type GroupingExpression struct {
	nodeImpl
	expressionMarker

	Expression Expression
}

func NewGroupingExpression(expr Expression) *GroupingExpression {
	return &GroupingExpression{nodeImpl: newNodeImpl(NodeGroupingExpression), Expression: expr}
}

// VariableExpression reads a binding by name.
type VariableExpression struct {
	nodeImpl
	expressionMarker

	Name token.Token
}

func NewVariableExpression(name token.Token) *VariableExpression {
	return &VariableExpression{nodeImpl: newNodeImpl(NodeVariableExpression), Name: name}
}

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Name  token.Token
	Value Expression
}

func NewAssignmentExpression(name token.Token, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Name: name, Value: value}
}

// CallExpression keeps the closing paren for error locations.
type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee    Expression
	Paren     token.Token
	Arguments []Expression
}

func NewCallExpression(callee Expression, paren token.Token, args []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Paren: paren, Arguments: args}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type PrintStatement struct {
	nodeImpl
	statementMarker

	Expression Expression
}

func NewPrintStatement(expr Expression) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Expression: expr}
}

// VarDeclaration binds Name in the current scope. Initializer may be nil.
type VarDeclaration struct {
	nodeImpl
	statementMarker

	Name        token.Token
	Initializer Expression
}

func NewVarDeclaration(name token.Token, initializer Expression) *VarDeclaration {
	return &VarDeclaration{nodeImpl: newNodeImpl(NodeVarDeclaration), Name: name, Initializer: initializer}
}

type BlockStatement struct {
	nodeImpl
	statementMarker

	Body []Statement
}

func NewBlockStatement(body []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Body: body}
}

// IfStatement has an optional Else branch.
type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression
	Then      Statement
	Else      Statement
}

func NewIfStatement(condition Expression, then Statement, elseBranch Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: elseBranch}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Condition Expression
	Body      Statement
}

func NewWhileStatement(condition Expression, body Statement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Condition: condition, Body: body}
}

type FunctionDeclaration struct {
	nodeImpl
	statementMarker

	Name   token.Token
	Params []token.Token
	Body   []Statement
}

func NewFunctionDeclaration(name token.Token, params []token.Token, body []Statement) *FunctionDeclaration {
	return &FunctionDeclaration{nodeImpl: newNodeImpl(NodeFunctionDeclaration), Name: name, Params: params, Body: body}
}

// ReturnStatement may omit its Value, in which case the call yields nil.
type ReturnStatement struct {
	nodeImpl
	statementMarker

	Keyword token.Token
	Value   Expression
}

func NewReturnStatement(keyword token.Token, value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Keyword: keyword, Value: value}
}
