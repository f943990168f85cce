package parser

import (
	"github.com/bingcicle/rox/pkg/ast"
	"github.com/bingcicle/rox/pkg/diagnostics"
	"github.com/bingcicle/rox/pkg/scanner"
	"github.com/bingcicle/rox/pkg/token"
)

// MaxArguments caps both parameter lists and call argument lists.
const MaxArguments = 255

// MaxNesting bounds how deeply statements, function bodies and expressions
// may nest. Deeper input is reported as a syntax error.
const MaxNesting = 512

// ParseError reports a syntax error at the offending token.
type ParseError struct {
	Token   token.Token
	Message string
}

func (e *ParseError) Error() string {
	return diagnostics.Format(e.Token.Line, diagnostics.Location(e.Token), e.Message)
}

// Parser builds statements from a token stream by recursive descent.
type Parser struct {
	tokens  []token.Token
	current int
	errs    diagnostics.List

	functionDepth int
	nesting       int
}

// New constructs a parser. The token slice must end with an EOF token, as
// produced by the scanner.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(append([]token.Token{}, tokens...), token.New(token.EOF, "", nil, line))
	}
	return &Parser{tokens: tokens}
}

// Parse is shorthand for New(tokens).Parse().
func Parse(tokens []token.Token) ([]ast.Statement, error) {
	return New(tokens).Parse()
}

// ParseSource scans and parses source, returning every lexical and syntax
// error found. Statements are only returned when there are no errors.
func ParseSource(source string) ([]ast.Statement, error) {
	var errs diagnostics.List
	tokens, err := scanner.Scan(source)
	errs.Add(err)
	statements, err := Parse(tokens)
	errs.Add(err)
	if errs.Len() > 0 {
		return nil, errs
	}
	return statements, nil
}

// Parse consumes the whole token stream. When any syntax error is found the
// statements are discarded and the errors are returned as a
// diagnostics.List.
func (p *Parser) Parse() ([]ast.Statement, error) {
	statements := make([]ast.Statement, 0)
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	if err := p.errs.Err(); err != nil {
		return nil, err
	}
	return statements, nil
}

// declaration parses one declaration, recovering at the next statement
// boundary on error. It returns nil when the declaration failed.
func (p *Parser) declaration() ast.Statement {
	stmt, err := p.parseDeclaration()
	if err != nil {
		p.errs.Add(err)
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) parseDeclaration() (ast.Statement, error) {
	switch {
	case p.match(token.Fun):
		return p.function()
	case p.match(token.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) function() (ast.Statement, error) {
	defer p.leave()
	if err := p.enter(); err != nil {
		return nil, err
	}
	name, err := p.consume(token.Identifier, "Expect function name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftParen, "Expect '(' after function name."); err != nil {
		return nil, err
	}
	params := make([]token.Token, 0)
	if !p.check(token.RightParen) {
		for {
			if len(params) >= MaxArguments {
				p.errs.Add(p.errorAt(p.peek(), "Can't have more than 255 parameters."))
			}
			param, err := p.consume(token.Identifier, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftBrace, "Expect '{' before function body."); err != nil {
		return nil, err
	}

	p.functionDepth++
	defer func() { p.functionDepth-- }()
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDeclaration(name, params, body), nil
}

func (p *Parser) varDeclaration() (ast.Statement, error) {
	name, err := p.consume(token.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var initializer ast.Expression
	if p.match(token.Equal) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return ast.NewVarDeclaration(name, initializer), nil
}

// enter records one level of nesting. Every call must be paired with a
// deferred leave, including when it fails.
func (p *Parser) enter() error {
	p.nesting++
	if p.nesting > MaxNesting {
		return p.errorAt(p.peek(), "Too much nesting.")
	}
	return nil
}

func (p *Parser) leave() {
	p.nesting--
}

// synchronize discards tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), message)
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) errorAt(tok token.Token, message string) *ParseError {
	return &ParseError{Token: tok, Message: message}
}
