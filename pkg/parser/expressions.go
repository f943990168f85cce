package parser

import (
	"github.com/bingcicle/rox/pkg/ast"
	"github.com/bingcicle/rox/pkg/token"
)

func (p *Parser) expression() (ast.Expression, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expression, error) {
	defer p.leave()
	if err := p.enter(); err != nil {
		return nil, err
	}
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.match(token.Equal) {
		return expr, nil
	}

	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if variable, ok := expr.(*ast.VariableExpression); ok {
		return ast.NewAssignmentExpression(variable.Name, value), nil
	}
	// Recorded without unwinding.
	p.errs.Add(p.errorAt(equals, "Invalid assignment target."))
	return expr, nil
}

func (p *Parser) or() (ast.Expression, error) {
	return p.logical(p.and, token.Or)
}

func (p *Parser) and() (ast.Expression, error) {
	return p.logical(p.equality, token.And)
}

func (p *Parser) logical(operand func() (ast.Expression, error), kind token.Kind) (ast.Expression, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(kind) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogicalExpression(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expression, error) {
	return p.binary(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() (ast.Expression, error) {
	return p.binary(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() (ast.Expression, error) {
	return p.binary(p.factor, token.Minus, token.Plus)
}

func (p *Parser) factor() (ast.Expression, error) {
	return p.binary(p.unary, token.Slash, token.Star)
}

// binary parses a left-associative chain of operand (op operand)*.
func (p *Parser) binary(operand func() (ast.Expression, error), kinds ...token.Kind) (ast.Expression, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(kinds...) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinaryExpression(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()
		defer p.leave()
		if err := p.enter(); err != nil {
			return nil, err
		}
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(operator, operand), nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(token.LeftParen) {
		if expr, err = p.finishCall(expr); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	args := make([]ast.Expression, 0)
	if !p.check(token.RightParen) {
		for {
			if len(args) >= MaxArguments {
				p.errs.Add(p.errorAt(p.peek(), "Can't have more than 255 arguments."))
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren, err := p.consume(token.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return ast.NewCallExpression(callee, paren, args), nil
}

func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.match(token.False):
		return ast.NewBooleanLiteral(false), nil
	case p.match(token.True):
		return ast.NewBooleanLiteral(true), nil
	case p.match(token.Nil):
		return ast.NewNilLiteral(), nil
	case p.match(token.Number):
		value, _ := p.previous().Literal.(float64)
		return ast.NewNumberLiteral(value), nil
	case p.match(token.String):
		value, _ := p.previous().Literal.(string)
		return ast.NewStringLiteral(value), nil
	case p.match(token.Identifier):
		return ast.NewVariableExpression(p.previous()), nil
	case p.match(token.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return ast.NewGroupingExpression(expr), nil
	}
	return nil, p.errorAt(p.peek(), "Expect expression.")
}
