package interpreter

import (
	"errors"
	"fmt"

	"github.com/bingcicle/rox/pkg/ast"
	"github.com/bingcicle/rox/pkg/runtime"
	"github.com/bingcicle/rox/pkg/token"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.NilLiteral:
		return runtime.NilValue{}, nil
	case *ast.GroupingExpression:
		return i.evaluateExpression(n.Expression, env)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.LogicalExpression:
		return i.evaluateLogicalExpression(n, env)
	case *ast.VariableExpression:
		val, err := env.Get(n.Name.Lexeme)
		if err != nil {
			return nil, undefinedVariable(n.Name, err)
		}
		return val, nil
	case *ast.AssignmentExpression:
		val, err := i.evaluateExpression(n.Value, env)
		if err != nil {
			return nil, err
		}
		if err := env.Assign(n.Name.Lexeme, val); err != nil {
			return nil, undefinedVariable(n.Name, err)
		}
		return val, nil
	case *ast.CallExpression:
		return i.evaluateCallExpression(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type %T", node)
	}
}

func undefinedVariable(name token.Token, err error) error {
	if errors.Is(err, runtime.ErrUndefined) {
		return runtimeErrorf(name, "Undefined variable '%s'.", name.Lexeme)
	}
	return err
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case token.Bang:
		return runtime.BoolValue{Val: !isTruthy(operand)}, nil
	case token.Minus:
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, runtimeErrorf(expr.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	default:
		return nil, runtimeErrorf(expr.Operator, "Unsupported unary operator '%s'.", expr.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case token.Plus, token.Minus, token.Star, token.Slash:
		return evaluateArithmetic(expr.Operator, left, right)
	case token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		return evaluateComparison(expr.Operator, left, right)
	case token.EqualEqual:
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case token.BangEqual:
		return runtime.BoolValue{Val: !valuesEqual(left, right)}, nil
	default:
		return nil, runtimeErrorf(expr.Operator, "Unsupported binary operator '%s'.", expr.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateLogicalExpression(expr *ast.LogicalExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	if expr.Operator.Kind == token.Or {
		if isTruthy(left) {
			return left, nil
		}
	} else if !isTruthy(left) {
		return left, nil
	}
	return i.evaluateExpression(expr.Right, env)
}

func (i *Interpreter) evaluateCallExpression(call *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(call.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		val, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	var arity int
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		arity = fn.Arity()
	case *runtime.NativeFunctionValue:
		arity = fn.Arity
	default:
		return nil, runtimeErrorf(call.Paren, "Can only call functions and classes.")
	}
	if len(args) != arity {
		return nil, runtimeErrorf(call.Paren, "Expected %d arguments but got %d.", arity, len(args))
	}

	i.depth++
	defer func() { i.depth-- }()
	if i.depth > i.maxCallDepth {
		return nil, runtimeErrorf(call.Paren, "Stack overflow.")
	}

	switch fn := callee.(type) {
	case *runtime.NativeFunctionValue:
		val, err := fn.Impl(&runtime.NativeCallContext{Env: env}, args)
		if err != nil {
			var rerr *RuntimeError
			if errors.As(err, &rerr) {
				return nil, err
			}
			return nil, runtimeErrorf(call.Paren, "%s", err.Error())
		}
		return val, nil
	default:
		return i.invokeFunction(callee.(*runtime.FunctionValue), args)
	}
}

// invokeFunction binds args in a fresh frame parented on the closure and
// runs the body. The call yields nil unless a return statement fires.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	localEnv := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Declaration.Params {
		localEnv.Define(param.Lexeme, args[idx])
	}
	if err := i.evaluateBlock(fn.Declaration.Body, localEnv); err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return runtime.NilValue{}, nil
}
