package interpreter

import (
	"math"

	"github.com/bingcicle/rox/pkg/runtime"
	"github.com/bingcicle/rox/pkg/token"
)

// numberEpsilon is the tolerance used by numeric equality.
const numberEpsilon = 2.220446049250313e-16

func evaluateArithmetic(op token.Token, left runtime.Value, right runtime.Value) (runtime.Value, error) {
	lv, lok := left.(runtime.NumberValue)
	rv, rok := right.(runtime.NumberValue)
	if lok && rok {
		switch op.Kind {
		case token.Plus:
			return runtime.NumberValue{Val: lv.Val + rv.Val}, nil
		case token.Minus:
			return runtime.NumberValue{Val: lv.Val - rv.Val}, nil
		case token.Star:
			return runtime.NumberValue{Val: lv.Val * rv.Val}, nil
		case token.Slash:
			return runtime.NumberValue{Val: lv.Val / rv.Val}, nil
		}
	}
	if op.Kind == token.Plus {
		ls, lok := left.(runtime.StringValue)
		rs, rok := right.(runtime.StringValue)
		if lok && rok {
			return runtime.StringValue{Val: ls.Val + rs.Val}, nil
		}
		return nil, runtimeErrorf(op, "Operands must be two numbers or two strings, got %s and %s.", describeValue(left), describeValue(right))
	}
	return nil, runtimeErrorf(op, "Operands must be numbers, got %s and %s.", describeValue(left), describeValue(right))
}

func evaluateComparison(op token.Token, left runtime.Value, right runtime.Value) (runtime.Value, error) {
	lv, lok := left.(runtime.NumberValue)
	rv, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, runtimeErrorf(op, "Operands must be numbers.")
	}
	var result bool
	switch op.Kind {
	case token.Greater:
		result = lv.Val > rv.Val
	case token.GreaterEqual:
		result = lv.Val >= rv.Val
	case token.Less:
		result = lv.Val < rv.Val
	case token.LessEqual:
		result = lv.Val <= rv.Val
	}
	return runtime.BoolValue{Val: result}, nil
}

// valuesEqual never fails: values of different kinds are unequal, nil only
// equals nil and numbers compare within numberEpsilon.
func valuesEqual(left runtime.Value, right runtime.Value) bool {
	switch lv := left.(type) {
	case runtime.NilValue:
		_, ok := right.(runtime.NilValue)
		return ok
	case runtime.BoolValue:
		if rv, ok := right.(runtime.BoolValue); ok {
			return lv.Val == rv.Val
		}
	case runtime.StringValue:
		if rv, ok := right.(runtime.StringValue); ok {
			return lv.Val == rv.Val
		}
	case runtime.NumberValue:
		if rv, ok := right.(runtime.NumberValue); ok {
			return lv.Val == rv.Val || math.Abs(lv.Val-rv.Val) < numberEpsilon
		}
	case *runtime.FunctionValue:
		if rv, ok := right.(*runtime.FunctionValue); ok {
			return lv == rv
		}
	case *runtime.NativeFunctionValue:
		if rv, ok := right.(*runtime.NativeFunctionValue); ok {
			return lv == rv
		}
	}
	return false
}

// isTruthy treats nil and false as falsy and everything else as truthy.
func isTruthy(val runtime.Value) bool {
	switch v := val.(type) {
	case runtime.BoolValue:
		return v.Val
	case runtime.NilValue:
		return false
	default:
		return true
	}
}
