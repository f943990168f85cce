package interpreter

import (
	"fmt"
	"math"
	"strconv"

	"github.com/bingcicle/rox/pkg/runtime"
)

// valueToString renders a value the way print shows it.
func valueToString(val runtime.Value) string {
	switch v := val.(type) {
	case runtime.StringValue:
		return v.Val
	case runtime.BoolValue:
		return strconv.FormatBool(v.Val)
	case runtime.NumberValue:
		return formatNumber(v.Val)
	case runtime.NilValue:
		return "nil"
	case *runtime.FunctionValue:
		return fmt.Sprintf("<fn %s>", v.Name())
	case *runtime.NativeFunctionValue:
		return fmt.Sprintf("<native fn %s>", v.Name)
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("[%s]", v.Kind())
	}
}

// formatNumber prints the shortest decimal that round-trips, switching to
// exponent form for very large and very small magnitudes.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	if abs := math.Abs(v); abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// describeValue names a value and its kind for type errors, e.g.
// `string "a"` or `number 1`.
func describeValue(val runtime.Value) string {
	if s, ok := val.(runtime.StringValue); ok {
		return fmt.Sprintf("%s %q", s.Kind(), s.Val)
	}
	if val == nil {
		return "nil"
	}
	if _, ok := val.(runtime.NilValue); ok {
		return "nil"
	}
	return fmt.Sprintf("%s %s", val.Kind(), valueToString(val))
}
