package interpreter

import (
	"github.com/bingcicle/rox/pkg/runtime"
)

func (i *Interpreter) defineNatives() {
	i.global.Define("clock", &runtime.NativeFunctionValue{
		Name:  "clock",
		Arity: 0,
		Impl: func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return runtime.NumberValue{Val: float64(i.clock().UnixMilli())}, nil
		},
	})
}
