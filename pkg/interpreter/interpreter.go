package interpreter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bingcicle/rox/pkg/ast"
	"github.com/bingcicle/rox/pkg/runtime"
)

// DefaultMaxCallDepth bounds nested calls when Config.MaxCallDepth is unset.
const DefaultMaxCallDepth = 1024

// MaxCallDepthLimit is the largest call depth an interpreter accepts. Larger
// configured values are clamped to it so that runaway recursion still ends in
// a runtime error rather than exhausting the host stack.
const MaxCallDepthLimit = 20000

// Config customises an interpreter. Zero fields take their defaults.
type Config struct {
	// Stdout receives the output of print statements. Defaults to os.Stdout.
	Stdout io.Writer
	// MaxCallDepth is the number of nested calls allowed before a
	// "Stack overflow." runtime error. Values above MaxCallDepthLimit are
	// clamped.
	MaxCallDepth int
	// Clock backs the clock() native. Defaults to time.Now.
	Clock func() time.Time
}

// Interpreter walks statements against a chain of environments.
type Interpreter struct {
	global       *runtime.Environment
	stdout       io.Writer
	maxCallDepth int
	clock        func() time.Time
	depth        int
}

// New returns an interpreter writing to os.Stdout with default limits.
func New() *Interpreter {
	return NewWithConfig(Config{})
}

// NewWithConfig returns an interpreter whose global environment holds the
// native functions.
func NewWithConfig(cfg Config) *Interpreter {
	i := &Interpreter{
		global:       runtime.NewEnvironment(nil),
		stdout:       cfg.Stdout,
		maxCallDepth: cfg.MaxCallDepth,
		clock:        cfg.Clock,
	}
	if i.stdout == nil {
		i.stdout = os.Stdout
	}
	if i.maxCallDepth <= 0 {
		i.maxCallDepth = DefaultMaxCallDepth
	}
	if i.maxCallDepth > MaxCallDepthLimit {
		i.maxCallDepth = MaxCallDepthLimit
	}
	if i.clock == nil {
		i.clock = time.Now
	}
	i.defineNatives()
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Interpret executes statements in order in the global environment. It
// stops at the first runtime error and returns it; side effects of the
// statements already run are kept.
func (i *Interpreter) Interpret(statements []ast.Statement) error {
	for _, stmt := range statements {
		if err := i.evaluateStatement(stmt, i.global); err != nil {
			if ret, ok := err.(returnSignal); ok {
				return runtimeErrorf(ret.keyword, "Can't return from top-level code.")
			}
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluateStatement(node ast.Statement, env *runtime.Environment) error {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(n.Expression, env)
		return err
	case *ast.PrintStatement:
		val, err := i.evaluateExpression(n.Expression, env)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(i.stdout, valueToString(val))
		return err
	case *ast.VarDeclaration:
		var val runtime.Value = runtime.NilValue{}
		if n.Initializer != nil {
			var err error
			if val, err = i.evaluateExpression(n.Initializer, env); err != nil {
				return err
			}
		}
		env.Define(n.Name.Lexeme, val)
		return nil
	case *ast.BlockStatement:
		return i.evaluateBlock(n.Body, env.Extend())
	case *ast.IfStatement:
		return i.evaluateIfStatement(n, env)
	case *ast.WhileStatement:
		return i.evaluateWhileStatement(n, env)
	case *ast.FunctionDeclaration:
		env.Define(n.Name.Lexeme, &runtime.FunctionValue{Declaration: n, Closure: env})
		return nil
	case *ast.ReturnStatement:
		return i.evaluateReturnStatement(n, env)
	default:
		return fmt.Errorf("unsupported statement type %T", node)
	}
}

// evaluateBlock runs statements in env, which the caller has already
// created for the block.
func (i *Interpreter) evaluateBlock(statements []ast.Statement, env *runtime.Environment) error {
	for _, stmt := range statements {
		if err := i.evaluateStatement(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluateIfStatement(stmt *ast.IfStatement, env *runtime.Environment) error {
	cond, err := i.evaluateExpression(stmt.Condition, env)
	if err != nil {
		return err
	}
	if isTruthy(cond) {
		return i.evaluateStatement(stmt.Then, env)
	}
	if stmt.Else != nil {
		return i.evaluateStatement(stmt.Else, env)
	}
	return nil
}

func (i *Interpreter) evaluateWhileStatement(loop *ast.WhileStatement, env *runtime.Environment) error {
	for {
		cond, err := i.evaluateExpression(loop.Condition, env)
		if err != nil {
			return err
		}
		if !isTruthy(cond) {
			return nil
		}
		if err := i.evaluateStatement(loop.Body, env); err != nil {
			return err
		}
	}
}

func (i *Interpreter) evaluateReturnStatement(stmt *ast.ReturnStatement, env *runtime.Environment) error {
	var val runtime.Value = runtime.NilValue{}
	if stmt.Value != nil {
		var err error
		if val, err = i.evaluateExpression(stmt.Value, env); err != nil {
			return err
		}
	}
	return returnSignal{keyword: stmt.Keyword, value: val}
}
