package runtime

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUndefined is wrapped by lookups and assignments of unbound names.
var ErrUndefined = errors.New("undefined variable")

// UndefinedError names the missing binding.
type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'.", e.Name)
}

func (e *UndefinedError) Unwrap() error { return ErrUndefined }

// Environment is one lexical scope: a table of bindings plus an optional
// enclosing scope.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the enclosing scope (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define inserts or shadows a binding in the current scope. Redefining a
// name in the same scope replaces it.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Assign updates an existing binding in the nearest scope where it appears.
// It never creates a binding.
func (e *Environment) Assign(name string, value Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return nil
		}
	}
	return &UndefinedError{Name: name}
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, nil
		}
	}
	return nil, &UndefinedError{Name: name}
}

// Has reports whether name is bound in this scope only.
func (e *Environment) Has(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Keys returns the bindings of this scope in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extend creates a child scope.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
