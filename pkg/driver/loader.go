package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bingcicle/rox/pkg/ast"
	"github.com/bingcicle/rox/pkg/diagnostics"
	"github.com/bingcicle/rox/pkg/parser"
)

// Source is one parsed script. Name is the path as given to Load and Path
// its absolute form.
type Source struct {
	Name       string
	Path       string
	Statements []ast.Statement
}

// Loader reads and parses scripts.
type Loader struct {
	readFile func(string) ([]byte, error)
}

// NewLoader returns a loader reading from the local filesystem.
func NewLoader() *Loader {
	return &Loader{readFile: os.ReadFile}
}

// Load parses every path in order. I/O failures stop loading immediately.
// Lexical and syntax errors are collected across all files, each prefixed
// with its path, and returned as a diagnostics.List; no sources are
// returned in that case.
func (l *Loader) Load(paths ...string) ([]*Source, error) {
	var errs diagnostics.List
	sources := make([]*Source, 0, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("loader: resolve %s: %w", path, err)
		}
		data, err := l.readFile(abs)
		if err != nil {
			return nil, fmt.Errorf("loader: read %s: %w", path, err)
		}
		stmts, err := parser.ParseSource(string(data))
		if err != nil {
			if list, ok := err.(diagnostics.List); ok {
				errs = append(errs, list.Prefix(path)...)
				continue
			}
			return nil, fmt.Errorf("loader: %s: %w", path, err)
		}
		sources = append(sources, &Source{Name: path, Path: abs, Statements: stmts})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return sources, nil
}
