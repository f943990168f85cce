package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bingcicle/rox/pkg/ast"
	"github.com/bingcicle/rox/pkg/diagnostics"
	"github.com/bingcicle/rox/pkg/driver"
	"github.com/bingcicle/rox/pkg/interpreter"
	"github.com/bingcicle/rox/pkg/scanner"
)

const maxCallDepthEnv = "ROX_MAX_CALL_DEPTH"

func runEntry(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "rox run takes at most one script (received %s)\n", strings.Join(args, " "))
		return exitUsage
	}

	if len(args) == 1 {
		manifest, err := manifestForScript(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: unable to load manifest (%v); falling back to direct file execution\n", err)
			manifest = nil
		}
		return executeEntry(args[0], manifest)
	}

	manifest, err := loadManifestFrom(".")
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			fmt.Fprintln(os.Stderr, "rox run requires a script or a rox.yml declaring main")
			return exitUsage
		}
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return exitFailure
	}
	entryPath := manifest.MainPath()
	if entryPath == "" {
		fmt.Fprintf(os.Stderr, "manifest %s does not declare main\n", manifest.Path)
		return exitUsage
	}
	return executeEntry(entryPath, manifest)
}

// executeEntry runs the project preludes followed by the entry script in a
// single interpreter.
func executeEntry(entryPath string, manifest *driver.Manifest) int {
	maxDepth, err := resolveMaxCallDepth(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitFailure
	}

	var preludes []string
	if manifest != nil {
		home, err := resolveRoxHome()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to resolve ROX_HOME: %v\n", err)
			return exitFailure
		}
		if preludes, err = driver.PreludeFiles(manifest, home); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return exitFailure
		}
	}

	sources, err := driver.NewLoader().Load(append(preludes, entryPath)...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		var list diagnostics.List
		if errors.As(err, &list) {
			return exitDataErr
		}
		return exitFailure
	}

	interp := interpreter.NewWithConfig(interpreter.Config{
		Stdout:       os.Stdout,
		MaxCallDepth: maxDepth,
	})
	for _, src := range sources {
		if err := interp.Interpret(src.Statements); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", src.Name, err)
			return exitSoftware
		}
	}
	return exitOK
}

func runTokens(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "rox tokens requires exactly one script")
		return exitUsage
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", args[0], err)
		return exitFailure
	}
	tokens, scanErr := scanner.Scan(string(data))
	for _, tok := range tokens {
		fmt.Fprintln(os.Stdout, strings.TrimRight(fmt.Sprintf("%d %s", tok.Line, tok), " "))
	}
	if scanErr != nil {
		var list diagnostics.List
		if errors.As(scanErr, &list) {
			scanErr = list.Prefix(args[0])
		}
		fmt.Fprintln(os.Stderr, scanErr)
		return exitDataErr
	}
	return exitOK
}

func runAST(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "rox ast requires exactly one script")
		return exitUsage
	}
	sources, err := driver.NewLoader().Load(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		var list diagnostics.List
		if errors.As(err, &list) {
			return exitDataErr
		}
		return exitFailure
	}
	if program := ast.PrintProgram(sources[0].Statements); program != "" {
		fmt.Fprintln(os.Stdout, program)
	}
	return exitOK
}

// manifestForScript returns the manifest governing script, or nil when no
// rox.yml exists in its directory or any ancestor.
func manifestForScript(script string) (*driver.Manifest, error) {
	abs, err := filepath.Abs(script)
	if err != nil {
		return nil, err
	}
	path, err := driver.FindManifest(filepath.Dir(abs))
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return driver.LoadManifest(path)
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(path)
}

// resolveMaxCallDepth prefers ROX_MAX_CALL_DEPTH over the manifest setting.
// Zero means the interpreter default.
func resolveMaxCallDepth(manifest *driver.Manifest) (int, error) {
	if raw := strings.TrimSpace(os.Getenv(maxCallDepthEnv)); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil || depth < 0 || depth > interpreter.MaxCallDepthLimit {
			return 0, fmt.Errorf("invalid %s %q: must be an integer between 0 and %d", maxCallDepthEnv, raw, interpreter.MaxCallDepthLimit)
		}
		return depth, nil
	}
	if manifest != nil {
		return manifest.Runtime.MaxCallDepth, nil
	}
	return 0, nil
}

func resolveRoxHome() (string, error) {
	return driver.DefaultHome()
}
