package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bingcicle/rox/pkg/driver"
)

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "rox deps requires a subcommand (install, update)")
		return exitUsage
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "rox deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return exitUsage
		}
		return runDepsInstall()
	case "update":
		return runDepsUpdate(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return exitUsage
	}
}

func runDepsInstall() int {
	manifest, home, ok := loadDepsContext()
	if !ok {
		return exitFailure
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Root package: %s\n", manifest.Name)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(manifest.Dependencies))
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", home)

	lock, lockCreated, ok := loadOrCreateLockfile(manifest)
	if !ok {
		return exitFailure
	}

	installer := newDependencyInstaller(manifest, home)
	changed, logs, err := installer.Install(lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve dependencies: %v\n", err)
		return exitFailure
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if changed || lockCreated {
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(lock, lock.Path); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return exitFailure
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockfileName, lock.Path)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileName, lock.Path)
	}

	fmt.Fprintln(os.Stdout, "Dependencies installed.")
	return exitOK
}

// runDepsUpdate drops the targeted lock entries (all of them when no
// targets are named) so the installer resolves them afresh.
func runDepsUpdate(targets []string) int {
	manifest, home, ok := loadDepsContext()
	if !ok {
		return exitFailure
	}
	for _, target := range targets {
		if _, declared := manifest.Dependencies[target]; !declared {
			fmt.Fprintf(os.Stderr, "dependency %q not declared in manifest\n", target)
			return exitFailure
		}
	}

	lock, lockCreated, ok := loadOrCreateLockfile(manifest)
	if !ok {
		return exitFailure
	}
	previous := lock.Clone()
	lock.Remove(targets...)

	installer := newDependencyInstaller(manifest, home)
	_, logs, err := installer.Install(lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to update dependencies: %v\n", err)
		return exitFailure
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if lockCreated || !previous.SamePackages(lock) {
		if err := driver.WriteLockfile(lock, lock.Path); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return exitFailure
		}
		fmt.Fprintf(os.Stdout, "Updated %s: %s\n", driver.LockfileName, lock.Path)
	} else {
		fmt.Fprintln(os.Stdout, "Dependencies already up to date.")
	}
	return exitOK
}

func loadDepsContext() (*driver.Manifest, string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return nil, "", false
	}
	manifest, err := loadManifestFrom(cwd)
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			fmt.Fprintf(os.Stderr, "unable to locate %s: %v\n", driver.ManifestFile, err)
		} else {
			fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		}
		return nil, "", false
	}
	home, err := resolveRoxHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve ROX_HOME: %v\n", err)
		return nil, "", false
	}
	return manifest, home, true
}

func loadOrCreateLockfile(manifest *driver.Manifest) (*driver.Lockfile, bool, bool) {
	lockPath := driver.LockfilePath(manifest)
	lock, err := driver.LoadLockfile(lockPath)
	created := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return nil, false, false
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		created = true
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return nil, false, false
	}
	lock.Path = lockPath
	lock.Tool = cliToolVersion
	return lock, created, true
}
