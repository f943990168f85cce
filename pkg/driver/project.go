package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrLockfileMissing is returned when a manifest declares dependencies but
// no rox.lock has been written yet.
var ErrLockfileMissing = errors.New("rox.lock missing; run 'rox deps install'")

const (
	gitSourcePrefix  = "git+"
	pathSourcePrefix = "path:"
)

// DefaultHome returns the dependency cache root: $ROX_HOME, or ~/.rox.
func DefaultHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("ROX_HOME")); home != "" {
		return filepath.Abs(home)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(userHome, ".rox"), nil
}

// DependencyDir is where a git dependency checkout lives inside the cache.
func DependencyDir(home, name, version string) string {
	return filepath.Join(home, "pkg", "src", SanitizePathSegment(name), SanitizePathSegment(version))
}

// GitSource formats a lockfile source for a git checkout.
func GitSource(url, commit string) string {
	return gitSourcePrefix + url + "@" + commit
}

// PathSource formats a lockfile source for a local directory.
func PathSource(dir string) string {
	return pathSourcePrefix + dir
}

// LockedDir resolves where a locked package lives on disk.
func LockedDir(home string, pkg *LockedPackage) string {
	if dir, ok := strings.CutPrefix(pkg.Source, pathSourcePrefix); ok {
		return dir
	}
	return DependencyDir(home, pkg.Name, pkg.Version)
}

// PreludeFiles lists the scripts to run before a project's main script:
// each dependency's prelude in dependency-name order, then the project's
// own prelude.
func PreludeFiles(manifest *Manifest, home string) ([]string, error) {
	if manifest == nil {
		return nil, nil
	}
	var files []string
	if names := manifest.DependencyNames(); len(names) > 0 {
		lock, err := LoadLockfile(LockfilePath(manifest))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, ErrLockfileMissing
			}
			return nil, err
		}
		for _, name := range names {
			pkg := lock.Find(name)
			if pkg == nil {
				return nil, fmt.Errorf("lockfile: dependency %q is not locked; run 'rox deps install'", name)
			}
			depFiles, err := dependencyPrelude(LockedDir(home, pkg))
			if err != nil {
				return nil, fmt.Errorf("dependency %s: %w", name, err)
			}
			files = append(files, depFiles...)
		}
	}
	return append(files, manifest.PreludePaths()...), nil
}

// dependencyPrelude returns the dependency's declared prelude, falling back
// to its src/*.rox files in name order.
func dependencyPrelude(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s is not installed; run 'rox deps install'", dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	manifestPath := filepath.Join(dir, ManifestFile)
	if _, err := os.Stat(manifestPath); err == nil {
		manifest, err := LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		if len(manifest.Prelude) > 0 {
			return manifest.PreludePaths(), nil
		}
	}
	files, err := filepath.Glob(filepath.Join(dir, "src", "*.rox"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// SanitizePathSegment maps an arbitrary name or version onto a safe
// directory name.
func SanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
