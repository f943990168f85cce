package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bingcicle/rox/pkg/driver"
)

// localVersion is recorded for path dependencies without a manifest version.
const localVersion = "0.0.0"

type dependencyInstaller struct {
	manifest *driver.Manifest
	home     string
	git      *gitFetcher
	logs     []string
}

func newDependencyInstaller(manifest *driver.Manifest, home string) *dependencyInstaller {
	return &dependencyInstaller{
		manifest: manifest,
		home:     home,
		git:      newGitFetcher(home),
	}
}

// Install resolves every manifest dependency into lock. Git entries already
// pinned in lock are reused while their checkout is cached; everything else
// is fetched afresh. It reports whether the pinned packages changed.
func (i *dependencyInstaller) Install(lock *driver.Lockfile) (bool, []string, error) {
	if i.manifest == nil {
		return false, nil, fmt.Errorf("dependency installer: manifest is nil")
	}
	if lock == nil {
		return false, nil, fmt.Errorf("dependency installer: lockfile is nil")
	}
	i.logs = nil

	resolved := &driver.Lockfile{Packages: make([]*driver.LockedPackage, 0, len(i.manifest.Dependencies))}
	for _, name := range i.manifest.DependencyNames() {
		spec := i.manifest.Dependencies[name]
		var (
			pkg *driver.LockedPackage
			err error
		)
		if spec.IsGit() {
			pkg, err = i.installGit(name, spec, lock.Find(name))
		} else {
			pkg, err = i.installPath(name, spec)
		}
		if err != nil {
			return false, i.logs, err
		}
		resolved.Packages = append(resolved.Packages, pkg)
	}

	changed := !resolved.SamePackages(lock)
	lock.Packages = resolved.Packages
	return changed, i.logs, nil
}

func (i *dependencyInstaller) installPath(name string, spec *driver.DependencySpec) (*driver.LockedPackage, error) {
	dir := i.manifest.ResolvePath(spec.Path)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: path %s: %w", name, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dependency %q: path %s is not a directory", name, dir)
	}

	version := localVersion
	depManifest := filepath.Join(dir, driver.ManifestFile)
	if _, err := os.Stat(depManifest); err == nil {
		m, err := driver.LoadManifest(depManifest)
		if err != nil {
			return nil, fmt.Errorf("dependency %q: %w", name, err)
		}
		if v := strings.TrimSpace(m.Version); v != "" {
			version = v
		}
	}

	checksum, err := dirChecksum(dir)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: checksum %s: %w", name, dir, err)
	}
	i.logf("Resolved path dependency %s %s -> %s", name, version, dir)
	return &driver.LockedPackage{
		Name:     name,
		Version:  version,
		Source:   driver.PathSource(dir),
		Checksum: checksum,
	}, nil
}

func (i *dependencyInstaller) installGit(name string, spec *driver.DependencySpec, locked *driver.LockedPackage) (*driver.LockedPackage, error) {
	url := strings.TrimSpace(spec.Git)
	if locked != nil && strings.HasPrefix(locked.Source, driver.GitSource(url, "")) && gitPinMatches(spec, locked.Version) {
		if _, err := os.Stat(driver.LockedDir(i.home, locked)); err == nil {
			i.logf("Using locked git dependency %s %s", name, locked.Version)
			copied := *locked
			return &copied, nil
		}
	}

	pkg, err := i.git.Fetch(name, spec)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: %w", name, err)
	}
	kind, ref := spec.Ref()
	i.logf("Fetched git dependency %s (%s %s) -> %s", name, kind, ref, pkg.Version)
	return pkg, nil
}

func (i *dependencyInstaller) logf(format string, args ...any) {
	i.logs = append(i.logs, fmt.Sprintf(format, args...))
}
