package main

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/bingcicle/rox/pkg/driver"
)

type gitFetcher struct {
	home string
}

func newGitFetcher(home string) *gitFetcher {
	if home == "" {
		return nil
	}
	return &gitFetcher{home: home}
}

// Fetch clones spec.Git, checks out the pinned reference and moves the
// worktree into the dependency cache.
func (g *gitFetcher) Fetch(name string, spec *driver.DependencySpec) (*driver.LockedPackage, error) {
	if g == nil {
		return nil, errors.New("git fetcher unavailable")
	}
	url := strings.TrimSpace(spec.Git)
	if url == "" {
		return nil, errors.New("git URL required")
	}

	version, commit, err := g.ensureCheckout(name, url, spec)
	if err != nil {
		return nil, err
	}
	checksum, err := dirChecksum(driver.DependencyDir(g.home, name, version))
	if err != nil {
		return nil, err
	}
	return &driver.LockedPackage{
		Name:     name,
		Version:  version,
		Source:   driver.GitSource(url, commit),
		Checksum: checksum,
	}, nil
}

func (g *gitFetcher) ensureCheckout(name, url string, spec *driver.DependencySpec) (string, string, error) {
	baseDir := filepath.Dir(driver.DependencyDir(g.home, name, "head"))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	revision, descriptor, err := gitRevisionFromSpec(spec)
	if err != nil {
		return "", "", err
	}

	if rev := strings.TrimSpace(spec.Rev); isFullCommit(rev) {
		if _, err := os.Stat(driver.DependencyDir(g.home, name, rev)); err == nil {
			return rev, rev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := driver.DependencyDir(g.home, name, version)
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return version, hash.String(), nil
}

func isFullCommit(rev string) bool {
	return rev != "" && plumbing.NewHash(rev).String() == rev
}

// gitPinnedVersion names a checkout after its reference and commit, e.g.
// "main@<sha>". A rev pinned to the full commit is just the commit.
func gitPinnedVersion(descriptor, commit string) string {
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return descriptor + "@" + commit
}

// gitPinMatches reports whether a locked version was resolved from the
// reference spec currently names.
func gitPinMatches(spec *driver.DependencySpec, version string) bool {
	_, descriptor, err := gitRevisionFromSpec(spec)
	if err != nil || descriptor == "" {
		return false
	}
	if isFullCommit(descriptor) {
		return version == descriptor
	}
	return strings.HasPrefix(version, descriptor+"@")
}

func gitRevisionFromSpec(spec *driver.DependencySpec) (plumbing.Revision, string, error) {
	kind, value := spec.Ref()
	value = strings.TrimSpace(value)
	switch kind {
	case "rev":
		return plumbing.Revision(value), value, nil
	case "tag":
		return plumbing.Revision(plumbing.NewTagReferenceName(value)), value, nil
	case "branch":
		return plumbing.Revision(plumbing.NewBranchReferenceName(value)), value, nil
	}
	return "", "", errors.New("git dependencies require rev, tag, or branch")
}

// dirChecksum hashes every file under path, skipping VCS metadata.
func dirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
