package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bingcicle/rox/pkg/interpreter"
)

// ManifestFile is the project manifest name looked up next to scripts.
const ManifestFile = "rox.yml"

// ErrManifestNotFound is returned by FindManifest when no directory on the
// way up holds a manifest.
var ErrManifestNotFound = errors.New("manifest: rox.yml not found")

// Manifest represents the parsed contents of rox.yml.
type Manifest struct {
	Path         string
	Dir          string
	Name         string
	Version      string
	Main         string
	Prelude      []string
	Runtime      RuntimeSettings
	Dependencies map[string]*DependencySpec
}

// RuntimeSettings tune the interpreter for a project.
type RuntimeSettings struct {
	// MaxCallDepth overrides the interpreter call limit; 0 keeps the default.
	MaxCallDepth int
}

// DependencySpec describes a dependency descriptor in the manifest. Exactly
// one of Git or Path is set; git dependencies pin one of Rev, Tag or Branch.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses rox.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from start up to the filesystem root and returns the
// first rox.yml found.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", start, err)
	}
	for {
		candidate := filepath.Join(dir, ManifestFile)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("manifest: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrManifestNotFound
		}
		dir = parent
	}
}

// ResolvePath interprets a manifest-relative path.
func (m *Manifest) ResolvePath(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(m.Dir, filepath.FromSlash(rel))
}

// MainPath returns the absolute path of the main script, or "" when the
// manifest has none.
func (m *Manifest) MainPath() string {
	if m == nil || m.Main == "" {
		return ""
	}
	return m.ResolvePath(m.Main)
}

// PreludePaths returns the absolute prelude paths in manifest order.
func (m *Manifest) PreludePaths() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.Prelude))
	for _, rel := range m.Prelude {
		out = append(out, m.ResolvePath(rel))
	}
	return out
}

// DependencyNames returns dependency names sorted for deterministic
// installation and load order.
func (m *Manifest) DependencyNames() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Runtime.MaxCallDepth < 0 {
		errs.Issues = append(errs.Issues, "runtime.max_call_depth must not be negative")
	}
	if m.Runtime.MaxCallDepth > interpreter.MaxCallDepthLimit {
		errs.Issues = append(errs.Issues, fmt.Sprintf("runtime.max_call_depth must not exceed %d", interpreter.MaxCallDepthLimit))
	}
	for i, prelude := range m.Prelude {
		if prelude == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("prelude[%d] must be a non-empty path", i))
		}
	}
	for _, name := range m.DependencyNames() {
		dep := m.Dependencies[name]
		if dep == nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: must specify git or path", name))
			continue
		}
		for _, issue := range dep.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// IsGit reports whether the dependency is fetched from a git remote.
func (d *DependencySpec) IsGit() bool {
	return d != nil && d.Git != ""
}

// Ref returns the pinned git reference and its kind ("rev", "tag" or
// "branch").
func (d *DependencySpec) Ref() (kind, value string) {
	switch {
	case d.Rev != "":
		return "rev", d.Rev
	case d.Tag != "":
		return "tag", d.Tag
	case d.Branch != "":
		return "branch", d.Branch
	}
	return "", ""
}

func (d *DependencySpec) validate() []string {
	var errs []string
	switch {
	case d.Git != "" && d.Path != "":
		errs = append(errs, "must specify exactly one of git or path")
	case d.Git == "" && d.Path == "":
		errs = append(errs, "must specify git or path")
	}
	refs := 0
	for _, ref := range []string{d.Rev, d.Tag, d.Branch} {
		if ref != "" {
			refs++
		}
	}
	if d.Git != "" && refs == 0 {
		errs = append(errs, "git dependencies require rev, tag, or branch")
	}
	if refs > 1 {
		errs = append(errs, "rev, tag, and branch are mutually exclusive")
	}
	if d.Path != "" && d.Git == "" && refs > 0 {
		errs = append(errs, "path dependencies cannot pin a git reference")
	}
	return errs
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Main         string        `yaml:"main"`
	Prelude      stringList    `yaml:"prelude"`
	Runtime      runtimeYAML   `yaml:"runtime"`
	Dependencies dependencyMap `yaml:"dependencies"`
}

type runtimeYAML struct {
	MaxCallDepth int `yaml:"max_call_depth"`
}

type dependencyMap map[string]*DependencySpec

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:         path,
		Dir:          filepath.Dir(path),
		Name:         strings.TrimSpace(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		Main:         strings.TrimSpace(mf.Main),
		Prelude:      []string(mf.Prelude),
		Runtime:      RuntimeSettings{MaxCallDepth: mf.Runtime.MaxCallDepth},
		Dependencies: make(map[string]*DependencySpec, len(mf.Dependencies)),
	}
	for name, dep := range mf.Dependencies {
		if dep == nil {
			result.Dependencies[name] = nil
			continue
		}
		copy := *dep
		result.Dependencies[name] = &copy
	}
	return result
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, strings.TrimSpace(str))
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}

func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		*dm = make(dependencyMap)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	result := make(dependencyMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: dependency names must be non-empty")
		}
		dep, err := decodeDependency(valNode)
		if err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		result[key] = dep
	}
	*dm = result
	return nil
}

func decodeDependency(value *yaml.Node) (*DependencySpec, error) {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return nil, nil
		}
		return nil, fmt.Errorf("expected mapping with git or path, found %q", value.Value)
	case yaml.MappingNode:
		var raw struct {
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
			Path   string `yaml:"path"`
		}
		if err := value.Decode(&raw); err != nil {
			return nil, err
		}
		return &DependencySpec{
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			Path:   strings.TrimSpace(raw.Path),
		}, nil
	case yaml.AliasNode:
		return decodeDependency(value.Alias)
	default:
		return nil, fmt.Errorf("expected mapping, found %s", value.ShortTag())
	}
}
