// Package config provides infrastructure for loading QC profiles and runtime settings.
// This package handles YAML parsing, schema validation, file I/O, variable
// substitution, and profile inheritance.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/batchqc/internal/domain/entities"
	"github.com/reglet-dev/batchqc/internal/domain/services"
)

// ProfileLoader handles loading profiles from YAML files with inheritance support.
//
// Inheritance Resolution:
//   - Profiles can specify parent profiles via the `extends` field
//   - Parents are loaded recursively and merged left-to-right
//   - Circular inheritance is detected and rejected
//   - Relative paths are resolved from the extending profile's directory
//
// The loaded profile is raw: defaults are not applied and invariants are
// not checked. That is the job of services.ProfileCompiler.
type ProfileLoader struct {
	merger      *services.ProfileMerger
	substitutor *VariableSubstitutor
	schema      *SchemaValidator
	toolVersion string
}

// NewProfileLoader creates a new profile loader.
func NewProfileLoader() (*ProfileLoader, error) {
	schema, err := NewSchemaValidator()
	if err != nil {
		return nil, err
	}
	return &ProfileLoader{
		merger:      services.NewProfileMerger(),
		substitutor: NewVariableSubstitutor(),
		schema:      schema,
	}, nil
}

// WithToolVersion enables the profile requires check against this version.
func (l *ProfileLoader) WithToolVersion(version string) *ProfileLoader {
	l.toolVersion = version
	return l
}

// LoadProfile loads a profile, resolves all inheritance and substitutes variables.
// This is the main entry point for profile loading.
func (l *ProfileLoader) LoadProfile(path string) (*entities.QCProfile, error) {
	visited := make(map[string]bool)
	profile, err := l.loadProfileRecursive(path, visited)
	if err != nil {
		return nil, err
	}

	if err := ValidateProfileVersion(profile.Metadata.Version); err != nil {
		return nil, err
	}
	if l.toolVersion != "" {
		if err := CheckCompatibility(profile, l.toolVersion); err != nil {
			return nil, err
		}
	}

	if err := l.substitutor.Substitute(profile); err != nil {
		return nil, fmt.Errorf("variable substitution failed: %w", err)
	}

	return profile, nil
}

// loadProfileRecursive loads a profile and its parents recursively.
// visited holds the chain of profiles currently being loaded.
func (l *ProfileLoader) loadProfileRecursive(
	path string,
	visited map[string]bool,
) (*entities.QCProfile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", path, err)
	}

	if visited[absPath] {
		return nil, fmt.Errorf("circular inheritance detected: %s", absPath)
	}
	visited[absPath] = true
	defer delete(visited, absPath)

	current, err := l.loadSingleProfile(absPath)
	if err != nil {
		return nil, err
	}

	if len(current.Extends) == 0 {
		return current, nil
	}

	parents := make([]*entities.QCProfile, 0, len(current.Extends))
	for _, parentPath := range current.Extends {
		resolvedPath := l.resolveRelativePath(absPath, parentPath)
		parent, err := l.loadProfileRecursive(resolvedPath, visited)
		if err != nil {
			return nil, fmt.Errorf("loading parent %q: %w", parentPath, err)
		}
		parents = append(parents, parent)
	}

	return l.merger.MergeAll(parents, current), nil
}

// loadSingleProfile loads a single profile from disk without resolving inheritance.
func (l *ProfileLoader) loadSingleProfile(path string) (*entities.QCProfile, error) {
	// Use os.OpenRoot to prevent path traversal
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open profile directory: %w", err)
	}
	defer func() {
		_ = root.Close()
	}()

	file, err := root.Open(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open profile: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	profile, err := l.LoadProfileFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return profile, nil
}

// LoadProfileFromReader validates and decodes one profile document.
// It does NOT resolve inheritance.
func (l *ProfileLoader) LoadProfileFromReader(r io.Reader) (*entities.QCProfile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	if err := l.schema.Validate(data); err != nil {
		return nil, err
	}

	var profile entities.QCProfile
	decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
	if err := decoder.Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile YAML: %w", err)
	}

	return &profile, nil
}

// resolveRelativePath resolves a path relative to the current profile's directory.
// If extendsPath is absolute, it is returned as-is.
func (l *ProfileLoader) resolveRelativePath(currentPath, extendsPath string) string {
	if filepath.IsAbs(extendsPath) {
		return extendsPath
	}
	return filepath.Join(filepath.Dir(currentPath), extendsPath)
}
