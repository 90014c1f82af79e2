package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProfile = `
profile:
  name: tablets
  version: 1.0.0
series:
  defaults:
    active_tolerance: 0.05
    severity: high
  items:
    - code: L01
      expected_active: 100
      allowed_impurity: 0.001
    - code: G02
      name: Gel caps
      expected_active: 125
      allowed_impurity: 0.003
      tags: [release]
      expect:
        - units >= 1
`

func newLoader(t *testing.T) *ProfileLoader {
	t.Helper()
	loader, err := NewProfileLoader()
	require.NoError(t, err)
	return loader
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfileFromReader_Valid(t *testing.T) {
	profile, err := newLoader(t).LoadProfileFromReader(strings.NewReader(validProfile))
	require.NoError(t, err)

	assert.Equal(t, "tablets", profile.Metadata.Name)
	assert.Equal(t, "1.0.0", profile.Metadata.Version)
	require.Len(t, profile.Series.Items, 2)

	g02 := profile.Series.Items[1]
	assert.Equal(t, "G02", g02.Code)
	assert.Equal(t, "Gel caps", g02.Name)
	assert.Equal(t, 125.0, g02.ExpectedActive)
	require.NotNil(t, g02.AllowedImpurity)
	assert.Equal(t, 0.003, *g02.AllowedImpurity)
	assert.Equal(t, []string{"units >= 1"}, g02.Expect)
}

func TestLoadProfileFromReader_LoadsDefaultsWithoutApplying(t *testing.T) {
	profile, err := newLoader(t).LoadProfileFromReader(strings.NewReader(validProfile))
	require.NoError(t, err)

	require.NotNil(t, profile.Series.Defaults)
	assert.Equal(t, 0.05, *profile.Series.Defaults.ActiveTolerance)
	assert.Nil(t, profile.Series.Items[0].ActiveTolerance, "defaults are applied by the compiler, not the loader")
}

func TestLoadProfileFromReader_InvalidYAML(t *testing.T) {
	_, err := newLoader(t).LoadProfileFromReader(strings.NewReader(`invalid yaml: [[[`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestLoadProfileFromReader_SchemaViolations(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		contains string
	}{
		{
			name: "unknown field",
			yaml: `
profile:
  name: x
  version: 1.0.0
series:
  items:
    - code: L01
      expected_active: 100
      colour: red
`,
			contains: "/series/items/0",
		},
		{
			name: "negative tolerance",
			yaml: `
profile:
  name: x
series:
  items:
    - code: L01
      expected_active: 100
      active_tolerance: -0.1
`,
			contains: "/series/items/0/active_tolerance",
		},
		{
			name: "bad severity",
			yaml: `
series:
  defaults:
    severity: urgent
`,
			contains: "/series/defaults/severity",
		},
		{
			name:     "missing code",
			yaml:     "series:\n  items:\n    - expected_active: 100\n",
			contains: "/series/items/0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLoader(t).LoadProfileFromReader(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "profile schema validation failed")
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadProfile_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "qc.yaml", validProfile)

	profile, err := newLoader(t).LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.SeriesCount())
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := newLoader(t).LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open profile")
}

func TestLoadProfile_InvalidVersion(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "qc.yaml", strings.Replace(validProfile, "version: 1.0.0", "version: one", 1))

	_, err := newLoader(t).LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `profile version "one" is not valid`)
}

func TestLoadProfile_Extends(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
profile:
  name: base
  version: 1.0.0
  description: Site-wide limits
series:
  defaults:
    active_tolerance: 0.05
    allowed_impurity: 0.001
    tags: [site]
  items:
    - code: L01
      expected_active: 100
    - code: G02
      expected_active: 125
`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "lines"), 0o750))
	child := writeFile(t, filepath.Join(dir, "lines"), "gel.yaml", `
profile:
  name: gel-line
extends:
  - ../base.yaml
series:
  defaults:
    tags: [gel]
  items:
    - code: G02
      expected_active: 130
      allowed_impurity: 0.003
`)

	profile, err := newLoader(t).LoadProfile(child)
	require.NoError(t, err)

	assert.Equal(t, "gel-line", profile.Metadata.Name)
	assert.Equal(t, "1.0.0", profile.Metadata.Version)
	assert.Equal(t, "Site-wide limits", profile.Metadata.Description)
	assert.Nil(t, profile.Extends)
	assert.Equal(t, []string{"site", "gel"}, profile.Series.Defaults.Tags)

	require.Len(t, profile.Series.Items, 2)
	assert.Equal(t, "L01", profile.Series.Items[0].Code)
	assert.Equal(t, 130.0, profile.Series.Items[1].ExpectedActive)
}

func TestLoadProfile_CircularInheritance(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "extends: [b.yaml]\n")
	writeFile(t, dir, "b.yaml", "extends: [a.yaml]\n")

	_, err := newLoader(t).LoadProfile(filepath.Join(dir, "a.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular inheritance detected")
}

func TestLoadProfile_SharedParent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "root.yaml", "profile:\n  name: root\n  version: 1.0.0\n")
	writeFile(t, dir, "left.yaml", "extends: [root.yaml]\n")
	writeFile(t, dir, "right.yaml", "extends: [root.yaml]\n")
	path := writeFile(t, dir, "leaf.yaml", "extends: [left.yaml, right.yaml]\n")

	profile, err := newLoader(t).LoadProfile(path)
	require.NoError(t, err, "a parent reached twice is not a cycle")
	assert.Equal(t, "root", profile.Metadata.Name)
}

func TestLoadProfile_SubstitutesVariables(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "qc.yaml", `
profile:
  name: vars
  version: 1.0.0
vars:
  site: Leiden
  limits:
    deviation: 2.5
series:
  items:
    - code: L01
      description: "Tablets made in {{ .vars.site }}"
      expected_active: 100
      expect:
        - "active_deviation < {{ .vars.limits.deviation }}"
`)

	profile, err := newLoader(t).LoadProfile(path)
	require.NoError(t, err)

	spec := profile.Series.Items[0]
	assert.Equal(t, "Tablets made in Leiden", spec.Description)
	assert.Equal(t, []string{"active_deviation < 2.5"}, spec.Expect)
}

func TestLoadProfile_Requires(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "qc.yaml", `
profile:
  name: strict
  version: 1.0.0
  requires: ">= 2.0.0"
`)

	_, err := newLoader(t).WithToolVersion("1.4.0").LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile strict requires batchqc >= 2.0.0, running 1.4.0")

	_, err = newLoader(t).WithToolVersion("2.1.0").LoadProfile(path)
	require.NoError(t, err)

	_, err = newLoader(t).WithToolVersion("dev").LoadProfile(path)
	require.NoError(t, err, "development builds are not checked")
}
