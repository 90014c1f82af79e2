package entities

import (
	"fmt"
	"slices"

	"github.com/reglet-dev/batchqc/internal/domain/values"
)

// QCProfile describes which production series to verify and with which tolerances.
// This is the aggregate root of the quality-control configuration.
//
// Invariants Enforced:
//   - Profile name and version are required
//   - Series codes are unique and exactly three characters
//   - Every series resolves an active tolerance and an impurity allowance,
//     either directly or from the series defaults
type QCProfile struct {
	Metadata ProfileMetadata `json:"profile" yaml:"profile"`
	// Extends lists parent profiles, resolved and merged by the loader
	Extends []string       `json:"extends,omitempty" yaml:"extends,omitempty"`
	Vars    map[string]any `json:"vars,omitempty" yaml:"vars,omitempty"`
	Series  SeriesSection  `json:"series" yaml:"series"`
}

// ProfileMetadata contains metadata about the profile.
type ProfileMetadata struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Requires is an optional batchqc version constraint, e.g. ">= 1.2"
	Requires string `json:"requires,omitempty" yaml:"requires,omitempty"`
}

// SeriesSection contains series defaults and the individual series specs.
type SeriesSection struct {
	Defaults *SeriesDefaults `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Items    []SeriesSpec    `json:"items" yaml:"items"`
}

// SeriesDefaults are applied to every series spec that does not set its own value.
type SeriesDefaults struct {
	ActiveTolerance *float64 `json:"active_tolerance,omitempty" yaml:"active_tolerance,omitempty"`
	AllowedImpurity *float64 `json:"allowed_impurity,omitempty" yaml:"allowed_impurity,omitempty"`
	Severity        string   `json:"severity,omitempty" yaml:"severity,omitempty"`
	Tags            []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// SeriesSpec is the tolerance contract for one production series.
//
// ExpectedActive is the nominal active-substance mass per unit. ActiveTolerance is
// the fraction of the expected total active mass the measured total may deviate by.
// AllowedImpurity is the maximum impurity mass as a fraction of total mass.
type SeriesSpec struct {
	Code            string   `json:"code" yaml:"code"`
	Name            string   `json:"name,omitempty" yaml:"name,omitempty"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	ExpectedActive  float64  `json:"expected_active" yaml:"expected_active"`
	ActiveTolerance *float64 `json:"active_tolerance,omitempty" yaml:"active_tolerance,omitempty"`
	AllowedImpurity *float64 `json:"allowed_impurity,omitempty" yaml:"allowed_impurity,omitempty"`
	Severity        string   `json:"severity,omitempty" yaml:"severity,omitempty"`
	Tags            []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Expect          []string `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// ===== PROFILE AGGREGATE ROOT METHODS =====

// Validate validates the entire profile.
func (p *QCProfile) Validate() error {
	if p.Metadata.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if p.Metadata.Version == "" {
		return fmt.Errorf("profile version cannot be empty")
	}
	if len(p.Series.Items) == 0 {
		return fmt.Errorf("profile must define at least one series")
	}

	seen := make(map[string]bool)
	for i, spec := range p.Series.Items {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("series %d (%s): %w", i, spec.Code, err)
		}
		if seen[spec.Code] {
			return fmt.Errorf("duplicate series code: %s", spec.Code)
		}
		seen[spec.Code] = true
	}

	return nil
}

// ApplyDefaults copies series defaults into every spec that leaves them unset.
func (p *QCProfile) ApplyDefaults() {
	if p.Series.Defaults == nil {
		return
	}

	defaults := p.Series.Defaults

	for i := range p.Series.Items {
		spec := &p.Series.Items[i]

		if spec.ActiveTolerance == nil && defaults.ActiveTolerance != nil {
			v := *defaults.ActiveTolerance
			spec.ActiveTolerance = &v
		}
		if spec.AllowedImpurity == nil && defaults.AllowedImpurity != nil {
			v := *defaults.AllowedImpurity
			spec.AllowedImpurity = &v
		}
		if spec.Severity == "" && defaults.Severity != "" {
			spec.Severity = defaults.Severity
		}

		// Merge tags (defaults first, then the spec's own), keeping order
		if len(defaults.Tags) > 0 {
			merged := slices.Clone(defaults.Tags)
			for _, tag := range spec.Tags {
				if !slices.Contains(merged, tag) {
					merged = append(merged, tag)
				}
			}
			spec.Tags = merged
		}
	}
}

// GetSeries retrieves a series spec by code.
func (p *QCProfile) GetSeries(code string) *SeriesSpec {
	for i := range p.Series.Items {
		if p.Series.Items[i].Code == code {
			return &p.Series.Items[i]
		}
	}
	return nil
}

// HasSeries returns true if a spec with the given code exists.
func (p *QCProfile) HasSeries(code string) bool {
	return p.GetSeries(code) != nil
}

// SeriesCount returns the number of series specs.
func (p *QCProfile) SeriesCount() int {
	return len(p.Series.Items)
}

// ===== SERIES SPEC METHODS =====

// Validate checks the spec's own invariants.
func (s *SeriesSpec) Validate() error {
	if _, err := values.NewSeriesCode(s.Code); err != nil {
		return err
	}
	if !(s.ExpectedActive > 0) {
		return fmt.Errorf("expected_active must be greater than zero, got %g", s.ExpectedActive)
	}
	if s.ActiveTolerance == nil {
		return fmt.Errorf("active_tolerance is required (set it on the series or in series.defaults)")
	}
	if !(*s.ActiveTolerance >= 0) {
		return fmt.Errorf("active_tolerance cannot be negative, got %g", *s.ActiveTolerance)
	}
	if s.AllowedImpurity == nil {
		return fmt.Errorf("allowed_impurity is required (set it on the series or in series.defaults)")
	}
	if !(*s.AllowedImpurity >= 0) {
		return fmt.Errorf("allowed_impurity cannot be negative, got %g", *s.AllowedImpurity)
	}
	if _, err := values.ParseSeverity(s.Severity); err != nil {
		return err
	}
	return nil
}

// Tolerances returns the active tolerance and impurity allowance, zero when unset.
func (s *SeriesSpec) Tolerances() (activeTolerance, allowedImpurity float64) {
	if s.ActiveTolerance != nil {
		activeTolerance = *s.ActiveTolerance
	}
	if s.AllowedImpurity != nil {
		allowedImpurity = *s.AllowedImpurity
	}
	return activeTolerance, allowedImpurity
}

// DisplayName returns the spec name, falling back to the code.
func (s *SeriesSpec) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Code
}

// HasTag returns true if the spec has the specified tag.
func (s *SeriesSpec) HasTag(tag string) bool {
	return slices.Contains(s.Tags, tag)
}

// HasAnyTag returns true if the spec has any of the specified tags.
func (s *SeriesSpec) HasAnyTag(tags []string) bool {
	return slices.ContainsFunc(tags, s.HasTag)
}
