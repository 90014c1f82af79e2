package services

import (
	"github.com/reglet-dev/batchqc/internal/domain/entities"
)

// ProfileMerger merges multiple profiles according to inheritance semantics.
//
// Merge Semantics:
//   - Metadata: overlay wins, fallback to base if empty
//   - Vars: shallow merge, overlay wins on conflict
//   - Series.Defaults: overlay wins per field (tags concatenate)
//   - Series.Items: merge by code (same code = replace, new code = append)
//   - Extends: NOT propagated (already resolved)
type ProfileMerger struct{}

// NewProfileMerger creates a new profile merger service.
func NewProfileMerger() *ProfileMerger {
	return &ProfileMerger{}
}

// MergeAll merges multiple parents then applies the current profile.
// Parents are merged left-to-right (later parents win on conflict).
// Returns a NEW profile (does not mutate inputs).
func (m *ProfileMerger) MergeAll(
	parents []*entities.QCProfile,
	current *entities.QCProfile,
) *entities.QCProfile {
	if len(parents) == 0 {
		return DeepCopyProfile(current)
	}

	result := DeepCopyProfile(parents[0])
	for _, parent := range parents[1:] {
		result = m.mergeTwoProfiles(result, parent)
	}

	return m.mergeTwoProfiles(result, current)
}

// Merge combines two profiles with overlay winning on conflicts.
// Returns a NEW profile (does not mutate inputs).
func (m *ProfileMerger) Merge(base, overlay *entities.QCProfile) *entities.QCProfile {
	return m.mergeTwoProfiles(DeepCopyProfile(base), overlay)
}

func (m *ProfileMerger) mergeTwoProfiles(base, overlay *entities.QCProfile) *entities.QCProfile {
	return &entities.QCProfile{
		Metadata: m.mergeMetadata(base.Metadata, overlay.Metadata),
		Vars:     m.mergeVars(base.Vars, overlay.Vars),
		Series: entities.SeriesSection{
			Defaults: m.mergeDefaults(base.Series.Defaults, overlay.Series.Defaults),
			Items:    m.mergeSeriesItems(base.Series.Items, overlay.Series.Items),
		},
	}
}

// mergeMetadata merges profile metadata with overlay winning on non-empty fields.
func (m *ProfileMerger) mergeMetadata(base, overlay entities.ProfileMetadata) entities.ProfileMetadata {
	result := overlay
	if result.Name == "" {
		result.Name = base.Name
	}
	if result.Version == "" {
		result.Version = base.Version
	}
	if result.Description == "" {
		result.Description = base.Description
	}
	if result.Requires == "" {
		result.Requires = base.Requires
	}
	return result
}

func (m *ProfileMerger) mergeVars(base, overlay map[string]any) map[string]any {
	if base == nil && overlay == nil {
		return nil
	}
	result := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range overlay {
		result[k] = v
	}
	return result
}

// mergeStringSliceDedup concatenates two slices and deduplicates, preserving order.
func (m *ProfileMerger) mergeStringSliceDedup(base, overlay []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(base)+len(overlay))
	for _, s := range append(CopyStringSlice(base), overlay...) {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func (m *ProfileMerger) mergeDefaults(base, overlay *entities.SeriesDefaults) *entities.SeriesDefaults {
	if base == nil && overlay == nil {
		return nil
	}
	result := CopyDefaults(base)
	if result == nil {
		result = &entities.SeriesDefaults{}
	}
	if overlay != nil {
		if overlay.ActiveTolerance != nil {
			result.ActiveTolerance = copyFloat(overlay.ActiveTolerance)
		}
		if overlay.AllowedImpurity != nil {
			result.AllowedImpurity = copyFloat(overlay.AllowedImpurity)
		}
		if overlay.Severity != "" {
			result.Severity = overlay.Severity
		}
		result.Tags = m.mergeStringSliceDedup(result.Tags, overlay.Tags)
	}
	return result
}

// mergeSeriesItems merges specs by code. Base order is kept; overlay specs
// replace base specs in place and new codes are appended.
func (m *ProfileMerger) mergeSeriesItems(base, overlay []entities.SeriesSpec) []entities.SeriesSpec {
	overlayByCode := make(map[string]entities.SeriesSpec, len(overlay))
	for _, spec := range overlay {
		overlayByCode[spec.Code] = spec
	}

	seen := make(map[string]bool)
	result := make([]entities.SeriesSpec, 0, len(base)+len(overlay))

	for _, spec := range base {
		seen[spec.Code] = true
		if replacement, ok := overlayByCode[spec.Code]; ok {
			spec = replacement
		}
		result = append(result, CopySeries([]entities.SeriesSpec{spec})[0])
	}

	for _, spec := range overlay {
		if !seen[spec.Code] {
			seen[spec.Code] = true
			result = append(result, CopySeries([]entities.SeriesSpec{spec})[0])
		}
	}

	return result
}
