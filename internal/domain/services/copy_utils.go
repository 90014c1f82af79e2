package services

import (
	"maps"
	"slices"

	"github.com/reglet-dev/batchqc/internal/domain/entities"
)

// ===== DEEP COPY UTILITIES =====
//
// Independent copies of profile structures, used by ProfileCompiler and ProfileMerger.

// DeepCopyProfile creates a complete deep copy of a profile.
func DeepCopyProfile(original *entities.QCProfile) *entities.QCProfile {
	if original == nil {
		return nil
	}

	return &entities.QCProfile{
		Metadata: original.Metadata,
		Extends:  CopyStringSlice(original.Extends),
		Vars:     CopyVars(original.Vars),
		Series: entities.SeriesSection{
			Defaults: CopyDefaults(original.Series.Defaults),
			Items:    CopySeries(original.Series.Items),
		},
	}
}

// CopyStringSlice creates a copy of a string slice, keeping nil as nil.
func CopyStringSlice(src []string) []string {
	if src == nil {
		return nil
	}
	return slices.Clone(src)
}

// CopyVars creates a shallow copy of a vars map.
// Values are plain YAML scalars or nested maps; nested maps are shared.
func CopyVars(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	return maps.Clone(src)
}

// CopyDefaults creates a deep copy of series defaults.
func CopyDefaults(src *entities.SeriesDefaults) *entities.SeriesDefaults {
	if src == nil {
		return nil
	}
	return &entities.SeriesDefaults{
		ActiveTolerance: copyFloat(src.ActiveTolerance),
		AllowedImpurity: copyFloat(src.AllowedImpurity),
		Severity:        src.Severity,
		Tags:            CopyStringSlice(src.Tags),
	}
}

// CopySeries creates a deep copy of a series spec slice.
func CopySeries(src []entities.SeriesSpec) []entities.SeriesSpec {
	if src == nil {
		return nil
	}
	dst := make([]entities.SeriesSpec, len(src))
	for i, spec := range src {
		dst[i] = entities.SeriesSpec{
			Code:            spec.Code,
			Name:            spec.Name,
			Description:     spec.Description,
			ExpectedActive:  spec.ExpectedActive,
			ActiveTolerance: copyFloat(spec.ActiveTolerance),
			AllowedImpurity: copyFloat(spec.AllowedImpurity),
			Severity:        spec.Severity,
			Tags:            CopyStringSlice(spec.Tags),
			Expect:          CopyStringSlice(spec.Expect),
		}
	}
	return dst
}

func copyFloat(src *float64) *float64 {
	if src == nil {
		return nil
	}
	v := *src
	return &v
}
