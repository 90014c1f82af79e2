package services

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/reglet-dev/batchqc/internal/domain/entities"
)

// SeriesEnv defines the variables available during filter expression evaluation.
type SeriesEnv struct {
	Code           string   `expr:"code"`
	Name           string   `expr:"name"`
	Severity       string   `expr:"severity"`
	Tags           []string `expr:"tags"`
	ExpectedActive float64  `expr:"expected_active"`
}

// CompileSeriesFilter compiles a --filter expression once, up front.
func CompileSeriesFilter(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression, expr.Env(SeriesEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return program, nil
}

// SeriesFilter selects which series specs of a profile are checked.
type SeriesFilter struct {
	// Exclusive mode: only include specified series
	exclusiveCodes map[string]bool

	excludeCodes map[string]bool
	excludeTags  []string

	includeTags       []string
	includeSeverities map[string]bool

	filterProgram *vm.Program
}

// NewSeriesFilter initializes a filter that selects everything.
func NewSeriesFilter() *SeriesFilter {
	return &SeriesFilter{
		exclusiveCodes:    make(map[string]bool),
		excludeCodes:      make(map[string]bool),
		includeSeverities: make(map[string]bool),
	}
}

// WithExclusiveSeries restricts the run to ONLY the specified series codes.
// If set, all other filters are ignored.
func (f *SeriesFilter) WithExclusiveSeries(codes []string) *SeriesFilter {
	f.exclusiveCodes = toSet(codes)
	return f
}

// WithExcludedSeries excludes specific series codes.
func (f *SeriesFilter) WithExcludedSeries(codes []string) *SeriesFilter {
	f.excludeCodes = toSet(codes)
	return f
}

// WithExcludedTags excludes series with any of these tags.
func (f *SeriesFilter) WithExcludedTags(tags []string) *SeriesFilter {
	f.excludeTags = tags
	return f
}

// WithIncludedTags includes only series with any of these tags.
func (f *SeriesFilter) WithIncludedTags(tags []string) *SeriesFilter {
	f.includeTags = tags
	return f
}

// WithIncludedSeverities includes only series with these severities.
func (f *SeriesFilter) WithIncludedSeverities(severities []string) *SeriesFilter {
	f.includeSeverities = toSet(severities)
	return f
}

// WithFilterExpression applies a compiled expr program for advanced filtering.
func (f *SeriesFilter) WithFilterExpression(program *vm.Program) *SeriesFilter {
	f.filterProgram = program
	return f
}

// ShouldCheck reports whether a spec is selected, with the reason when it is not.
// Criteria are combined with AND in this order: excluded codes, excluded tags,
// severities, included tags, expression.
func (f *SeriesFilter) ShouldCheck(spec entities.SeriesSpec) (bool, string) {
	if len(f.exclusiveCodes) > 0 {
		if f.exclusiveCodes[spec.Code] {
			return true, ""
		}
		return false, "excluded by --series filter"
	}

	if f.excludeCodes[spec.Code] {
		return false, "excluded by --exclude-series"
	}

	for _, tag := range f.excludeTags {
		if spec.HasTag(tag) {
			return false, fmt.Sprintf("excluded by --exclude-tags %s", tag)
		}
	}

	if len(f.includeSeverities) > 0 && !f.includeSeverities[spec.Severity] {
		return false, "excluded by --severity filter"
	}

	if len(f.includeTags) > 0 && !spec.HasAnyTag(f.includeTags) {
		return false, "excluded by --tags filter"
	}

	if f.filterProgram != nil {
		return f.evaluateExpression(spec)
	}

	return true, ""
}

func (f *SeriesFilter) evaluateExpression(spec entities.SeriesSpec) (bool, string) {
	env := SeriesEnv{
		Code:           spec.Code,
		Name:           spec.Name,
		Severity:       spec.Severity,
		Tags:           spec.Tags,
		ExpectedActive: spec.ExpectedActive,
	}

	output, err := expr.Run(f.filterProgram, env)
	if err != nil {
		return false, fmt.Sprintf("filter expression error: %v", err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Sprintf("filter expression did not return boolean: %v", output)
	}
	if !result {
		return false, "excluded by --filter expression"
	}
	return true, ""
}

// toSet converts a slice to a map (set)
func toSet(slice []string) map[string]bool {
	s := make(map[string]bool, len(slice))
	for _, item := range slice {
		s[item] = true
	}
	return s
}
