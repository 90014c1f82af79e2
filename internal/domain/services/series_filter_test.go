package services

import (
	"testing"

	"github.com/reglet-dev/batchqc/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SeriesFilter_NoFilters(t *testing.T) {
	ok, reason := NewSeriesFilter().ShouldCheck(entities.SeriesSpec{Code: "L01"})
	assert.True(t, ok, "no filters should allow all series")
	assert.Empty(t, reason)
}

func Test_SeriesFilter_ExclusiveMode(t *testing.T) {
	filter := NewSeriesFilter().
		WithExclusiveSeries([]string{"L01", "G02"}).
		WithExcludedSeries([]string{"L01"})

	tests := []struct {
		code     string
		expected bool
	}{
		{"L01", true},
		{"G02", true},
		{"G03", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			ok, reason := filter.ShouldCheck(entities.SeriesSpec{Code: tt.code})
			assert.Equal(t, tt.expected, ok)
			if !ok {
				assert.Equal(t, "excluded by --series filter", reason)
			}
		})
	}
}

func Test_SeriesFilter_Exclusions(t *testing.T) {
	filter := NewSeriesFilter().
		WithExcludedSeries([]string{"G03"}).
		WithExcludedTags([]string{"pilot"})

	tests := []struct {
		name     string
		spec     entities.SeriesSpec
		expected bool
		reason   string
	}{
		{"plain", entities.SeriesSpec{Code: "L01"}, true, ""},
		{"excluded code", entities.SeriesSpec{Code: "G03"}, false, "excluded by --exclude-series"},
		{"excluded tag", entities.SeriesSpec{Code: "G02", Tags: []string{"release", "pilot"}}, false, "excluded by --exclude-tags pilot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := filter.ShouldCheck(tt.spec)
			assert.Equal(t, tt.expected, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func Test_SeriesFilter_Inclusions(t *testing.T) {
	filter := NewSeriesFilter().
		WithIncludedSeverities([]string{"critical", "high"}).
		WithIncludedTags([]string{"release"})

	tests := []struct {
		name     string
		spec     entities.SeriesSpec
		expected bool
		reason   string
	}{
		{"matches both", entities.SeriesSpec{Code: "L01", Severity: "high", Tags: []string{"release"}}, true, ""},
		{"wrong severity", entities.SeriesSpec{Code: "L01", Severity: "low", Tags: []string{"release"}}, false, "excluded by --severity filter"},
		{"missing tag", entities.SeriesSpec{Code: "L01", Severity: "critical"}, false, "excluded by --tags filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := filter.ShouldCheck(tt.spec)
			assert.Equal(t, tt.expected, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func Test_SeriesFilter_Expression(t *testing.T) {
	program, err := CompileSeriesFilter(`expected_active >= 120 && !("pilot" in tags)`)
	require.NoError(t, err)

	filter := NewSeriesFilter().WithFilterExpression(program)

	ok, _ := filter.ShouldCheck(entities.SeriesSpec{Code: "G02", ExpectedActive: 125})
	assert.True(t, ok)

	ok, reason := filter.ShouldCheck(entities.SeriesSpec{Code: "L01", ExpectedActive: 100})
	assert.False(t, ok)
	assert.Equal(t, "excluded by --filter expression", reason)

	ok, _ = filter.ShouldCheck(entities.SeriesSpec{Code: "G03", ExpectedActive: 130, Tags: []string{"pilot"}})
	assert.False(t, ok)
}

func Test_CompileSeriesFilter_Invalid(t *testing.T) {
	tests := []string{
		"invalid syntax ((",
		"code + 1",
		"unknown_field == 'x'",
	}

	for _, expression := range tests {
		t.Run(expression, func(t *testing.T) {
			_, err := CompileSeriesFilter(expression)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid filter expression")
		})
	}
}
