// Package execution provides domain models for check results.
package execution

import (
	"math"
	"sort"
	"time"

	"github.com/reglet-dev/batchqc/internal/domain/values"
)

// CheckResult is the complete result of checking a batch against a QC profile.
type CheckResult struct {
	StartTime      time.Time      `json:"start_time" yaml:"start_time"`
	EndTime        time.Time      `json:"end_time" yaml:"end_time"`
	ToolVersion    string         `json:"batchqc_version,omitempty" yaml:"batchqc_version,omitempty"`
	ProfileName    string         `json:"profile_name" yaml:"profile_name"`
	ProfileVersion string         `json:"profile_version" yaml:"profile_version"`
	Status         values.Status  `json:"status" yaml:"status"`
	Sources        []string       `json:"sources,omitempty" yaml:"sources,omitempty"`
	Series         []SeriesResult `json:"series" yaml:"series"`
	Summary        ResultSummary  `json:"summary" yaml:"summary"`
	RecordCount    int            `json:"record_count" yaml:"record_count"`
	Duration       time.Duration  `json:"duration_ms" yaml:"duration_ms"`
	RunID          values.RunID   `json:"run_id" yaml:"run_id"`
}

// SeriesResult is the outcome of checking one series spec.
type SeriesResult struct {
	Code         string              `json:"code" yaml:"code"`
	Name         string              `json:"name" yaml:"name"`
	Description  string              `json:"description,omitempty" yaml:"description,omitempty"`
	Severity     string              `json:"severity,omitempty" yaml:"severity,omitempty"`
	Status       values.Status       `json:"status" yaml:"status"`
	Message      string              `json:"message,omitempty" yaml:"message,omitempty"`
	SkipReason   string              `json:"skip_reason,omitempty" yaml:"skip_reason,omitempty"`
	Tags         []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Evaluation   *SeriesEvaluation   `json:"evaluation,omitempty" yaml:"evaluation,omitempty"`
	Expectations []ExpectationResult `json:"expectations,omitempty" yaml:"expectations,omitempty"`
	Index        int                 `json:"index" yaml:"index"`
}

// ExpectationResult represents the outcome of a single expect expression.
type ExpectationResult struct {
	Expression string `json:"expression" yaml:"expression"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	Passed     bool   `json:"passed" yaml:"passed"`
}

// SeriesEvaluation holds every intermediate of a series tolerance check.
type SeriesEvaluation struct {
	Series              values.SeriesCode `json:"series" yaml:"series"`
	Units               int               `json:"units" yaml:"units"`
	ExpectedActive      float64           `json:"expected_active_per_unit" yaml:"expected_active_per_unit"`
	ActiveTolerance     float64           `json:"active_tolerance" yaml:"active_tolerance"`
	AllowedImpurity     float64           `json:"allowed_impurity" yaml:"allowed_impurity"`
	TargetActive        float64           `json:"target_active" yaml:"target_active"`
	ActiveMargin        float64           `json:"active_margin" yaml:"active_margin"`
	ActualActive        float64           `json:"actual_active" yaml:"actual_active"`
	MaxImpurity         float64           `json:"max_impurity" yaml:"max_impurity"`
	ActualImpurity      float64           `json:"actual_impurity" yaml:"actual_impurity"`
	ActiveWithinMargin  bool              `json:"active_within_margin" yaml:"active_within_margin"`
	ImpurityWithinLimit bool              `json:"impurity_within_limit" yaml:"impurity_within_limit"`
}

// Passed reports whether both the active-substance and the impurity check held.
func (e SeriesEvaluation) Passed() bool {
	return e.ActiveWithinMargin && e.ImpurityWithinLimit
}

// ActiveDeviation is the absolute distance between target and measured active mass.
func (e SeriesEvaluation) ActiveDeviation() float64 {
	return math.Abs(e.TargetActive - e.ActualActive)
}

// ResultSummary provides aggregate statistics about the run.
type ResultSummary struct {
	TotalSeries   int `json:"total_series" yaml:"total_series"`
	PassedSeries  int `json:"passed_series" yaml:"passed_series"`
	FailedSeries  int `json:"failed_series" yaml:"failed_series"`
	ErrorSeries   int `json:"error_series" yaml:"error_series"`
	SkippedSeries int `json:"skipped_series" yaml:"skipped_series"`
}

// NewCheckResult creates a new check result with a fresh run ID.
func NewCheckResult(profileName, profileVersion string) *CheckResult {
	return NewCheckResultWithID(values.NewRunID(), profileName, profileVersion)
}

// NewCheckResultWithID creates a new check result with a specific run ID.
func NewCheckResultWithID(id values.RunID, profileName, profileVersion string) *CheckResult {
	return &CheckResult{
		RunID:          id,
		ProfileName:    profileName,
		ProfileVersion: profileVersion,
		StartTime:      time.Now(),
		Series:         make([]SeriesResult, 0),
	}
}

// AddSeriesResult records the outcome of one series spec.
func (r *CheckResult) AddSeriesResult(sr SeriesResult) {
	r.Series = append(r.Series, sr)
}

// GetSeriesResult returns the result for a series code, or nil.
func (r *CheckResult) GetSeriesResult(code string) *SeriesResult {
	for i := range r.Series {
		if r.Series[i].Code == code {
			return &r.Series[i]
		}
	}
	return nil
}

// HasFailures returns true if any series failed or errored.
func (r *CheckResult) HasFailures() bool {
	return r.Summary.FailedSeries > 0 || r.Summary.ErrorSeries > 0
}

// Finalize stamps the end time, orders series by profile order and computes the summary.
func (r *CheckResult) Finalize() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)

	sort.SliceStable(r.Series, func(i, j int) bool {
		return r.Series[i].Index < r.Series[j].Index
	})

	r.Summary = ResultSummary{TotalSeries: len(r.Series)}
	for _, sr := range r.Series {
		switch sr.Status {
		case values.StatusPass:
			r.Summary.PassedSeries++
		case values.StatusFail:
			r.Summary.FailedSeries++
		case values.StatusError:
			r.Summary.ErrorSeries++
		case values.StatusSkipped:
			r.Summary.SkippedSeries++
		}
	}
}
