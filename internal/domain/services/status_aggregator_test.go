package services

import (
	"strings"
	"sync"
	"testing"

	"github.com/reglet-dev/batchqc/internal/domain/entities"
	"github.com/reglet-dev/batchqc/internal/domain/execution"
	"github.com/reglet-dev/batchqc/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passingEvaluation() execution.SeriesEvaluation {
	return execution.SeriesEvaluation{
		Series:              values.MustNewSeriesCode("G02"),
		Units:               1,
		ExpectedActive:      125,
		ActiveTolerance:     0.05,
		AllowedImpurity:     0.003,
		TargetActive:        125,
		ActiveMargin:        6.25,
		ActualActive:        125.04,
		MaxImpurity:         3.33585,
		ActualImpurity:      3.001,
		ActiveWithinMargin:  true,
		ImpurityWithinLimit: true,
	}
}

func Test_StatusAggregator_AggregateRunStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []values.Status
		expected values.Status
	}{
		{"empty", nil, values.StatusSkipped},
		{"all pass", []values.Status{values.StatusPass, values.StatusPass}, values.StatusPass},
		{"pass with skipped", []values.Status{values.StatusPass, values.StatusSkipped}, values.StatusPass},
		{"all skipped", []values.Status{values.StatusSkipped, values.StatusSkipped}, values.StatusSkipped},
		{"error beats pass", []values.Status{values.StatusPass, values.StatusError}, values.StatusError},
		{"fail beats error", []values.Status{values.StatusError, values.StatusFail, values.StatusPass}, values.StatusFail},
	}

	aggregator := NewStatusAggregator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, aggregator.AggregateRunStatus(tt.statuses))
		})
	}
}

func Test_StatusAggregator_StatusFromEvaluation(t *testing.T) {
	aggregator := NewStatusAggregator()

	status, message := aggregator.StatusFromEvaluation(passingEvaluation())
	assert.Equal(t, values.StatusPass, status)
	assert.Equal(t, "1 units: active 125.04 within 125 ± 6.25; impurities 3.001 <= 3.33585", message)

	eval := passingEvaluation()
	eval.ActiveWithinMargin = false
	eval.ImpurityWithinLimit = false
	eval.ActualActive = 110
	eval.ActualImpurity = 4
	status, message = aggregator.StatusFromEvaluation(eval)
	assert.Equal(t, values.StatusFail, status)
	assert.Equal(t, "1 units: active 110 outside 125 ± 6.25 (deviation 15); impurities 4 exceed limit 3.33585", message)
}

func Test_StatusAggregator_StatusFromError(t *testing.T) {
	aggregator := NewStatusAggregator()

	status, message := aggregator.StatusFromError(&entities.UnknownSeriesError{Series: "L99"})
	assert.Equal(t, values.StatusError, status)
	assert.Equal(t, "there is no L99 series in the collection", message)
}

func Test_StatusAggregator_DetermineSeriesStatus(t *testing.T) {
	failing := passingEvaluation()
	failing.ImpurityWithinLimit = false

	tests := []struct {
		name     string
		eval     execution.SeriesEvaluation
		expects  []string
		expected values.Status
	}{
		{"no expectations", passingEvaluation(), nil, values.StatusPass},
		{"all true", passingEvaluation(), []string{"units >= 1", "actual_impurity < max_impurity"}, values.StatusPass},
		{"one false", passingEvaluation(), []string{"units >= 1", "active_deviation < 0.01"}, values.StatusFail},
		{"compile error", passingEvaluation(), []string{"units >="}, values.StatusError},
		{"unknown variable", passingEvaluation(), []string{"weight > 1"}, values.StatusError},
		{"false beats error", passingEvaluation(), []string{"units >=", "units > 5"}, values.StatusFail},
		{"tolerance failure wins", failing, []string{"units >= 1"}, values.StatusFail},
		{"too long", passingEvaluation(), []string{"units > " + strings.Repeat("1", maxExpressionLength)}, values.StatusError},
	}

	aggregator := NewStatusAggregator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message, results := aggregator.DetermineSeriesStatus(tt.eval, tt.expects)
			assert.Equal(t, tt.expected, status)
			assert.NotEmpty(t, message)
			assert.Len(t, results, len(tt.expects))
		})
	}
}

func Test_StatusAggregator_FailedExpectationMessage(t *testing.T) {
	aggregator := NewStatusAggregator()

	status, message, results := aggregator.DetermineSeriesStatus(passingEvaluation(), []string{"series == 'L01'"})
	assert.Equal(t, values.StatusFail, status)
	assert.Equal(t, "expression evaluated to false: series == 'L01'", message)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
}

func Test_StatusAggregator_ExpressionCaching(t *testing.T) {
	aggregator := NewStatusAggregator()
	expects := []string{"units == 1"}

	status1, results1 := determine(aggregator, expects)
	status2, results2 := determine(aggregator, expects)

	assert.Equal(t, status1, status2)
	assert.Equal(t, results1, results2)

	aggregator.cacheMu.RLock()
	_, cached := aggregator.programCache["units == 1"]
	cacheSize := len(aggregator.programCache)
	aggregator.cacheMu.RUnlock()
	assert.True(t, cached, "expression should be cached after first use")
	assert.Equal(t, 1, cacheSize)
}

func Test_StatusAggregator_ConcurrentCacheAccess(t *testing.T) {
	aggregator := NewStatusAggregator()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, _ := determine(aggregator, []string{"active_within_margin && impurity_within_limit"})
			assert.Equal(t, values.StatusPass, status)
		}()
	}
	wg.Wait()

	aggregator.cacheMu.RLock()
	defer aggregator.cacheMu.RUnlock()
	assert.Len(t, aggregator.programCache, 1)
}

func determine(aggregator *StatusAggregator, expects []string) (values.Status, []execution.ExpectationResult) {
	status, _, results := aggregator.DetermineSeriesStatus(passingEvaluation(), expects)
	return status, results
}
