package execution_test

import (
	"testing"

	"github.com/reglet-dev/batchqc/internal/domain/execution"
	"github.com/reglet-dev/batchqc/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckResult_Finalize(t *testing.T) {
	t.Parallel()

	result := execution.NewCheckResult("line-a", "1.0.0")
	require.False(t, result.RunID.IsZero())

	result.AddSeriesResult(execution.SeriesResult{Code: "G03", Index: 2, Status: values.StatusSkipped})
	result.AddSeriesResult(execution.SeriesResult{Code: "L01", Index: 0, Status: values.StatusFail})
	result.AddSeriesResult(execution.SeriesResult{Code: "G02", Index: 1, Status: values.StatusPass})
	result.AddSeriesResult(execution.SeriesResult{Code: "X99", Index: 3, Status: values.StatusError})

	result.Finalize()

	codes := make([]string, 0, len(result.Series))
	for _, sr := range result.Series {
		codes = append(codes, sr.Code)
	}
	assert.Equal(t, []string{"L01", "G02", "G03", "X99"}, codes)
	assert.Equal(t, execution.ResultSummary{
		TotalSeries:   4,
		PassedSeries:  1,
		FailedSeries:  1,
		ErrorSeries:   1,
		SkippedSeries: 1,
	}, result.Summary)
	assert.True(t, result.HasFailures())
	assert.False(t, result.EndTime.Before(result.StartTime))
}

func TestCheckResult_GetSeriesResult(t *testing.T) {
	t.Parallel()

	result := execution.NewCheckResult("line-a", "1.0.0")
	result.AddSeriesResult(execution.SeriesResult{Code: "L01", Status: values.StatusPass})

	got := result.GetSeriesResult("L01")
	require.NotNil(t, got)
	assert.Equal(t, values.StatusPass, got.Status)
	assert.Nil(t, result.GetSeriesResult("G02"))

	result.Finalize()
	assert.False(t, result.HasFailures())
}

func TestSeriesEvaluation_Passed(t *testing.T) {
	t.Parallel()

	eval := execution.SeriesEvaluation{
		TargetActive:        200,
		ActualActive:        202.5,
		ActiveWithinMargin:  true,
		ImpurityWithinLimit: false,
	}
	assert.False(t, eval.Passed())
	assert.InDelta(t, 2.5, eval.ActiveDeviation(), 1e-9)

	eval.ImpurityWithinLimit = true
	assert.True(t, eval.Passed())
}
