// Package services contains domain services that encapsulate business logic
// spanning multiple entities.
package services

import (
	"math"

	"github.com/reglet-dev/batchqc/internal/domain/entities"
	"github.com/reglet-dev/batchqc/internal/domain/execution"
	"github.com/reglet-dev/batchqc/internal/domain/values"
)

// SeriesAnalyzer holds a validated record collection and answers series
// tolerance queries over it.
//
// A SeriesAnalyzer is immutable once constructed. Extend returns a new
// analyzer, so every snapshot a caller keeps stays valid and unchanged and
// may be read from several goroutines without locking.
type SeriesAnalyzer struct {
	records entities.RecordCollection
}

// NewSeriesAnalyzer flattens the batches in order and validates every row.
// The first invalid row aborts construction with an *entities.RowError
// carrying the row's position in the flattened input.
func NewSeriesAnalyzer(batches ...[]any) (*SeriesAnalyzer, error) {
	var total int
	for _, batch := range batches {
		total += len(batch)
	}

	records := make([]entities.Record, 0, total)
	for _, batch := range batches {
		for _, row := range batch {
			rec, err := entities.ValidateRow(row)
			if err != nil {
				return nil, &entities.RowError{Index: len(records), Err: err}
			}
			records = append(records, rec)
		}
	}

	return &SeriesAnalyzer{records: entities.NewRecordCollection(records...)}, nil
}

// Extend returns a new analyzer holding the current records followed by row.
// The current records go through validation again as pass-through; the
// receiver is never modified.
func (a *SeriesAnalyzer) Extend(row any) (*SeriesAnalyzer, error) {
	current := make([]any, 0, a.records.Len())
	for _, rec := range a.records.All() {
		current = append(current, rec)
	}
	return NewSeriesAnalyzer(current, []any{row})
}

// Len returns the number of records.
func (a *SeriesAnalyzer) Len() int {
	return a.records.Len()
}

// Records returns a copy of the validated records in order.
func (a *SeriesAnalyzer) Records() []entities.Record {
	return a.records.Records()
}

// Collection returns the underlying persistent collection.
func (a *SeriesAnalyzer) Collection() entities.RecordCollection {
	return a.records
}

// Table returns the denormalized view: one [identifier, total, active,
// impurities] row per record, in record order.
func (a *SeriesAnalyzer) Table() [][]any {
	table := make([][]any, 0, a.records.Len())
	for _, rec := range a.records.All() {
		table = append(table, rec.Row())
	}
	return table
}

// SeriesCodes returns the distinct series present, in first-seen order.
func (a *SeriesAnalyzer) SeriesCodes() []values.SeriesCode {
	return a.records.SeriesCodes()
}

// EvaluateSeries computes the tolerance check for one series and returns
// every intermediate value.
//
// With n units selected:
//
//	target = expectedActive * n
//	margin = target * activeTolerance
//	passes when |target - sum(active)| <= margin
//	    and sum(impurities) <= allowedImpurity * sum(total)
//
// Both sums are always computed. An empty selection returns
// *entities.UnknownSeriesError.
func (a *SeriesAnalyzer) EvaluateSeries(
	code string,
	expectedActive, activeTolerance, allowedImpurity float64,
) (execution.SeriesEvaluation, error) {
	series, err := values.NewSeriesCode(code)
	if err != nil {
		return execution.SeriesEvaluation{}, &entities.UnknownSeriesError{Series: code}
	}

	selected := a.records.Filter(series)
	if selected.Len() == 0 {
		return execution.SeriesEvaluation{}, &entities.UnknownSeriesError{Series: code}
	}

	var actualActive, totalWeight, actualImpurity float64
	for _, rec := range selected.All() {
		actualActive += rec.ActiveWeight()
		totalWeight += rec.TotalWeight()
		actualImpurity += rec.ImpurityWeight()
	}

	n := selected.Len()
	target := expectedActive * float64(n)
	margin := target * activeTolerance
	maxImpurity := allowedImpurity * totalWeight

	return execution.SeriesEvaluation{
		Series:              series,
		Units:               n,
		ExpectedActive:      expectedActive,
		ActiveTolerance:     activeTolerance,
		AllowedImpurity:     allowedImpurity,
		TargetActive:        target,
		ActiveMargin:        margin,
		ActualActive:        actualActive,
		MaxImpurity:         maxImpurity,
		ActualImpurity:      actualImpurity,
		ActiveWithinMargin:  math.Abs(target-actualActive) <= margin,
		ImpurityWithinLimit: actualImpurity <= maxImpurity,
	}, nil
}

// VerifySeries reports whether a series meets both tolerances.
// See EvaluateSeries for the arithmetic.
func (a *SeriesAnalyzer) VerifySeries(
	code string,
	expectedActive, activeTolerance, allowedImpurity float64,
) (bool, error) {
	eval, err := a.EvaluateSeries(code, expectedActive, activeTolerance, allowedImpurity)
	if err != nil {
		return false, err
	}
	return eval.Passed(), nil
}
