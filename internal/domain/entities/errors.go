package entities

import (
	"errors"
	"fmt"

	"github.com/reglet-dev/batchqc/internal/domain/values"
)

var (
	// ErrInvalidRow matches every row rejection via errors.Is.
	ErrInvalidRow = errors.New("invalid row")
	// ErrUnknownSeries matches UnknownSeriesError via errors.Is.
	ErrUnknownSeries = errors.New("unknown series")
)

// MalformedRowError indicates the row is not an ordered sequence with a known length.
type MalformedRowError struct {
	Value any
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("could not parse row: expected an ordered sequence, got %T", e.Value)
}

func (e *MalformedRowError) Is(target error) bool { return target == ErrInvalidRow }

// ColumnCountError indicates the row does not have exactly RowColumns cells.
type ColumnCountError struct {
	Found int
}

func (e *ColumnCountError) Error() string {
	return fmt.Sprintf("four columns needed; found %d", e.Found)
}

func (e *ColumnCountError) Is(target error) bool { return target == ErrInvalidRow }

// InvalidIdentifierError indicates the first column is not a string.
type InvalidIdentifierError struct {
	Value any
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("column one must be the unit identifier, not %v", e.Value)
}

func (e *InvalidIdentifierError) Is(target error) bool { return target == ErrInvalidRow }

// SeriesCodeError indicates no three-character series code could be derived
// from the identifier.
type SeriesCodeError struct {
	Identifier string
}

func (e *SeriesCodeError) Error() string {
	return fmt.Sprintf("could not parse series code from identifier %q", e.Identifier)
}

func (e *SeriesCodeError) Is(target error) bool { return target == ErrInvalidRow }

// InvalidWeightError indicates a numeric column does not hold a real number.
type InvalidWeightError struct {
	Field values.WeightField
	Value any
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("invalid %s weight", e.Field)
}

func (e *InvalidWeightError) Is(target error) bool { return target == ErrInvalidRow }

// NonPositiveValueError indicates at least one of the three weights is not
// strictly positive. The offending column is deliberately not reported.
type NonPositiveValueError struct{}

func (e *NonPositiveValueError) Error() string {
	return "total weight, active substance and impurities must all be greater than zero"
}

func (e *NonPositiveValueError) Is(target error) bool { return target == ErrInvalidRow }

// UnknownSeriesError indicates a query named a series with no records.
type UnknownSeriesError struct {
	Series string
}

func (e *UnknownSeriesError) Error() string {
	return fmt.Sprintf("there is no %s series in the collection", e.Series)
}

func (e *UnknownSeriesError) Is(target error) bool { return target == ErrUnknownSeries }

// RowError locates a row rejection within a flattened input.
// Index is zero-based; the message reports it one-based.
type RowError struct {
	Err   error
	Index int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Index+1, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
