// Package entities contains the domain entities for batch quality control.
// These are pure domain types with NO infrastructure dependencies.
package entities

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/reglet-dev/batchqc/internal/domain/values"
)

// RowColumns is the number of cells in a raw batch row.
const RowColumns = 4

// Row is the raw shape of one batch-testing row:
// identifier, total weight, active-substance weight, impurity weight.
type Row []any

// Record is a validated, normalized batch row. It is immutable: fields are
// only readable through accessors and two records are equal when all fields are.
type Record struct {
	identifier string
	series     values.SeriesCode
	total      float64
	active     float64
	impurities float64
}

// NewRecord validates typed values into a Record.
func NewRecord(identifier string, total, active, impurities float64) (Record, error) {
	return ValidateRow(Row{identifier, total, active, impurities})
}

// MustNewRecord creates a Record or panics (for tests/fixtures)
func MustNewRecord(identifier string, total, active, impurities float64) Record {
	rec, err := NewRecord(identifier, total, active, impurities)
	if err != nil {
		panic(err)
	}
	return rec
}

// ValidateRow converts one raw row into a Record.
//
// A Record (or non-nil *Record) is returned unchanged. Anything else must be a
// slice or array of exactly four cells. Checks run in a fixed order and the
// first failure is returned: shape, column count, identifier type, series code,
// each weight's type (total, active-substance, impurities), then positivity of
// all three weights together.
func ValidateRow(row any) (Record, error) {
	switch r := row.(type) {
	case Record:
		return r, nil
	case *Record:
		if r != nil {
			return *r, nil
		}
	}

	cells, err := rowCells(row)
	if err != nil {
		return Record{}, err
	}
	if len(cells) != RowColumns {
		return Record{}, &ColumnCountError{Found: len(cells)}
	}

	identifier, ok := cells[0].(string)
	if !ok {
		return Record{}, &InvalidIdentifierError{Value: cells[0]}
	}
	series, err := values.SeriesCodeFromIdentifier(identifier)
	if err != nil {
		return Record{}, &SeriesCodeError{Identifier: identifier}
	}

	var weights [3]float64
	for i, field := range values.WeightFields() {
		cell := cells[field.Column()]
		w, ok := realNumber(cell)
		if !ok {
			return Record{}, &InvalidWeightError{Field: field, Value: cell}
		}
		weights[i] = w
	}

	// NaN fails the comparison and is rejected along with zero and negatives.
	if !(weights[0] > 0) || !(weights[1] > 0) || !(weights[2] > 0) {
		return Record{}, &NonPositiveValueError{}
	}

	return Record{
		identifier: identifier,
		series:     series,
		total:      weights[0],
		active:     weights[1],
		impurities: weights[2],
	}, nil
}

// rowCells returns the cells of an ordered sequence.
func rowCells(row any) ([]any, error) {
	switch r := row.(type) {
	case Row:
		return r, nil
	case []any:
		return r, nil
	}

	v := reflect.ValueOf(row)
	if !v.IsValid() {
		return nil, &MalformedRowError{Value: row}
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		cells := make([]any, v.Len())
		for i := range cells {
			cells[i] = v.Index(i).Interface()
		}
		return cells, nil
	default:
		return nil, &MalformedRowError{Value: row}
	}
}

// realNumber accepts integer and floating-point kinds, including named types
// built on them. Booleans, complex numbers, strings and nil are not numbers.
func realNumber(cell any) (float64, bool) {
	if n, ok := cell.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}

	v := reflect.ValueOf(cell)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

// Identifier returns the unit identifier, e.g. "L01-10".
func (r Record) Identifier() string { return r.identifier }

// Series returns the series code derived from the identifier.
func (r Record) Series() values.SeriesCode { return r.series }

// TotalWeight returns the total mass of the unit.
func (r Record) TotalWeight() float64 { return r.total }

// ActiveWeight returns the mass of active substance in the unit.
func (r Record) ActiveWeight() float64 { return r.active }

// ImpurityWeight returns the mass of impurities in the unit.
func (r Record) ImpurityWeight() float64 { return r.impurities }

// Equal reports whether both records hold the same values.
func (r Record) Equal(other Record) bool {
	return r == other
}

// Row renders the record back to its four-column form with float weights.
func (r Record) Row() Row {
	return Row{r.identifier, r.total, r.active, r.impurities}
}

func (r Record) String() string {
	return fmt.Sprintf("%s(total=%g, active=%g, impurities=%g)", r.identifier, r.total, r.active, r.impurities)
}
