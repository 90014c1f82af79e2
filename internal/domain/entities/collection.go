package entities

import (
	"iter"
	"slices"

	"github.com/reglet-dev/batchqc/internal/domain/values"
)

// RecordCollection is an insertion-ordered, persistent sequence of records.
//
// Every operation that adds records returns a new collection. The backing
// slice is always capacity-clipped, so appending to one snapshot can never
// write into memory another snapshot can see.
type RecordCollection struct {
	records []Record
}

// NewRecordCollection creates a collection holding a copy of records.
func NewRecordCollection(records ...Record) RecordCollection {
	return RecordCollection{records: slices.Clip(slices.Clone(records))}
}

// Len returns the number of records.
func (c RecordCollection) Len() int {
	return len(c.records)
}

// At returns the record at index i. It panics when i is out of range.
func (c RecordCollection) At(i int) Record {
	return c.records[i]
}

// Records returns a copy of the records in insertion order.
func (c RecordCollection) Records() []Record {
	return slices.Clone(c.records)
}

// All iterates over the records in insertion order.
func (c RecordCollection) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, rec := range c.records {
			if !yield(i, rec) {
				return
			}
		}
	}
}

// Append returns a new collection with records added after the existing ones.
func (c RecordCollection) Append(records ...Record) RecordCollection {
	if len(records) == 0 {
		return c
	}
	return RecordCollection{records: slices.Clip(append(slices.Clip(c.records), records...))}
}

// Filter returns the records of one series, preserving order.
func (c RecordCollection) Filter(series values.SeriesCode) RecordCollection {
	var selected []Record
	for _, rec := range c.records {
		if rec.series.Equals(series) {
			selected = append(selected, rec)
		}
	}
	return RecordCollection{records: slices.Clip(selected)}
}

// SeriesCodes returns the distinct series codes in first-seen order.
func (c RecordCollection) SeriesCodes() []values.SeriesCode {
	seen := make(map[values.SeriesCode]bool)
	var codes []values.SeriesCode
	for _, rec := range c.records {
		if !seen[rec.series] {
			seen[rec.series] = true
			codes = append(codes, rec.series)
		}
	}
	return codes
}

// Rows renders every record to its four-column form.
func (c RecordCollection) Rows() []Row {
	rows := make([]Row, 0, len(c.records))
	for _, rec := range c.records {
		rows = append(rows, rec.Row())
	}
	return rows
}
