package values

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SeriesCodeLength is the number of characters in a production series code.
const SeriesCodeLength = 3

// SeriesCode identifies a production series.
// It is the leading hyphen-delimited segment of a unit identifier ("L01" in "L01-10").
type SeriesCode struct {
	value string
}

// NewSeriesCode creates a SeriesCode, rejecting anything that is not exactly
// SeriesCodeLength characters long.
func NewSeriesCode(code string) (SeriesCode, error) {
	if n := utf8.RuneCountInString(code); n != SeriesCodeLength {
		return SeriesCode{}, fmt.Errorf("series code %q must be %d characters, got %d", code, SeriesCodeLength, n)
	}
	return SeriesCode{value: code}, nil
}

// MustNewSeriesCode creates a SeriesCode or panics (for tests/constants)
func MustNewSeriesCode(code string) SeriesCode {
	sc, err := NewSeriesCode(code)
	if err != nil {
		panic(err)
	}
	return sc
}

// SeriesCodeFromIdentifier derives the series code from a unit identifier.
// The whole identifier is used when it contains no hyphen.
func SeriesCodeFromIdentifier(identifier string) (SeriesCode, error) {
	prefix, _, _ := strings.Cut(identifier, "-")
	return NewSeriesCode(prefix)
}

// String returns the string representation
func (s SeriesCode) String() string {
	return s.value
}

// IsEmpty returns true if this is the zero value
func (s SeriesCode) IsEmpty() bool {
	return s.value == ""
}

// Equals checks if two SeriesCodes are equal
func (s SeriesCode) Equals(other SeriesCode) bool {
	return s.value == other.value
}

// MarshalText implements encoding.TextMarshaler
func (s SeriesCode) MarshalText() ([]byte, error) {
	return []byte(s.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *SeriesCode) UnmarshalText(data []byte) error {
	code, err := NewSeriesCode(string(data))
	if err != nil {
		return err
	}
	*s = code
	return nil
}
