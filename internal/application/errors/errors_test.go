package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		expected string
	}{
		{"no details", NewValidationError("filters", "unknown series"), "validation failed: filters: unknown series"},
		{"one detail", NewValidationError("profile", "failed to load profile", "no such file"), "validation failed: profile: failed to load profile: no such file"},
		{"many details", NewValidationError("profile", "schema", "a", "b"), "validation failed: profile: schema (2 issues)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func Test_WrapValidationError_Unwrap(t *testing.T) {
	cause := errors.New("duplicate series code: L01")
	err := WrapValidationError("profile", "invalid profile", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "validation failed: profile: invalid profile: duplicate series code: L01", err.Error())
}

func Test_IngestError(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewIngestError("batch.csv", "failed to open", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "ingest failed for batch.csv: failed to open: permission denied", err.Error())

	var target *IngestError
	assert.True(t, errors.As(error(err), &target))
	assert.Equal(t, "batch.csv", target.Path)

	assert.Equal(t, "ingest failed for x.doc: unsupported format", NewIngestError("x.doc", "unsupported format", nil).Error())
}

func Test_ConfigurationError(t *testing.T) {
	cause := errors.New("bad value")
	err := NewConfigurationError("format", "unknown output format", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "configuration error (format): unknown output format: bad value", err.Error())
	assert.Equal(t, "configuration error (format): unknown output format", NewConfigurationError("format", "unknown output format", nil).Error())
}
