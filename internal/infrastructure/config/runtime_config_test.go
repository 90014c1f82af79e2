package config

import (
	"testing"

	"github.com/reglet-dev/batchqc/internal/infrastructure/ingest"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	RegisterDefaults(v)

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "table", cfg.Format)
	assert.True(t, cfg.Color)
	assert.Equal(t, ingest.HeaderAuto, cfg.Header)
	assert.Equal(t, rune(0), cfg.Delimiter)
	assert.Empty(t, cfg.Sheet)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	RegisterDefaults(v)
	v.Set(KeyFormat, "json")
	v.Set(KeyColor, false)
	v.Set(KeyIngestSheet, "Lab results")
	v.Set(KeyIngestDelimiter, ";")
	v.Set(KeyIngestHeader, ingest.HeaderNever)

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.False(t, cfg.Color)
	assert.Equal(t, "Lab results", cfg.Sheet)
	assert.Equal(t, ';', cfg.Delimiter)
	assert.Equal(t, ingest.HeaderNever, cfg.Header)
}

func TestFromViper_Invalid(t *testing.T) {
	v := viper.New()
	v.Set(KeyIngestHeader, "sometimes")
	_, err := FromViper(v)
	require.Error(t, err)

	v = viper.New()
	v.Set(KeyIngestDelimiter, ",,")
	_, err = FromViper(v)
	require.Error(t, err)
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		input    string
		expected rune
		wantErr  bool
	}{
		{",", ',', false},
		{"tab", '\t', false},
		{`\t`, '\t', false},
		{"|", '|', false},
		{"", 0, true},
		{`"`, 0, true},
		{"ab", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := ParseDelimiter(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, r)
		})
	}
}
