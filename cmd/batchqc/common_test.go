package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/batchqc/internal/domain/entities"
	"github.com/reglet-dev/batchqc/internal/infrastructure/config"
)

func TestCommonOptions_ApplyToContext(t *testing.T) {
	t.Parallel()

	t.Run("with timeout", func(t *testing.T) {
		t.Parallel()
		opts := CommonOptions{Timeout: 100 * time.Millisecond}
		ctx, cancel := opts.ApplyToContext(context.Background())
		defer cancel()

		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(100*time.Millisecond), deadline, 10*time.Millisecond)
	})

	t.Run("no timeout", func(t *testing.T) {
		t.Parallel()
		opts := CommonOptions{Timeout: 0}
		ctx, cancel := opts.ApplyToContext(context.Background())
		defer cancel()

		_, ok := ctx.Deadline()
		assert.False(t, ok)
	})
}

func TestCommonOptions_ExtraRows(t *testing.T) {
	t.Parallel()

	opts := CommonOptions{Adds: []string{"G03-01,789.01,129.00,0.00008", "L01-11, 1000, abc,"}}
	rows := opts.ExtraRows()

	require.Len(t, rows, 2)
	assert.Equal(t, entities.Row{"G03-01", 789.01, 129.0, 0.00008}, rows[0])
	assert.Equal(t, entities.Row{"L01-11", 1000.0, "abc", nil}, rows[1])
}

func newFlagCommand(opts *CommonOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	opts.RegisterFlags(cmd)
	return cmd
}

func TestCommonOptions_RuntimeConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		settings  map[string]any
		args      []string
		want      config.RuntimeConfig
		errSubstr string
	}{
		{
			name: "defaults",
			want: config.RuntimeConfig{Format: "table", Color: true, Header: "auto"},
		},
		{
			name:     "config file values",
			settings: map[string]any{"format": "json", "color": false, "ingest.sheet": "Assay", "ingest.delimiter": ";"},
			want:     config.RuntimeConfig{Format: "json", Sheet: "Assay", Delimiter: ';', Header: "auto"},
		},
		{
			name:     "flags win over config",
			settings: map[string]any{"format": "json", "ingest.header": "never"},
			args:     []string{"--format", "yaml", "--header", "always", "--delimiter", "tab", "--no-color"},
			want:     config.RuntimeConfig{Format: "yaml", Delimiter: '\t', Header: "always"},
		},
		{
			name:     "unset flag keeps config value",
			settings: map[string]any{"format": "junit"},
			want:     config.RuntimeConfig{Format: "junit", Color: true, Header: "auto"},
		},
		{
			name:      "bad header flag",
			args:      []string{"--header", "sometimes"},
			errSubstr: "ingest.header",
		},
		{
			name:      "bad delimiter flag",
			args:      []string{"--delimiter", ";;"},
			errSubstr: "single character",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := viper.New()
			config.RegisterDefaults(v)
			for k, val := range tt.settings {
				v.Set(k, val)
			}

			opts := DefaultCommonOptions()
			cmd := newFlagCommand(&opts)
			require.NoError(t, cmd.ParseFlags(tt.args))

			cfg, err := opts.RuntimeConfig(cmd, v)
			if tt.errSubstr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *cfg)
		})
	}
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateFormat("json", []string{"table", "json"}))

	err := ValidateFormat("sarif", []string{"table", "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format: sarif")
}

func TestOpenOutput(t *testing.T) {
	t.Parallel()

	var fallback bytes.Buffer
	w, closeFn, err := openOutput("", &fallback)
	require.NoError(t, err)
	assert.Same(t, &fallback, w)
	require.NoError(t, closeFn())

	path := filepath.Join(t.TempDir(), "out.txt")
	w, closeFn, err = openOutput(path, &fallback)
	require.NoError(t, err)
	assert.NotSame(t, &fallback, w)
	require.NoError(t, closeFn())
	assert.FileExists(t, path)
}

func TestUseColor(t *testing.T) {
	t.Parallel()

	cfg := &config.RuntimeConfig{Color: true}
	assert.False(t, useColor(cfg, &bytes.Buffer{}), "non-terminal writers are never colored")
	assert.False(t, useColor(&config.RuntimeConfig{Color: false}, &bytes.Buffer{}))
}
