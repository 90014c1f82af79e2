package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/batchqc/internal/infrastructure/config"
)

const testProfile = `profile:
  name: tablets
  version: 1.0.0
series:
  defaults:
    active_tolerance: 0.05
  items:
    - code: L01
      expected_active: 100
      allowed_impurity: 0.001
      severity: critical
    - code: G02
      expected_active: 125
      allowed_impurity: 0.003
      tags: [release]
`

const testData = `identifier,total,active,impurities
L01-10,1007.67,102.88,1.00100
L01-06,996.42,99.68,2.00087
G02-03,1111.95,125.04,3.00100
G03-06,989.01,119.00,4.00004
`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// testCommandContext builds a fully wired context with plain table output.
func testCommandContext(t *testing.T, format string) *CommandContext {
	t.Helper()
	cfg := &config.RuntimeConfig{Format: format}
	cfg.ApplyDefaults()

	cc, err := newCommandContext(context.Background(), cfg)
	require.NoError(t, err)
	return cc
}
