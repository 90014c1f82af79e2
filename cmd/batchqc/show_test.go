package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunShow(t *testing.T) {
	dir := t.TempDir()
	data := writeTestFile(t, dir, "lot.csv", testData)

	cc := testCommandContext(t, "json")
	opts := DefaultCommonOptions()
	opts.Adds = []string{"G02-04,1100,125,0.5"}

	var out bytes.Buffer
	require.NoError(t, runShow(cc, &opts, []string{data}, &out))

	var snapshots []struct {
		Label   string  `json:"label"`
		Records int     `json:"records"`
		Rows    [][]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &snapshots))
	require.Len(t, snapshots, 2)

	assert.Equal(t, "data", snapshots[0].Label)
	assert.Equal(t, 4, snapshots[0].Records)
	assert.Equal(t, "after adding G02-04", snapshots[1].Label)
	assert.Equal(t, 5, snapshots[1].Records)
	assert.Equal(t, "G02-04", snapshots[1].Rows[4][0])
}

func TestRunShow_Table(t *testing.T) {
	dir := t.TempDir()
	data := writeTestFile(t, dir, "lot.csv", testData)

	cc := testCommandContext(t, "table")
	opts := DefaultCommonOptions()

	var out bytes.Buffer
	require.NoError(t, runShow(cc, &opts, []string{data}, &out))

	assert.Contains(t, out.String(), "data (4 records)")
	assert.Contains(t, out.String(), "IDENTIFIER")
	assert.Contains(t, out.String(), "L01-06")
}

func TestRunShow_Errors(t *testing.T) {
	dir := t.TempDir()
	data := writeTestFile(t, dir, "lot.csv", testData)

	tests := []struct {
		name   string
		format string
		args   []string
		adds   []string
		errMsg string
	}{
		{
			name:   "sarif is not a row format",
			format: "sarif",
			args:   []string{data},
			errMsg: "invalid format: sarif",
		},
		{
			name:   "no data",
			format: "table",
			errMsg: "no data files or rows given",
		},
		{
			name:   "invalid added row",
			format: "table",
			args:   []string{data},
			adds:   []string{"G02-04,1100,0,0.5"},
			errMsg: "invalid --add row 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := testCommandContext(t, tt.format)
			opts := DefaultCommonOptions()
			opts.Adds = tt.adds

			err := runShow(cc, &opts, tt.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
