package services

import (
	"context"
	"testing"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	"github.com/reglet-dev/batchqc/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_InspectBatchUseCase_Execute(t *testing.T) {
	uc := NewInspectBatchUseCase(&mockRowSources{files: batchFiles()}, nil)

	resp, err := uc.Execute(context.Background(), dto.InspectBatchRequest{
		DataPaths: []string{"a.csv", "b.csv"},
		ExtraRows: []entities.Row{{"G03-01", 789.01, 129.00, 0.00008}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Snapshots, 2)

	before, after := resp.Snapshots[0], resp.Snapshots[1]
	assert.Equal(t, "data", before.Label)
	assert.Len(t, before.Table, 4)

	assert.Equal(t, "after adding G03-01", after.Label)
	assert.Len(t, after.Table, 5)
	assert.Equal(t, []any{"G03-01", 789.01, 129.0, 0.00008}, after.Table[4])
	assert.Equal(t, before.Table, after.Table[:4])
}

func Test_InspectBatchUseCase_NoData(t *testing.T) {
	uc := NewInspectBatchUseCase(&mockRowSources{}, nil)
	_, err := uc.Execute(context.Background(), dto.InspectBatchRequest{})
	require.Error(t, err)
}

func Test_InspectBatchUseCase_RowsOnly(t *testing.T) {
	uc := NewInspectBatchUseCase(&mockRowSources{}, nil)

	resp, err := uc.Execute(context.Background(), dto.InspectBatchRequest{
		ExtraRows: []entities.Row{{"L01-10", 1007.67, 102.88, 1.001}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Snapshots, 2)
	assert.Empty(t, resp.Snapshots[0].Table)
	assert.Len(t, resp.Snapshots[1].Table, 1)
}
