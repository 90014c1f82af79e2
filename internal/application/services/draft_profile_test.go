package services

import (
	"context"
	"testing"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	apperrors "github.com/reglet-dev/batchqc/internal/application/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DraftProfileUseCase_Execute(t *testing.T) {
	uc := NewDraftProfileUseCase(&mockRowSources{files: batchFiles()}, nil)

	resp, err := uc.Execute(context.Background(), dto.DraftProfileRequest{
		DataPaths: []string{"a.csv", "b.csv"},
		Name:      "tablets",
		Severity:  "high",
	})
	require.NoError(t, err)

	profile := resp.Profile
	assert.Equal(t, "tablets", profile.Metadata.Name)
	assert.Equal(t, "1.0.0", profile.Metadata.Version)
	require.NotNil(t, profile.Series.Defaults)
	assert.InDelta(t, DefaultActiveTolerance, *profile.Series.Defaults.ActiveTolerance, 1e-12)
	assert.InDelta(t, DefaultAllowedImpurity, *profile.Series.Defaults.AllowedImpurity, 1e-12)
	assert.Equal(t, "high", profile.Series.Defaults.Severity)

	require.Len(t, profile.Series.Items, 3)
	assert.Equal(t, "L01", profile.Series.Items[0].Code)
	assert.Equal(t, "Series L01", profile.Series.Items[0].Name)
	assert.InDelta(t, 101.28, profile.Series.Items[0].ExpectedActive, 1e-9)
	assert.Equal(t, "G02", profile.Series.Items[1].Code)
	assert.Equal(t, "G03", profile.Series.Items[2].Code)

	// The drafted profile itself is left uncompiled.
	assert.Nil(t, profile.Series.Items[0].ActiveTolerance)

	require.Len(t, resp.Observations, 3)
	l01 := resp.Observations[0]
	assert.Equal(t, 2, l01.Units)
	assert.InDelta(t, (1.001+2.00087)/2, l01.MeanImpurity, 1e-9)
	assert.InDelta(t, (1.001+2.00087)/(1007.67+996.42), l01.ImpurityRatio, 1e-12)
}

func Test_DraftProfileUseCase_CustomTolerances(t *testing.T) {
	uc := NewDraftProfileUseCase(&mockRowSources{files: batchFiles()}, nil)

	resp, err := uc.Execute(context.Background(), dto.DraftProfileRequest{
		DataPaths:       []string{"b.csv"},
		Name:            "pilot",
		Version:         "0.1.0",
		ActiveTolerance: 0.1,
		AllowedImpurity: 0.005,
	})
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", resp.Profile.Metadata.Version)
	assert.InDelta(t, 0.1, *resp.Profile.Series.Defaults.ActiveTolerance, 1e-12)
	assert.InDelta(t, 0.005, *resp.Profile.Series.Defaults.AllowedImpurity, 1e-12)
}

func Test_DraftProfileUseCase_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string][]any
		req     dto.DraftProfileRequest
		wantMsg string
	}{
		{
			name:    "no data paths",
			req:     dto.DraftProfileRequest{Name: "x"},
			wantMsg: "no data files given",
		},
		{
			name:    "empty file",
			files:   map[string][]any{"empty.csv": {}},
			req:     dto.DraftProfileRequest{Name: "x", DataPaths: []string{"empty.csv"}},
			wantMsg: "contain no rows",
		},
		{
			name:    "missing name",
			files:   batchFiles(),
			req:     dto.DraftProfileRequest{DataPaths: []string{"a.csv"}},
			wantMsg: "drafted profile is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewDraftProfileUseCase(&mockRowSources{files: tt.files}, nil)

			_, err := uc.Execute(context.Background(), tt.req)
			var valErr *apperrors.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
