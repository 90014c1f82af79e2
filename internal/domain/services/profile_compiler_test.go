package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/batchqc/internal/domain/entities"
)

func rawProfile() *entities.QCProfile {
	return &entities.QCProfile{
		Metadata: entities.ProfileMetadata{Name: "tablets", Version: "1.0.0"},
		Series: entities.SeriesSection{
			Defaults: &entities.SeriesDefaults{ActiveTolerance: float(0.05), AllowedImpurity: float(0.001), Tags: []string{"release"}},
			Items: []entities.SeriesSpec{
				{Code: "L01", ExpectedActive: 100},
				{Code: "G02", ExpectedActive: 125, AllowedImpurity: float(0.003)},
			},
		},
	}
}

func Test_ProfileCompiler_Compile(t *testing.T) {
	raw := rawProfile()

	compiled, err := NewProfileCompiler().Compile(raw)
	require.NoError(t, err)

	l01 := compiled.GetSeries("L01")
	require.NotNil(t, l01)
	assert.Equal(t, 0.05, *l01.ActiveTolerance)
	assert.Equal(t, 0.001, *l01.AllowedImpurity)
	assert.Equal(t, []string{"release"}, l01.Tags)
	assert.Equal(t, 0.003, *compiled.GetSeries("G02").AllowedImpurity)

	assert.Nil(t, raw.Series.Items[0].ActiveTolerance, "raw profile must not be modified")
}

func Test_ProfileCompiler_CompileInvalid(t *testing.T) {
	raw := rawProfile()
	raw.Series.Items = append(raw.Series.Items, entities.SeriesSpec{Code: "L01", ExpectedActive: 90})

	_, err := NewProfileCompiler().Compile(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate series code: L01")

	_, err = NewProfileCompiler().Compile(nil)
	require.Error(t, err)
}
