package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriassess/internal/domain"
	"nutriassess/internal/engine"
)

func withGirths(waist, hip *float64) domain.AnthropometricInput {
	return domain.AnthropometricInput{
		Weight:         80,
		Height:         180,
		Circumferences: domain.Circumferences{Waist: waist, Hip: hip},
	}
}

func TestRatios_WaistHip(t *testing.T) {
	tests := []struct {
		name  string
		sex   domain.Sex
		waist float64
		hip   float64
		value float64
		risk  string
	}{
		{"male low", domain.SexMale, 90, 100, 0.9, engine.LabelLowRisk},
		{"male high", domain.SexMale, 100, 95, 1.05, engine.LabelHighRisk},
		{"male at cut-off", domain.SexMale, 95, 100, 0.95, engine.LabelLowRisk},
		{"female at cut-off", domain.SexFemale, 85, 100, 0.85, engine.LabelLowRisk},
		{"female high", domain.SexFemale, 86, 100, 0.86, engine.LabelHighRisk},
		{"male just above cut-off", domain.SexMale, 95.4, 100, 0.95, engine.LabelHighRisk},
		{"female just above cut-off", domain.SexFemale, 85.4, 100, 0.85, engine.LabelHighRisk},
		{"male just below cut-off", domain.SexMale, 94.6, 100, 0.95, engine.LabelLowRisk},
		{"exact cut-off from inexact floats", domain.SexMale, 85.5, 90, 0.95, engine.LabelLowRisk},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := engine.ComputeBodyComposition(withGirths(f(tc.waist), f(tc.hip)), tc.sex, 40)
			require.NoError(t, err)
			require.NotNil(t, res.WaistHipRatio)
			assert.Equal(t, tc.value, res.WaistHipRatio.Value)
			assert.Equal(t, tc.risk, res.WaistHipRatio.Risk)
		})
	}
}

func TestRatios_WaistHeight(t *testing.T) {
	res, err := engine.ComputeBodyComposition(withGirths(f(90), nil), domain.SexFemale, 40)
	require.NoError(t, err)
	require.NotNil(t, res.WaistHeightRatio)
	assert.Equal(t, 0.5, res.WaistHeightRatio.Value)
	assert.Equal(t, engine.LabelNormal, res.WaistHeightRatio.Risk)
	assert.Nil(t, res.WaistHipRatio, "hip not measured")

	res, err = engine.ComputeBodyComposition(withGirths(f(91.8), nil), domain.SexMale, 40)
	require.NoError(t, err)
	assert.Equal(t, 0.51, res.WaistHeightRatio.Value)
	assert.Equal(t, engine.LabelElevated, res.WaistHeightRatio.Risk)
}

func TestRatios_WaistHeightJustAboveCutOff(t *testing.T) {
	// 90.5 / 180 = 0.5028 is reported as 0.5 but is above the cut-off.
	res, err := engine.ComputeBodyComposition(withGirths(f(90.5), nil), domain.SexMale, 40)
	require.NoError(t, err)
	require.NotNil(t, res.WaistHeightRatio)
	assert.Equal(t, 0.5, res.WaistHeightRatio.Value)
	assert.Equal(t, engine.LabelElevated, res.WaistHeightRatio.Risk)
}

func TestRatios_NoWaist(t *testing.T) {
	res, err := engine.ComputeBodyComposition(withGirths(nil, f(100)), domain.SexMale, 40)
	require.NoError(t, err)
	assert.Nil(t, res.WaistHipRatio)
	assert.Nil(t, res.WaistHeightRatio)
}

func TestRatios_ZeroGirthRejected(t *testing.T) {
	tests := []struct {
		name  string
		waist *float64
		hip   *float64
		field string
	}{
		{"zero waist", f(0), f(100), "circumferences.waist"},
		{"zero hip", f(90), f(0), "circumferences.hip"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.ComputeBodyComposition(withGirths(tc.waist, tc.hip), domain.SexMale, 40)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestRatios_ImperialGirths(t *testing.T) {
	in := domain.AnthropometricInput{
		Weight:         176,
		Height:         70,
		WeightUnit:     "lb",
		LengthUnit:     "in",
		Circumferences: domain.Circumferences{Waist: f(34), Hip: f(40)},
	}
	res, err := engine.ComputeBodyComposition(in, domain.SexMale, 40)
	require.NoError(t, err)
	assert.Equal(t, 0.85, res.WaistHipRatio.Value)
	assert.Equal(t, 0.49, res.WaistHeightRatio.Value)
}
