package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriassess/internal/domain"
	"nutriassess/internal/engine"
)

func TestTables_FiniteAndOrdered(t *testing.T) {
	tables := engine.Tables()
	require.Len(t, tables, 6)
	for _, tbl := range tables {
		require.NotEmpty(t, tbl.Bands, tbl.Metric)
		for i, b := range tbl.Bands {
			assert.False(t, math.IsInf(b.Upper, 0), tbl.Metric)
			if i > 0 {
				assert.Greater(t, b.Upper, tbl.Bands[i-1].Upper, tbl.Metric)
			}
		}
		assert.Equal(t, math.MaxFloat64, tbl.Bands[len(tbl.Bands)-1].Upper)
	}
}

func TestTables_ReturnsCopies(t *testing.T) {
	first := engine.Tables()
	first[0].Bands[0].Label = "changed"
	assert.Equal(t, engine.LabelUnderweight, engine.Tables()[0].Bands[0].Label)
	assert.Equal(t, engine.LabelUnderweight, engine.ClassifyBMI(10))
}

func TestClassify_UnknownSex(t *testing.T) {
	_, err := engine.ClassifyBodyFat("x", 20)
	var ie *domain.InvalidEnumError
	assert.ErrorAs(t, err, &ie)

	_, err = engine.ClassifyWaistHip("", 0.9)
	assert.ErrorAs(t, err, &ie)
}

func TestParams_Validate(t *testing.T) {
	require.NoError(t, engine.DefaultParams().Validate())

	tests := []struct {
		name   string
		modify func(*engine.Params)
	}{
		{"water", func(p *engine.Params) { p.WaterLitersPerKg = 0 }},
		{"fiber", func(p *engine.Params) { p.FiberGramsPer1000Kcal = -1 }},
		{"adjustment", func(p *engine.Params) { p.AdjustmentMinKcal = 10; p.AdjustmentMaxKcal = -10 }},
		{"bmi", func(p *engine.Params) { p.BMIPlausibleMin = 70 }},
		{"body fat", func(p *engine.Params) { p.BodyFatPlausibleMax = 120 }},
		{"max weight", func(p *engine.Params) { p.MaxWeightKg = 0 }},
		{"max height", func(p *engine.Params) { p.MaxHeightCm = -300 }},
		{"max circumference", func(p *engine.Params) { p.MaxCircumferenceCm = math.Inf(1) }},
		{"max skinfold", func(p *engine.Params) { p.MaxSkinfoldMM = math.NaN() }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := engine.DefaultParams()
			tc.modify(&p)
			assert.Error(t, p.Validate())
			_, err := engine.New(p)
			assert.Error(t, err)
		})
	}
}

func TestNew_CustomParams(t *testing.T) {
	p := engine.DefaultParams()
	p.WaterLitersPerKg = 0.04
	e, err := engine.New(p)
	require.NoError(t, err)
	assert.Equal(t, p, e.Params())

	res, err := e.ComputeEnergyProfile(maleProfile())
	require.NoError(t, err)
	assert.Equal(t, 3.2, res.WaterLiters)
}
