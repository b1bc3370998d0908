package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriassess/internal/domain"
	"nutriassess/internal/engine"
)

var allGoals = []domain.Goal{
	domain.GoalWeightLoss,
	domain.GoalMaintenance,
	domain.GoalMuscleGain,
	domain.GoalAthleticPerformance,
}

func TestMacros_KcalSumMatchesVET(t *testing.T) {
	levels := []domain.ActivityLevel{domain.ActivitySedentary, domain.ActivityModerate, domain.ActivityAthlete}
	for _, w := range []float64{48.3, 62, 80, 104.7} {
		for _, level := range levels {
			for _, goal := range allGoals {
				for _, adj := range []int{-500, 0, 300} {
					in := maleProfile()
					in.WeightKg = w
					in.ActivityLevel = level
					in.Goal = goal
					in.CaloricAdjustmentKcal = adj

					res, err := engine.ComputeEnergyProfile(in)
					require.NoError(t, err, "w=%v level=%s goal=%s adj=%d", w, level, goal, adj)

					sum := res.Protein.Kcal + res.Carbs.Kcal + res.Fat.Kcal
					assert.InDelta(t, res.VETKcal, sum, 3, "w=%v level=%s goal=%s adj=%d", w, level, goal, adj)

					pct := res.Protein.Pct + res.Carbs.Pct + res.Fat.Pct
					assert.InDelta(t, 100, pct, 1)
					assert.GreaterOrEqual(t, res.Carbs.Grams, 0.0)
				}
			}
		}
	}
}

func TestMacros_ProteinWithinGoalBand(t *testing.T) {
	for _, goal := range allGoals {
		policy, err := engine.PolicyFor(goal)
		require.NoError(t, err)

		in := maleProfile()
		in.Goal = goal
		in.CaloricAdjustmentKcal = 0
		res, err := engine.ComputeEnergyProfile(in)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, res.Protein.PerKg, policy.Protein.Min, string(goal))
		assert.LessOrEqual(t, res.Protein.PerKg, policy.Protein.Max, string(goal))
		assert.Equal(t, policy.Protein.Default, res.Protein.PerKg, string(goal))
	}
}

func TestMacros_MaintenanceUsesModerateProtein(t *testing.T) {
	in := maleProfile()
	in.Goal = domain.GoalMaintenance
	in.CaloricAdjustmentKcal = 0
	res, err := engine.ComputeEnergyProfile(in)
	require.NoError(t, err)
	assert.Equal(t, 112.0, res.Protein.Grams)
	assert.Equal(t, 448, res.Protein.Kcal)
}

func TestMacros_Overrides(t *testing.T) {
	in := maleProfile()
	in.ProteinPerKg = f(2.2)
	in.FatPerKg = f(0.8)
	res, err := engine.ComputeEnergyProfile(in)
	require.NoError(t, err)
	assert.Equal(t, 176.0, res.Protein.Grams)
	assert.Equal(t, 64.0, res.Fat.Grams)
	assert.Equal(t, 576, res.Fat.Kcal)
}

func TestMacros_OverrideOutsideBand(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*domain.EnergyInput)
		field  string
	}{
		{"protein too high", func(in *domain.EnergyInput) { in.ProteinPerKg = f(3) }, "proteinPerKg"},
		{"protein too low for maintenance", func(in *domain.EnergyInput) {
			in.Goal = domain.GoalMaintenance
			in.ProteinPerKg = f(1.0)
		}, "proteinPerKg"},
		{"fat too low", func(in *domain.EnergyInput) { in.FatPerKg = f(0.5) }, "fatPerKg"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := maleProfile()
			tc.modify(&in)
			_, err := engine.ComputeEnergyProfile(in)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestMacros_Infeasible(t *testing.T) {
	in := domain.EnergyInput{
		WeightKg:              100,
		HeightCm:              170,
		AgeYears:              40,
		Sex:                   domain.SexFemale,
		ActivityLevel:         domain.ActivitySedentary,
		Goal:                  domain.GoalMaintenance,
		CaloricAdjustmentKcal: -1000,
	}
	res, err := engine.ComputeEnergyProfile(in)
	var ie *domain.InfeasibleAllocationError
	require.ErrorAs(t, err, &ie)
	assert.InDelta(t, 1041.8, ie.VETKcal, 1e-6)
	assert.InDelta(t, 560, ie.ProteinKcal, 1e-9)
	assert.InDelta(t, 900, ie.FatKcal, 1e-9)
	assert.Equal(t, domain.EnergyResult{}, res)
}

func TestWaterAndFiber(t *testing.T) {
	in := maleProfile()
	in.WeightKg = 62
	in.CaloricAdjustmentKcal = 0
	res, err := engine.ComputeEnergyProfile(in)
	require.NoError(t, err)
	assert.Equal(t, 2.2, res.WaterLiters)
	assert.Equal(t, 2480, res.VETKcal)
	assert.Equal(t, 35, res.FiberG)
}
