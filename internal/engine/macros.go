package engine

import (
	"fmt"

	"nutriassess/internal/domain"
)

const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// GramsPerKgBand is an inclusive g/kg range with the value used when the
// caller does not override it.
type GramsPerKgBand struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
}

func (b GramsPerKgBand) contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// GoalPolicy holds the protein and fat bands applied for a goal.
type GoalPolicy struct {
	Protein GramsPerKgBand `json:"protein"`
	Fat     GramsPerKgBand `json:"fat"`
}

var (
	highProtein = GramsPerKgBand{Min: 1.8, Max: 2.2, Default: 2.0}
	maintenance = GramsPerKgBand{Min: 1.2, Max: 1.6, Default: 1.4}
	fatBand     = GramsPerKgBand{Min: 0.8, Max: 1.2, Default: 1.0}
)

// PolicyFor returns the macronutrient bands for a goal.
func PolicyFor(goal domain.Goal) (GoalPolicy, error) {
	switch goal {
	case domain.GoalWeightLoss, domain.GoalMuscleGain, domain.GoalAthleticPerformance:
		return GoalPolicy{Protein: highProtein, Fat: fatBand}, nil
	case domain.GoalMaintenance:
		return GoalPolicy{Protein: maintenance, Fat: fatBand}, nil
	default:
		return GoalPolicy{}, &domain.InvalidEnumError{Kind: "goal", Value: string(goal)}
	}
}

type macroSplit struct {
	protein, carbs, fat domain.MacroAllocation
}

// allocateMacros sets protein and fat from g/kg and gives the remainder of
// vet to carbohydrate. Grams are reported to 1 dp and kcal to whole kcal,
// each from the unrounded value, so the three kcal sum to vet within 3 kcal.
func allocateMacros(rd *rounder, vet float64, in domain.EnergyInput) (macroSplit, error) {
	policy, err := PolicyFor(in.Goal)
	if err != nil {
		return macroSplit{}, err
	}
	proteinPerKg, err := pick("proteinPerKg", in.ProteinPerKg, policy.Protein)
	if err != nil {
		return macroSplit{}, err
	}
	fatPerKg, err := pick("fatPerKg", in.FatPerKg, policy.Fat)
	if err != nil {
		return macroSplit{}, err
	}

	w := in.WeightKg
	proteinG := w * proteinPerKg
	fatG := w * fatPerKg
	proteinKcal := proteinG * kcalPerGramProtein
	fatKcal := fatG * kcalPerGramFat

	carbsKcal := vet - proteinKcal - fatKcal
	if carbsKcal < 0 {
		return macroSplit{}, &domain.InfeasibleAllocationError{
			VETKcal:     vet,
			ProteinKcal: proteinKcal,
			FatKcal:     fatKcal,
		}
	}
	carbsG := carbsKcal / kcalPerGramCarbs

	alloc := func(name string, grams, kcal float64) domain.MacroAllocation {
		return domain.MacroAllocation{
			Grams: rd.round(name+".grams", grams, 1),
			Kcal:  rd.kcal(name+".kcal", kcal),
			Pct:   rd.kcal(name+".pct", kcal/vet*100),
			PerKg: rd.round(name+".perKg", grams/w, 2),
		}
	}
	split := macroSplit{
		protein: alloc("protein", proteinG, proteinKcal),
		carbs:   alloc("carbs", carbsG, carbsKcal),
		fat:     alloc("fat", fatG, fatKcal),
	}
	if rd.err != nil {
		return macroSplit{}, rd.err
	}
	return split, nil
}

func pick(field string, override *float64, band GramsPerKgBand) (float64, error) {
	if override == nil {
		return band.Default, nil
	}
	if !band.contains(*override) {
		return 0, &domain.ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("must be within [%g, %g] g/kg for this goal", band.Min, band.Max),
		}
	}
	return *override, nil
}
