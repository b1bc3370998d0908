package engine

import (
	"errors"
	"fmt"

	"nutriassess/internal/domain"
)

// ActivityFactor returns the TDEE multiplier for an activity level.
func ActivityFactor(level domain.ActivityLevel) (float64, error) {
	switch level {
	case domain.ActivitySedentary:
		return 1.2, nil
	case domain.ActivityLight:
		return 1.375, nil
	case domain.ActivityModerate:
		return 1.55, nil
	case domain.ActivityActive:
		return 1.725, nil
	case domain.ActivityVeryActive:
		return 1.9, nil
	case domain.ActivityAthlete:
		return 2.0, nil
	default:
		return 0, &domain.InvalidEnumError{Kind: "activity level", Value: string(level)}
	}
}

// ResolveFormula maps the empty selector to Mifflin-St Jeor and rejects
// anything it does not know.
func ResolveFormula(f domain.BMRFormula) (domain.BMRFormula, error) {
	switch f {
	case "":
		return domain.FormulaMifflinStJeor, nil
	case domain.FormulaMifflinStJeor, domain.FormulaHarrisBenedict, domain.FormulaKatchMcArdle:
		return f, nil
	default:
		return "", &domain.InvalidEnumError{Kind: "bmr formula", Value: string(f)}
	}
}

// SuggestedAdjustment is the caloric adjustment a UI usually preselects for a
// goal. The engine never applies it; callers pass the adjustment explicitly.
func SuggestedAdjustment(goal domain.Goal) (int, error) {
	switch goal {
	case domain.GoalWeightLoss:
		return -500, nil
	case domain.GoalMuscleGain:
		return 300, nil
	case domain.GoalMaintenance, domain.GoalAthleticPerformance:
		return 0, nil
	default:
		return 0, &domain.InvalidEnumError{Kind: "goal", Value: string(goal)}
	}
}

// BMR returns the basal metabolic rate in kcal for an already validated input.
func BMR(f domain.BMRFormula, in domain.EnergyInput) (float64, error) {
	w, h, a := in.WeightKg, in.HeightCm, float64(in.AgeYears)
	male := in.Sex == domain.SexMale

	switch f {
	case domain.FormulaMifflinStJeor:
		if male {
			return 10*w + 6.25*h - 5*a + 5, nil
		}
		return 10*w + 6.25*h - 5*a - 161, nil
	case domain.FormulaHarrisBenedict:
		if male {
			return 88.362 + 13.397*w + 4.799*h - 5.677*a, nil
		}
		return 447.593 + 9.247*w + 3.098*h - 4.330*a, nil
	case domain.FormulaKatchMcArdle:
		if in.LeanMassKg == nil {
			return 0, &domain.MissingInputError{Field: "leanMassKg", Formula: string(f)}
		}
		return 370 + 21.6**in.LeanMassKg, nil
	default:
		return 0, &domain.InvalidEnumError{Kind: "bmr formula", Value: string(f)}
	}
}

// ComputeEnergyProfile computes BMR, TDEE and VET and allocates VET to
// protein, carbohydrate and fat. A caloric adjustment outside the configured
// band is accepted with a warning. An adjustment so large that an output no
// longer fits a whole-kcal int is a ValidationError.
func (e *Engine) ComputeEnergyProfile(in domain.EnergyInput) (domain.EnergyResult, error) {
	formula, factor, err := e.validateEnergyInput(in)
	if err != nil {
		return domain.EnergyResult{}, err
	}

	bmr, err := BMR(formula, in)
	if err != nil {
		return domain.EnergyResult{}, err
	}
	tdee := bmr * factor
	vet := tdee + float64(in.CaloricAdjustmentKcal)

	rd := &rounder{}
	res := domain.EnergyResult{
		Formula:        formula,
		ActivityFactor: factor,
		BMRKcal:        rd.kcal("bmrKcal", bmr),
		TDEEKcal:       rd.kcal("tdeeKcal", tdee),
		VETKcal:        rd.kcal("vetKcal", vet),
		WaterLiters:    rd.round("waterLiters", in.WeightKg*e.params.WaterLitersPerKg, 1),
		FiberG:         rd.kcal("fiberG", vet/1000*e.params.FiberGramsPer1000Kcal),
	}
	if rd.err != nil {
		return domain.EnergyResult{}, rd.err
	}

	macros, err := allocateMacros(rd, vet, in)
	if err != nil {
		return domain.EnergyResult{}, err
	}
	res.Protein, res.Carbs, res.Fat = macros.protein, macros.carbs, macros.fat

	adj := in.CaloricAdjustmentKcal
	if adj < e.params.AdjustmentMinKcal || adj > e.params.AdjustmentMaxKcal {
		res.Warnings = append(res.Warnings, domain.Warning{
			Code:     domain.WarnAdjustmentOutOfRange,
			Severity: domain.SeverityCaution,
			Message: fmt.Sprintf("caloric adjustment %d kcal is outside [%d, %d]; confirm it is intentional",
				adj, e.params.AdjustmentMinKcal, e.params.AdjustmentMaxKcal),
			Metric: "caloric_adjustment_kcal",
			Value:  float64(adj),
			Min:    float64(e.params.AdjustmentMinKcal),
			Max:    float64(e.params.AdjustmentMaxKcal),
		})
	}
	return res, nil
}

// validateEnergyInput checks every field and reports all problems together.
func (e *Engine) validateEnergyInput(in domain.EnergyInput) (domain.BMRFormula, float64, error) {
	v := validator{}
	asIs := func(x float64) float64 { return x }
	v.required("weightKg", in.WeightKg, asIs, ceiling{e.params.MaxWeightKg, "kg"})
	v.required("heightCm", in.HeightCm, asIs, ceiling{e.params.MaxHeightCm, "cm"})
	if err := validateAge(in.AgeYears); err != nil {
		v.errs = append(v.errs, err)
	}
	if _, err := domain.ParseSex(string(in.Sex)); err != nil {
		v.errs = append(v.errs, err)
	}
	factor, err := ActivityFactor(in.ActivityLevel)
	if err != nil {
		v.errs = append(v.errs, err)
	}
	if _, err := PolicyFor(in.Goal); err != nil {
		v.errs = append(v.errs, err)
	}
	formula, err := ResolveFormula(in.BMRFormula)
	if err != nil {
		v.errs = append(v.errs, err)
	}
	if in.LeanMassKg != nil {
		lm := *in.LeanMassKg
		if v.finite("leanMassKg", lm) && (lm <= 0 || lm >= in.WeightKg) {
			v.fail("leanMassKg", "must be > 0 and below weight")
		}
	}
	if len(v.errs) > 0 {
		return "", 0, errors.Join(v.errs...)
	}
	return formula, factor, nil
}
