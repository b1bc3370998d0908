package domain

// ActivityLevel selects the TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
	ActivityAthlete    ActivityLevel = "athlete"
)

// Goal selects the protein band of the macronutrient allocation.
type Goal string

const (
	GoalWeightLoss          Goal = "weight_loss"
	GoalMaintenance         Goal = "maintenance"
	GoalMuscleGain          Goal = "muscle_gain"
	GoalAthleticPerformance Goal = "athletic_performance"
)

// BMRFormula selects the basal metabolic rate equation.
type BMRFormula string

const (
	FormulaMifflinStJeor  BMRFormula = "mifflin_st_jeor"
	FormulaHarrisBenedict BMRFormula = "harris_benedict"
	FormulaKatchMcArdle   BMRFormula = "katch_mcardle"
)

// EnergyInput is everything needed to prescribe daily energy and macros.
// Goal and CaloricAdjustmentKcal are independent: the engine never derives
// one from the other.
type EnergyInput struct {
	WeightKg              float64       `json:"weightKg"`
	HeightCm              float64       `json:"heightCm"`
	AgeYears              int           `json:"ageYears"`
	Sex                   Sex           `json:"sex"`
	ActivityLevel         ActivityLevel `json:"activityLevel"`
	Goal                  Goal          `json:"goal"`
	BMRFormula            BMRFormula    `json:"bmrFormula,omitempty"`
	CaloricAdjustmentKcal int           `json:"caloricAdjustmentKcal"`
	LeanMassKg            *float64      `json:"leanMassKg,omitempty"`

	// Optional clinical overrides; must stay inside the goal's band.
	ProteinPerKg *float64 `json:"proteinPerKg,omitempty"`
	FatPerKg     *float64 `json:"fatPerKg,omitempty"`
}

// MacroAllocation is one macronutrient's share of the total energy value.
type MacroAllocation struct {
	Grams float64 `json:"grams"`
	Kcal  int     `json:"kcal"`
	Pct   int     `json:"pct"`
	PerKg float64 `json:"perKg"`
}

// EnergyResult is a daily energy and macronutrient prescription.
type EnergyResult struct {
	Formula        BMRFormula      `json:"formula"`
	ActivityFactor float64         `json:"activityFactor"`
	BMRKcal        int             `json:"bmrKcal"`
	TDEEKcal       int             `json:"tdeeKcal"`
	VETKcal        int             `json:"vetKcal"`
	Protein        MacroAllocation `json:"protein"`
	Carbs          MacroAllocation `json:"carbs"`
	Fat            MacroAllocation `json:"fat"`
	WaterLiters    float64         `json:"waterLiters"`
	FiberG         int             `json:"fiberG"`
	Warnings       []Warning       `json:"warnings,omitempty"`
}
