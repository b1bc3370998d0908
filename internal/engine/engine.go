// Package engine turns body measurements into body-composition metrics and
// a patient profile into a daily energy and macronutrient prescription.
//
// Every operation is a pure function of its arguments: no I/O, no shared
// mutable state, safe to call from any number of goroutines. Values are kept
// in float64 throughout and rounded only when written to a result.
package engine

import (
	"errors"
	"fmt"
	"math"

	"nutriassess/internal/domain"
)

// Params are the clinical constants a deployment may override.
type Params struct {
	WaterLitersPerKg      float64 `yaml:"water_liters_per_kg" json:"waterLitersPerKg"`
	FiberGramsPer1000Kcal float64 `yaml:"fiber_grams_per_1000_kcal" json:"fiberGramsPer1000Kcal"`
	AdjustmentMinKcal     int     `yaml:"adjustment_min_kcal" json:"adjustmentMinKcal"`
	AdjustmentMaxKcal     int     `yaml:"adjustment_max_kcal" json:"adjustmentMaxKcal"`
	BMIPlausibleMin       float64 `yaml:"bmi_plausible_min" json:"bmiPlausibleMin"`
	BMIPlausibleMax       float64 `yaml:"bmi_plausible_max" json:"bmiPlausibleMax"`
	BodyFatPlausibleMin   float64 `yaml:"body_fat_plausible_min" json:"bodyFatPlausibleMin"`
	BodyFatPlausibleMax   float64 `yaml:"body_fat_plausible_max" json:"bodyFatPlausibleMax"`

	// Ceilings above which a measurement is rejected as a typo or unit mistake.
	MaxWeightKg        float64 `yaml:"max_weight_kg" json:"maxWeightKg"`
	MaxHeightCm        float64 `yaml:"max_height_cm" json:"maxHeightCm"`
	MaxCircumferenceCm float64 `yaml:"max_circumference_cm" json:"maxCircumferenceCm"`
	MaxSkinfoldMM      float64 `yaml:"max_skinfold_mm" json:"maxSkinfoldMM"`
}

// DefaultParams returns the guideline defaults.
func DefaultParams() Params {
	return Params{
		WaterLitersPerKg:      0.035,
		FiberGramsPer1000Kcal: 14,
		AdjustmentMinKcal:     -1000,
		AdjustmentMaxKcal:     1000,
		BMIPlausibleMin:       10,
		BMIPlausibleMax:       70,
		BodyFatPlausibleMin:   2,
		BodyFatPlausibleMax:   60,
		MaxWeightKg:           700,
		MaxHeightCm:           300,
		MaxCircumferenceCm:    300,
		MaxSkinfoldMM:         100,
	}
}

// Validate checks that the parameters are usable.
func (p Params) Validate() error {
	if p.WaterLitersPerKg <= 0 {
		return errors.New("water_liters_per_kg must be > 0")
	}
	if p.FiberGramsPer1000Kcal <= 0 {
		return errors.New("fiber_grams_per_1000_kcal must be > 0")
	}
	if p.AdjustmentMinKcal > p.AdjustmentMaxKcal {
		return errors.New("adjustment_min_kcal must not exceed adjustment_max_kcal")
	}
	if p.BMIPlausibleMin >= p.BMIPlausibleMax {
		return errors.New("bmi_plausible_min must be below bmi_plausible_max")
	}
	if p.BodyFatPlausibleMin < 0 || p.BodyFatPlausibleMin >= p.BodyFatPlausibleMax || p.BodyFatPlausibleMax > 100 {
		return errors.New("body fat plausible range must lie within [0, 100] and be non-empty")
	}
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"max_weight_kg", p.MaxWeightKg},
		{"max_height_cm", p.MaxHeightCm},
		{"max_circumference_cm", p.MaxCircumferenceCm},
		{"max_skinfold_mm", p.MaxSkinfoldMM},
	} {
		if !(c.v > 0) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%s must be a finite number > 0", c.name)
		}
	}
	return nil
}

// Engine computes assessments with a fixed set of Params.
type Engine struct {
	params Params
}

// New creates an Engine with the given parameters.
func New(p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("engine params: %w", err)
	}
	return &Engine{params: p}, nil
}

// Params returns the parameters the engine was built with.
func (e *Engine) Params() Params {
	return e.params
}

var defaultEngine = &Engine{params: DefaultParams()}

// ComputeBodyComposition runs the default engine. See Engine.ComputeBodyComposition.
func ComputeBodyComposition(in domain.AnthropometricInput, sex domain.Sex, age int) (domain.AnthropometricResult, error) {
	return defaultEngine.ComputeBodyComposition(in, sex, age)
}

// ComputeEnergyProfile runs the default engine. See Engine.ComputeEnergyProfile.
func ComputeEnergyProfile(in domain.EnergyInput) (domain.EnergyResult, error) {
	return defaultEngine.ComputeEnergyProfile(in)
}
