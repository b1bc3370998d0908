package engine

import (
	"errors"
	"fmt"
	"math"

	"nutriassess/internal/domain"
)

const maxAgeYears = 130

// Normalize validates raw measurements against the default limits. See
// Engine.Normalize.
func Normalize(in domain.AnthropometricInput) (domain.Measurements, error) {
	return defaultEngine.Normalize(in)
}

// Normalize validates raw measurements and converts them to kg, cm and mm.
// Absent optional values stay nil; a supplied girth must be above zero.
// Values beyond the engine's plausibility ceilings are rejected. All invalid
// fields are reported together.
func (e *Engine) Normalize(in domain.AnthropometricInput) (domain.Measurements, error) {
	var m domain.Measurements

	weightUnit := in.WeightUnit
	if weightUnit == "" {
		weightUnit = "kg"
	}
	lengthUnit := in.LengthUnit
	if lengthUnit == "" {
		lengthUnit = "cm"
	}
	var errs []error
	if weightUnit != "kg" && weightUnit != "lb" {
		errs = append(errs, &domain.InvalidEnumError{Kind: "weight unit", Value: in.WeightUnit})
	}
	if lengthUnit != "cm" && lengthUnit != "in" {
		errs = append(errs, &domain.InvalidEnumError{Kind: "length unit", Value: in.LengthUnit})
	}
	if len(errs) > 0 {
		return m, errors.Join(errs...)
	}

	p := e.params
	v := validator{}
	toKg := func(x float64) float64 { return domain.ConvertWeight(x, weightUnit, "kg") }
	toCm := func(x float64) float64 { return domain.ConvertLength(x, lengthUnit, "cm") }
	asIs := func(x float64) float64 { return x }

	m.WeightKg = v.required("weight", in.Weight, toKg, ceiling{p.MaxWeightKg, "kg"})
	m.HeightCm = v.required("height", in.Height, toCm, ceiling{p.MaxHeightCm, "cm"})

	girth := func(field string, x *float64) *float64 {
		return v.girth("circumferences."+field, x, toCm, ceiling{p.MaxCircumferenceCm, "cm"})
	}
	c := in.Circumferences
	m.Circumferences = domain.Circumferences{
		Neck:     girth("neck", c.Neck),
		Shoulder: girth("shoulder", c.Shoulder),
		Chest:    girth("chest", c.Chest),
		Waist:    girth("waist", c.Waist),
		Abdomen:  girth("abdomen", c.Abdomen),
		Hip:      girth("hip", c.Hip),
		LeftArm:  girth("leftArm", c.LeftArm),
		RightArm: girth("rightArm", c.RightArm),
		Forearm:  girth("forearm", c.Forearm),
		Thigh:    girth("thigh", c.Thigh),
		Calf:     girth("calf", c.Calf),
	}

	fold := func(field string, x *float64) *float64 {
		return v.optional("skinfolds."+field, x, asIs, ceiling{p.MaxSkinfoldMM, "mm"})
	}
	s := in.Skinfolds
	m.Skinfolds = domain.Skinfolds{
		Triceps:     fold("triceps", s.Triceps),
		Subscapular: fold("subscapular", s.Subscapular),
		Chest:       fold("chest", s.Chest),
		Midaxillary: fold("midaxillary", s.Midaxillary),
		Suprailiac:  fold("suprailiac", s.Suprailiac),
		Abdominal:   fold("abdominal", s.Abdominal),
		Thigh:       fold("thigh", s.Thigh),
	}

	// Scale readings are already metric.
	mass := ceiling{p.MaxWeightKg, "kg"}
	b := in.Bioimpedance
	m.Bioimpedance = domain.Bioimpedance{
		FatPercentage:       v.percentage("bioimpedance.fatPercentage", b.FatPercentage),
		MuscleMassKg:        v.optional("bioimpedance.muscleMassKg", b.MuscleMassKg, asIs, mass),
		WaterPercentage:     v.percentage("bioimpedance.waterPercentage", b.WaterPercentage),
		BoneMassKg:          v.optional("bioimpedance.boneMassKg", b.BoneMassKg, asIs, mass),
		VisceralFatLevel:    v.optional("bioimpedance.visceralFatLevel", b.VisceralFatLevel, asIs, unbounded),
		BasalMetabolismKcal: v.optional("bioimpedance.basalMetabolismKcal", b.BasalMetabolismKcal, asIs, unbounded),
	}

	if err := v.err(); err != nil {
		return domain.Measurements{}, err
	}
	return m, nil
}

func validateAge(age int) error {
	if age <= 0 || age > maxAgeYears {
		return &domain.ValidationError{Field: "age", Reason: "must be within (0, 130] years"}
	}
	return nil
}

// ceiling is the largest plausible value of a measurement in its canonical unit.
type ceiling struct {
	max  float64
	unit string
}

var unbounded = ceiling{max: math.MaxFloat64}

// validator accumulates field errors so a caller sees every problem at once.
type validator struct {
	errs []error
}

func (v *validator) fail(field, reason string) {
	v.errs = append(v.errs, &domain.ValidationError{Field: field, Reason: reason})
}

func (v *validator) finite(field string, x float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		v.fail(field, "must be a finite number")
		return false
	}
	return true
}

func (v *validator) positive(field string, x float64) bool {
	if !v.finite(field, x) {
		return false
	}
	if x <= 0 {
		v.fail(field, "must be > 0")
		return false
	}
	return true
}

// atMost checks a converted value against its ceiling. A conversion that
// overflows to +Inf fails the same way.
func (v *validator) atMost(field string, x float64, c ceiling) bool {
	if x > c.max {
		v.fail(field, fmt.Sprintf("must be at most %g %s", c.max, c.unit))
		return false
	}
	return true
}

func (v *validator) required(field string, x float64, conv func(float64) float64, c ceiling) float64 {
	if !v.positive(field, x) {
		return x
	}
	x = conv(x)
	v.atMost(field, x, c)
	return x
}

func (v *validator) optional(field string, p *float64, conv func(float64) float64, c ceiling) *float64 {
	if p == nil {
		return nil
	}
	if !v.finite(field, *p) {
		return nil
	}
	if *p < 0 {
		v.fail(field, "must not be negative")
		return nil
	}
	x := conv(*p)
	if !v.atMost(field, x, c) {
		return nil
	}
	return ptr(x)
}

// girth is optional for circumferences, which are never zero when measured.
func (v *validator) girth(field string, p *float64, conv func(float64) float64, c ceiling) *float64 {
	if p != nil && *p == 0 {
		v.fail(field, "must be > 0 when supplied")
		return nil
	}
	return v.optional(field, p, conv, c)
}

func (v *validator) percentage(field string, p *float64) *float64 {
	if p == nil {
		return nil
	}
	if !v.finite(field, *p) {
		return nil
	}
	if *p < 0 || *p > 100 {
		v.fail(field, "must be within [0, 100]")
		return nil
	}
	return ptr(*p)
}

func (v *validator) err() error {
	return errors.Join(v.errs...)
}
