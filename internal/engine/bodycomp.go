package engine

import (
	"fmt"

	"nutriassess/internal/domain"
)

// ComputeBodyComposition derives BMI, skinfold and bioimpedance body fat and
// circumference ratios from one measurement session. Invalid input yields an
// error and no partial result. Missing optional data never fails: the
// affected estimate reports its status instead. Inputs within the
// plausibility ceilings can still combine into a non-finite value, such as a
// BMI from a near-zero height; that is reported as a ValidationError.
func (e *Engine) ComputeBodyComposition(in domain.AnthropometricInput, sex domain.Sex, age int) (domain.AnthropometricResult, error) {
	if _, err := domain.ParseSex(string(sex)); err != nil {
		return domain.AnthropometricResult{}, err
	}
	if err := validateAge(age); err != nil {
		return domain.AnthropometricResult{}, err
	}
	m, err := e.Normalize(in)
	if err != nil {
		return domain.AnthropometricResult{}, err
	}

	r := domain.AnthropometricResult{
		Measurements: m,
		Sex:          sex,
		AgeYears:     age,
	}

	rd := &rounder{}
	bmi := BMI(m.WeightKg, m.HeightCm)
	// BMI is a 2 dp quantity; the band is read from the reported value.
	r.BMI = rd.round("bmi", bmi, 2)
	r.BMIClassification = ClassifyBMI(r.BMI)
	if bmi < e.params.BMIPlausibleMin || bmi > e.params.BMIPlausibleMax {
		r.Warnings = append(r.Warnings, e.rangeWarning(rd, domain.WarnBMIOutOfRange, "bmi", bmi,
			e.params.BMIPlausibleMin, e.params.BMIPlausibleMax))
	}

	var w *domain.Warning
	r.Skinfold, w = e.skinfoldEstimate(rd, m, sex, age)
	if w != nil {
		r.Warnings = append(r.Warnings, *w)
	}
	r.Bioimpedance, w = e.bioimpedanceEstimate(rd, m, sex)
	if w != nil {
		r.Warnings = append(r.Warnings, *w)
	}

	r.WaistHipRatio, r.WaistHeightRatio = circumferenceRatios(rd, m, sex)
	if rd.err != nil {
		return domain.AnthropometricResult{}, rd.err
	}
	return r, nil
}

// BMI returns weight / height² with height converted from cm to m.
func BMI(weightKg, heightCm float64) float64 {
	h := heightCm / 100
	return weightKg / (h * h)
}

// BodyDensityJP7 is the Jackson & Pollock seven-site generalized equation.
func BodyDensityJP7(sex domain.Sex, sum7 float64, age int) float64 {
	a := float64(age)
	if sex == domain.SexFemale {
		return 1.097 - 0.00046971*sum7 + 0.00000056*sum7*sum7 - 0.00012828*a
	}
	return 1.112 - 0.00043499*sum7 + 0.00000055*sum7*sum7 - 0.00028826*a
}

// SiriBodyFat converts body density to body-fat percentage.
func SiriBodyFat(density float64) float64 {
	return 495/density - 450
}

type site struct {
	name string
	mm   *float64
}

func jp7Sites(s domain.Skinfolds) []site {
	return []site{
		{"triceps", s.Triceps},
		{"subscapular", s.Subscapular},
		{"chest", s.Chest},
		{"midaxillary", s.Midaxillary},
		{"suprailiac", s.Suprailiac},
		{"abdominal", s.Abdominal},
		{"thigh", s.Thigh},
	}
}

func (e *Engine) skinfoldEstimate(rd *rounder, m domain.Measurements, sex domain.Sex, age int) (domain.SkinfoldResult, *domain.Warning) {
	var sum float64
	var missing []string
	for _, s := range jp7Sites(m.Skinfolds) {
		if s.mm == nil {
			missing = append(missing, s.name)
			continue
		}
		sum += *s.mm
	}
	if len(missing) > 0 {
		return domain.SkinfoldResult{Status: domain.StatusInsufficientData, Missing: missing}, nil
	}

	density := BodyDensityJP7(sex, sum, age)
	est, w := e.bodyFatEstimate(rd, domain.MethodSkinfoldJP7, domain.WarnBodyFatOutOfRange, sex, m.WeightKg, SiriBodyFat(density))
	return domain.SkinfoldResult{
		Status:      domain.StatusComputed,
		Sum7MM:      ptr(rd.round("skinfold.sum7MM", sum, 1)),
		BodyDensity: ptr(rd.round("skinfold.bodyDensity", density, 5)),
		Estimate:    est,
	}, w
}

// bioimpedanceEstimate reports scale readings as given. Its fat percentage is
// classified with the same tables as the skinfold estimate but the two are
// never combined.
func (e *Engine) bioimpedanceEstimate(rd *rounder, m domain.Measurements, sex domain.Sex) (domain.BioimpedanceResult, *domain.Warning) {
	b := m.Bioimpedance
	if b.Empty() {
		return domain.BioimpedanceResult{Status: domain.StatusNotSupplied}, nil
	}
	res := domain.BioimpedanceResult{Status: domain.StatusComputed, Readings: b}
	if b.FatPercentage == nil {
		return res, nil
	}
	var w *domain.Warning
	res.Estimate, w = e.bodyFatEstimate(rd, domain.MethodBioimpedance, domain.WarnBioimpedanceOutOfRange, sex, m.WeightKg, *b.FatPercentage)
	return res, w
}

// bodyFatEstimate clamps pct into the plausible range, splits weight into fat
// and lean mass, and flags the raw value when clamping was needed.
func (e *Engine) bodyFatEstimate(rd *rounder, method domain.BodyFatMethod, code string, sex domain.Sex, weightKg, pct float64) (*domain.BodyFatEstimate, *domain.Warning) {
	lo, hi := e.params.BodyFatPlausibleMin, e.params.BodyFatPlausibleMax
	clamped := min(max(pct, lo), hi)

	var w *domain.Warning
	if clamped != pct {
		rw := e.rangeWarning(rd, code, "body_fat_percentage", pct, lo, hi)
		w = &rw
	}

	fat := weightKg * clamped / 100
	label, _ := ClassifyBodyFat(sex, clamped)
	return &domain.BodyFatEstimate{
		Method:               method,
		BodyFatPercentage:    rd.round("bodyFatPercentage", clamped, 2),
		RawBodyFatPercentage: rd.round("rawBodyFatPercentage", pct, 2),
		FatMassKg:            rd.round("fatMassKg", fat, 2),
		LeanMassKg:           rd.round("leanMassKg", weightKg-fat, 2),
		Classification:       label,
	}, w
}

func (e *Engine) rangeWarning(rd *rounder, code, metric string, v, lo, hi float64) domain.Warning {
	return domain.Warning{
		Code:     code,
		Severity: domain.SeverityCaution,
		Message:  fmt.Sprintf("%s %.2f is outside the plausible range [%g, %g]; check the measurements", metric, v, lo, hi),
		Metric:   metric,
		Value:    rd.round(metric, v, 2),
		Min:      lo,
		Max:      hi,
	}
}
