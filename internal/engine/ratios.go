package engine

import (
	"github.com/shopspring/decimal"

	"nutriassess/internal/domain"
)

// circumferenceRatios returns the waist-hip and waist-height ratios, each nil
// when a required circumference is absent. Normalize guarantees any supplied
// girth is above zero. Risk is classified on the unrounded quotient; only the
// reported Value is rounded.
func circumferenceRatios(rd *rounder, m domain.Measurements, sex domain.Sex) (whr, whtr *domain.RatioResult) {
	waist := m.Circumferences.Waist
	if waist == nil {
		return nil, nil
	}

	if hip := m.Circumferences.Hip; hip != nil {
		raw := quotient(*waist, *hip)
		risk, _ := ClassifyWaistHip(sex, raw)
		whr = &domain.RatioResult{Value: rd.round("waistHipRatio", raw, 2), Risk: risk}
	}

	raw := quotient(*waist, m.HeightCm)
	whtr = &domain.RatioResult{Value: rd.round("waistHeightRatio", raw, 2), Risk: ClassifyWaistHeight(raw)}
	return whr, whtr
}

// quotient divides in decimal so a ratio that is exactly on a cut-off, such
// as 85.5 / 90, is not pushed across it by binary float error.
func quotient(a, b float64) float64 {
	return decimal.NewFromFloat(a).Div(decimal.NewFromFloat(b)).InexactFloat64()
}
