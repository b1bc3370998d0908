package engine

import (
	"math"

	"github.com/shopspring/decimal"

	"nutriassess/internal/domain"
)

// rounder rounds values as they are written to a result and keeps the first
// value that could not be represented. After a failure every call returns 0;
// the caller discards the result and returns err.
type rounder struct {
	err error
}

// round rounds half away from zero on the shortest decimal representation of
// v, so 2.675 becomes 2.68 rather than the binary-float 2.67.
func (r *rounder) round(metric string, v float64, places int32) float64 {
	if !r.check(metric, v, math.MaxFloat64) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// kcal rounds to a whole number that fits an int on every platform.
func (r *rounder) kcal(metric string, v float64) int {
	if !r.check(metric, v, math.MaxInt32) {
		return 0
	}
	return int(decimal.NewFromFloat(v).Round(0).IntPart())
}

func (r *rounder) check(metric string, v, limit float64) bool {
	if r.err != nil {
		return false
	}
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		r.err = &domain.ValidationError{Field: metric, Reason: "computed value is not a finite number; check the input magnitudes"}
	case math.Abs(v) > limit:
		r.err = &domain.ValidationError{Field: metric, Reason: "computed value is out of range; check the input magnitudes"}
	default:
		return true
	}
	return false
}

func ptr(v float64) *float64 {
	return &v
}
