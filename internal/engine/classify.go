package engine

import (
	"math"

	"nutriassess/internal/domain"
)

// Classification labels.
const (
	LabelUnderweight = "underweight"
	LabelNormal      = "normal"
	LabelOverweight  = "overweight"
	LabelObesityI    = "obesity_i"
	LabelObesityII   = "obesity_ii"
	LabelObesityIII  = "obesity_iii"

	LabelEssential  = "essential"
	LabelAthletic   = "athletic"
	LabelAcceptable = "acceptable"
	LabelElevated   = "elevated"

	LabelLowRisk  = "low"
	LabelHighRisk = "high"
)

// Band is one row of a threshold table: values up to Upper get Label.
type Band struct {
	Upper float64 `json:"upper"`
	Label string  `json:"label"`
}

// Table is an ordered threshold table for one metric (and sex, where the
// thresholds differ by sex). With UpperInclusive false a value equal to a
// band's Upper falls into the next band, so lower bounds are inclusive.
type Table struct {
	Metric         string     `json:"metric"`
	Sex            domain.Sex `json:"sex,omitempty"`
	UpperInclusive bool       `json:"upperInclusive"`
	Bands          []Band     `json:"bands"`
}

// Classify returns the label of the band v falls into.
func (t Table) Classify(v float64) string {
	for _, b := range t.Bands {
		if v < b.Upper || (t.UpperInclusive && v == b.Upper) {
			return b.Label
		}
	}
	return t.Bands[len(t.Bands)-1].Label
}

var top = math.Inf(1)

var bmiTable = Table{
	Metric: "bmi",
	Bands: []Band{
		{18.5, LabelUnderweight},
		{25, LabelNormal},
		{30, LabelOverweight},
		{35, LabelObesityI},
		{40, LabelObesityII},
		{top, LabelObesityIII},
	},
}

var bodyFatTables = map[domain.Sex]Table{
	domain.SexMale: {
		Metric: "body_fat_percentage",
		Sex:    domain.SexMale,
		Bands: []Band{
			{6, LabelEssential},
			{14, LabelAthletic},
			{25, LabelAcceptable},
			{top, LabelElevated},
		},
	},
	domain.SexFemale: {
		Metric: "body_fat_percentage",
		Sex:    domain.SexFemale,
		Bands: []Band{
			{14, LabelEssential},
			{21, LabelAthletic},
			{32, LabelAcceptable},
			{top, LabelElevated},
		},
	},
}

var waistHipTables = map[domain.Sex]Table{
	domain.SexMale: {
		Metric:         "waist_hip_ratio",
		Sex:            domain.SexMale,
		UpperInclusive: true,
		Bands:          []Band{{0.95, LabelLowRisk}, {top, LabelHighRisk}},
	},
	domain.SexFemale: {
		Metric:         "waist_hip_ratio",
		Sex:            domain.SexFemale,
		UpperInclusive: true,
		Bands:          []Band{{0.85, LabelLowRisk}, {top, LabelHighRisk}},
	},
}

var waistHeightTable = Table{
	Metric:         "waist_height_ratio",
	UpperInclusive: true,
	Bands:          []Band{{0.5, LabelNormal}, {top, LabelElevated}},
}

// ClassifyBMI labels a BMI value.
func ClassifyBMI(bmi float64) string {
	return bmiTable.Classify(bmi)
}

// ClassifyBodyFat labels a body-fat percentage using the sex-specific table.
func ClassifyBodyFat(sex domain.Sex, pct float64) (string, error) {
	t, ok := bodyFatTables[sex]
	if !ok {
		return "", &domain.InvalidEnumError{Kind: "sex", Value: string(sex)}
	}
	return t.Classify(pct), nil
}

// ClassifyWaistHip labels a waist-hip ratio using the sex-specific cut-off.
func ClassifyWaistHip(sex domain.Sex, ratio float64) (string, error) {
	t, ok := waistHipTables[sex]
	if !ok {
		return "", &domain.InvalidEnumError{Kind: "sex", Value: string(sex)}
	}
	return t.Classify(ratio), nil
}

// ClassifyWaistHeight labels a waist-height ratio. It is sex-independent.
func ClassifyWaistHeight(ratio float64) string {
	return waistHeightTable.Classify(ratio)
}

// Tables returns every threshold table so presentation code can render
// bands without keeping its own copy. The last band's +Inf upper bound is
// reported as math.MaxFloat64 so the tables survive JSON encoding.
func Tables() []Table {
	all := []Table{
		bmiTable,
		bodyFatTables[domain.SexMale],
		bodyFatTables[domain.SexFemale],
		waistHipTables[domain.SexMale],
		waistHipTables[domain.SexFemale],
		waistHeightTable,
	}
	out := make([]Table, len(all))
	for i, t := range all {
		bands := make([]Band, len(t.Bands))
		copy(bands, t.Bands)
		for j := range bands {
			if math.IsInf(bands[j].Upper, 1) {
				bands[j].Upper = math.MaxFloat64
			}
		}
		t.Bands = bands
		out[i] = t
	}
	return out
}
