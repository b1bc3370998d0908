package domain

// Sex selects the sex-specific branch of a formula or threshold table.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ParseSex validates a sex selector.
func ParseSex(s string) (Sex, error) {
	switch Sex(s) {
	case SexMale, SexFemale:
		return Sex(s), nil
	default:
		return "", &InvalidEnumError{Kind: "sex", Value: s}
	}
}

// Circumferences holds optional girth measurements. Nil means not measured.
type Circumferences struct {
	Neck     *float64 `json:"neck,omitempty"`
	Shoulder *float64 `json:"shoulder,omitempty"`
	Chest    *float64 `json:"chest,omitempty"`
	Waist    *float64 `json:"waist,omitempty"`
	Abdomen  *float64 `json:"abdomen,omitempty"`
	Hip      *float64 `json:"hip,omitempty"`
	LeftArm  *float64 `json:"leftArm,omitempty"`
	RightArm *float64 `json:"rightArm,omitempty"`
	Forearm  *float64 `json:"forearm,omitempty"`
	Thigh    *float64 `json:"thigh,omitempty"`
	Calf     *float64 `json:"calf,omitempty"`
}

// Skinfolds holds optional skinfold thicknesses in millimetres.
type Skinfolds struct {
	Triceps     *float64 `json:"triceps,omitempty"`
	Subscapular *float64 `json:"subscapular,omitempty"`
	Chest       *float64 `json:"chest,omitempty"`
	Midaxillary *float64 `json:"midaxillary,omitempty"`
	Suprailiac  *float64 `json:"suprailiac,omitempty"`
	Abdominal   *float64 `json:"abdominal,omitempty"`
	Thigh       *float64 `json:"thigh,omitempty"`
}

// Bioimpedance holds readings taken directly from a bioimpedance scale.
type Bioimpedance struct {
	FatPercentage       *float64 `json:"fatPercentage,omitempty"`
	MuscleMassKg        *float64 `json:"muscleMassKg,omitempty"`
	WaterPercentage     *float64 `json:"waterPercentage,omitempty"`
	BoneMassKg          *float64 `json:"boneMassKg,omitempty"`
	VisceralFatLevel    *float64 `json:"visceralFatLevel,omitempty"`
	BasalMetabolismKcal *float64 `json:"basalMetabolismKcal,omitempty"`
}

// Empty reports whether no reading was supplied.
func (b Bioimpedance) Empty() bool {
	return b.FatPercentage == nil && b.MuscleMassKg == nil && b.WaterPercentage == nil &&
		b.BoneMassKg == nil && b.VisceralFatLevel == nil && b.BasalMetabolismKcal == nil
}

// AnthropometricInput is one measurement session as captured, in the units
// the caller chose. WeightUnit is "kg" or "lb" and LengthUnit is "cm" or "in";
// both default to metric. Skinfolds are always millimetres.
type AnthropometricInput struct {
	Weight         float64        `json:"weight"`
	Height         float64        `json:"height"`
	WeightUnit     string         `json:"weightUnit,omitempty"`
	LengthUnit     string         `json:"lengthUnit,omitempty"`
	Circumferences Circumferences `json:"circumferences"`
	Skinfolds      Skinfolds      `json:"skinfolds"`
	Bioimpedance   Bioimpedance   `json:"bioimpedance"`
}

// Measurements is an AnthropometricInput after normalization to kg, cm and mm.
type Measurements struct {
	WeightKg       float64        `json:"weightKg"`
	HeightCm       float64        `json:"heightCm"`
	Circumferences Circumferences `json:"circumferences"`
	Skinfolds      Skinfolds      `json:"skinfolds"`
	Bioimpedance   Bioimpedance   `json:"bioimpedance"`
}

// BodyFatMethod tags where a body-fat estimate came from.
type BodyFatMethod string

const (
	MethodSkinfoldJP7  BodyFatMethod = "skinfold_jp7"
	MethodBioimpedance BodyFatMethod = "bioimpedance"
)

// EstimateStatus tells whether a derived estimate could be produced.
type EstimateStatus string

const (
	StatusComputed         EstimateStatus = "computed"
	StatusInsufficientData EstimateStatus = "insufficient_data"
	StatusNotSupplied      EstimateStatus = "not_supplied"
)

// BodyFatEstimate is a body-fat percentage with the fat/lean split it implies.
type BodyFatEstimate struct {
	Method               BodyFatMethod `json:"method"`
	BodyFatPercentage    float64       `json:"bodyFatPercentage"`
	RawBodyFatPercentage float64       `json:"rawBodyFatPercentage"`
	FatMassKg            float64       `json:"fatMassKg"`
	LeanMassKg           float64       `json:"leanMassKg"`
	Classification       string        `json:"classification"`
}

// SkinfoldResult is the Jackson & Pollock 7-site outcome.
type SkinfoldResult struct {
	Status      EstimateStatus   `json:"status"`
	Missing     []string         `json:"missing,omitempty"`
	Sum7MM      *float64         `json:"sum7Mm,omitempty"`
	BodyDensity *float64         `json:"bodyDensity,omitempty"`
	Estimate    *BodyFatEstimate `json:"estimate,omitempty"`
}

// BioimpedanceResult reports scale readings unchanged next to the
// classification of their fat percentage.
type BioimpedanceResult struct {
	Status   EstimateStatus   `json:"status"`
	Readings Bioimpedance     `json:"readings"`
	Estimate *BodyFatEstimate `json:"estimate,omitempty"`
}

// RatioResult is a circumference ratio and its risk label.
type RatioResult struct {
	Value float64 `json:"value"`
	Risk  string  `json:"risk"`
}

// AnthropometricResult holds every value derived from one measurement session.
type AnthropometricResult struct {
	Measurements      Measurements       `json:"measurements"`
	Sex               Sex                `json:"sex"`
	AgeYears          int                `json:"ageYears"`
	BMI               float64            `json:"bmi"`
	BMIClassification string             `json:"bmiClassification"`
	Skinfold          SkinfoldResult     `json:"skinfold"`
	Bioimpedance      BioimpedanceResult `json:"bioimpedance"`
	WaistHipRatio     *RatioResult       `json:"waistHipRatio,omitempty"`
	WaistHeightRatio  *RatioResult       `json:"waistHeightRatio,omitempty"`
	Warnings          []Warning          `json:"warnings,omitempty"`
}

// LeanMassKg returns the skinfold-derived lean mass if one was computed.
// Bioimpedance lean mass is never substituted.
func (r AnthropometricResult) LeanMassKg() (float64, bool) {
	if r.Skinfold.Estimate == nil {
		return 0, false
	}
	return r.Skinfold.Estimate.LeanMassKg, true
}
