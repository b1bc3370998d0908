package domain

// Severity categorizes how serious a warning is.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityCaution Severity = "caution"
	SeverityHigh    Severity = "high"
)

// Warning codes attached to computed results.
const (
	WarnBMIOutOfRange          = "bmi_out_of_range"
	WarnBodyFatOutOfRange      = "body_fat_out_of_range"
	WarnBioimpedanceOutOfRange = "bioimpedance_fat_out_of_range"
	WarnAdjustmentOutOfRange   = "adjustment_out_of_range"
)

// Warning flags a computed value a clinician should look at. It never
// replaces the value.
type Warning struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Metric   string   `json:"metric,omitempty"`
	Value    float64  `json:"value"`
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
}
