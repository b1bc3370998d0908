package app

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"nutriassess/internal/domain"
)

// Trend metrics. Body fat has one series per method; skinfold and
// bioimpedance estimates are never mixed in a series.
const (
	MetricWeight              = "weight"
	MetricBMI                 = "bmi"
	MetricBodyFatSkinfold     = "body_fat_skinfold"
	MetricBodyFatBioimpedance = "body_fat_bioimpedance"
	MetricWaistHipRatio       = "waist_hip_ratio"
	MetricWaistHeightRatio    = "waist_height_ratio"
)

const maxTrendDays = 366

// TrendsService builds per-date series from committed assessments.
type TrendsService struct {
	patients *PatientService
	repo     domain.AssessmentRepository
	now      func() time.Time
}

// NewTrendsService creates a TrendsService.
func NewTrendsService(patients *PatientService, repo domain.AssessmentRepository) *TrendsService {
	return &TrendsService{patients: patients, repo: repo, now: time.Now}
}

// TrendPoint is one value of a series.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Series returns one point per assessment date over the last days days,
// oldest first. When several records share a date the newest one that has not
// been superseded wins. Dates on which the metric was not measured are omitted.
func (s *TrendsService) Series(ctx context.Context, tenantID string, patientID int64, metric string, days int) ([]TrendPoint, error) {
	extract, err := metricExtractor(metric)
	if err != nil {
		return nil, err
	}
	if _, err := s.patients.Get(ctx, tenantID, patientID); err != nil {
		return nil, err
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}
	if days < 1 {
		days = 1
	}

	today := s.now().In(time.Local)
	from := today.AddDate(0, 0, -(days - 1)).Format(domain.DateLayout)
	to := today.Format(domain.DateLayout)

	records, err := s.repo.AssessmentsBetween(ctx, patientID, from, to)
	if err != nil {
		return nil, err
	}

	superseded := make(map[uuid.UUID]bool)
	for _, a := range records {
		if a.Supersedes != nil {
			superseded[*a.Supersedes] = true
		}
	}

	byDate := make(map[string]domain.Assessment)
	for _, a := range records {
		if superseded[a.ID] {
			continue
		}
		if cur, ok := byDate[a.Date]; !ok || a.CreatedAt.After(cur.CreatedAt) {
			byDate[a.Date] = a
		}
	}

	points := make([]TrendPoint, 0, len(byDate))
	for date, a := range byDate {
		if v, ok := extract(a.Result); ok {
			points = append(points, TrendPoint{Date: date, Value: v})
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

func metricExtractor(metric string) (func(domain.AnthropometricResult) (float64, bool), error) {
	switch metric {
	case MetricWeight:
		return func(r domain.AnthropometricResult) (float64, bool) {
			return r.Measurements.WeightKg, true
		}, nil
	case MetricBMI:
		return func(r domain.AnthropometricResult) (float64, bool) {
			return r.BMI, true
		}, nil
	case MetricBodyFatSkinfold:
		return func(r domain.AnthropometricResult) (float64, bool) {
			return bodyFat(r.Skinfold.Estimate)
		}, nil
	case MetricBodyFatBioimpedance:
		return func(r domain.AnthropometricResult) (float64, bool) {
			return bodyFat(r.Bioimpedance.Estimate)
		}, nil
	case MetricWaistHipRatio:
		return func(r domain.AnthropometricResult) (float64, bool) {
			if r.WaistHipRatio == nil {
				return 0, false
			}
			return r.WaistHipRatio.Value, true
		}, nil
	case MetricWaistHeightRatio:
		return func(r domain.AnthropometricResult) (float64, bool) {
			if r.WaistHeightRatio == nil {
				return 0, false
			}
			return r.WaistHeightRatio.Value, true
		}, nil
	default:
		return nil, &domain.InvalidEnumError{Kind: "trend metric", Value: metric}
	}
}

func bodyFat(e *domain.BodyFatEstimate) (float64, bool) {
	if e == nil {
		return 0, false
	}
	return e.BodyFatPercentage, true
}
