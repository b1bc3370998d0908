package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nutriassess/internal/domain"
	"nutriassess/internal/engine"
)

// ErrAssessmentNotFound is returned when an assessment does not exist or
// belongs to another patient.
var ErrAssessmentNotFound = errors.New("assessment not found")

// AssessmentRequest is one measurement session for a patient. Date defaults
// to today.
type AssessmentRequest struct {
	Date       string                     `json:"date"`
	Supersedes *uuid.UUID                 `json:"supersedes,omitempty"`
	Input      domain.AnthropometricInput `json:"input"`
}

// AssessmentService computes and records body-composition assessments.
type AssessmentService struct {
	patients *PatientService
	repo     domain.AssessmentRepository
	engine   *engine.Engine
	logger   *slog.Logger
	now      func() time.Time
}

// NewAssessmentService creates an AssessmentService.
func NewAssessmentService(patients *PatientService, repo domain.AssessmentRepository, eng *engine.Engine, logger *slog.Logger) *AssessmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssessmentService{patients: patients, repo: repo, engine: eng, logger: logger, now: time.Now}
}

// Preview computes the assessment without storing it.
func (s *AssessmentService) Preview(ctx context.Context, tenantID string, patientID int64, req AssessmentRequest) (domain.AnthropometricResult, error) {
	return s.compute(ctx, tenantID, patientID, &req)
}

// Commit computes the assessment and stores it as a new immutable record.
func (s *AssessmentService) Commit(ctx context.Context, tenantID string, patientID int64, req AssessmentRequest) (*domain.Assessment, error) {
	res, err := s.compute(ctx, tenantID, patientID, &req)
	if err != nil {
		return nil, err
	}

	if req.Supersedes != nil {
		prev, err := s.repo.GetAssessment(ctx, *req.Supersedes)
		if err != nil {
			return nil, err
		}
		if prev == nil || prev.PatientID != patientID {
			return nil, ErrAssessmentNotFound
		}
	}

	a := domain.Assessment{
		ID:         uuid.New(),
		PatientID:  patientID,
		Date:       req.Date,
		Supersedes: req.Supersedes,
		Result:     res,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.AddAssessment(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Committed assessment",
		slog.Int64("patient_id", patientID),
		slog.String("assessment_id", a.ID.String()),
		slog.String("date", a.Date))
	logWarnings(s.logger, patientID, res.Warnings)
	return &a, nil
}

// List returns the patient's assessments, newest first.
func (s *AssessmentService) List(ctx context.Context, tenantID string, patientID int64, limit int) ([]domain.Assessment, error) {
	if _, err := s.patients.Get(ctx, tenantID, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListAssessments(ctx, patientID, limit)
}

// Get returns one assessment of the patient.
func (s *AssessmentService) Get(ctx context.Context, tenantID string, patientID int64, id uuid.UUID) (*domain.Assessment, error) {
	if _, err := s.patients.Get(ctx, tenantID, patientID); err != nil {
		return nil, err
	}
	a, err := s.repo.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil || a.PatientID != patientID {
		return nil, ErrAssessmentNotFound
	}
	return a, nil
}

// Latest returns the newest assessment of the patient, or nil if none exists.
func (s *AssessmentService) Latest(ctx context.Context, patientID int64) (*domain.Assessment, error) {
	list, err := s.repo.ListAssessments(ctx, patientID, 1)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

func (s *AssessmentService) compute(ctx context.Context, tenantID string, patientID int64, req *AssessmentRequest) (domain.AnthropometricResult, error) {
	p, err := s.patients.Get(ctx, tenantID, patientID)
	if err != nil {
		return domain.AnthropometricResult{}, err
	}

	today := s.now().In(time.Local).Format(domain.DateLayout)
	if req.Date == "" {
		req.Date = today
	}
	age, err := p.AgeOn(req.Date)
	if err != nil {
		return domain.AnthropometricResult{}, err
	}
	if req.Date > today {
		return domain.AnthropometricResult{}, &domain.ValidationError{Field: "date", Reason: "must not be in the future"}
	}

	return s.engine.ComputeBodyComposition(req.Input, p.Sex, age)
}

func logWarnings(logger *slog.Logger, patientID int64, warnings []domain.Warning) {
	for _, w := range warnings {
		logger.Warn("Plausibility warning",
			slog.Int64("patient_id", patientID),
			slog.String("code", w.Code),
			slog.String("metric", w.Metric),
			slog.Float64("value", w.Value))
	}
}
