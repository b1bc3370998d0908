package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"nutriassess/internal/domain"
)

// ErrPatientNotFound is returned for unknown patients and for patients of
// another tenant.
var ErrPatientNotFound = errors.New("patient not found")

// PatientService manages patients within a professional's tenant.
type PatientService struct {
	repo   domain.PatientRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewPatientService creates a PatientService backed by the given repository.
func NewPatientService(repo domain.PatientRepository, logger *slog.Logger) *PatientService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PatientService{repo: repo, logger: logger, now: time.Now}
}

// Create validates and stores a new patient in the given tenant.
func (s *PatientService) Create(ctx context.Context, tenantID, name string, sex domain.Sex, birthDate string) (*domain.Patient, error) {
	var errs []error
	name = strings.TrimSpace(name)
	if name == "" {
		errs = append(errs, &domain.ValidationError{Field: "name", Reason: "must not be empty"})
	}
	if _, err := domain.ParseSex(string(sex)); err != nil {
		errs = append(errs, err)
	}

	p := domain.Patient{TenantID: tenantID, Name: name, Sex: sex, BirthDate: birthDate}
	today := s.now().In(time.Local).Format(domain.DateLayout)
	if age, err := p.AgeOn(today); err != nil {
		errs = append(errs, err)
	} else if birthDate > today || age > 130 {
		errs = append(errs, &domain.ValidationError{Field: "birthDate", Reason: "must be a plausible past date"})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	id, err := s.repo.CreatePatient(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Created patient", slog.Int64("patient_id", id), slog.String("tenant", tenantID))
	return s.repo.GetPatient(ctx, id)
}

// Get returns the patient if it belongs to tenantID.
func (s *PatientService) Get(ctx context.Context, tenantID string, id int64) (*domain.Patient, error) {
	p, err := s.repo.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.TenantID != tenantID {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

// List returns the tenant's patients.
func (s *PatientService) List(ctx context.Context, tenantID string) ([]domain.Patient, error) {
	return s.repo.ListPatients(ctx, tenantID)
}
