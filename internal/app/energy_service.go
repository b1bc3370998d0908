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

// ErrNoEnergyProfile is returned when a patient has no committed energy profile.
var ErrNoEnergyProfile = errors.New("no energy profile")

// EnergyRequest asks for an energy prescription for a patient. Sex and age
// come from the patient record. Weight, height and lean mass default to the
// patient's latest assessment.
type EnergyRequest struct {
	ActivityLevel         domain.ActivityLevel `json:"activityLevel"`
	Goal                  domain.Goal          `json:"goal"`
	BMRFormula            domain.BMRFormula    `json:"bmrFormula,omitempty"`
	CaloricAdjustmentKcal int                  `json:"caloricAdjustmentKcal"`
	WeightKg              *float64             `json:"weightKg,omitempty"`
	HeightCm              *float64             `json:"heightCm,omitempty"`
	LeanMassKg            *float64             `json:"leanMassKg,omitempty"`
	ProteinPerKg          *float64             `json:"proteinPerKg,omitempty"`
	FatPerKg              *float64             `json:"fatPerKg,omitempty"`
}

// EnergyService computes and records energy prescriptions.
type EnergyService struct {
	patients    *PatientService
	assessments *AssessmentService
	repo        domain.EnergyProfileRepository
	engine      *engine.Engine
	logger      *slog.Logger
	now         func() time.Time
}

// NewEnergyService creates an EnergyService.
func NewEnergyService(patients *PatientService, assessments *AssessmentService, repo domain.EnergyProfileRepository, eng *engine.Engine, logger *slog.Logger) *EnergyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnergyService{
		patients:    patients,
		assessments: assessments,
		repo:        repo,
		engine:      eng,
		logger:      logger,
		now:         time.Now,
	}
}

// Preview computes the prescription without storing it.
func (s *EnergyService) Preview(ctx context.Context, tenantID string, patientID int64, req EnergyRequest) (domain.EnergyInput, domain.EnergyResult, error) {
	in, err := s.resolve(ctx, tenantID, patientID, req)
	if err != nil {
		return domain.EnergyInput{}, domain.EnergyResult{}, err
	}
	res, err := s.engine.ComputeEnergyProfile(in)
	return in, res, err
}

// Commit computes the prescription and stores it as the patient's current
// energy profile.
func (s *EnergyService) Commit(ctx context.Context, tenantID string, patientID int64, req EnergyRequest) (*domain.EnergyProfile, error) {
	in, res, err := s.Preview(ctx, tenantID, patientID, req)
	if err != nil {
		return nil, err
	}

	p := domain.EnergyProfile{
		ID:        uuid.New(),
		PatientID: patientID,
		Input:     in,
		Result:    res,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.AddEnergyProfile(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Committed energy profile",
		slog.Int64("patient_id", patientID),
		slog.String("profile_id", p.ID.String()),
		slog.Int("vet_kcal", res.VETKcal))
	logWarnings(s.logger, patientID, res.Warnings)
	return &p, nil
}

// Current returns the most recently committed profile.
func (s *EnergyService) Current(ctx context.Context, tenantID string, patientID int64) (*domain.EnergyProfile, error) {
	if _, err := s.patients.Get(ctx, tenantID, patientID); err != nil {
		return nil, err
	}
	p, err := s.repo.LatestEnergyProfile(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNoEnergyProfile
	}
	return p, nil
}

// History returns committed profiles, newest first.
func (s *EnergyService) History(ctx context.Context, tenantID string, patientID int64, limit int) ([]domain.EnergyProfile, error) {
	if _, err := s.patients.Get(ctx, tenantID, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListEnergyProfiles(ctx, patientID, limit)
}

func (s *EnergyService) resolve(ctx context.Context, tenantID string, patientID int64, req EnergyRequest) (domain.EnergyInput, error) {
	p, err := s.patients.Get(ctx, tenantID, patientID)
	if err != nil {
		return domain.EnergyInput{}, err
	}
	age, err := p.AgeOn(s.now().In(time.Local).Format(domain.DateLayout))
	if err != nil {
		return domain.EnergyInput{}, err
	}

	in := domain.EnergyInput{
		Sex:                   p.Sex,
		AgeYears:              age,
		ActivityLevel:         req.ActivityLevel,
		Goal:                  req.Goal,
		BMRFormula:            req.BMRFormula,
		CaloricAdjustmentKcal: req.CaloricAdjustmentKcal,
		LeanMassKg:            req.LeanMassKg,
		ProteinPerKg:          req.ProteinPerKg,
		FatPerKg:              req.FatPerKg,
	}

	wantLeanMass := req.BMRFormula == domain.FormulaKatchMcArdle && req.LeanMassKg == nil
	if req.WeightKg == nil || req.HeightCm == nil || wantLeanMass {
		latest, err := s.assessments.Latest(ctx, patientID)
		if err != nil {
			return domain.EnergyInput{}, err
		}
		if latest != nil {
			in.WeightKg = latest.Result.Measurements.WeightKg
			in.HeightCm = latest.Result.Measurements.HeightCm
			if lm, ok := latest.Result.LeanMassKg(); ok && wantLeanMass {
				in.LeanMassKg = &lm
			}
		}
	}
	if req.WeightKg != nil {
		in.WeightKg = *req.WeightKg
	}
	if req.HeightCm != nil {
		in.HeightCm = *req.HeightCm
	}

	var errs []error
	if req.WeightKg == nil && in.WeightKg == 0 {
		errs = append(errs, &domain.ValidationError{Field: "weightKg", Reason: "required when the patient has no assessment"})
	}
	if req.HeightCm == nil && in.HeightCm == 0 {
		errs = append(errs, &domain.ValidationError{Field: "heightCm", Reason: "required when the patient has no assessment"})
	}
	return in, errors.Join(errs...)
}
