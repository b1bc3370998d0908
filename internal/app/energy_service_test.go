package app

import (
	"context"
	"errors"
	"testing"

	"nutriassess/internal/domain"
	"nutriassess/internal/engine"
)

type mockEnergyRepo struct {
	items []domain.EnergyProfile
	addFn func(ctx context.Context, p domain.EnergyProfile) error
}

func (m *mockEnergyRepo) AddEnergyProfile(ctx context.Context, p domain.EnergyProfile) error {
	if m.addFn != nil {
		return m.addFn(ctx, p)
	}
	m.items = append(m.items, p)
	return nil
}

func (m *mockEnergyRepo) LatestEnergyProfile(ctx context.Context, patientID int64) (*domain.EnergyProfile, error) {
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].PatientID == patientID {
			return &m.items[i], nil
		}
	}
	return nil, nil
}

func (m *mockEnergyRepo) ListEnergyProfiles(ctx context.Context, patientID int64, limit int) ([]domain.EnergyProfile, error) {
	var out []domain.EnergyProfile
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		if m.items[i].PatientID == patientID {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

func newEnergy(assessments *fakeAssessments, repo *mockEnergyRepo) *EnergyService {
	eng, _ := engine.New(engine.DefaultParams())
	s := NewEnergyService(newPatients(onePatient()), newAssessments(assessments), repo, eng, nil)
	s.now = fixedNow
	return s
}

func weightLoss() EnergyRequest {
	return EnergyRequest{
		ActivityLevel:         domain.ActivityModerate,
		Goal:                  domain.GoalWeightLoss,
		CaloricAdjustmentKcal: -500,
	}
}

func TestEnergyService_UsesLatestAssessment(t *testing.T) {
	assessments := &fakeAssessments{}
	svc := newEnergy(assessments, &mockEnergyRepo{})
	ctx := context.Background()

	if _, err := svc.assessments.Commit(ctx, "clinic-a", 1, AssessmentRequest{Input: bodyInput()}); err != nil {
		t.Fatal(err)
	}

	in, res, err := svc.Preview(ctx, "clinic-a", 1, weightLoss())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.WeightKg != 80 || in.HeightCm != 180 || in.AgeYears != 30 || in.Sex != domain.SexMale {
		t.Errorf("unexpected resolved input %+v", in)
	}
	if in.LeanMassKg != nil {
		t.Error("lean mass is only taken over for Katch-McArdle")
	}
	if res.BMRKcal != 1780 || res.VETKcal != 2259 {
		t.Errorf("expected BMR 1780 / VET 2259, got %d / %d", res.BMRKcal, res.VETKcal)
	}
}

func TestEnergyService_KatchUsesAssessedLeanMass(t *testing.T) {
	assessments := &fakeAssessments{}
	svc := newEnergy(assessments, &mockEnergyRepo{})
	ctx := context.Background()

	if _, err := svc.assessments.Commit(ctx, "clinic-a", 1, AssessmentRequest{Input: bodyInput()}); err != nil {
		t.Fatal(err)
	}

	req := weightLoss()
	req.BMRFormula = domain.FormulaKatchMcArdle
	in, res, err := svc.Preview(ctx, "clinic-a", 1, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.LeanMassKg == nil || *in.LeanMassKg != 66.09 {
		t.Fatalf("expected lean mass 66.09, got %v", in.LeanMassKg)
	}
	if res.BMRKcal != 1798 {
		t.Errorf("expected BMR 1798, got %d", res.BMRKcal)
	}
}

func TestEnergyService_KatchWithoutLeanMass(t *testing.T) {
	svc := newEnergy(&fakeAssessments{}, &mockEnergyRepo{})

	req := weightLoss()
	req.BMRFormula = domain.FormulaKatchMcArdle
	req.WeightKg = fp(80)
	req.HeightCm = fp(180)
	_, _, err := svc.Preview(context.Background(), "clinic-a", 1, req)

	var me *domain.MissingInputError
	if !errors.As(err, &me) {
		t.Errorf("expected MissingInputError, got %v", err)
	}
}

func TestEnergyService_NoAssessmentNoWeight(t *testing.T) {
	svc := newEnergy(&fakeAssessments{}, &mockEnergyRepo{})

	_, _, err := svc.Preview(context.Background(), "clinic-a", 1, weightLoss())
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestEnergyService_CommitAndCurrent(t *testing.T) {
	repo := &mockEnergyRepo{}
	svc := newEnergy(&fakeAssessments{}, repo)
	ctx := context.Background()

	if _, err := svc.Current(ctx, "clinic-a", 1); !errors.Is(err, ErrNoEnergyProfile) {
		t.Errorf("expected ErrNoEnergyProfile, got %v", err)
	}

	req := weightLoss()
	req.WeightKg = fp(80)
	req.HeightCm = fp(180)
	first, err := svc.Commit(ctx, "clinic-a", 1, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.CaloricAdjustmentKcal = 0
	second, err := svc.Commit(ctx, "clinic-a", 1, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == second.ID {
		t.Error("expected distinct ids")
	}

	cur, err := svc.Current(ctx, "clinic-a", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cur.ID != second.ID || cur.Result.VETKcal != 2759 {
		t.Errorf("expected latest profile, got %+v", cur)
	}

	history, err := svc.History(ctx, "clinic-a", 1, 10)
	if err != nil || len(history) != 2 {
		t.Errorf("expected 2 profiles, got %d (%v)", len(history), err)
	}

	if _, err := svc.Current(ctx, "clinic-b", 1); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestEnergyService_CommitInfeasibleStoresNothing(t *testing.T) {
	repo := &mockEnergyRepo{}
	svc := newEnergy(&fakeAssessments{}, repo)

	req := EnergyRequest{
		ActivityLevel:         domain.ActivitySedentary,
		Goal:                  domain.GoalMaintenance,
		CaloricAdjustmentKcal: -1500,
		WeightKg:              fp(100),
		HeightCm:              fp(170),
	}
	_, err := svc.Commit(context.Background(), "clinic-a", 1, req)
	var ie *domain.InfeasibleAllocationError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InfeasibleAllocationError, got %v", err)
	}
	if len(repo.items) != 0 {
		t.Error("failed computation must not be stored")
	}
}
