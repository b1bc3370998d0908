package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"nutriassess/internal/domain"
)

func fp(v float64) *float64 { return &v }

func bodyInput() domain.AnthropometricInput {
	return domain.AnthropometricInput{
		Weight: 80,
		Height: 180,
		Skinfolds: domain.Skinfolds{
			Triceps: fp(10), Subscapular: fp(15), Chest: fp(20), Midaxillary: fp(15),
			Suprailiac: fp(20), Abdominal: fp(25), Thigh: fp(15),
		},
	}
}

func TestAssessmentService_Preview_DoesNotStore(t *testing.T) {
	repo := &fakeAssessments{}
	svc := newAssessments(repo)

	res, err := svc.Preview(context.Background(), "clinic-a", 1, AssessmentRequest{Input: bodyInput()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AgeYears != 30 || res.Sex != domain.SexMale {
		t.Errorf("expected sex and age from the patient, got %s/%d", res.Sex, res.AgeYears)
	}
	if len(repo.items) != 0 {
		t.Errorf("preview stored %d records", len(repo.items))
	}
}

func TestAssessmentService_Commit(t *testing.T) {
	repo := &fakeAssessments{}
	svc := newAssessments(repo)

	a, err := svc.Commit(context.Background(), "clinic-a", 1, AssessmentRequest{Input: bodyInput()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == uuid.Nil {
		t.Error("expected an id")
	}
	if a.Date != "2024-06-15" {
		t.Errorf("expected date to default to today, got %s", a.Date)
	}
	if a.Result.Skinfold.Estimate == nil || a.Result.Skinfold.Estimate.BodyFatPercentage != 17.39 {
		t.Errorf("unexpected skinfold result %+v", a.Result.Skinfold)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(repo.items))
	}

	fix, err := svc.Commit(context.Background(), "clinic-a", 1, AssessmentRequest{Input: bodyInput(), Supersedes: &a.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fix.Supersedes == nil || *fix.Supersedes != a.ID {
		t.Error("expected correction to reference the original")
	}
	if len(repo.items) != 2 {
		t.Error("correction must be a new record")
	}
}

func TestAssessmentService_Commit_UnknownSupersedes(t *testing.T) {
	svc := newAssessments(&fakeAssessments{})
	missing := uuid.New()

	_, err := svc.Commit(context.Background(), "clinic-a", 1, AssessmentRequest{Input: bodyInput(), Supersedes: &missing})
	if !errors.Is(err, ErrAssessmentNotFound) {
		t.Errorf("expected ErrAssessmentNotFound, got %v", err)
	}
}

func TestAssessmentService_Errors(t *testing.T) {
	svc := newAssessments(&fakeAssessments{})
	ctx := context.Background()

	if _, err := svc.Commit(ctx, "clinic-b", 1, AssessmentRequest{Input: bodyInput()}); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}

	var ve *domain.ValidationError
	_, err := svc.Preview(ctx, "clinic-a", 1, AssessmentRequest{Date: "2025-01-01", Input: bodyInput()})
	if !errors.As(err, &ve) || ve.Field != "date" {
		t.Errorf("expected future date to be rejected, got %v", err)
	}

	bad := bodyInput()
	bad.Weight = -1
	_, err = svc.Preview(ctx, "clinic-a", 1, AssessmentRequest{Input: bad})
	if !errors.As(err, &ve) || ve.Field != "weight" {
		t.Errorf("expected weight validation error, got %v", err)
	}
}

func TestAssessmentService_ListAndGet(t *testing.T) {
	repo := &fakeAssessments{}
	svc := newAssessments(repo)
	ctx := context.Background()

	first, _ := svc.Commit(ctx, "clinic-a", 1, AssessmentRequest{Date: "2024-06-01", Input: bodyInput()})
	second, _ := svc.Commit(ctx, "clinic-a", 1, AssessmentRequest{Date: "2024-06-10", Input: bodyInput()})

	list, err := svc.List(ctx, "clinic-a", 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Errorf("expected newest first, got %+v", list)
	}

	got, err := svc.Get(ctx, "clinic-a", 1, first.ID)
	if err != nil || got.ID != first.ID {
		t.Errorf("expected first assessment, got %v %v", got, err)
	}
	if _, err := svc.Get(ctx, "clinic-a", 1, uuid.New()); !errors.Is(err, ErrAssessmentNotFound) {
		t.Errorf("expected ErrAssessmentNotFound, got %v", err)
	}
	if _, err := svc.List(ctx, "clinic-b", 1, 10); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}
