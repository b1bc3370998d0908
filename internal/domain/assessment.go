package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Assessment is an immutable snapshot of one measurement session. A
// correction is stored as a new Assessment that names the one it supersedes.
type Assessment struct {
	ID         uuid.UUID            `json:"id"`
	PatientID  int64                `json:"patientId"`
	Date       string               `json:"date"`
	Supersedes *uuid.UUID           `json:"supersedes,omitempty"`
	Result     AnthropometricResult `json:"result"`
	CreatedAt  time.Time            `json:"createdAt"`
}

// AssessmentRepository is the port for assessment persistence. It has no
// update or delete: history is append-only.
type AssessmentRepository interface {
	AddAssessment(ctx context.Context, a Assessment) error
	GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error)
	ListAssessments(ctx context.Context, patientID int64, limit int) ([]Assessment, error)
	AssessmentsBetween(ctx context.Context, patientID int64, from, to string) ([]Assessment, error)
}

// EnergyProfile is an immutable snapshot of one energy prescription.
type EnergyProfile struct {
	ID        uuid.UUID    `json:"id"`
	PatientID int64        `json:"patientId"`
	Input     EnergyInput  `json:"input"`
	Result    EnergyResult `json:"result"`
	CreatedAt time.Time    `json:"createdAt"`
}

// EnergyProfileRepository is the port for energy profile persistence.
type EnergyProfileRepository interface {
	AddEnergyProfile(ctx context.Context, p EnergyProfile) error
	LatestEnergyProfile(ctx context.Context, patientID int64) (*EnergyProfile, error)
	ListEnergyProfiles(ctx context.Context, patientID int64, limit int) ([]EnergyProfile, error)
}
