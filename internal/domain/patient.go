package domain

import (
	"context"
	"time"
)

// DateLayout is the civil-date format used for birth and assessment dates.
const DateLayout = "2006-01-02"

// Patient is the aggregate that owns assessments and energy profiles.
type Patient struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenantId"`
	Name      string    `json:"name"`
	Sex       Sex       `json:"sex"`
	BirthDate string    `json:"birthDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// AgeOn returns the patient's age in whole years on the given civil date.
func (p Patient) AgeOn(day string) (int, error) {
	birth, err := time.Parse(DateLayout, p.BirthDate)
	if err != nil {
		return 0, &ValidationError{Field: "birthDate", Reason: "must be YYYY-MM-DD"}
	}
	on, err := time.Parse(DateLayout, day)
	if err != nil {
		return 0, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	age := on.Year() - birth.Year()
	if on.Before(birth.AddDate(age, 0, 0)) {
		age--
	}
	return age, nil
}

// PatientRepository is the port for patient persistence.
type PatientRepository interface {
	CreatePatient(ctx context.Context, p Patient) (int64, error)
	GetPatient(ctx context.Context, id int64) (*Patient, error)
	ListPatients(ctx context.Context, tenantID string) ([]Patient, error)
}
