package domain_test

import (
	"errors"
	"testing"

	"nutriassess/internal/domain"
)

func TestPatientAgeOn(t *testing.T) {
	p := domain.Patient{BirthDate: "1990-06-15"}

	tests := []struct {
		day  string
		want int
	}{
		{"2020-06-14", 29},
		{"2020-06-15", 30},
		{"2020-12-31", 30},
	}
	for _, tc := range tests {
		got, err := p.AgeOn(tc.day)
		if err != nil {
			t.Fatalf("AgeOn(%s): %v", tc.day, err)
		}
		if got != tc.want {
			t.Errorf("AgeOn(%s) = %d; want %d", tc.day, got, tc.want)
		}
	}
}

func TestPatientAgeOn_BadDate(t *testing.T) {
	p := domain.Patient{BirthDate: "15/06/1990"}
	_, err := p.AgeOn("2020-01-01")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "birthDate" {
		t.Fatalf("expected birthDate ValidationError, got %v", err)
	}
}

func TestParseSex(t *testing.T) {
	if s, err := domain.ParseSex("female"); err != nil || s != domain.SexFemale {
		t.Fatalf("ParseSex(female) = %q, %v", s, err)
	}
	_, err := domain.ParseSex("other")
	var ie *domain.InvalidEnumError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InvalidEnumError, got %v", err)
	}
}
