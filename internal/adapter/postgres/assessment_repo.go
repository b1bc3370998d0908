package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nutriassess/internal/domain"
)

const assessmentColumns = "id, patient_id, to_char(date, 'YYYY-MM-DD'), supersedes, result, created_at"

// AddAssessment inserts an assessment. The table has no update path.
func (d *DB) AddAssessment(ctx context.Context, a domain.Assessment) error {
	result, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("encode assessment result: %w", err)
	}
	_, err = d.sql.ExecContext(ctx,
		"INSERT INTO assessments(id, patient_id, date, supersedes, result, created_at) VALUES($1, $2, $3::date, $4, $5::jsonb, $6);",
		a.ID, a.PatientID, a.Date, a.Supersedes, string(result), a.CreatedAt.UTC(),
	)
	return err
}

// GetAssessment returns the assessment with the given id, or nil.
func (d *DB) GetAssessment(ctx context.Context, id uuid.UUID) (*domain.Assessment, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+assessmentColumns+" FROM assessments WHERE id = $1;", id)
	a, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAssessments returns the patient's most recent assessments, newest first.
func (d *DB) ListAssessments(ctx context.Context, patientID int64, limit int) ([]domain.Assessment, error) {
	return d.queryAssessments(ctx,
		"SELECT "+assessmentColumns+" FROM assessments WHERE patient_id = $1 ORDER BY date DESC, created_at DESC LIMIT $2;",
		patientID, limit,
	)
}

// AssessmentsBetween returns the patient's assessments dated within
// [from, to], oldest first.
func (d *DB) AssessmentsBetween(ctx context.Context, patientID int64, from, to string) ([]domain.Assessment, error) {
	return d.queryAssessments(ctx,
		"SELECT "+assessmentColumns+" FROM assessments WHERE patient_id = $1 AND date >= $2::date AND date <= $3::date ORDER BY date, created_at;",
		patientID, from, to,
	)
}

func (d *DB) queryAssessments(ctx context.Context, query string, args ...any) ([]domain.Assessment, error) {
	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []domain.Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanAssessment(s scanner) (*domain.Assessment, error) {
	var a domain.Assessment
	var supersedes uuid.NullUUID
	var result []byte
	if err := s.Scan(&a.ID, &a.PatientID, &a.Date, &supersedes, &result, &a.CreatedAt); err != nil {
		return nil, err
	}
	if supersedes.Valid {
		a.Supersedes = &supersedes.UUID
	}
	if err := json.Unmarshal(result, &a.Result); err != nil {
		return nil, fmt.Errorf("decode assessment %s: %w", a.ID, err)
	}
	return &a, nil
}
