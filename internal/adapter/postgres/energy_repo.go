package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"nutriassess/internal/domain"
)

const energyColumns = "id, patient_id, input, result, created_at"

// AddEnergyProfile inserts an energy profile.
func (d *DB) AddEnergyProfile(ctx context.Context, p domain.EnergyProfile) error {
	input, err := json.Marshal(p.Input)
	if err != nil {
		return fmt.Errorf("encode energy input: %w", err)
	}
	result, err := json.Marshal(p.Result)
	if err != nil {
		return fmt.Errorf("encode energy result: %w", err)
	}
	_, err = d.sql.ExecContext(ctx,
		"INSERT INTO energy_profiles(id, patient_id, input, result, created_at) VALUES($1, $2, $3::jsonb, $4::jsonb, $5);",
		p.ID, p.PatientID, string(input), string(result), p.CreatedAt.UTC(),
	)
	return err
}

// LatestEnergyProfile returns the most recently committed profile, or nil.
func (d *DB) LatestEnergyProfile(ctx context.Context, patientID int64) (*domain.EnergyProfile, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+energyColumns+" FROM energy_profiles WHERE patient_id = $1 ORDER BY created_at DESC LIMIT 1;",
		patientID,
	)
	p, err := scanEnergyProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListEnergyProfiles returns the patient's profiles, newest first.
func (d *DB) ListEnergyProfiles(ctx context.Context, patientID int64, limit int) ([]domain.EnergyProfile, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+energyColumns+" FROM energy_profiles WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2;",
		patientID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []domain.EnergyProfile{}
	for rows.Next() {
		p, err := scanEnergyProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanEnergyProfile(s scanner) (*domain.EnergyProfile, error) {
	var p domain.EnergyProfile
	var input, result []byte
	if err := s.Scan(&p.ID, &p.PatientID, &input, &result, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(input, &p.Input); err != nil {
		return nil, fmt.Errorf("decode energy input %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(result, &p.Result); err != nil {
		return nil, fmt.Errorf("decode energy result %s: %w", p.ID, err)
	}
	return &p, nil
}
