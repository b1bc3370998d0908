package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"nutriassess/internal/domain"
)

const patientColumns = "id, tenant_id, name, sex, to_char(birth_date, 'YYYY-MM-DD'), created_at"

// CreatePatient inserts a patient and returns its id.
func (d *DB) CreatePatient(ctx context.Context, p domain.Patient) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO patients(tenant_id, name, sex, birth_date, created_at) VALUES($1, $2, $3, $4::date, $5) RETURNING id;",
		p.TenantID, p.Name, string(p.Sex), p.BirthDate, time.Now().UTC(),
	).Scan(&id)
	return id, err
}

// GetPatient returns the patient with the given id, or nil.
func (d *DB) GetPatient(ctx context.Context, id int64) (*domain.Patient, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+patientColumns+" FROM patients WHERE id = $1;", id)
	p, err := scanPatient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPatients returns the tenant's patients ordered by name.
func (d *DB) ListPatients(ctx context.Context, tenantID string) ([]domain.Patient, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+patientColumns+" FROM patients WHERE tenant_id = $1 ORDER BY name, id;",
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []domain.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPatient(s scanner) (*domain.Patient, error) {
	var p domain.Patient
	var sex string
	if err := s.Scan(&p.ID, &p.TenantID, &p.Name, &sex, &p.BirthDate, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Sex = domain.Sex(sex)
	return &p, nil
}
