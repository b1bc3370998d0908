// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"nutriassess/internal/domain"
)

// ErrDuplicateUser is returned when a username is already taken.
var ErrDuplicateUser = errors.New("user already exists")

// DB implements an in-memory database storage.
type DB struct {
	mu          sync.Mutex
	users       []*domain.User
	sessions    map[string]*domain.Session
	patients    []domain.Patient
	assessments []domain.Assessment
	profiles    []domain.EnergyProfile

	userIDCounter    int64
	patientIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.PatientRepository = (*DB)(nil)
var _ domain.AssessmentRepository = (*DB)(nil)
var _ domain.EnergyProfileRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- PatientRepository ---

// CreatePatient stores a patient and returns its id.
func (db *DB) CreatePatient(ctx context.Context, p domain.Patient) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.patientIDCounter++
	p.ID = db.patientIDCounter
	p.CreatedAt = time.Now().UTC()
	db.patients = append(db.patients, p)
	return p.ID, nil
}

// GetPatient returns the patient or nil if it does not exist.
func (db *DB) GetPatient(ctx context.Context, id int64) (*domain.Patient, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, p := range db.patients {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

// ListPatients returns the tenant's patients ordered by name.
func (db *DB) ListPatients(ctx context.Context, tenantID string) ([]domain.Patient, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := []domain.Patient{}
	for _, p := range db.patients {
		if p.TenantID == tenantID {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// --- AssessmentRepository ---

// AddAssessment appends an assessment. Records are never modified afterwards.
func (db *DB) AddAssessment(ctx context.Context, a domain.Assessment) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.assessments {
		if existing.ID == a.ID {
			return errors.New("assessment already exists")
		}
	}
	a.CreatedAt = a.CreatedAt.UTC()
	db.assessments = append(db.assessments, a)
	return nil
}

// GetAssessment returns the assessment or nil if it does not exist.
func (db *DB) GetAssessment(ctx context.Context, id uuid.UUID) (*domain.Assessment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, a := range db.assessments {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

// ListAssessments returns the patient's most recent assessments, newest
// first by date and then by creation time.
func (db *DB) ListAssessments(ctx context.Context, patientID int64, limit int) ([]domain.Assessment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := []domain.Assessment{}
	for _, a := range db.assessments {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}

	// sort desc
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date > result[j].Date
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// AssessmentsBetween returns the patient's assessments dated within
// [from, to], oldest first.
func (db *DB) AssessmentsBetween(ctx context.Context, patientID int64, from, to string) ([]domain.Assessment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := []domain.Assessment{}
	for _, a := range db.assessments {
		if a.PatientID == patientID && a.Date >= from && a.Date <= to {
			result = append(result, a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// --- EnergyProfileRepository ---

// AddEnergyProfile appends an energy profile.
func (db *DB) AddEnergyProfile(ctx context.Context, p domain.EnergyProfile) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	p.CreatedAt = p.CreatedAt.UTC()
	db.profiles = append(db.profiles, p)
	return nil
}

// LatestEnergyProfile returns the most recently added profile, or nil.
func (db *DB) LatestEnergyProfile(ctx context.Context, patientID int64) (*domain.EnergyProfile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := len(db.profiles) - 1; i >= 0; i-- {
		if db.profiles[i].PatientID == patientID {
			p := db.profiles[i]
			return &p, nil
		}
	}
	return nil, nil
}

// ListEnergyProfiles returns the patient's profiles, newest first.
func (db *DB) ListEnergyProfiles(ctx context.Context, patientID int64, limit int) ([]domain.EnergyProfile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := []domain.EnergyProfile{}
	for i := len(db.profiles) - 1; i >= 0 && len(result) < limit; i-- {
		if db.profiles[i].PatientID == patientID {
			result = append(result, db.profiles[i])
		}
	}
	return result, nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	// Return nil if not found
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, tenantID, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, ErrDuplicateUser
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		TenantID:     tenantID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
