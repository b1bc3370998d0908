// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"nutriassess/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrSetupDone is returned when the initial user already exists.
	ErrSetupDone = errors.New("users already exist")
)

// AuthService handles authentication and session management.
type AuthService struct {
	users         domain.UserRepository
	sessions      domain.SessionRepository
	defaultTenant string
	ttl           time.Duration
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service. Users provisioned
// through SSO or forward auth are placed in defaultTenant.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, defaultTenant string, ttl time.Duration, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:         users,
		sessions:      sessions,
		defaultTenant: defaultTenant,
		ttl:           ttl,
		logger:        logger,
	}
}

// SessionTTL is the lifetime given to new sessions.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// Login authenticates a user and creates a session.
func (s *AuthService) Login(ctx context.Context, username, password, userAgent, ip string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil || user == nil || user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.startSession(ctx, user, userAgent, ip)
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks if a session token is valid and matches the user agent.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	if session.UserAgent != userAgent {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// CreateInitialUser creates the first user if no users exist.
func (s *AuthService) CreateInitialUser(ctx context.Context, tenantID, username, password string) error {
	if username == "" || len(password) < 8 {
		return &domain.ValidationError{Field: "password", Reason: "username required and password must be at least 8 characters"}
	}
	if tenantID == "" {
		tenantID = s.defaultTenant
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrSetupDone
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err = s.users.Create(ctx, tenantID, username, string(hash)); err != nil {
		return err
	}
	s.logger.Info("Created initial user", slog.String("username", username), slog.String("tenant", tenantID))
	return nil
}

// ValidateForwardAuth resolves the user named by a reverse proxy's
// Remote-User header, provisioning it on first sight.
func (s *AuthService) ValidateForwardAuth(ctx context.Context, remoteUser string) (*domain.User, error) {
	if remoteUser == "" {
		return nil, errors.New("no remote user header")
	}
	return s.provision(ctx, remoteUser)
}

// LoginWithUser creates a session for an already authenticated user (e.g. via SSO).
func (s *AuthService) LoginWithUser(ctx context.Context, username, userAgent, ip string) (string, error) {
	user, err := s.provision(ctx, username)
	if err != nil {
		return "", err
	}
	return s.startSession(ctx, user, userAgent, ip)
}

// PruneSessions removes expired sessions.
func (s *AuthService) PruneSessions(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx)
}

func (s *AuthService) provision(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	// Empty password hash: the account can only sign in through the identity provider.
	user, err = s.users.Create(ctx, s.defaultTenant, username, "")
	if err != nil {
		// Lost a race with a concurrent first login.
		user, err = s.users.GetByUsername(ctx, username)
		if err != nil || user == nil {
			return nil, ErrUserNotFound
		}
		return user, nil
	}
	s.logger.Info("Provisioned user", slog.String("username", username), slog.String("tenant", user.TenantID))
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, user *domain.User, userAgent, ip string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(s.ttl)
	if err := s.sessions.Create(ctx, user.ID, token, userAgent, ip, expiresAt); err != nil {
		return "", err
	}

	return token, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
