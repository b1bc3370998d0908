// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"log/slog"
	"net/http"

	"nutriassess/internal/app"
	"nutriassess/internal/domain"
	"nutriassess/internal/engine"
)

// Services groups the application services the HTTP adapter drives.
type Services struct {
	Auth        *app.AuthService
	Patients    *app.PatientService
	Assessments *app.AssessmentService
	Energy      *app.EnergyService
	Trends      *app.TrendsService
	Engine      *engine.Engine
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	svc        Services
	oidcConfig OIDCConfig
	logger     *slog.Logger
	metrics    *Metrics

	disableAuth bool
	localUser   *domain.User
}

// New creates a Server wired to the given application services.
func New(svc Services, metrics *Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, metrics: metrics, logger: logger}
}

// WithOIDC enables single sign-on.
func (s *Server) WithOIDC(cfg OIDCConfig) *Server {
	s.oidcConfig = cfg
	return s
}

// WithoutAuth disables authentication; every request acts as a local user
// of tenantID.
func (s *Server) WithoutAuth(tenantID string) *Server {
	s.disableAuth = true
	s.localUser = &domain.User{TenantID: tenantID, Username: "local"}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("POST /api/auth/setup", s.handleSetupUser)
	mux.HandleFunc("GET /api/auth/config", s.handleConfig)
	mux.HandleFunc("GET /api/auth/sso/login", s.handleSSOLogin)
	mux.HandleFunc("GET /api/auth/sso/callback", s.handleSSOCallback)

	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.authMiddleware(h))
	}

	protected("GET /api/calc/tables", s.handleTables)
	protected("POST /api/calc/body", s.handleCalcBody)
	protected("POST /api/calc/energy", s.handleCalcEnergy)

	protected("GET /api/patients", s.handlePatientList)
	protected("POST /api/patients", s.handlePatientCreate)
	protected("GET /api/patients/{id}", s.handlePatientGet)

	protected("POST /api/patients/{id}/assessments/preview", s.handleAssessmentPreview)
	protected("GET /api/patients/{id}/assessments", s.handleAssessmentList)
	protected("POST /api/patients/{id}/assessments", s.handleAssessmentCommit)
	protected("GET /api/patients/{id}/assessments/{aid}", s.handleAssessmentGet)

	protected("POST /api/patients/{id}/energy/preview", s.handleEnergyPreview)
	protected("GET /api/patients/{id}/energy", s.handleEnergyHistory)
	protected("POST /api/patients/{id}/energy", s.handleEnergyCommit)
	protected("GET /api/patients/{id}/energy/current", s.handleEnergyCurrent)

	protected("GET /api/patients/{id}/trends", s.handleTrends)

	return s.loggingMiddleware(withNoCache(mux))
}
