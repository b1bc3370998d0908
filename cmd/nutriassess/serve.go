package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	adapthttp "nutriassess/internal/adapter/http"
	"nutriassess/internal/adapter/memory"
	"nutriassess/internal/adapter/postgres"
	"nutriassess/internal/app"
	"nutriassess/internal/config"
	"nutriassess/internal/domain"
	"nutriassess/internal/engine"
)

const sessionPruneInterval = 15 * time.Minute

func serveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

// store is every repository port the services need.
type store interface {
	domain.PatientRepository
	domain.AssessmentRepository
	domain.EnergyProfileRepository
	domain.UserRepository
}

func openStore(cfg *config.Config, logger *slog.Logger) (store, domain.SessionRepository, func(), error) {
	if cfg.Database.URL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store; data is lost on exit")
		db := memory.New()
		return db, db.NewSessionRepo(), func() {}, nil
	}

	db, err := postgres.Open(cfg.Database.URL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("db open: %w", err)
	}
	return db, postgres.NewSessionRepo(db), func() { _ = db.Close() }, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	eng, err := engine.New(cfg.Engine)
	if err != nil {
		return err
	}

	db, sessions, closeDB, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	patients := app.NewPatientService(db, logger)
	assessments := app.NewAssessmentService(patients, db, eng, logger)
	authSvc := app.NewAuthService(db, sessions, cfg.Auth.DefaultTenant, cfg.Auth.SessionTTL, logger)
	svc := adapthttp.Services{
		Auth:        authSvc,
		Patients:    patients,
		Assessments: assessments,
		Energy:      app.NewEnergyService(patients, assessments, db, eng, logger),
		Trends:      app.NewTrendsService(patients, db),
		Engine:      eng,
	}

	srv := adapthttp.New(svc, adapthttp.NewMetrics(), logger)
	if cfg.OIDC.Enabled() {
		oidcCfg, err := adapthttp.NewOIDCConfig(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
		if err != nil {
			return fmt.Errorf("oidc: %w", err)
		}
		srv.WithOIDC(oidcCfg)
		logger.Info("SSO enabled", slog.String("issuer", cfg.OIDC.Issuer))
	}
	if cfg.Server.DisableAuth {
		logger.Warn("authentication disabled", slog.String("tenant", cfg.Auth.DefaultTenant))
		srv.WithoutAuth(cfg.Auth.DefaultTenant)
	}

	go pruneSessions(ctx, authSvc, logger)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func pruneSessions(ctx context.Context, auth *app.AuthService, logger *slog.Logger) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := auth.PruneSessions(ctx); err != nil {
				logger.Warn("prune sessions", slog.String("error", err.Error()))
			}
		}
	}
}
