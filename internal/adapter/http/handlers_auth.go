package adapthttp

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
)

const (
	sessionCookie = "session"
	stateCookie   = "oauth_state"
)

var errSSODisabled = errors.New("sso disabled")

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TenantID string `json:"tenantId,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := parseJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	token, err := s.svc.Auth.Login(r.Context(), req.Username, req.Password, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.setCookie(w, r, sessionCookie, token, int(s.svc.Auth.SessionTTL().Seconds()), http.SameSiteStrictMode)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := s.svc.Auth.Logout(r.Context(), cookie.Value); err != nil {
			s.logger.Warn("logout", slog.String("error", err.Error()))
		}
	}
	s.setCookie(w, r, sessionCookie, "", -1, http.SameSiteStrictMode)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSetupUser creates the first professional account. It answers 409
// once any user exists.
func (s *Server) handleSetupUser(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := parseJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Auth.CreateInitialUser(r.Context(), req.TenantID, req.Username, req.Password); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sso_enabled":  s.oidcConfig.Enabled,
		"auth_enabled": !s.disableAuth,
	})
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if !s.oidcConfig.Enabled {
		writeError(w, http.StatusNotFound, errSSODisabled)
		return
	}
	state, err := generateState()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	// Lax so the cookie survives the provider's cross-site redirect back.
	s.setCookie(w, r, stateCookie, state, 300, http.SameSiteLaxMode)
	http.Redirect(w, r, s.oidcConfig.OAuth2Config.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	if !s.oidcConfig.Enabled {
		writeError(w, http.StatusNotFound, errSSODisabled)
		return
	}

	q := r.URL.Query()
	state, err := r.Cookie(stateCookie)
	if err != nil || q.Get("state") == "" || q.Get("state") != state.Value {
		writeError(w, http.StatusBadRequest, errors.New("invalid state"))
		return
	}
	s.setCookie(w, r, stateCookie, "", -1, http.SameSiteLaxMode)

	username, err := s.ssoIdentity(r.Context(), q.Get("code"))
	if err != nil {
		s.logger.Warn("sso callback", slog.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, errors.New("sso login failed"))
		return
	}

	token, err := s.svc.Auth.LoginWithUser(r.Context(), username, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.setCookie(w, r, sessionCookie, token, int(s.svc.Auth.SessionTTL().Seconds()), http.SameSiteLaxMode)
	http.Redirect(w, r, "/", http.StatusFound)
}

// ssoIdentity exchanges an authorization code and returns the verified
// email, or the subject when the provider sends no email.
func (s *Server) ssoIdentity(ctx context.Context, code string) (string, error) {
	token, err := s.oidcConfig.OAuth2Config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}
	raw, ok := token.Extra("id_token").(string)
	if !ok {
		return "", errors.New("token response has no id_token")
	}

	verifier := s.oidcConfig.Provider.Verifier(&oidc.Config{ClientID: s.oidcConfig.OAuth2Config.ClientID})
	idToken, err := verifier.Verify(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("verify id_token: %w", err)
	}

	var claims struct {
		Email string `json:"email"`
		Sub   string `json:"sub"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", fmt.Errorf("parse claims: %w", err)
	}
	if claims.Email != "" {
		return claims.Email, nil
	}
	return claims.Sub, nil
}

// setCookie writes an HttpOnly cookie; maxAge < 0 deletes it.
func (s *Server) setCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge int, sameSite http.SameSite) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: sameSite,
		MaxAge:   maxAge,
	})
}

func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
