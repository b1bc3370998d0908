package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"nutriassess/internal/app"
	"nutriassess/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := map[string]any{"error": err.Error()}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var details []string
		for _, e := range joined.Unwrap() {
			details = append(details, e.Error())
		}
		body["details"] = details
	}
	writeJSON(w, status, body)
}

// statusFor maps domain and application errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		ve *domain.ValidationError
		ee *domain.InvalidEnumError
		me *domain.MissingInputError
		ie *domain.InfeasibleAllocationError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ee):
		return http.StatusBadRequest
	case errors.As(err, &me), errors.As(err, &ie):
		return http.StatusUnprocessableEntity
	case errors.Is(err, app.ErrPatientNotFound),
		errors.Is(err, app.ErrAssessmentNotFound),
		errors.Is(err, app.ErrNoEnergyProfile):
		return http.StatusNotFound
	case errors.Is(err, app.ErrInvalidCredentials),
		errors.Is(err, app.ErrSessionNotFound),
		errors.Is(err, app.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, app.ErrSetupDone):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Internal errors are logged and
// replaced by a generic message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		writeError(w, status, errors.New("internal error"))
		return
	}
	writeError(w, status, err)
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &domain.ValidationError{Field: "body", Reason: fmt.Sprintf("invalid json: %v", err)}
	}
	return nil
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func patientID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
