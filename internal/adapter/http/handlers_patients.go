package adapthttp

import (
	"net/http"

	"github.com/google/uuid"

	"nutriassess/internal/app"
	"nutriassess/internal/domain"
)

type createPatientRequest struct {
	Name      string     `json:"name"`
	Sex       domain.Sex `json:"sex"`
	BirthDate string     `json:"birthDate"`
}

func (s *Server) handlePatientList(w http.ResponseWriter, r *http.Request) {
	patients, err := s.svc.Patients.List(r.Context(), userFrom(r).TenantID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if patients == nil {
		patients = []domain.Patient{}
	}
	writeJSON(w, http.StatusOK, patients)
}

func (s *Server) handlePatientCreate(w http.ResponseWriter, r *http.Request) {
	var req createPatientRequest
	if err := parseJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	p, err := s.svc.Patients.Create(r.Context(), userFrom(r).TenantID, req.Name, req.Sex, req.BirthDate)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handlePatientGet(w http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.svc.Patients.Get(r.Context(), userFrom(r).TenantID, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleAssessmentPreview computes an assessment for a patient without
// recording it.
func (s *Server) handleAssessmentPreview(w http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req app.AssessmentRequest
	if err := parseJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.svc.Assessments.Preview(r.Context(), userFrom(r).TenantID, id, req)
	s.metrics.ObserveCalculation(opBodyComposition, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAssessmentCommit(w http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req app.AssessmentRequest
	if err := parseJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	a, err := s.svc.Assessments.Commit(r.Context(), userFrom(r).TenantID, id, req)
	s.metrics.ObserveCalculation(opBodyComposition, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleAssessmentList(w http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	list, err := s.svc.Assessments.List(r.Context(), userFrom(r).TenantID, id, intQuery(r, "limit", 20))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Assessment{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAssessmentGet(w http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	aid, err := uuid.Parse(r.PathValue("aid"))
	if err != nil {
		s.fail(w, r, &domain.ValidationError{Field: "aid", Reason: "must be a UUID"})
		return
	}

	a, err := s.svc.Assessments.Get(r.Context(), userFrom(r).TenantID, id, aid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type energyPreviewResponse struct {
	Input  domain.EnergyInput  `json:"input"`
	Result domain.EnergyResult `json:"result"`
}

// handleEnergyPreview computes a prescription and echoes the resolved input
// so the caller can see which values came from the latest assessment.
func (s *Server) handleEnergyPreview(w http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req app.EnergyRequest
	if err := parseJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	in, res, err := s.svc.Energy.Preview(r.Context(), userFrom(r).TenantID, id, req)
	s.metrics.ObserveCalculation(opEnergyProfile, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, energyPreviewResponse{Input: in, Result: res})
}

func (s *Server) handleEnergyCommit(w http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req app.EnergyRequest
	if err := parseJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	p, err := s.svc.Energy.Commit(r.Context(), userFrom(r).TenantID, id, req)
	s.metrics.ObserveCalculation(opEnergyProfile, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleEnergyCurrent(w http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.svc.Energy.Current(r.Context(), userFrom(r).TenantID, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleEnergyHistory(w http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.svc.Energy.History(r.Context(), userFrom(r).TenantID, id, intQuery(r, "limit", 20))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []domain.EnergyProfile{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = app.MetricWeight
	}

	points, err := s.svc.Trends.Series(r.Context(), userFrom(r).TenantID, id, metric, intQuery(r, "days", 90))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if points == nil {
		points = []app.TrendPoint{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"metric": metric, "points": points})
}
