package adapthttp

import (
	"net/http"

	"nutriassess/internal/domain"
	"nutriassess/internal/engine"
)

type calcBodyRequest struct {
	Sex      domain.Sex                 `json:"sex"`
	AgeYears int                        `json:"ageYears"`
	Input    domain.AnthropometricInput `json:"input"`
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tables": engine.Tables(),
		"params": s.svc.Engine.Params(),
	})
}

// handleCalcBody runs a body-composition calculation without a patient
// record. Nothing is stored.
func (s *Server) handleCalcBody(w http.ResponseWriter, r *http.Request) {
	var req calcBodyRequest
	if err := parseJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.svc.Engine.ComputeBodyComposition(req.Input, req.Sex, req.AgeYears)
	s.metrics.ObserveCalculation(opBodyComposition, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCalcEnergy(w http.ResponseWriter, r *http.Request) {
	var in domain.EnergyInput
	if err := parseJSON(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.svc.Engine.ComputeEnergyProfile(in)
	s.metrics.ObserveCalculation(opEnergyProfile, err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
