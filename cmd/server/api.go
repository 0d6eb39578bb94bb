package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/amelie/internal/costmodel"
	"github.com/Simplici0/amelie/internal/scenarios"
)

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

type snapshotResponse struct {
	Scenario string                `json:"scenario,omitempty"`
	CapEx    costmodel.CostMapping `json:"capex"`
	OpEx     costmodel.CostMapping `json:"opex"`
	Totals   costmodel.Totals      `json:"totals"`
}

type scenariosResponse struct {
	Scenarios []costmodel.Scenario `json:"scenarios"`
}

type applyRequest struct {
	Scenario string `json:"scenario"`
}

func newSnapshotResponse(name string, snap costmodel.Snapshot) snapshotResponse {
	return snapshotResponse{Scenario: name, CapEx: snap.CapEx, OpEx: snap.OpEx, Totals: snap.Totals()}
}

func (s *server) handleAPIScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenariosResponse{Scenarios: s.model.Scenarios()})
}

func (s *server) handleAPIPutScenario(w http.ResponseWriter, r *http.Request) {
	var def scenarios.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "request body must be a scenario definition")
		return
	}
	def.Name = strings.TrimSpace(chi.URLParam(r, "name"))

	sc, err := def.ToScenario()
	if err != nil {
		writeModelError(w, err)
		return
	}
	if err := s.model.AddScenario(sc); err != nil {
		writeModelError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *server) handleAPIPreview(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("scenario")
	snap, err := s.model.Preview(name)
	if err != nil {
		writeModelError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotResponse(name, snap))
}

func (s *server) handleAPIModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSnapshotResponse("", s.model.Snapshot()))
}

func (s *server) handleAPIApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "request body must be {\"scenario\": name}")
		return
	}

	snap, err := s.model.ApplyScenario(req.Scenario)
	if err != nil {
		writeModelError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotResponse(req.Scenario, snap))
}

func (s *server) handleAPIReset(w http.ResponseWriter, r *http.Request) {
	s.model.Reset()
	writeJSON(w, http.StatusOK, newSnapshotResponse("", s.model.Snapshot()))
}

func writeModelError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, costmodel.ErrScenarioNotFound):
		writeError(w, http.StatusNotFound, "SCENARIO_NOT_FOUND", err.Error())
	case errors.Is(err, costmodel.ErrCategoryNotFound):
		writeError(w, http.StatusUnprocessableEntity, "CATEGORY_NOT_FOUND", err.Error())
	case errors.Is(err, costmodel.ErrInvalidScenario):
		writeError(w, http.StatusBadRequest, "INVALID_SCENARIO", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
