// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/asahcalc/asahcalc/internal/app"
	"github.com/asahcalc/asahcalc/internal/domain/model"
	"github.com/asahcalc/asahcalc/internal/domain/validate"
)

// AssessHandler handles single and batch assessment requests.
type AssessHandler struct {
	deps Dependencies
}

// NewAssessHandler creates a new assess handler.
func NewAssessHandler(deps Dependencies) *AssessHandler {
	return &AssessHandler{deps: deps}
}

// HandlePostAssess handles POST /assess requests.
func (h *AssessHandler) HandlePostAssess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	assessment, err := h.deps.Assess(r.Context(), req.toModel())
	if err != nil {
		writeAssessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssessmentResponse(assessment))
}

// HandlePostBatch handles POST /assess/batch requests. The body is a JSON
// array of patient inputs; the response preserves input order.
func (h *AssessHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var reqs []patientRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	inputs := make([]model.PatientInput, len(reqs))
	for i, req := range reqs {
		inputs[i] = req.toModel()
	}
	assessments, err := h.deps.AssessBatch(r.Context(), inputs)
	if err != nil {
		writeAssessError(w, err)
		return
	}
	out := make([]assessmentResponse, len(assessments))
	for i, a := range assessments {
		out[i] = toAssessmentResponse(a)
	}
	writeJSON(w, http.StatusOK, out)
}

// writeAssessError translates service errors to HTTP status codes.
func writeAssessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validate.ErrOutOfDomain):
		writeError(w, http.StatusBadRequest, "out_of_domain", err)
	case errors.Is(err, app.ErrBatchTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "batch_too_large", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
