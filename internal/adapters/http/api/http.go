// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/asahcalc/asahcalc/internal/app"
	"github.com/asahcalc/asahcalc/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Assess validates and scores one patient input.
	Assess(ctx context.Context, in model.PatientInput) (app.Assessment, error)

	// AssessBatch validates and scores a slice of inputs, preserving order.
	AssessBatch(ctx context.Context, ins []model.PatientInput) ([]app.Assessment, error)

	// MaxBatchSize exposes the configured batch cap.
	MaxBatchSize() int
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	assessHandler *AssessHandler
	exportHandler *ExportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		assessHandler: NewAssessHandler(deps),
		exportHandler: NewExportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/assess", MetricsMiddleware(s.assessHandler.HandlePostAssess, "assess"))
	mux.HandleFunc("/assess/batch", MetricsMiddleware(s.assessHandler.HandlePostBatch, "assess_batch"))
	mux.HandleFunc("/export", MetricsMiddleware(s.exportHandler.HandlePostExport, "export"))
}

// patientRequest mirrors the OpenAPI schema for patient inputs.
type patientRequest struct {
	WFNS                    int     `json:"wfns"`
	ModifiedFisher          int     `json:"modified_fisher"`
	CRP                     float64 `json:"crp"`
	LumbarDrain             bool    `json:"lumbar_drain"`
	SurgicalClipping        bool    `json:"surgical_clipping"`
	EarlySeizureHistory     bool    `json:"early_seizure_history"`
	EEGAbnormal             bool    `json:"eeg_abnormal"`
	ChronicHydrocephalus    bool    `json:"chronic_hydrocephalus"`
	IntracerebralHemorrhage bool    `json:"intracerebral_hemorrhage"`
}

func (p patientRequest) toModel() model.PatientInput {
	return model.PatientInput{
		WFNS:                    p.WFNS,
		ModifiedFisher:          p.ModifiedFisher,
		CRP:                     p.CRP,
		LumbarDrain:             p.LumbarDrain,
		SurgicalClipping:        p.SurgicalClipping,
		EarlySeizureHistory:     p.EarlySeizureHistory,
		EEGAbnormal:             p.EEGAbnormal,
		ChronicHydrocephalus:    p.ChronicHydrocephalus,
		IntracerebralHemorrhage: p.IntracerebralHemorrhage,
	}
}

// modelScoreResponse carries one model's score. Score is null when the
// model does not apply to the patient's cohort.
type modelScoreResponse struct {
	Score      *float64 `json:"score"`
	Applicable bool     `json:"applicable"`
	AUC        float64  `json:"auc"`
}

// assessmentResponse mirrors the OpenAPI schema for assessment results.
type assessmentResponse struct {
	AssessmentID string             `json:"assessment_id"`
	Severe       bool               `json:"severe"`
	Input        patientRequest     `json:"input"`
	Model1       modelScoreResponse `json:"model1_early_general"`
	Model2       modelScoreResponse `json:"model2_late_general"`
	Model3       modelScoreResponse `json:"model3_early_wfns45"`
	Model4       modelScoreResponse `json:"model4_late_wfns45"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toScoreResponse(s model.ModelScore, auc float64) modelScoreResponse {
	resp := modelScoreResponse{Applicable: s.Applicable, AUC: auc}
	if s.Applicable {
		v := s.Value
		resp.Score = &v
	}
	return resp
}

func toAssessmentResponse(a app.Assessment) assessmentResponse {
	return assessmentResponse{
		AssessmentID: a.ID,
		Severe:       a.Input.Severe(),
		Input: patientRequest{
			WFNS:                    a.Input.WFNS,
			ModifiedFisher:          a.Input.ModifiedFisher,
			CRP:                     a.Input.CRP,
			LumbarDrain:             a.Input.LumbarDrain,
			SurgicalClipping:        a.Input.SurgicalClipping,
			EarlySeizureHistory:     a.Input.EarlySeizureHistory,
			EEGAbnormal:             a.Input.EEGAbnormal,
			ChronicHydrocephalus:    a.Input.ChronicHydrocephalus,
			IntracerebralHemorrhage: a.Input.IntracerebralHemorrhage,
		},
		Model1: toScoreResponse(a.Result.Model1EarlyGeneral, model.Model1AUC),
		Model2: toScoreResponse(a.Result.Model2LateGeneral, model.Model2AUC),
		Model3: toScoreResponse(a.Result.Model3EarlyWFNS45, model.Model3AUC),
		Model4: toScoreResponse(a.Result.Model4LateWFNS45, model.Model4AUC),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
