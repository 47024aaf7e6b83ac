// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/asahcalc/asahcalc/internal/domain/model"
	"github.com/asahcalc/asahcalc/internal/export"
	"github.com/asahcalc/asahcalc/pkg/metrics"
)

// ExportHandler computes assessments and streams them back as a CSV
// download in the original tool's column layout.
type ExportHandler struct {
	deps Dependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandlePostExport handles POST /export requests. The body is either a
// single patient input object or an array of them; the response is a
// text/csv attachment with one row per patient.
func (h *ExportHandler) HandlePostExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	inputs, single, err := decodeInputs(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	assessments, err := h.deps.AssessBatch(r.Context(), inputs)
	if err != nil {
		writeAssessError(w, err)
		return
	}

	rows := make([]export.Row, len(assessments))
	for i, a := range assessments {
		rows[i] = export.Row{Input: a.Input, Result: a.Result}
	}

	filename := export.BatchFilename()
	if single {
		filename = export.Filename(inputs[0].WFNS)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.Write(w, rows); err != nil {
		// Headers are already out; nothing useful left to send.
		return
	}
	metrics.RecordCSVExport()
}

// decodeInputs accepts either one patient object or an array. The second
// return value reports the single-object case, which drives the filename.
func decodeInputs(r *http.Request) ([]model.PatientInput, bool, error) {
	br := bufio.NewReader(r.Body)
	first, err := firstNonSpace(br)
	if err != nil {
		return nil, false, fmt.Errorf("empty request body: %w", err)
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		var reqs []patientRequest
		if err := dec.Decode(&reqs); err != nil {
			return nil, false, err
		}
		inputs := make([]model.PatientInput, len(reqs))
		for i, req := range reqs {
			inputs[i] = req.toModel()
		}
		return inputs, false, nil
	}

	var req patientRequest
	if err := dec.Decode(&req); err != nil {
		return nil, false, err
	}
	return []model.PatientInput{req.toModel()}, true, nil
}

// firstNonSpace peeks past leading JSON whitespace without consuming it.
func firstNonSpace(br *bufio.Reader) (byte, error) {
	for skip := 0; ; skip++ {
		buf, err := br.Peek(skip + 1)
		if err != nil {
			return 0, err
		}
		switch c := buf[skip]; c {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return c, nil
		}
	}
}
