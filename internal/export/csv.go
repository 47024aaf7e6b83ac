// Package export serializes assessments to the flat CSV layout used by the
// original calculator and parses the same layout back.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/asahcalc/asahcalc/internal/domain/model"
)

// NotApplicable is the sentinel written for model 3/4 scores when the
// patient is outside the WFNS 4-5 cohort. It exists only in this layer;
// the domain carries applicability as a tagged value.
const NotApplicable = "N/A"

// Sentinel kinds for parse failures.
var (
	ErrBadHeader = errors.New("unexpected csv header")
	ErrBadRecord = errors.New("malformed csv record")
)

// Header is the fixed column layout. Column names and order match the
// original tool's download exactly.
var Header = []string{
	"Input_WFNS",
	"Input_mFisher",
	"Input_CRP",
	"Input_LD",
	"Input_Clipping",
	"Input_EarlySeizure",
	"Input_EEG_Abnormal",
	"Input_HCP",
	"Input_ICH",
	"Model1_Early_General_Score",
	"Model2_Late_General_Score",
	"Model3_Early_WFNS4-5_Score",
	"Model4_Late_WFNS4-5_Score",
}

// Row pairs a patient input with its computed result; one Row becomes one
// CSV record.
type Row struct {
	Input  model.PatientInput
	Result model.ScoreResult
}

// FormatScore renders a score to two decimals, or the N/A sentinel when
// the model does not apply. Formatting uses strconv.FormatFloat, which
// rounds to nearest with ties-to-even over the exact binary value.
func FormatScore(s model.ModelScore) string {
	if !s.Applicable {
		return NotApplicable
	}
	return strconv.FormatFloat(s.Value, 'f', 2, 64)
}

// Record flattens one row into the Header column order. Booleans are
// written as 0/1, CRP at full precision, scores at two decimals.
func Record(r Row) []string {
	return []string{
		strconv.Itoa(r.Input.WFNS),
		strconv.Itoa(r.Input.ModifiedFisher),
		strconv.FormatFloat(r.Input.CRP, 'f', -1, 64),
		cell(r.Input.LumbarDrain),
		cell(r.Input.SurgicalClipping),
		cell(r.Input.EarlySeizureHistory),
		cell(r.Input.EEGAbnormal),
		cell(r.Input.ChronicHydrocephalus),
		cell(r.Input.IntracerebralHemorrhage),
		FormatScore(r.Result.Model1EarlyGeneral),
		FormatScore(r.Result.Model2LateGeneral),
		FormatScore(r.Result.Model3EarlyWFNS45),
		FormatScore(r.Result.Model4LateWFNS45),
	}
}

// Write emits the header followed by one record per row.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(Record(r)); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Parse reads the layout produced by Write. Scores come back rounded to
// two decimals, which is the precision the export contract guarantees.
func Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, name := range Header {
		if header[i] != name {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i, header[i], name)
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		row, err := parseRecord(rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// Filename names a single-assessment download after the patient's WFNS
// grade, matching the original tool.
func Filename(wfns int) string {
	return fmt.Sprintf("aSAH_risk_results_WFNS_%d.csv", wfns)
}

// BatchFilename names a multi-assessment download.
func BatchFilename() string {
	return "aSAH_risk_results_batch.csv"
}

func parseRecord(rec []string) (Row, error) {
	var (
		row Row
		err error
	)
	if row.Input.WFNS, err = strconv.Atoi(rec[0]); err != nil {
		return Row{}, fmt.Errorf("%w: wfns: %v", ErrBadRecord, err)
	}
	if row.Input.ModifiedFisher, err = strconv.Atoi(rec[1]); err != nil {
		return Row{}, fmt.Errorf("%w: mfisher: %v", ErrBadRecord, err)
	}
	if row.Input.CRP, err = strconv.ParseFloat(rec[2], 64); err != nil {
		return Row{}, fmt.Errorf("%w: crp: %v", ErrBadRecord, err)
	}
	flags := []*bool{
		&row.Input.LumbarDrain,
		&row.Input.SurgicalClipping,
		&row.Input.EarlySeizureHistory,
		&row.Input.EEGAbnormal,
		&row.Input.ChronicHydrocephalus,
		&row.Input.IntracerebralHemorrhage,
	}
	for i, f := range flags {
		*f, err = parseCell(rec[3+i])
		if err != nil {
			return Row{}, fmt.Errorf("%w: %s: %v", ErrBadRecord, Header[3+i], err)
		}
	}
	scores := []*model.ModelScore{
		&row.Result.Model1EarlyGeneral,
		&row.Result.Model2LateGeneral,
		&row.Result.Model3EarlyWFNS45,
		&row.Result.Model4LateWFNS45,
	}
	for i, s := range scores {
		*s, err = parseScore(rec[9+i])
		if err != nil {
			return Row{}, fmt.Errorf("%w: %s: %v", ErrBadRecord, Header[9+i], err)
		}
	}
	return row, nil
}

func parseScore(cell string) (model.ModelScore, error) {
	if cell == NotApplicable {
		return model.ModelScore{}, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return model.ModelScore{}, err
	}
	return model.ModelScore{Value: v, Applicable: true}, nil
}

func cell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func parseCell(s string) (bool, error) {
	switch s {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, fmt.Errorf("flag cell %q is not 0 or 1", s)
	}
}
