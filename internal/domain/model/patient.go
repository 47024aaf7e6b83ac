// Package model contains domain value objects passed between layers.
package model

// SevereWFNSThreshold is the WFNS grade at which a patient enters the
// severe cohort that models 3 and 4 were fitted on.
const SevereWFNSThreshold = 4

// Reference AUCs of the four published models. These are reported
// alongside scores, never computed here.
const (
	Model1AUC = 0.87
	Model2AUC = 0.88
	Model3AUC = 0.81
	Model4AUC = 0.88
)

// PatientInput captures the clinical inputs for a single risk assessment.
// Callers must validate values against the stated domains before handing
// the input to the scoring engine (see internal/domain/validate).
type PatientInput struct {
	WFNS                    int     // WFNS grade, 1-5
	ModifiedFisher          int     // modified Fisher grade, 0-4
	CRP                     float64 // C-reactive protein, mg/L, >= 0
	LumbarDrain             bool
	SurgicalClipping        bool // clipping vs. coiling/none
	EarlySeizureHistory     bool
	EEGAbnormal             bool
	ChronicHydrocephalus    bool
	IntracerebralHemorrhage bool
}

// Severe reports whether the patient falls in the WFNS 4-5 cohort.
func (p PatientInput) Severe() bool {
	return p.WFNS >= SevereWFNSThreshold
}

// ModelScore is a single model's output. Applicable is false when the
// patient is outside the model's cohort; Value carries no meaning then.
type ModelScore struct {
	Value      float64
	Applicable bool
}

// ScoreResult holds the four model scores for one assessment. Models 1
// and 2 are always applicable; models 3 and 4 only for severe patients.
type ScoreResult struct {
	Model1EarlyGeneral ModelScore
	Model2LateGeneral  ModelScore
	Model3EarlyWFNS45  ModelScore
	Model4LateWFNS45   ModelScore
}
