// Package scoring implements the four published aSAH seizure risk models.
//
// Each model is a fixed linear combination of clinical inputs. Models 1
// and 2 apply to every patient; models 3 and 4 are defined only for the
// severe (WFNS 4-5) cohort and are reported as not applicable otherwise.
package scoring

import (
	"context"
	"fmt"

	"github.com/asahcalc/asahcalc/internal/domain/model"
)

// Published model coefficients. These are the model itself, not tuning
// knobs; they must match the validated regression exactly.
const (
	m1WFNS     = 0.62
	m1Fisher   = 0.88
	m1CRP      = 0.07
	m1Drain    = -1.9
	m1Clipping = 1.19

	m2WFNS         = 1.75
	m2EarlySeizure = 1.89

	m3WFNS   = 1.47
	m3Fisher = 1.13
	m3EEG    = 1.92

	m4WFNS          = 2.83
	m4Fisher        = 1.18
	m4Hydrocephalus = 2.81
	m4Hemorrhage    = 1.63
	m4EarlySeizure  = 1.48
)

// Engine computes risk scores from a validated patient input.
type Engine interface {
	// Evaluate computes all applicable model scores, honoring ctx for
	// cancellation.
	Evaluate(ctx context.Context, in model.PatientInput) (model.ScoreResult, error)
}

// LinearEngine implements Engine with the published closed-form models.
// It is stateless and safe for concurrent use.
type LinearEngine struct{}

// NewLinearEngine creates a scoring engine.
func NewLinearEngine() *LinearEngine {
	return &LinearEngine{}
}

// Evaluate computes the four model scores. The input is assumed to be
// within domain; out-of-range values still produce arithmetic results,
// but those are semantically undefined. Results are full precision;
// rounding happens at the presentation boundary.
func (e *LinearEngine) Evaluate(ctx context.Context, in model.PatientInput) (model.ScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return model.ScoreResult{}, fmt.Errorf("evaluate cancelled: %w", err)
	}

	wfns := float64(in.WFNS)
	fisher := float64(in.ModifiedFisher)

	res := model.ScoreResult{
		Model1EarlyGeneral: model.ModelScore{
			Value: m1WFNS*wfns + m1Fisher*fisher + m1CRP*in.CRP +
				m1Drain*indicator(in.LumbarDrain) + m1Clipping*indicator(in.SurgicalClipping),
			Applicable: true,
		},
		Model2LateGeneral: model.ModelScore{
			Value:      m2WFNS*wfns + m2EarlySeizure*indicator(in.EarlySeizureHistory),
			Applicable: true,
		},
	}

	if in.Severe() {
		res.Model3EarlyWFNS45 = model.ModelScore{
			Value:      m3WFNS*wfns + m3Fisher*fisher + m3EEG*indicator(in.EEGAbnormal),
			Applicable: true,
		}
		res.Model4LateWFNS45 = model.ModelScore{
			Value: m4WFNS*wfns + m4Fisher*fisher + m4Hydrocephalus*indicator(in.ChronicHydrocephalus) +
				m4Hemorrhage*indicator(in.IntracerebralHemorrhage) + m4EarlySeizure*indicator(in.EarlySeizureHistory),
			Applicable: true,
		}
	}

	return res, nil
}

// indicator maps a clinical yes/no factor to its 0/1 regression term.
func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
