// Package validate enforces the input domain at the boundary. The scoring
// engine assumes in-range inputs and never validates; every front end must
// reject an input here before invoking the engine.
package validate

import (
	"errors"
	"fmt"
	"math"

	"github.com/asahcalc/asahcalc/internal/domain/model"
)

// ErrOutOfDomain is wrapped by every validation failure so callers can
// classify them with errors.Is.
var ErrOutOfDomain = errors.New("input out of domain")

// PatientInput checks every field against its stated domain and returns
// the first violation found.
func PatientInput(in model.PatientInput) error {
	switch {
	case in.WFNS < 1 || in.WFNS > 5:
		return fmt.Errorf("%w: wfns grade %d must be between 1 and 5", ErrOutOfDomain, in.WFNS)
	case in.ModifiedFisher < 0 || in.ModifiedFisher > 4:
		return fmt.Errorf("%w: modified fisher grade %d must be between 0 and 4", ErrOutOfDomain, in.ModifiedFisher)
	case math.IsNaN(in.CRP) || math.IsInf(in.CRP, 0):
		return fmt.Errorf("%w: crp must be a finite number", ErrOutOfDomain)
	case in.CRP < 0:
		return fmt.Errorf("%w: crp %.1f mg/L must be non-negative", ErrOutOfDomain, in.CRP)
	}
	return nil
}
