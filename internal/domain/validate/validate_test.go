package validate_test

import (
	"errors"
	"math"
	"testing"

	"github.com/asahcalc/asahcalc/internal/domain/model"
	"github.com/asahcalc/asahcalc/internal/domain/validate"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPatientInput(t *testing.T) {
	Convey("Given the validation boundary", t, func() {
		valid := model.PatientInput{WFNS: 3, ModifiedFisher: 2, CRP: 8.5}

		Convey("Then an in-domain input passes", func() {
			So(validate.PatientInput(valid), ShouldBeNil)
		})

		Convey("And the domain edges pass", func() {
			So(validate.PatientInput(model.PatientInput{WFNS: 1, ModifiedFisher: 0, CRP: 0}), ShouldBeNil)
			So(validate.PatientInput(model.PatientInput{WFNS: 5, ModifiedFisher: 4, CRP: 300.0}), ShouldBeNil)
		})

		Convey("When WFNS is out of range", func() {
			for _, wfns := range []int{0, -1, 6} {
				in := valid
				in.WFNS = wfns
				err := validate.PatientInput(in)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, validate.ErrOutOfDomain), ShouldBeTrue)
			}
		})

		Convey("When the modified Fisher grade is out of range", func() {
			for _, mf := range []int{-1, 5} {
				in := valid
				in.ModifiedFisher = mf
				err := validate.PatientInput(in)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, validate.ErrOutOfDomain), ShouldBeTrue)
			}
		})

		Convey("When CRP is negative", func() {
			in := valid
			in.CRP = -0.1
			err := validate.PatientInput(in)
			So(errors.Is(err, validate.ErrOutOfDomain), ShouldBeTrue)
		})

		Convey("When CRP is not finite", func() {
			for _, crp := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
				in := valid
				in.CRP = crp
				err := validate.PatientInput(in)
				So(errors.Is(err, validate.ErrOutOfDomain), ShouldBeTrue)
			}
		})
	})
}
