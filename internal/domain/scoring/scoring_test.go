package scoring_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/asahcalc/asahcalc/internal/domain/model"
	"github.com/asahcalc/asahcalc/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

const tolerance = 1e-9

func TestLinearEngine_GeneralModels(t *testing.T) {
	Convey("Given a scoring engine", t, func() {
		engine := scoring.NewLinearEngine()

		Convey("When scoring a mild patient with CRP only", func() {
			// wfns=1, mfisher=0, crp=10, all factors absent
			in := model.PatientInput{WFNS: 1, ModifiedFisher: 0, CRP: 10.0}
			result, err := engine.Evaluate(context.Background(), in)

			Convey("Then model 1 is 0.62*1 + 0.07*10", func() {
				So(err, ShouldBeNil)
				So(result.Model1EarlyGeneral.Applicable, ShouldBeTrue)
				So(result.Model1EarlyGeneral.Value, ShouldAlmostEqual, 1.32, tolerance)
			})

			Convey("And model 2 is 1.75*1", func() {
				So(err, ShouldBeNil)
				So(result.Model2LateGeneral.Applicable, ShouldBeTrue)
				So(result.Model2LateGeneral.Value, ShouldAlmostEqual, 1.75, tolerance)
			})

			Convey("And models 3 and 4 are not applicable", func() {
				So(err, ShouldBeNil)
				So(result.Model3EarlyWFNS45.Applicable, ShouldBeFalse)
				So(result.Model4LateWFNS45.Applicable, ShouldBeFalse)
			})
		})

		Convey("When scoring the worst-case severe patient", func() {
			in := model.PatientInput{
				WFNS:                    5,
				ModifiedFisher:          4,
				CRP:                     0.0,
				LumbarDrain:             true,
				SurgicalClipping:        true,
				EarlySeizureHistory:     true,
				EEGAbnormal:             true,
				ChronicHydrocephalus:    true,
				IntracerebralHemorrhage: true,
			}
			result, err := engine.Evaluate(context.Background(), in)

			Convey("Then all four models match the published formulas", func() {
				So(err, ShouldBeNil)
				So(result.Model1EarlyGeneral.Value, ShouldAlmostEqual, 5.91, tolerance)
				So(result.Model2LateGeneral.Value, ShouldAlmostEqual, 10.64, tolerance)
				So(result.Model3EarlyWFNS45.Applicable, ShouldBeTrue)
				So(result.Model3EarlyWFNS45.Value, ShouldAlmostEqual, 13.79, tolerance)
				So(result.Model4LateWFNS45.Applicable, ShouldBeTrue)
				So(result.Model4LateWFNS45.Value, ShouldAlmostEqual, 24.79, tolerance)
			})
		})

		Convey("When the lumbar drain factor is present", func() {
			with := model.PatientInput{WFNS: 2, ModifiedFisher: 1, CRP: 5.0, LumbarDrain: true}
			without := model.PatientInput{WFNS: 2, ModifiedFisher: 1, CRP: 5.0}

			Convey("Then model 1 drops by the drain coefficient", func() {
				a, err := engine.Evaluate(context.Background(), with)
				So(err, ShouldBeNil)
				b, err := engine.Evaluate(context.Background(), without)
				So(err, ShouldBeNil)
				So(a.Model1EarlyGeneral.Value-b.Model1EarlyGeneral.Value, ShouldAlmostEqual, -1.9, tolerance)
			})
		})
	})
}

func TestLinearEngine_SevereCohortGate(t *testing.T) {
	Convey("Given a scoring engine", t, func() {
		engine := scoring.NewLinearEngine()

		Convey("When WFNS is 1, 2 or 3", func() {
			for wfns := 1; wfns <= 3; wfns++ {
				in := model.PatientInput{WFNS: wfns, ModifiedFisher: 4, CRP: 1.0, EEGAbnormal: true}
				result, err := engine.Evaluate(context.Background(), in)

				Convey("Then models 3 and 4 are not applicable for WFNS "+strconv.Itoa(wfns), func() {
					So(err, ShouldBeNil)
					So(result.Model3EarlyWFNS45.Applicable, ShouldBeFalse)
					So(result.Model4LateWFNS45.Applicable, ShouldBeFalse)
				})
			}
		})

		Convey("When WFNS is exactly 4", func() {
			in := model.PatientInput{WFNS: 4, ModifiedFisher: 2, CRP: 0.0, EEGAbnormal: true}
			result, err := engine.Evaluate(context.Background(), in)

			Convey("Then the severe-cohort models apply", func() {
				So(err, ShouldBeNil)
				So(result.Model3EarlyWFNS45.Applicable, ShouldBeTrue)
				// 1.47*4 + 1.13*2 + 1.92*1
				So(result.Model3EarlyWFNS45.Value, ShouldAlmostEqual, 10.06, tolerance)
				So(result.Model4LateWFNS45.Applicable, ShouldBeTrue)
				// 2.83*4 + 1.18*2
				So(result.Model4LateWFNS45.Value, ShouldAlmostEqual, 13.68, tolerance)
			})
		})

		Convey("When WFNS is 3, general models are still computed", func() {
			in := model.PatientInput{WFNS: 3, ModifiedFisher: 2, CRP: 4.0}
			result, err := engine.Evaluate(context.Background(), in)

			So(err, ShouldBeNil)
			So(result.Model1EarlyGeneral.Applicable, ShouldBeTrue)
			So(result.Model2LateGeneral.Applicable, ShouldBeTrue)
		})
	})
}

func TestLinearEngine_Determinism(t *testing.T) {
	Convey("Given a scoring engine", t, func() {
		engine := scoring.NewLinearEngine()

		Convey("When evaluating the same input twice", func() {
			in := model.PatientInput{WFNS: 4, ModifiedFisher: 3, CRP: 12.7, SurgicalClipping: true, EarlySeizureHistory: true}

			first, err1 := engine.Evaluate(context.Background(), in)
			second, err2 := engine.Evaluate(context.Background(), in)

			Convey("Then results are bit-identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first.Model1EarlyGeneral.Value, ShouldEqual, second.Model1EarlyGeneral.Value)
				So(first.Model2LateGeneral.Value, ShouldEqual, second.Model2LateGeneral.Value)
				So(first.Model3EarlyWFNS45.Value, ShouldEqual, second.Model3EarlyWFNS45.Value)
				So(first.Model4LateWFNS45.Value, ShouldEqual, second.Model4LateWFNS45.Value)
			})
		})
	})
}

func TestLinearEngine_ContextCancellation(t *testing.T) {
	Convey("Given a scoring engine and a cancelled context", t, func() {
		engine := scoring.NewLinearEngine()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("When evaluating", func() {
			_, err := engine.Evaluate(ctx, model.PatientInput{WFNS: 2, ModifiedFisher: 1, CRP: 3.0})

			Convey("Then the context error is surfaced", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}
