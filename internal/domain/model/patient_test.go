package model_test

import (
	"testing"

	"github.com/asahcalc/asahcalc/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPatientInput_Severe(t *testing.T) {
	Convey("Given patients across the WFNS range", t, func() {
		Convey("Then grades 1-3 are not severe", func() {
			for wfns := 1; wfns <= 3; wfns++ {
				So(model.PatientInput{WFNS: wfns}.Severe(), ShouldBeFalse)
			}
		})

		Convey("And grades 4-5 are severe", func() {
			So(model.PatientInput{WFNS: 4}.Severe(), ShouldBeTrue)
			So(model.PatientInput{WFNS: 5}.Severe(), ShouldBeTrue)
		})
	})
}

func TestReferenceAUCs(t *testing.T) {
	Convey("Given the published reference AUCs", t, func() {
		So(model.Model1AUC, ShouldEqual, 0.87)
		So(model.Model2AUC, ShouldEqual, 0.88)
		So(model.Model3AUC, ShouldEqual, 0.81)
		So(model.Model4AUC, ShouldEqual, 0.88)
	})
}
