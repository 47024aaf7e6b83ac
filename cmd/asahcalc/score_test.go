package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/asahcalc/asahcalc/internal/export"
	. "github.com/smartystreets/goconvey/convey"
)

func runCLI(args ...string) (string, error) {
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestScoreCommand_Table(t *testing.T) {
	Convey("Given the score command", t, func() {
		Convey("When scoring a mild patient", func() {
			out, err := runCLI("score", "--wfns", "1", "--mfisher", "0", "--crp", "10")

			Convey("Then the table shows the general models and the cohort note", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Model 1: Early Seizure (General)    score 1.32  (AUC 0.87)")
				So(out, ShouldContainSubstring, "Model 2: Late Seizure (General)     score 1.75  (AUC 0.88)")
				So(out, ShouldContainSubstring, "Models 3 and 4 are not applicable")
				So(out, ShouldContainSubstring, "Higher scores correspond to a higher predicted seizure risk.")
			})
		})

		Convey("When scoring a severe patient", func() {
			out, err := runCLI("score",
				"--wfns", "5", "--mfisher", "4", "--crp", "0",
				"--lumbar-drain", "--clipping", "--early-seizure",
				"--eeg-abnormal", "--hydrocephalus", "--ich",
			)

			Convey("Then all four models are printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "score 5.91")
				So(out, ShouldContainSubstring, "score 10.64")
				So(out, ShouldContainSubstring, "score 13.79")
				So(out, ShouldContainSubstring, "score 24.79")
			})
		})
	})
}

func TestScoreCommand_Formats(t *testing.T) {
	Convey("Given the score command", t, func() {
		Convey("When requesting CSV output", func() {
			out, err := runCLI("score", "--wfns", "4", "--mfisher", "2", "--crp", "0", "--eeg-abnormal", "--format", "csv")

			Convey("Then the fixed CSV layout is emitted", func() {
				So(err, ShouldBeNil)
				lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
				So(lines[0], ShouldEqual, strings.Join(export.Header, ","))
				So(lines[1], ShouldEqual, "4,2,0,0,0,0,1,0,0,4.24,7.00,10.06,13.68")
			})
		})

		Convey("When requesting JSON output", func() {
			out, err := runCLI("score", "--wfns", "2", "--mfisher", "1", "--crp", "5", "--format", "json")

			Convey("Then the document parses and flags the cohort", func() {
				So(err, ShouldBeNil)
				var doc struct {
					Severe bool `json:"severe"`
					Model1 struct {
						Score      *float64 `json:"score"`
						Applicable bool     `json:"applicable"`
					} `json:"model1_early_general"`
					Model3 struct {
						Score      *float64 `json:"score"`
						Applicable bool     `json:"applicable"`
					} `json:"model3_early_wfns45"`
				}
				So(json.Unmarshal([]byte(out), &doc), ShouldBeNil)
				So(doc.Severe, ShouldBeFalse)
				So(doc.Model1.Applicable, ShouldBeTrue)
				So(*doc.Model1.Score, ShouldAlmostEqual, 2.47, 1e-9)
				So(doc.Model3.Applicable, ShouldBeFalse)
				So(doc.Model3.Score, ShouldBeNil)
			})
		})

		Convey("When requesting an unknown format", func() {
			_, err := runCLI("score", "--wfns", "2", "--format", "xml")

			Convey("Then the command exits with a usage error", func() {
				var ee *exitErr
				So(errors.As(err, &ee), ShouldBeTrue)
				So(ee.code, ShouldEqual, 2)
			})
		})
	})
}

func TestScoreCommand_Validation(t *testing.T) {
	Convey("Given the score command", t, func() {
		Convey("When the WFNS grade is out of range", func() {
			_, err := runCLI("score", "--wfns", "6")

			Convey("Then the input is rejected before scoring", func() {
				var ee *exitErr
				So(errors.As(err, &ee), ShouldBeTrue)
				So(ee.code, ShouldEqual, 2)
				So(ee.msg, ShouldContainSubstring, "wfns grade 6")
			})
		})

		Convey("When CRP is negative", func() {
			_, err := runCLI("score", "--wfns", "1", "--crp", "-1")

			Convey("Then the input is rejected", func() {
				var ee *exitErr
				So(errors.As(err, &ee), ShouldBeTrue)
				So(ee.code, ShouldEqual, 2)
			})
		})
	})
}
