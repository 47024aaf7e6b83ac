package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/asahcalc/asahcalc/internal/domain/model"
	"github.com/asahcalc/asahcalc/internal/domain/scoring"
	"github.com/asahcalc/asahcalc/internal/domain/validate"
	"github.com/asahcalc/asahcalc/internal/export"
	"github.com/spf13/cobra"
)

type scoreFlags struct {
	wfns                    int
	modifiedFisher          int
	crp                     float64
	lumbarDrain             bool
	surgicalClipping        bool
	earlySeizureHistory     bool
	eegAbnormal             bool
	chronicHydrocephalus    bool
	intracerebralHemorrhage bool
	format                  string
	out                     string
}

func newScoreCmd() *cobra.Command {
	f := &scoreFlags{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single patient from flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd.OutOrStdout(), f)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.wfns, "wfns", 1, "WFNS grade (1-5)")
	flags.IntVar(&f.modifiedFisher, "mfisher", 0, "Modified Fisher grade (0-4)")
	flags.Float64Var(&f.crp, "crp", 10.0, "CRP level in mg/L")
	flags.BoolVar(&f.lumbarDrain, "lumbar-drain", false, "Lumbar drain present")
	flags.BoolVar(&f.surgicalClipping, "clipping", false, "Surgical clipping performed (vs. coiling/none)")
	flags.BoolVar(&f.earlySeizureHistory, "early-seizure", false, "History of early seizure")
	flags.BoolVar(&f.eegAbnormal, "eeg-abnormal", false, "Abnormal EEG finding")
	flags.BoolVar(&f.chronicHydrocephalus, "hydrocephalus", false, "Chronic hydrocephalus present")
	flags.BoolVar(&f.intracerebralHemorrhage, "ich", false, "Intracerebral hemorrhage present")
	flags.StringVar(&f.format, "format", "table", "Output format: table, json or csv")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")

	return cmd
}

func (f *scoreFlags) toModel() model.PatientInput {
	return model.PatientInput{
		WFNS:                    f.wfns,
		ModifiedFisher:          f.modifiedFisher,
		CRP:                     f.crp,
		LumbarDrain:             f.lumbarDrain,
		SurgicalClipping:        f.surgicalClipping,
		EarlySeizureHistory:     f.earlySeizureHistory,
		EEGAbnormal:             f.eegAbnormal,
		ChronicHydrocephalus:    f.chronicHydrocephalus,
		IntracerebralHemorrhage: f.intracerebralHemorrhage,
	}
}

func runScore(stdout io.Writer, f *scoreFlags) error {
	in := f.toModel()
	if err := validate.PatientInput(in); err != nil {
		return exitError(2, "invalid input: %v", err)
	}

	engine := scoring.NewLinearEngine()
	result, err := engine.Evaluate(context.Background(), in)
	if err != nil {
		return exitError(1, "scoring failed: %v", err)
	}

	w := stdout
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return exitError(1, "failed to create output file: %v", err)
		}
		defer file.Close()
		w = file
	}

	switch f.format {
	case "table":
		return renderTable(w, in, result)
	case "json":
		return renderJSON(w, in, result)
	case "csv":
		if err := export.Write(w, []export.Row{{Input: in, Result: result}}); err != nil {
			return exitError(1, "csv export failed: %v", err)
		}
		return nil
	default:
		return exitError(2, "unknown format %q: must be table, json or csv", f.format)
	}
}

func renderTable(w io.Writer, in model.PatientInput, res model.ScoreResult) error {
	fmt.Fprintln(w, "aSAH Seizure Risk Scores")
	fmt.Fprintln(w, "========================")
	fmt.Fprintf(w, "WFNS grade: %d  Modified Fisher: %d  CRP: %.1f mg/L\n\n", in.WFNS, in.ModifiedFisher, in.CRP)
	fmt.Fprintf(w, "Model 1: Early Seizure (General)    score %s  (AUC %.2f)\n",
		export.FormatScore(res.Model1EarlyGeneral), model.Model1AUC)
	fmt.Fprintf(w, "Model 2: Late Seizure (General)     score %s  (AUC %.2f)\n",
		export.FormatScore(res.Model2LateGeneral), model.Model2AUC)
	if in.Severe() {
		fmt.Fprintf(w, "Model 3: Early Seizure (WFNS 4-5)   score %s  (AUC %.2f)\n",
			export.FormatScore(res.Model3EarlyWFNS45), model.Model3AUC)
		fmt.Fprintf(w, "Model 4: Late Seizure (WFNS 4-5)    score %s  (AUC %.2f)\n",
			export.FormatScore(res.Model4LateWFNS45), model.Model4AUC)
	} else {
		fmt.Fprintln(w, "Models 3 and 4 are not applicable: WFNS grade is below 4.")
	}
	fmt.Fprintln(w, "\nHigher scores correspond to a higher predicted seizure risk.")
	fmt.Fprintln(w, "The AUC indicates each model's predictive accuracy.")
	return nil
}

// cliScore is the JSON shape for one model score on the command line.
type cliScore struct {
	Score      *float64 `json:"score"`
	Applicable bool     `json:"applicable"`
	AUC        float64  `json:"auc"`
}

func toCLIScore(s model.ModelScore, auc float64) cliScore {
	out := cliScore{Applicable: s.Applicable, AUC: auc}
	if s.Applicable {
		v := s.Value
		out.Score = &v
	}
	return out
}

func renderJSON(w io.Writer, in model.PatientInput, res model.ScoreResult) error {
	doc := struct {
		WFNS   int      `json:"wfns"`
		Severe bool     `json:"severe"`
		Model1 cliScore `json:"model1_early_general"`
		Model2 cliScore `json:"model2_late_general"`
		Model3 cliScore `json:"model3_early_wfns45"`
		Model4 cliScore `json:"model4_late_wfns45"`
	}{
		WFNS:   in.WFNS,
		Severe: in.Severe(),
		Model1: toCLIScore(res.Model1EarlyGeneral, model.Model1AUC),
		Model2: toCLIScore(res.Model2LateGeneral, model.Model2AUC),
		Model3: toCLIScore(res.Model3EarlyWFNS45, model.Model3AUC),
		Model4: toCLIScore(res.Model4LateWFNS45, model.Model4AUC),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return exitError(1, "json encode failed: %v", err)
	}
	return nil
}
