package main

import (
	"context"
	"io"
	"os"

	"github.com/asahcalc/asahcalc/internal/domain/model"
	"github.com/asahcalc/asahcalc/internal/domain/scoring"
	"github.com/asahcalc/asahcalc/internal/domain/validate"
	"github.com/asahcalc/asahcalc/internal/export"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type batchFlags struct {
	file string
	out  string
}

// patientSpec mirrors one entry of the YAML batch file.
type patientSpec struct {
	WFNS                    int     `yaml:"wfns"`
	ModifiedFisher          int     `yaml:"modified_fisher"`
	CRP                     float64 `yaml:"crp"`
	LumbarDrain             bool    `yaml:"lumbar_drain"`
	SurgicalClipping        bool    `yaml:"surgical_clipping"`
	EarlySeizureHistory     bool    `yaml:"early_seizure_history"`
	EEGAbnormal             bool    `yaml:"eeg_abnormal"`
	ChronicHydrocephalus    bool    `yaml:"chronic_hydrocephalus"`
	IntracerebralHemorrhage bool    `yaml:"intracerebral_hemorrhage"`
}

func newBatchCmd() *cobra.Command {
	f := &batchFlags{}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Score a YAML list of patients and emit CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd.OutOrStdout(), f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.file, "file", "", "YAML file with a list of patient inputs (required)")
	flags.StringVar(&f.out, "out", "", "Output CSV path (default: stdout)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runBatch(stdout io.Writer, f *batchFlags) error {
	data, err := os.ReadFile(f.file)
	if err != nil {
		return exitError(3, "failed to read batch file: %v", err)
	}

	var specs []patientSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return exitError(3, "failed to parse batch file: %v", err)
	}
	if len(specs) == 0 {
		return exitError(3, "batch file %s contains no patients", f.file)
	}

	inputs := make([]model.PatientInput, len(specs))
	for i, s := range specs {
		inputs[i] = model.PatientInput{
			WFNS:                    s.WFNS,
			ModifiedFisher:          s.ModifiedFisher,
			CRP:                     s.CRP,
			LumbarDrain:             s.LumbarDrain,
			SurgicalClipping:        s.SurgicalClipping,
			EarlySeizureHistory:     s.EarlySeizureHistory,
			EEGAbnormal:             s.EEGAbnormal,
			ChronicHydrocephalus:    s.ChronicHydrocephalus,
			IntracerebralHemorrhage: s.IntracerebralHemorrhage,
		}
		if err := validate.PatientInput(inputs[i]); err != nil {
			return exitError(2, "patient %d: invalid input: %v", i, err)
		}
	}

	engine := scoring.NewLinearEngine()
	rows := make([]export.Row, len(inputs))
	for i, in := range inputs {
		result, err := engine.Evaluate(context.Background(), in)
		if err != nil {
			return exitError(1, "patient %d: scoring failed: %v", i, err)
		}
		rows[i] = export.Row{Input: in, Result: result}
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

	if err := export.Write(w, rows); err != nil {
		return exitError(1, "csv export failed: %v", err)
	}
	return nil
}
