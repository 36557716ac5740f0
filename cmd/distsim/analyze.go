package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"

	"distsim/adapters/excel"
	"distsim/domain/core"
	"distsim/internal"
	"distsim/internal/analysis"
	"distsim/internal/classifier"
	"distsim/internal/config"
	"distsim/internal/errors"
	"distsim/internal/metrics"
	"distsim/internal/report"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	inputPath     string
	referencePath string
	tests         []string
	sensitivity   float64
	modelVersion  string
	outPath       string
	reportPath    string
	metricsPath   string
	runID         string
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Label each test of an input table against a reference table",
		Long: `Compare the input and reference measurement tables test by test and write the
results workbook. Tests are labeled by the trained model when one is available and
by the rule-based fallback otherwise.

Example: distsim analyze --input lot42.xlsx --reference golden.xlsx --sensitivity 0.7 --report report.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnvironment()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("sensitivity") {
				opts.sensitivity = cfg.Analysis.DefaultSensitivity
			}
			if err := config.ValidateSensitivity(opts.sensitivity); err != nil {
				return err
			}
			if opts.modelVersion == "" {
				opts.modelVersion = cfg.Model.Version
			}
			if opts.outPath == "" {
				opts.outPath = cfg.Output.ResultsPath
			}
			return runAnalyze(cmd.Context(), cfg, logger, opts)
		},
	}

	cmd.Flags().StringVar(&opts.inputPath, "input", "", "Input measurement table (.xlsx or .csv)")
	cmd.Flags().StringVar(&opts.referencePath, "reference", "", "Reference measurement table (.xlsx or .csv)")
	cmd.Flags().StringSliceVar(&opts.tests, "tests", nil, "Test names to analyze (default: every input test)")
	cmd.Flags().Float64Var(&opts.sensitivity, "sensitivity", 0.5, "Sensitivity in [0, 1]; higher flags more tests as different")
	cmd.Flags().StringVar(&opts.modelVersion, "model-version", "", "Model version or model file path (default: MODEL_VERSION)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "Results file, .xlsx or .csv (default: RESULTS_PATH)")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Optional summary report, .md or .html")
	cmd.Flags().StringVar(&opts.metricsPath, "metrics", "", "Optional Prometheus text file for run metrics")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "Reuse a run ID (UUID) instead of assigning a new one")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("reference")

	return cmd
}

func runAnalyze(ctx context.Context, cfg *config.Config, logger *internal.Logger, opts analyzeOptions) error {
	var runID core.RunID
	if opts.runID != "" {
		id, err := core.ParseRunID(opts.runID)
		if err != nil {
			return errors.InvalidInput(err.Error())
		}
		runID = id
	}

	input, err := excel.ReadMeasurementTable(opts.inputPath, logger)
	if err != nil {
		return tableError("input", opts.inputPath, err)
	}
	reference, err := excel.ReadMeasurementTable(opts.referencePath, logger)
	if err != nil {
		return tableError("reference", opts.referencePath, err)
	}

	reg := prometheus.NewRegistry()
	analyzer := analysis.NewAnalyzer(classifier.NewClassifier(cfg.Model.Dir, logger), analysis.Options{
		SampleSize: cfg.Analysis.SampleSize,
		Workers:    cfg.Analysis.Workers,
		Seed:       cfg.Analysis.Seed,
		Metrics:    metrics.New(reg),
		Logger:     logger,
	})

	table, err := analyzer.Analyze(ctx, analysis.Request{
		Input:        input,
		Reference:    reference,
		Tests:        opts.tests,
		Sensitivity:  opts.sensitivity,
		ModelVersion: opts.modelVersion,
		RunID:        runID,
	})
	if err != nil {
		return err
	}

	if err := excel.WriteResults(opts.outPath, table); err != nil {
		return errors.IOError(opts.outPath, err)
	}
	if opts.reportPath != "" {
		if err := report.Write(opts.reportPath, table); err != nil {
			return errors.IOError(opts.reportPath, err)
		}
	}
	if opts.metricsPath != "" {
		if err := prometheus.WriteToTextfile(opts.metricsPath, reg); err != nil {
			return errors.IOError(opts.metricsPath, err)
		}
	}

	ml, fallback, unavailable := table.Counts()
	fmt.Printf("Run %s (%s, sensitivity %.2f)\n", table.RunID, table.ModelVersion, table.Sensitivity)
	fmt.Printf("  %d tests: %d model, %d rule-based, %d without data\n", len(table.Rows), ml, fallback, unavailable)
	fmt.Printf("  results written to %s\n", opts.outPath)
	return nil
}

// tableError maps a measurement table read failure to its CLI error code
func tableError(role, path string, err error) error {
	var pathErr *fs.PathError
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		notFound := errors.NotFound(role + " table " + path)
		notFound.Cause = err
		return notFound
	case stderrors.As(err, &pathErr):
		return errors.IOError(path, err)
	default:
		return &errors.AppError{Code: errors.CodeInvalidInput, Message: "reading " + role + " table", Cause: err}
	}
}
