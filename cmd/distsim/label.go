package main

import (
	"fmt"

	"distsim/adapters/excel"
	"distsim/domain/similarity"
	"distsim/internal/errors"
	"distsim/internal/labeling"
	"distsim/internal/sampling"

	"github.com/spf13/cobra"
)

func newLabelCmd() *cobra.Command {
	var inputPath, referencePath, outPath string

	cmd := &cobra.Command{
		Use:   "label",
		Short: "Build a Tech-Sync labeled training set from two measurement tables",
		Long: `Extract features for every test present in both tables and label it with the
Tech-Sync rules. The output holds one row per test: every feature, the target label
and whether the specification limits match.

Example: distsim label --input lot42.csv --reference golden.csv --out training.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnvironment()
			if err != nil {
				return err
			}

			input, err := excel.ReadMeasurementTable(inputPath, logger)
			if err != nil {
				return &errors.AppError{Code: errors.CodeInvalidInput, Message: "reading input table", Cause: err}
			}
			reference, err := excel.ReadMeasurementTable(referencePath, logger)
			if err != nil {
				return &errors.AppError{Code: errors.CodeInvalidInput, Message: "reading reference table", Cause: err}
			}

			builder := labeling.NewBuilder(
				sampling.NewSampler(cfg.Analysis.SampleSize, logger),
				sampling.NewSeededStreams(cfg.Analysis.Seed),
				logger,
			)
			examples, err := builder.Build(input, reference)
			if err != nil {
				return err
			}
			if err := excel.WriteTrainingSet(outPath, examples); err != nil {
				return errors.IOError(outPath, err)
			}

			counts := make(map[similarity.Label]int)
			for _, ex := range examples {
				counts[ex.Assessment.Label]++
			}
			fmt.Printf("Labeled %d tests, written to %s\n", len(examples), outPath)
			for _, l := range similarity.Labels() {
				fmt.Printf("  %-22s %d\n", l, counts[l])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Input measurement table (.xlsx or .csv)")
	cmd.Flags().StringVar(&referencePath, "reference", "", "Reference measurement table (.xlsx or .csv)")
	cmd.Flags().StringVar(&outPath, "out", "training_data.csv", "Training set file, .csv or .xlsx")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("reference")

	return cmd
}
