package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"distsim/adapters/excel"
	"distsim/internal/classifier"
	"distsim/internal/errors"

	"github.com/spf13/cobra"
)

func newInspectModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect-model [version-or-path]",
		Short: "Print the components of a trained model",
		Long: `Load a trained model from MODEL_DIR (or an explicit model file path) and print
its feature columns, sensitivity thresholds, classes and label mapping as JSON.

Example: distsim inspect-model distribution_similarity_model_v2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnvironment()
			if err != nil {
				return err
			}
			version := cfg.Model.Version
			if len(args) == 1 {
				version = args[0]
			}

			artifact, err := classifier.LoadModel(cfg.Model.Dir, version, logger)
			if err != nil {
				return errors.ModelError("loading "+version, err)
			}

			out := struct {
				Version    string `json:"version"`
				NumClasses int    `json:"num_classes"`
				classifier.Components
			}{
				Version:    artifact.Version,
				NumClasses: artifact.Booster.NumClasses(),
				Components: classifier.ComponentsOf(artifact),
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
	return cmd
}

func newCalibrateCmd() *cobra.Command {
	var confidencesPath, column string

	cmd := &cobra.Command{
		Use:   "calibrate [version-or-path]",
		Short: "Rebuild a model's sensitivity thresholds from validation confidences",
		Long: `Read validation-set confidences and rewrite the model's components file with
thresholds at the (1 - s) * 100th percentile of the confidences for every
sensitivity level s in 0.0..1.0.

Example: distsim calibrate --confidences validation.csv --column confidence`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnvironment()
			if err != nil {
				return err
			}
			version := cfg.Model.Version
			if len(args) == 1 {
				version = args[0]
			}

			data, err := excel.NewDataReader(confidencesPath, logger).ReadData()
			if err != nil {
				return errors.IOError(confidencesPath, err)
			}
			confidences := make([]float64, 0, len(data.Rows))
			for i, row := range data.Rows {
				v, err := strconv.ParseFloat(row[column], 64)
				if err != nil {
					return errors.InvalidInput(fmt.Sprintf("row %d: invalid %s %q", i+2, column, row[column]))
				}
				confidences = append(confidences, v)
			}
			thresholds, err := classifier.ThresholdsFromConfidences(confidences)
			if err != nil {
				return errors.InvalidInput(err.Error())
			}

			artifact, err := classifier.LoadModel(cfg.Model.Dir, version, logger)
			if err != nil {
				return errors.ModelError("loading "+version, err)
			}
			components := classifier.ComponentsOf(artifact)
			components.SensitivityThresholds = thresholds.Map()

			path, err := classifier.WriteComponents(cfg.Model.Dir, version, components)
			if err != nil {
				return errors.IOError(cfg.Model.Dir, err)
			}
			fmt.Printf("Thresholds for %s written to %s\n", artifact.Version, path)
			for i, t := range thresholds {
				fmt.Printf("  %.1f  %.4f\n", float64(i)/10, t)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&confidencesPath, "confidences", "", "Validation confidences (.csv or .xlsx)")
	cmd.Flags().StringVar(&column, "column", "confidence", "Column holding the confidence scores")
	_ = cmd.MarkFlagRequired("confidences")

	return cmd
}
