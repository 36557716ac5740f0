package excel

import (
	"fmt"

	"distsim/domain/features"
	"distsim/internal/analysis"
	"distsim/internal/labeling"
)

var percentileHeaders = []string{"p1", "p5", "p25", "p75", "p95", "p99"}

// ResultsSheet lays out a results table one row per test
func ResultsSheet(t *analysis.ResultTable) Sheet {
	headers := []string{"Run ID", "Test Name", "Test Number", "Module", "Status", "Confidence",
		"Sensitivity", "Model Version", "ML Prediction", "Min", "Max", "Mean", "Std"}
	for _, p := range percentileHeaders {
		headers = append(headers, p+"_input", p+"_reference")
	}
	headers = append(headers, "LSL_input", "USL_input", "LSL_reference", "USL_reference",
		"Cpk", "Yield", "Yield_Loss", "Rejection_Rate", "input_data", "reference_data")

	s := Sheet{Name: "Results", Headers: headers}
	for _, r := range t.Rows {
		row := []interface{}{t.RunID.String(), r.Test.Name, r.Test.Number, r.Module}
		if res, ok := r.Classification(); ok {
			row = append(row, res.Label.String(), res.Confidence, r.Sensitivity, res.ModelVersion, res.MLPrediction)
		} else {
			row = append(row, nil, nil, r.Sensitivity, nil, false)
		}
		row = append(row, num(r.Describe.Min), num(r.Describe.Max), num(r.Describe.Mean), num(r.Describe.Std))
		for i := range percentileHeaders {
			row = append(row, num(r.PercentilesInput[i]), num(r.PercentilesReference[i]))
		}
		row = append(row,
			numPtr(r.LSLInput), numPtr(r.USLInput), numPtr(r.LSLReference), numPtr(r.USLReference),
			num(r.Cpk), r.Yield.Yield, r.Yield.YieldLoss, r.Yield.RejectionRate,
			joinSeries(r.InputSample), joinSeries(r.ReferenceSample))
		s.Rows = append(s.Rows, row)
	}
	return s
}

// WriteResults writes a results table to an XLSX or CSV file
func WriteResults(path string, t *analysis.ResultTable) error {
	if err := Write(path, ResultsSheet(t)); err != nil {
		return fmt.Errorf("writing results to %s: %w", path, err)
	}
	return nil
}

// TrainingSheet lays out labeled examples: identity, every feature, then the
// Tech-Sync target and its metrics
func TrainingSheet(examples []labeling.Example) Sheet {
	all := features.All()
	headers := []string{"test_name", "test_number"}
	for _, n := range all {
		headers = append(headers, n.String())
	}
	headers = append(headers, "target", "limits_match")

	s := Sheet{Name: "Training", Headers: headers}
	for _, ex := range examples {
		row := []interface{}{ex.Vector.Test.Name, ex.Vector.Test.Number}
		for _, n := range all {
			if v, ok := ex.Vector.Get(n); ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		row = append(row, ex.Assessment.Label.String(), ex.Assessment.LimitsMatch)
		s.Rows = append(s.Rows, row)
	}
	return s
}

// WriteTrainingSet writes labeled examples to an XLSX or CSV file
func WriteTrainingSet(path string, examples []labeling.Example) error {
	if err := Write(path, TrainingSheet(examples)); err != nil {
		return fmt.Errorf("writing training set to %s: %w", path, err)
	}
	return nil
}
