package main

import (
	"fmt"

	"distsim/adapters/excel"
	"distsim/internal/errors"
	"distsim/internal/feedback"

	"github.com/spf13/cobra"
)

func newFeedbackCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback-check [feedback-file]",
		Short: "Summarize reviewer feedback and advise whether to retrain",
		Long: `Read exported reviewer feedback (test_name, feedback_type, comment, confidence,
created_at) and report per-verdict counts plus the retraining decision under
MIN_FEEDBACK_FOR_RETRAIN, ERROR_RATE_THRESHOLD and FEEDBACK_WINDOW.

Example: distsim feedback-check feedback.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnvironment()
			if err != nil {
				return err
			}

			records, err := excel.ReadFeedback(args[0], logger)
			if err != nil {
				return &errors.AppError{Code: errors.CodeInvalidInput, Message: "reading feedback", Cause: err}
			}

			summary := feedback.Summarize(records)
			fmt.Printf("Feedback records: %d\n", summary.Total)
			for _, v := range summary.ByVerdict {
				fmt.Printf("  %-10s %5d  avg confidence %.3f\n", v.Verdict, v.Count, v.AvgConfidence)
			}

			advisor := feedback.NewAdvisor(feedback.Policy{
				MinFeedback:        cfg.Feedback.MinFeedbackForRetrain,
				ErrorRateThreshold: cfg.Feedback.ErrorRateThreshold,
				Window:             cfg.Feedback.Window,
			}, logger)
			decision := advisor.NeedsRetraining(records)
			fmt.Printf("Window %s: %d records, error rate %.1f%%\n", cfg.Feedback.Window, decision.Total, decision.ErrorRate*100)
			if decision.Retrain {
				fmt.Printf("Retraining recommended: %s\n", decision.Reason)
			} else {
				fmt.Printf("No retraining needed: %s\n", decision.Reason)
			}
			return nil
		},
	}
	return cmd
}
