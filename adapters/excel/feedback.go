package excel

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"distsim/internal"
	"distsim/internal/feedback"
)

// Feedback sheet columns
const (
	feedbackTestCol       = "test_name"
	feedbackTypeCol       = "feedback_type"
	feedbackCommentCol    = "comment"
	feedbackConfidenceCol = "confidence"
	feedbackCreatedCol    = "created_at"
)

var timestampLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// ReadFeedback reads reviewer feedback exported as CSV or XLSX
func ReadFeedback(path string, logger *internal.Logger) ([]feedback.Record, error) {
	data, err := NewDataReader(path, logger).ReadData()
	if err != nil {
		return nil, err
	}
	for _, col := range []string{feedbackTestCol, feedbackTypeCol, feedbackCreatedCol} {
		if !hasHeader(data, col) {
			return nil, fmt.Errorf("feedback file %s is missing column %q", path, col)
		}
	}

	records := make([]feedback.Record, 0, len(data.Rows))
	for i, row := range data.Rows {
		verdict, err := feedback.ParseVerdict(row[feedbackTypeCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		created, err := parseTimestamp(row[feedbackCreatedCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		confidence := 0.0
		if s := row[feedbackConfidenceCol]; s != "" {
			if confidence, err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("row %d: invalid confidence %q", i+2, s)
			}
		}
		records = append(records, feedback.Record{
			TestName:   row[feedbackTestCol],
			Verdict:    verdict,
			Comment:    row[feedbackCommentCol],
			Confidence: confidence,
			CreatedAt:  created,
		})
	}
	return records, nil
}

func hasHeader(data *ExcelData, name string) bool {
	for _, h := range data.Headers {
		if h == name {
			return true
		}
	}
	return false
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
