package feedback

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"distsim/internal"
)

// Verdict is a reviewer's judgement of one classification
type Verdict string

const (
	Correct   Verdict = "correct"
	Incorrect Verdict = "incorrect"
	Uncertain Verdict = "uncertain"
)

// ParseVerdict accepts a verdict case-insensitively
func ParseVerdict(s string) (Verdict, error) {
	switch v := Verdict(strings.ToLower(strings.TrimSpace(s))); v {
	case Correct, Incorrect, Uncertain:
		return v, nil
	}
	return "", fmt.Errorf("unknown feedback verdict %q", s)
}

// Record is one piece of reviewer feedback on a classified test
type Record struct {
	TestName   string
	Verdict    Verdict
	Comment    string
	Confidence float64
	CreatedAt  time.Time
}

// Policy decides when collected feedback warrants retraining
type Policy struct {
	MinFeedback        int
	ErrorRateThreshold float64
	Window             time.Duration
}

// DefaultPolicy retrains after 100 reviews or a 20% error rate over a week
func DefaultPolicy() Policy {
	return Policy{MinFeedback: 100, ErrorRateThreshold: 0.2, Window: 7 * 24 * time.Hour}
}

// Decision is the outcome of a retraining check
type Decision struct {
	Total     int
	ErrorRate float64
	Retrain   bool
	Reason    string
}

// Advisor checks feedback against a retraining policy
type Advisor struct {
	policy Policy
	now    func() time.Time
	logger *internal.Logger
}

// NewAdvisor creates an advisor evaluated against the wall clock
func NewAdvisor(policy Policy, logger *internal.Logger) *Advisor {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Advisor{policy: policy, now: time.Now, logger: logger}
}

// NeedsRetraining considers feedback created within the policy window. With
// no recent feedback the error rate is 0.
func (a *Advisor) NeedsRetraining(records []Record) Decision {
	since := a.now().Add(-a.policy.Window)

	var d Decision
	incorrect := 0
	for _, r := range records {
		if r.CreatedAt.Before(since) {
			continue
		}
		d.Total++
		if r.Verdict == Incorrect {
			incorrect++
		}
	}
	if d.Total > 0 {
		d.ErrorRate = float64(incorrect) / float64(d.Total)
	}

	switch {
	case d.Total >= a.policy.MinFeedback:
		d.Retrain = true
		d.Reason = fmt.Sprintf("%d feedback records in window (minimum %d)", d.Total, a.policy.MinFeedback)
	case d.Total > 0 && d.ErrorRate >= a.policy.ErrorRateThreshold:
		d.Retrain = true
		d.Reason = fmt.Sprintf("error rate %.1f%% at or above %.1f%%", d.ErrorRate*100, a.policy.ErrorRateThreshold*100)
	default:
		d.Reason = "feedback below retraining thresholds"
	}
	a.logger.Debug("Retraining check: %d records, error rate %.3f, retrain=%v", d.Total, d.ErrorRate, d.Retrain)
	return d
}

// VerdictStats aggregates feedback of one verdict
type VerdictStats struct {
	Verdict       Verdict
	Count         int
	AvgConfidence float64
}

// Summary aggregates all feedback by verdict
type Summary struct {
	Total     int
	ByVerdict []VerdictStats
}

// Summarize groups records by verdict, sorted by verdict name
func Summarize(records []Record) Summary {
	groups := make(map[Verdict]*VerdictStats)
	for _, r := range records {
		g, ok := groups[r.Verdict]
		if !ok {
			g = &VerdictStats{Verdict: r.Verdict}
			groups[r.Verdict] = g
		}
		g.Count++
		g.AvgConfidence += r.Confidence
	}

	s := Summary{Total: len(records)}
	for _, g := range groups {
		g.AvgConfidence /= float64(g.Count)
		s.ByVerdict = append(s.ByVerdict, *g)
	}
	sort.Slice(s.ByVerdict, func(i, j int) bool {
		return s.ByVerdict[i].Verdict < s.ByVerdict[j].Verdict
	})
	return s
}
