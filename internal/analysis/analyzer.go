package analysis

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"distsim/domain/core"
	"distsim/domain/features"
	"distsim/domain/similarity"
	"distsim/internal"
	"distsim/internal/classifier"
	"distsim/internal/descriptive"
	"distsim/internal/extraction"
	"distsim/internal/fallback"
	"distsim/internal/metrics"
	"distsim/internal/sampling"
	"distsim/ports"

	"golang.org/x/sync/errgroup"
)

// Options configures an Analyzer. Zero values pick the defaults.
type Options struct {
	SampleSize int
	Workers    int
	Seed       int64
	Streams    ports.RNGPort
	Metrics    *metrics.Metrics
	Logger     *internal.Logger
}

// Analyzer compares input measurement tables against reference tables test by
// test. It is safe for concurrent use.
type Analyzer struct {
	classifier *classifier.Classifier
	rules      *fallback.Classifier
	sampler    *sampling.Sampler
	extractor  *extraction.Extractor
	streams    ports.RNGPort
	workers    int
	metrics    *metrics.Metrics
	logger     *internal.Logger
}

// NewAnalyzer creates an analyzer. c may be nil, in which case every test is
// labeled by the rule-based fallback.
func NewAnalyzer(c *classifier.Classifier, opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	streams := opts.Streams
	if streams == nil {
		streams = sampling.NewSeededStreams(opts.Seed)
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New(nil)
	}
	return &Analyzer{
		classifier: c,
		rules:      fallback.NewClassifier(),
		sampler:    sampling.NewSampler(opts.SampleSize, logger),
		extractor:  extraction.NewExtractor(logger),
		streams:    streams,
		workers:    workers,
		metrics:    m,
		logger:     logger,
	}
}

// Request selects what Analyze compares
type Request struct {
	Input     ports.MeasurementTable
	Reference ports.MeasurementTable

	// Tests are report-facing test names; nil means every input test
	Tests []string

	// Sensitivity is clipped to [0, 1]
	Sensitivity float64

	// ModelVersion switches the classifier before the run; "" keeps the active model
	ModelVersion string

	// RunID labels the results table; empty assigns a fresh one
	RunID core.RunID
}

// Analyze produces one row per requested test, in request order. Per-test
// failures are recorded on their rows; the only error returned for a
// well-formed request is ErrMalformedTable, or the context error when ctx is
// cancelled mid-run.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*ResultTable, error) {
	if err := validateTables(req.Input, req.Reference); err != nil {
		return nil, err
	}
	sensitivity := descriptive.Clip(req.Sensitivity, 0, 1)

	names := req.Tests
	if names == nil {
		for _, t := range req.Input.Tests() {
			names = append(names, t.Name)
		}
	}

	runID := req.RunID
	if runID.IsEmpty() {
		runID = core.NewRunID()
	}

	artifact := a.activeArtifact(req.ModelVersion)
	table := &ResultTable{
		RunID:        runID,
		CreatedAt:    time.Now().UTC(),
		Sensitivity:  sensitivity,
		ModelVersion: similarity.RuleBasedVersion,
		Rows:         make([]ResultRow, len(names)),
	}
	if artifact != nil {
		table.ModelVersion = artifact.Version
	}
	a.logger.Info("Run %s: analyzing %d tests at sensitivity %.2f with %s", table.RunID, len(names), sensitivity, table.ModelVersion)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			table.Rows[i] = a.analyzeTest(req, name, sensitivity, artifact)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.metrics.RunsTotal.Inc()
	ml, fb, none := table.Counts()
	a.logger.Info("Run %s complete: %d ml, %d rule-based, %d unlabeled", table.RunID, ml, fb, none)
	return table, nil
}

func validateTables(input, reference ports.MeasurementTable) error {
	if input == nil || reference == nil {
		return fmt.Errorf("%w: input and reference tables are required", core.ErrMalformedTable)
	}
	if len(input.Tests()) == 0 {
		return fmt.Errorf("%w: input table has no test columns", core.ErrMalformedTable)
	}
	if len(reference.Tests()) == 0 {
		return fmt.Errorf("%w: reference table has no test columns", core.ErrMalformedTable)
	}
	return nil
}

// activeArtifact switches the classifier to version if requested and returns
// the snapshot every worker of the run shares, or nil for rule-based runs.
func (a *Analyzer) activeArtifact(version string) *classifier.Artifact {
	if a.classifier == nil {
		return nil
	}
	if err := a.classifier.EnsureVersion(version); err != nil {
		a.metrics.ModelLoadErrors.Inc()
		a.logger.Warn("No trained model available, using rule-based classification: %v", err)
		return nil
	}
	return a.classifier.Artifact()
}

// analyzeTest never panics into the pool; a panic becomes an unlabeled row
func (a *Analyzer) analyzeTest(req Request, name string, sensitivity float64, artifact *classifier.Artifact) (row ResultRow) {
	start := time.Now()
	test := similarity.TestIdentity{Name: name}
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Test %s failed: %v", test, r)
			row = identityRow(test, sensitivity, fmt.Errorf("analysis of %s panicked: %v", name, r))
			a.metrics.ObservePrediction(metrics.PathNone)
		}
		a.metrics.ObserveTest(start)
	}()

	inTest, ok := req.Input.LookupTest(name)
	if !ok {
		return a.absent(test, sensitivity, similarity.SourceInput)
	}
	test = inTest
	refTest, ok := req.Reference.LookupTest(name)
	if !ok {
		return a.absent(test, sensitivity, similarity.SourceReference)
	}

	inRaw, ok := req.Input.Column(inTest.Number)
	if !ok {
		return a.absent(test, sensitivity, similarity.SourceInput)
	}
	refRaw, ok := req.Reference.Column(refTest.Number)
	if !ok {
		return a.absent(test, sensitivity, similarity.SourceReference)
	}
	inClean := descriptive.DropNaN(inRaw)
	refClean := descriptive.DropNaN(refRaw)
	if len(inClean) == 0 {
		return a.absent(test, sensitivity, similarity.SourceInput)
	}
	if len(refClean) == 0 {
		return a.absent(test, sensitivity, similarity.SourceReference)
	}

	inSample := a.sampler.SampleSeries(inClean, a.streams.Stream(inTest.Number+"/input"))
	refSample := a.sampler.SampleSeries(refClean, a.streams.Stream(refTest.Number+"/reference"))

	vector, err := a.extractor.Extract(test, inSample, refSample)
	if err != nil {
		a.logger.Warn("Skipping statistics for %s: %v", test, err)
		if core.IsDataAbsent(err) {
			a.metrics.DataAbsent.Inc()
		}
		a.metrics.ObservePrediction(metrics.PathNone)
		return identityRow(test, sensitivity, err)
	}

	row = ResultRow{
		Test:                 test,
		Module:               ModuleFor(test.Number),
		Sensitivity:          sensitivity,
		Outcome:              a.classify(vector, sensitivity, artifact),
		Describe:             describe(inSample),
		PercentilesInput:     percentiles(inSample),
		PercentilesReference: percentiles(refSample),
		Features:             &vector,
		InputSample:          inSample,
		ReferenceSample:      refSample,
	}
	row.LSLInput, row.USLInput = req.Input.Limits(inTest.Number)
	row.LSLReference, row.USLReference = req.Reference.Limits(refTest.Number)
	row.Cpk = Cpk(inClean, row.LSLReference, row.USLReference)
	row.Yield = Yield(inClean, row.LSLReference, row.USLReference)
	return row
}

func (a *Analyzer) absent(test similarity.TestIdentity, sensitivity float64, side similarity.Source) ResultRow {
	err := core.NewDataAbsentError(test.Name, string(side))
	a.logger.Warn("%v", err)
	a.metrics.DataAbsent.Inc()
	a.metrics.ObservePrediction(metrics.PathNone)
	return identityRow(test, sensitivity, err)
}

// classify uses the model snapshot when there is one and falls back to the
// rules on any model failure for this test only
func (a *Analyzer) classify(v features.Vector, sensitivity float64, artifact *classifier.Artifact) Outcome {
	cause := error(core.ErrModelUnavailable)
	if artifact != nil {
		labels, conf, err := artifact.PredictWithSensitivity([]features.Vector{v}, sensitivity)
		if err == nil {
			a.metrics.ObservePrediction(metrics.PathML)
			return MLResult{Label: labels[0], Confidence: conf[0], ModelVersion: artifact.Version}
		}
		switch {
		case errors.Is(err, core.ErrPrediction) || !core.IsModelError(err):
			a.logger.Error("Prediction failed for %s, using rules: %v", v.Test, err)
		default:
			a.logger.Warn("Model cannot score %s, using rules: %v", v.Test, err)
		}
		cause = err
	}

	label, conf, err := a.rules.Classify(v, sensitivity)
	if err != nil {
		a.logger.Warn("Rule-based classification failed for %s: %v", v.Test, err)
		a.metrics.ObservePrediction(metrics.PathNone)
		return Unavailable{Reason: err}
	}
	a.metrics.ObserveFallback(fallbackReason(cause))
	a.metrics.ObservePrediction(metrics.PathFallback)
	return FallbackResult{Label: label, Confidence: conf, Cause: cause}
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, core.ErrPrediction):
		return "prediction_error"
	case errors.Is(err, core.ErrFeatureMissing):
		return "feature_missing"
	default:
		return "model_unavailable"
	}
}
