package labeling

import (
	"fmt"

	"distsim/domain/core"
	"distsim/domain/features"
	"distsim/domain/measurement"
	"distsim/internal"
	"distsim/internal/extraction"
	"distsim/internal/sampling"
	"distsim/ports"
)

// Example is one labeled training row
type Example struct {
	Vector     features.Vector
	Assessment Assessment
}

// Builder turns a pair of measurement tables into labeled training rows
type Builder struct {
	sampler   *sampling.Sampler
	extractor *extraction.Extractor
	streams   ports.RNGPort
	logger    *internal.Logger
}

// NewBuilder creates a training-set builder
func NewBuilder(sampler *sampling.Sampler, streams ports.RNGPort, logger *internal.Logger) *Builder {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Builder{
		sampler:   sampler,
		extractor: extraction.NewExtractor(logger),
		streams:   streams,
		logger:    logger,
	}
}

// Build labels every input test that the reference table also carries, in
// input column order. Tests without usable data on both sides are skipped.
func (b *Builder) Build(input, reference ports.MeasurementTable) ([]Example, error) {
	if input == nil || reference == nil {
		return nil, fmt.Errorf("%w: input and reference tables are required", core.ErrMalformedTable)
	}

	var examples []Example
	for _, test := range input.Tests() {
		refTest, ok := reference.LookupTest(test.Name)
		if !ok {
			b.logger.Debug("Test %s not in reference, skipping", test.Name)
			continue
		}
		inSeries, _ := input.Column(test.Number)
		refSeries, _ := reference.Column(refTest.Number)

		in := b.sampler.SampleSeries(inSeries, b.streams.Stream(test.Number+"/input"))
		ref := b.sampler.SampleSeries(refSeries, b.streams.Stream(test.Number+"/reference"))

		vector, err := b.extractor.Extract(test, in, ref)
		if err != nil {
			b.logger.Warn("Skipping %s: %v", test, err)
			continue
		}

		inLSL, inUSL := input.Limits(test.Number)
		refLSL, refUSL := reference.Limits(refTest.Number)
		assessment, err := Assess(vector,
			measurement.Limits{LSL: inLSL, USL: inUSL},
			measurement.Limits{LSL: refLSL, USL: refUSL})
		if err != nil {
			b.logger.Warn("Cannot label %s: %v", test, err)
			continue
		}
		examples = append(examples, Example{Vector: vector, Assessment: assessment})
	}

	b.logger.Info("Labeled %d of %d tests", len(examples), len(input.Tests()))
	return examples, nil
}
