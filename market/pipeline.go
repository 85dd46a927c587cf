package market

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// PipelineStep is one stage of a sequential analysis workflow: optimize a
// batch for an instrument, then dispatch it. Retries re-run the dispatch on
// failure (the optimization itself is deterministic and is not retried).
type PipelineStep struct {
	Name        string
	Instrument  InstrumentKind
	Samples     int
	Constraints Constraints
	Retries     int
}

// StepResult records one step's outcome.
type StepResult struct {
	Name     string
	Result   *OptimizationResult
	Batch    *BatchResult
	Attempts int
	Err      error
}

// Pipeline is an ordered sequence of steps executed one after another.
// Deliberately plain sequential workflow logic; orchestration beyond
// bounded retries belongs to a separate system.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// AddStep appends a step and returns the pipeline for chaining.
func (p *Pipeline) AddStep(step PipelineStep) *Pipeline {
	p.steps = append(p.steps, step)
	return p
}

// Steps returns the configured steps in order.
func (p *Pipeline) Steps() []PipelineStep {
	out := make([]PipelineStep, len(p.steps))
	copy(out, p.steps)
	return out
}

// Run executes the steps in order. A step failure stops the pipeline after
// recording the failed step; earlier results are returned unchanged.
func (p *Pipeline) Run(ctx context.Context, opt *CostOptimizer, exec *BatchExecutor) []StepResult {
	results := make([]StepResult, 0, len(p.steps))
	for _, step := range p.steps {
		res := StepResult{Name: step.Name}
		optimized, err := opt.Optimize(OptimizeRequest{
			Instrument:  step.Instrument,
			Samples:     step.Samples,
			Constraints: step.Constraints,
		})
		if err != nil {
			res.Err = err
			results = append(results, res)
			logrus.Warnf("pipeline step %s: optimization failed: %v", step.Name, err)
			break
		}
		res.Result = optimized

		parallelism := ParallelismFor(step.Samples, BatchPriorityNormal)
		for attempt := 0; attempt <= step.Retries; attempt++ {
			res.Attempts = attempt + 1
			batch, err := exec.Run(ctx, BatchJob{
				Instrument:  step.Instrument,
				Samples:     step.Samples,
				Parallelism: parallelism,
			})
			if err != nil {
				res.Err = err
				continue
			}
			res.Batch = batch
			if batch.Failed == 0 && !batch.Canceled {
				res.Err = nil
				break
			}
			res.Err = fmt.Errorf("batch %s finished with %d failed samples", batch.BatchID, batch.Failed)
		}
		results = append(results, res)
		if res.Err != nil {
			logrus.Warnf("pipeline step %s failed after %d attempts: %v", step.Name, res.Attempts, res.Err)
			break
		}
	}
	return results
}
