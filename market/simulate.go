package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"
)

// CapabilityChecker gates which instrument kinds a caller may route or
// optimize for. The router and optimizer assume the check has already passed;
// this interface exists so an SDK embedding can plug in a real identity
// collaborator.
type CapabilityChecker interface {
	Allowed(caller string, kind InstrumentKind) bool
}

// AllowAll is the permissive default CapabilityChecker.
type AllowAll struct{}

// Allowed implements CapabilityChecker.
func (AllowAll) Allowed(string, InstrumentKind) bool { return true }

// InstrumentRun is the fabricated outcome of one simulated instrument run.
type InstrumentRun struct {
	RunID        string
	Instrument   InstrumentKind
	LabID        string
	Samples      int
	Measurements []float64
	Duration     time.Duration
}

// ExecutionSimulator stands in for the real instrument-execution
// collaborator: a fixed per-sample delay and normally-distributed fabricated
// measurements from a seeded, partitioned RNG. Deterministic for a given
// SimKey and call sequence.
type ExecutionSimulator struct {
	mu          sync.Mutex
	rng         *PartitionedRNG
	noise       distuv.Normal
	sampleDelay time.Duration
	failureRate float64
}

// NewExecutionSimulator creates a simulator with the given seed, per-sample
// delay and per-sample failure probability (0 disables failures).
func NewExecutionSimulator(key SimKey, sampleDelay time.Duration, failureRate float64) *ExecutionSimulator {
	rng := NewPartitionedRNG(key)
	return &ExecutionSimulator{
		rng: rng,
		noise: distuv.Normal{
			Mu:    100,
			Sigma: 12,
			Src:   rng.SourceFor(SubsystemExecution),
		},
		sampleDelay: sampleDelay,
		failureRate: failureRate,
	}
}

// Execute fabricates a full instrument run on a lab: one measurement per
// sample, with the fixed delay applied once (not per sample) so callers can
// keep simulation wall time bounded.
func (s *ExecutionSimulator) Execute(ctx context.Context, lab *Lab, kind InstrumentKind, samples int) (*InstrumentRun, error) {
	if samples < 1 {
		return nil, ErrInvalidRequest
	}
	if !lab.Supports(kind) {
		return nil, fmt.Errorf("%w: lab %s does not support %s", ErrInvalidRequest, lab.ID, kind)
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.sampleDelay):
	}
	s.mu.Lock()
	measurements := make([]float64, samples)
	for i := range measurements {
		measurements[i] = s.noise.Rand()
	}
	s.mu.Unlock()
	return &InstrumentRun{
		RunID:        uuid.NewString(),
		Instrument:   kind,
		LabID:        lab.ID,
		Samples:      samples,
		Measurements: measurements,
		Duration:     s.sampleDelay,
	}, nil
}

// ProcessSample implements SampleProcessor: fixed delay, then a coin flip
// against the configured failure rate.
func (s *ExecutionSimulator) ProcessSample(ctx context.Context, batchID string, index int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.sampleDelay):
	}
	s.mu.Lock()
	fail := s.failureRate > 0 && s.rng.ForSubsystem(SubsystemExecution).Float64() < s.failureRate
	s.mu.Unlock()
	if fail {
		return fmt.Errorf("sample %d of batch %s failed during simulated execution", index, batchID)
	}
	return nil
}

// Interpretation is the fabricated AI-interpretation report for a run.
type Interpretation struct {
	ReportID   string
	ModelID    string
	RunID      string
	Summary    string
	Confidence float64
}

// InterpretationSimulator stands in for the AI-inference collaborator.
type InterpretationSimulator struct {
	mu  sync.Mutex
	rng *PartitionedRNG
}

// NewInterpretationSimulator creates a seeded interpretation simulator.
func NewInterpretationSimulator(key SimKey) *InterpretationSimulator {
	return &InterpretationSimulator{rng: NewPartitionedRNG(key)}
}

// Interpret fabricates a report whose confidence hovers just below the
// model's nominal accuracy.
func (s *InterpretationSimulator) Interpret(model *AIModel, run *InstrumentRun) *Interpretation {
	s.mu.Lock()
	jitter := s.rng.ForSubsystem(SubsystemInterpretation).Float64() * 5
	s.mu.Unlock()
	confidence := model.Accuracy - jitter
	if confidence < 0 {
		confidence = 0
	}
	return &Interpretation{
		ReportID:   uuid.NewString(),
		ModelID:    model.ID,
		RunID:      run.RunID,
		Summary:    fmt.Sprintf("%s analysis of %d samples from %s", model.Specialization, run.Samples, run.LabID),
		Confidence: confidence,
	}
}

// InvoiceLine is one line item of a consolidated invoice.
type InvoiceLine struct {
	Description string
	Amount      float64
}

// Invoice is the consolidated bill assembled from an optimization result.
// The settlement collaborator consumes it; this SDK never moves money.
type Invoice struct {
	InvoiceID string
	Lines     []InvoiceLine
	Total     float64
}

// BuildInvoice assembles the consolidated invoice for an optimized batch.
// The total equals the optimizer's discounted cost; the discount appears as
// a negative line so the pre-discount composition stays visible.
func BuildInvoice(result *OptimizationResult, samples int) Invoice {
	n := float64(samples)
	inv := Invoice{InvoiceID: uuid.NewString()}
	add := func(desc string, amount float64) {
		inv.Lines = append(inv.Lines, InvoiceLine{Description: desc, Amount: amount})
		inv.Total += amount
	}
	add(fmt.Sprintf("instrument run at %s", result.Provider.Name), result.Provider.InstrumentCost)
	add(fmt.Sprintf("AI interpretation (%s, %d samples)", result.Model.Name, samples), result.Model.PerSample*n)
	add(fmt.Sprintf("compute (%s tier)", result.Tier.Name), result.Tier.CostPerMs*computeMsPerSample*n)
	add("storage", storageCostPerSample*n)
	if result.Batch != nil {
		add(fmt.Sprintf("volume discount (%.0f%%)", result.Batch.DiscountPercent), -result.Batch.Savings)
	}
	return inv
}
