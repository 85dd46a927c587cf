package market

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionSimulator_DeterministicForKey(t *testing.T) {
	// GIVEN two simulators built from the same key
	lab := testLab("alpha", "US", 40, 4.0, 20, "6h")
	a := NewExecutionSimulator(SimKey(7), 0, 0)
	b := NewExecutionSimulator(SimKey(7), 0, 0)

	// WHEN both fabricate the same run
	runA, err := a.Execute(context.Background(), lab, InstrumentDNASequencer, 16)
	require.NoError(t, err)
	runB, err := b.Execute(context.Background(), lab, InstrumentDNASequencer, 16)
	require.NoError(t, err)

	// THEN the measurement streams are identical, byte for byte
	assert.Equal(t, runA.Measurements, runB.Measurements)
	assert.Len(t, runA.Measurements, 16)
	assert.Equal(t, lab.ID, runA.LabID)
	assert.NotEqual(t, runA.RunID, runB.RunID)
}

func TestExecutionSimulator_DifferentKeysDiverge(t *testing.T) {
	lab := testLab("alpha", "US", 40, 4.0, 20, "6h")
	a := NewExecutionSimulator(SimKey(7), 0, 0)
	b := NewExecutionSimulator(SimKey(8), 0, 0)

	runA, err := a.Execute(context.Background(), lab, InstrumentDNASequencer, 16)
	require.NoError(t, err)
	runB, err := b.Execute(context.Background(), lab, InstrumentDNASequencer, 16)
	require.NoError(t, err)

	assert.NotEqual(t, runA.Measurements, runB.Measurements)
}

func TestExecutionSimulator_ExecuteRejectsBadInput(t *testing.T) {
	lab := testLab("alpha", "US", 40, 4.0, 20, "6h")
	sim := NewExecutionSimulator(SimKey(1), 0, 0)

	_, err := sim.Execute(context.Background(), lab, InstrumentDNASequencer, 0)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	// alpha only carries a dna-sequencer entry
	_, err = sim.Execute(context.Background(), lab, InstrumentMassSpectrometer, 4)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestExecutionSimulator_ProcessSampleFailureRate(t *testing.T) {
	alwaysFail := NewExecutionSimulator(SimKey(1), 0, 1.0)
	neverFail := NewExecutionSimulator(SimKey(1), 0, 0)

	for i := 0; i < 20; i++ {
		assert.Error(t, alwaysFail.ProcessSample(context.Background(), "b1", i))
		assert.NoError(t, neverFail.ProcessSample(context.Background(), "b1", i))
	}
}

func TestInterpretationSimulator_ConfidenceTracksAccuracy(t *testing.T) {
	sim := NewInterpretationSimulator(SimKey(99))
	model := testModels()[1] // m-mid, accuracy 92
	run := &InstrumentRun{RunID: "r1", LabID: "alpha", Samples: 8}

	for i := 0; i < 50; i++ {
		report := sim.Interpret(model, run)
		assert.Equal(t, model.ID, report.ModelID)
		assert.Equal(t, run.RunID, report.RunID)
		// Confidence sits in a 5-point band just below nominal accuracy.
		assert.LessOrEqual(t, report.Confidence, model.Accuracy)
		assert.GreaterOrEqual(t, report.Confidence, model.Accuracy-5)
	}
}

func TestBuildInvoice_TotalMatchesDiscountedCost(t *testing.T) {
	opt := testOptimizer()
	result, err := opt.Optimize(OptimizeRequest{
		Instrument: InstrumentDNASequencer,
		Samples:    100,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Batch)

	inv := BuildInvoice(result, 100)
	assert.InDelta(t, result.Totals.DiscountedCost, inv.Total, 1e-9)

	// 20% discount at 100 samples shows up as a negative line.
	require.Len(t, inv.Lines, 5)
	assert.Negative(t, inv.Lines[4].Amount)
	assert.InDelta(t, -result.Batch.Savings, inv.Lines[4].Amount, 1e-9)
}

func TestBuildInvoice_NoDiscountLineBelowThreshold(t *testing.T) {
	opt := testOptimizer()
	result, err := opt.Optimize(OptimizeRequest{
		Instrument: InstrumentDNASequencer,
		Samples:    5,
	})
	require.NoError(t, err)
	require.Nil(t, result.Batch)

	inv := BuildInvoice(result, 5)
	assert.Len(t, inv.Lines, 4)
	assert.InDelta(t, result.Totals.DiscountedCost, inv.Total, 1e-9)
}
