package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int                { return &v }
func priorityPtr(p Priority) *Priority { return &p }
func floatPtr(v float64) *float64      { return &v }

func TestRunWhatIf_MatchesDirectOptimize(t *testing.T) {
	// What-if scenarios must produce results identical to calling Optimize
	// directly with the merged arguments, in any order.
	opt := testOptimizer()
	base := OptimizeRequest{
		Instrument:  InstrumentDNASequencer,
		Samples:     20,
		Constraints: Constraints{Priority: PriorityCost},
	}
	scenarios := []WhatIfScenario{
		{Name: "bigger batch", Changes: ScenarioChange{Samples: intPtr(500)}},
		{Name: "speed instead", Changes: ScenarioChange{Priority: priorityPtr(PrioritySpeed)}},
		{Name: "quality floor", Changes: ScenarioChange{MinQuality: floatPtr(4.4)}},
	}

	results := opt.RunWhatIf(base, scenarios)
	require.Len(t, results, 3)

	directBig, err := opt.Optimize(OptimizeRequest{
		Instrument:  InstrumentDNASequencer,
		Samples:     500,
		Constraints: Constraints{Priority: PriorityCost},
	})
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	assert.Equal(t, directBig, results[0].Result)

	directSpeed, err := opt.Optimize(OptimizeRequest{
		Instrument:  InstrumentDNASequencer,
		Samples:     20,
		Constraints: Constraints{Priority: PrioritySpeed},
	})
	require.NoError(t, err)
	require.NoError(t, results[1].Err)
	assert.Equal(t, directSpeed, results[1].Result)

	directQuality, err := opt.Optimize(OptimizeRequest{
		Instrument:  InstrumentDNASequencer,
		Samples:     20,
		Constraints: Constraints{Priority: PriorityCost, MinQuality: 4.4},
	})
	require.NoError(t, err)
	require.NoError(t, results[2].Err)
	assert.Equal(t, directQuality, results[2].Result)
}

func TestRunWhatIf_ScenariosAreIndependent(t *testing.T) {
	opt := testOptimizer()
	base := OptimizeRequest{
		Instrument:  InstrumentDNASequencer,
		Samples:     20,
		Constraints: Constraints{Priority: PriorityCost},
	}
	scenarios := []WhatIfScenario{
		{Name: "impossible", Changes: ScenarioChange{MinQuality: floatPtr(5.5)}},
		{Name: "fine", Changes: ScenarioChange{Samples: intPtr(50)}},
	}
	results := opt.RunWhatIf(base, scenarios)
	require.Len(t, results, 2)

	// A failing scenario reports its own error without poisoning the next.
	assert.Error(t, results[0].Err)
	assert.Nil(t, results[0].Result)
	require.NoError(t, results[1].Err)
	assert.Equal(t, 50, results[1].Result.Batch.Samples)

	// The base request is untouched by merging.
	assert.Equal(t, 20, base.Samples)
	assert.Zero(t, base.Constraints.MinQuality)
}

func TestEstimateSavings_NonNegative(t *testing.T) {
	opt := testOptimizer()
	for _, samples := range []int{1, 9, 10, 100, 1000} {
		for _, name := range ValidPriorityNames() {
			est, err := opt.EstimateSavings(OptimizeRequest{
				Instrument:  InstrumentDNASequencer,
				Samples:     samples,
				Constraints: Constraints{Priority: Priority(name)},
			})
			require.NoError(t, err, "samples=%d priority=%s", samples, name)
			assert.GreaterOrEqual(t, est.Absolute, 0.0, "samples=%d priority=%s", samples, name)
			assert.GreaterOrEqual(t, est.WorstCase, est.Optimized, "samples=%d priority=%s", samples, name)
		}
	}
}

func TestEstimateSavings_WorstCaseComposition(t *testing.T) {
	// Worst case: $55 lab, $1.50/sample model, extreme tier, no discount.
	opt := testOptimizer()
	est, err := opt.EstimateSavings(OptimizeRequest{
		Instrument:  InstrumentDNASequencer,
		Samples:     10,
		Constraints: Constraints{Priority: PriorityCost},
	})
	require.NoError(t, err)

	want := 55.0 + 1.50*10 + 0.010*3000*10 + 0.01*10
	assert.InDelta(t, want, est.WorstCase, 1e-9)
	assert.InDelta(t, (est.WorstCase-est.Optimized)/est.WorstCase*100, est.Percent, 1e-9)
}

func TestEstimateSavings_Recommendations(t *testing.T) {
	opt := testOptimizer()

	// Small batch, no locations: both hints must appear.
	est, err := opt.EstimateSavings(OptimizeRequest{
		Instrument:  InstrumentDNASequencer,
		Samples:     5,
		Constraints: Constraints{Priority: PriorityCost},
	})
	require.NoError(t, err)
	joined := ""
	for _, r := range est.Recommendations {
		joined += r + "\n"
	}
	assert.Contains(t, joined, "batch size")
	assert.Contains(t, joined, "preferred locations")
	// Cost priority picks the 85%-accuracy model.
	assert.Contains(t, joined, "higher-accuracy")

	// Large batch with locations set drops the first two hints.
	est, err = opt.EstimateSavings(OptimizeRequest{
		Instrument:  InstrumentDNASequencer,
		Samples:     200,
		Constraints: Constraints{Priority: PriorityQuality, PreferredLocations: []string{"US", "DE"}},
	})
	require.NoError(t, err)
	for _, r := range est.Recommendations {
		assert.NotContains(t, r, "batch size")
		assert.NotContains(t, r, "preferred locations")
	}
}

func TestComparePrices_RankedAndMarked(t *testing.T) {
	// GIVEN the concrete scenario: cost priority over the 40/48/55 catalog
	opt := testOptimizer()
	cmp, err := opt.ComparePrices(OptimizeRequest{
		Instrument:  InstrumentDNASequencer,
		Samples:     3,
		Constraints: Constraints{Priority: PriorityCost},
	})
	require.NoError(t, err)

	// THEN the $40 provider sits in ascending-cost position 1, marked selected
	require.Len(t, cmp.Providers, 3)
	assert.Equal(t, "alpha", cmp.Providers[0].ID)
	assert.True(t, cmp.Providers[0].Selected)
	assert.Equal(t, 40.0, cmp.Providers[0].Cost)
	assert.Equal(t, 4.0, cmp.Providers[0].Value, "provider rows report quality as their value")

	checkTable := func(name string, rows []PriceRow) {
		selected := 0
		for i, row := range rows {
			if row.Selected {
				selected++
			}
			if i > 0 && rows[i-1].Cost > row.Cost {
				t.Errorf("%s table not in ascending cost order at row %d", name, i)
			}
		}
		if selected != 1 {
			t.Errorf("%s table must mark exactly one selected row, got %d", name, selected)
		}
	}
	checkTable("providers", cmp.Providers)
	checkTable("models", cmp.Models)
	checkTable("tiers", cmp.Tiers)

	// Model rows scale per-sample price by the batch size.
	require.Len(t, cmp.Models, 3)
	assert.InDelta(t, 0.30, cmp.Models[0].Cost, 1e-9)
	assert.Equal(t, 85.0, cmp.Models[0].Value, "model rows report accuracy as their value")

	// Tier rows cost the synthetic 3s-per-sample compute; GPU count as value.
	require.Len(t, cmp.Tiers, 3)
	assert.Equal(t, "standard", cmp.Tiers[0].ID)
	assert.InDelta(t, 0.001*3000*3, cmp.Tiers[0].Cost, 1e-9)
	assert.Equal(t, 1.0, cmp.Tiers[0].Value)
	assert.True(t, cmp.Tiers[0].Selected, "cost priority maps to the standard tier")
}
