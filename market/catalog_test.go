package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_RejectsInvalidSeedData(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(labs []*Lab, models []*AIModel, tiers []ComputeTier) ([]*Lab, []*AIModel, []ComputeTier)
	}{
		{"quality above 5", func(labs []*Lab, m []*AIModel, ti []ComputeTier) ([]*Lab, []*AIModel, []ComputeTier) {
			labs[0].Quality = 5.3
			return labs, m, ti
		}},
		{"load above 100", func(labs []*Lab, m []*AIModel, ti []ComputeTier) ([]*Lab, []*AIModel, []ComputeTier) {
			labs[0].Load = 120
			return labs, m, ti
		}},
		{"no instruments", func(labs []*Lab, m []*AIModel, ti []ComputeTier) ([]*Lab, []*AIModel, []ComputeTier) {
			labs[0].Pricing.Instruments = nil
			return labs, m, ti
		}},
		{"negative per-sample price", func(labs []*Lab, m []*AIModel, ti []ComputeTier) ([]*Lab, []*AIModel, []ComputeTier) {
			m[0].PerSample = -0.1
			return labs, m, ti
		}},
		{"accuracy above 100", func(labs []*Lab, m []*AIModel, ti []ComputeTier) ([]*Lab, []*AIModel, []ComputeTier) {
			m[0].Accuracy = 101
			return labs, m, ti
		}},
		{"two tiers only", func(labs []*Lab, m []*AIModel, ti []ComputeTier) ([]*Lab, []*AIModel, []ComputeTier) {
			return labs, m, ti[:2]
		}},
		{"tiers out of cost order", func(labs []*Lab, m []*AIModel, ti []ComputeTier) ([]*Lab, []*AIModel, []ComputeTier) {
			ti[0], ti[2] = ti[2], ti[0]
			return labs, m, ti
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labs := []*Lab{
				testLab("alpha", "US", 40, 4.0, 20, "6h"),
			}
			l, m, ti := tt.mutate(labs, testModels(), testTiers())
			_, err := NewCatalog(l, m, ti)
			assert.Error(t, err)
		})
	}
}

func TestCatalog_AvailableLabs_CongestionCeiling(t *testing.T) {
	// GIVEN labs at loads straddling the 90% congestion ceiling
	labs := []*Lab{
		testLab("ok", "US", 40, 4.0, 89.9, "6h"),
		testLab("congested", "US", 40, 4.0, 90, "6h"),
		testLab("dark", "US", 40, 4.0, 10, "6h"),
	}
	labs[2].Availability = 0
	c, err := NewCatalog(labs, testModels(), testTiers())
	require.NoError(t, err)

	// WHEN listing available labs
	got := c.AvailableLabs(InstrumentDNASequencer)

	// THEN only the sub-ceiling, available lab remains
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].ID)
}

func TestCatalog_LabsByInstrument(t *testing.T) {
	c := testCatalog()
	assert.Len(t, c.LabsByInstrument(InstrumentDNASequencer), 3)
	assert.Empty(t, c.LabsByInstrument(InstrumentNMRSpectrometer))
}

func TestCatalog_DistanceTo(t *testing.T) {
	lab := testLab("coord", "US", 40, 4.0, 20, "6h")
	lab.Coord = &Coordinate{Lat: 42.3601, Lon: -71.0589} // Boston
	noCoord := testLab("nocoord", "US", 40, 4.0, 20, "6h")
	c, err := NewCatalog([]*Lab{lab, noCoord}, testModels(), testTiers())
	require.NoError(t, err)

	// Boston to New York is roughly 306 km great-circle.
	d := c.DistanceTo(lab, 40.7128, -74.0060)
	assert.InDelta(t, 306, d, 5)

	// Zero distance to itself.
	assert.InDelta(t, 0, c.DistanceTo(lab, 42.3601, -71.0589), 1e-9)

	// Missing coordinates report +Inf, not an error.
	assert.True(t, math.IsInf(c.DistanceTo(noCoord, 40.7128, -74.0060), 1))
}

func TestCatalog_UpdateLabLoad(t *testing.T) {
	c := testCatalog()

	require.NoError(t, c.UpdateLabLoad("alpha", 95))
	lab, ok := c.LabByID("alpha")
	require.True(t, ok)
	assert.Equal(t, 95.0, lab.Load)
	assert.False(t, lab.IsAvailable(), "95%% load must push the lab over the congestion ceiling")

	assert.Error(t, c.UpdateLabLoad("alpha", 150))
	assert.Error(t, c.UpdateLabLoad("missing", 10))
}

func TestDefaultCatalog_SatisfiesInvariants(t *testing.T) {
	c := DefaultCatalog()
	require.NotEmpty(t, c.Labs())
	require.NotEmpty(t, c.Models())
	require.Len(t, c.Tiers(), 3)

	for _, kind := range ValidInstrumentNames() {
		// Every seeded instrument has at least one available provider, so an
		// unconstrained request can never be infeasible.
		if len(c.LabsByInstrument(InstrumentKind(kind))) > 0 {
			assert.NotEmpty(t, c.AvailableLabs(InstrumentKind(kind)), "instrument %s", kind)
		}
	}
	for _, lab := range c.Labs() {
		for kind, p := range lab.Pricing.Instruments {
			_, err := ParseETA(p.ETA)
			assert.NoError(t, err, "lab %s instrument %s", lab.ID, kind)
		}
	}
}
