package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountFor_ThresholdExactness(t *testing.T) {
	tests := []struct {
		samples int
		want    float64
	}{
		{1, 0},
		{9, 0},
		{10, 0.10},
		{49, 0.10},
		{50, 0.15},
		{99, 0.15},
		{100, 0.20},
		{499, 0.20},
		{500, 0.25},
		{999, 0.25},
		{1000, 0.30},
		{5000, 0.30},
	}
	for _, tt := range tests {
		if got := DiscountFor(tt.samples); got != tt.want {
			t.Errorf("DiscountFor(%d) = %.2f, want %.2f", tt.samples, got, tt.want)
		}
	}
}

func TestDiscountFor_Monotonicity(t *testing.T) {
	// Discounted cost must be non-increasing in sample count for a fixed base
	// cost, and strictly decrease at every tier crossing.
	const base = 1000.0
	prevRate := -1.0
	for n := 1; n <= 1100; n++ {
		rate := DiscountFor(n)
		if rate < prevRate {
			t.Fatalf("discount rate decreased at %d samples: %.2f -> %.2f", n, prevRate, rate)
		}
		prevRate = rate
	}
	for _, crossing := range []int{10, 50, 100, 500, 1000} {
		below := base * (1 - DiscountFor(crossing-1))
		at := base * (1 - DiscountFor(crossing))
		if at >= below {
			t.Errorf("discounted cost must strictly drop at %d samples: %.2f -> %.2f", crossing, below, at)
		}
	}
}

func TestQuoteBatch_ConcreteScenario(t *testing.T) {
	// GIVEN 100 samples at a $5,000 pre-discount total
	q := QuoteBatch(5000, 100, BatchPriorityNormal)

	// THEN the 20% tier applies
	assert.Equal(t, 0.20, q.DiscountRate)
	assert.InDelta(t, 4000, q.DiscountedCost, 1e-9)
	assert.InDelta(t, 1000, q.Savings, 1e-9)
	assert.InDelta(t, 40, q.PerSample, 1e-9)
	assert.Equal(t, 50, q.Parallelism)
}

func TestParallelismFor(t *testing.T) {
	tests := []struct {
		samples  int
		priority BatchPriority
		want     int
	}{
		{3, BatchPriorityNormal, 3},
		{9, BatchPriorityNormal, 9},
		{10, BatchPriorityNormal, 10},
		{49, BatchPriorityNormal, 10},
		{50, BatchPriorityNormal, 20},
		{99, BatchPriorityNormal, 20},
		{100, BatchPriorityNormal, 50},
		{499, BatchPriorityNormal, 50},
		{500, BatchPriorityNormal, 100},
		{10000, BatchPriorityNormal, 100},
		// high doubles, capped at 200
		{10, BatchPriorityHigh, 20},
		{500, BatchPriorityHigh, 200},
		{10000, BatchPriorityHigh, 200},
		// low halves, floored at 5
		{500, BatchPriorityLow, 50},
		{10, BatchPriorityLow, 5},
		{3, BatchPriorityLow, 5},
		// absent priority behaves like normal
		{100, "", 50},
	}
	for _, tt := range tests {
		if got := ParallelismFor(tt.samples, tt.priority); got != tt.want {
			t.Errorf("ParallelismFor(%d, %q) = %d, want %d", tt.samples, tt.priority, got, tt.want)
		}
	}
}

func TestNextDiscountThreshold(t *testing.T) {
	tests := []struct {
		samples int
		want    int
	}{
		{1, 10},
		{9, 10},
		{10, 50},
		{72, 100},
		{400, 500},
		{999, 1000},
		{1000, 0},
	}
	for _, tt := range tests {
		if got := NextDiscountThreshold(tt.samples); got != tt.want {
			t.Errorf("NextDiscountThreshold(%d) = %d, want %d", tt.samples, got, tt.want)
		}
	}
}

func TestPerSampleCost(t *testing.T) {
	assert.InDelta(t, 12.5, PerSampleCost(1250, 100), 1e-9)
	assert.Equal(t, 0.0, PerSampleCost(1250, 0))
}

func TestParseBatchPriority(t *testing.T) {
	got, err := ParseBatchPriority("")
	assert.NoError(t, err)
	assert.Equal(t, BatchPriorityNormal, got)

	got, err = ParseBatchPriority("high")
	assert.NoError(t, err)
	assert.Equal(t, BatchPriorityHigh, got)

	_, err = ParseBatchPriority("urgent")
	assert.Error(t, err)
}
