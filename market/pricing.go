package market

import (
	"fmt"
	"sort"
	"strings"
)

// BatchPriority declares how urgently a batch should be dispatched. It only
// affects the parallelism factor, never pricing.
type BatchPriority string

const (
	BatchPriorityHigh   BatchPriority = "high"
	BatchPriorityNormal BatchPriority = "normal"
	BatchPriorityLow    BatchPriority = "low"
)

// discountTier is one row of the shared volume-discount table.
type discountTier struct {
	MinSamples int
	Rate       float64
}

// discountTiers is the volume-discount table shared verbatim by the cost
// optimizer and the batch scheduler. Cumulative thresholds, not additive:
// the highest matching row wins. Ordered descending so the first match wins.
var discountTiers = []discountTier{
	{1000, 0.30},
	{500, 0.25},
	{100, 0.20},
	{50, 0.15},
	{10, 0.10},
}

// DiscountFor returns the volume discount rate (0..0.30) for a sample count.
func DiscountFor(samples int) float64 {
	for _, t := range discountTiers {
		if samples >= t.MinSamples {
			return t.Rate
		}
	}
	return 0
}

// NextDiscountThreshold returns the smallest sample count above samples that
// unlocks a better discount rate, or 0 when samples already sits in the top
// tier. Used by savings recommendations.
func NextDiscountThreshold(samples int) int {
	for i := len(discountTiers) - 1; i >= 0; i-- {
		if samples < discountTiers[i].MinSamples {
			return discountTiers[i].MinSamples
		}
	}
	return 0
}

// ParallelismFor derives the batch executor's group size from sample count
// and declared priority.
func ParallelismFor(samples int, priority BatchPriority) int {
	var base int
	switch {
	case samples < 10:
		base = samples
	case samples < 50:
		base = 10
	case samples < 100:
		base = 20
	case samples < 500:
		base = 50
	default:
		base = 100
	}
	switch priority {
	case BatchPriorityHigh:
		base *= 2
		if base > 200 {
			base = 200
		}
	case BatchPriorityLow:
		base /= 2
		if base < 5 {
			base = 5
		}
	}
	return base
}

// PerSampleCost divides a discounted batch cost evenly across samples.
func PerSampleCost(discountedCost float64, samples int) float64 {
	if samples <= 0 {
		return 0
	}
	return discountedCost / float64(samples)
}

// BatchQuote is the pricing/scheduling envelope handed to the batch executor.
type BatchQuote struct {
	Samples        int
	DiscountRate   float64
	BaseCost       float64
	DiscountedCost float64
	Savings        float64
	PerSample      float64
	Parallelism    int
}

// QuoteBatch computes the full batch envelope from a pre-discount cost.
func QuoteBatch(baseCost float64, samples int, priority BatchPriority) BatchQuote {
	rate := DiscountFor(samples)
	discounted := baseCost * (1 - rate)
	return BatchQuote{
		Samples:        samples,
		DiscountRate:   rate,
		BaseCost:       baseCost,
		DiscountedCost: discounted,
		Savings:        baseCost * rate,
		PerSample:      PerSampleCost(discounted, samples),
		Parallelism:    ParallelismFor(samples, priority),
	}
}

// ParseBatchPriority parses a user-supplied batch priority. Empty input
// defaults to normal.
func ParseBatchPriority(s string) (BatchPriority, error) {
	switch BatchPriority(strings.TrimSpace(s)) {
	case "":
		return BatchPriorityNormal, nil
	case BatchPriorityHigh:
		return BatchPriorityHigh, nil
	case BatchPriorityNormal:
		return BatchPriorityNormal, nil
	case BatchPriorityLow:
		return BatchPriorityLow, nil
	default:
		names := []string{string(BatchPriorityHigh), string(BatchPriorityLow), string(BatchPriorityNormal)}
		sort.Strings(names)
		return "", fmt.Errorf("unknown batch priority %q; valid: %s", s, strings.Join(names, ", "))
	}
}
