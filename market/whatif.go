package market

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ScenarioChange is the set of overrides a what-if scenario applies on top of
// a base request. Nil/empty fields inherit the base value; shallow merge only.
type ScenarioChange struct {
	Samples                *int
	Priority               *Priority
	MaxCost                *float64
	MinQuality             *float64
	MaxTime                *string
	PreferredLocations     []string
	RequiredCertifications []string
	ExcludeLabs            []string
}

// WhatIfScenario is one named variant of a base optimization request.
type WhatIfScenario struct {
	Name    string
	Changes ScenarioChange
}

// WhatIfResult pairs a scenario name with its independent optimization run.
type WhatIfResult struct {
	Name   string
	Result *OptimizationResult
	Err    error
}

// merge applies the scenario's changes over the base request.
func (ch ScenarioChange) merge(base OptimizeRequest) OptimizeRequest {
	req := base
	if ch.Samples != nil {
		req.Samples = *ch.Samples
	}
	if ch.Priority != nil {
		req.Constraints.Priority = *ch.Priority
	}
	if ch.MaxCost != nil {
		req.Constraints.MaxCost = *ch.MaxCost
	}
	if ch.MinQuality != nil {
		req.Constraints.MinQuality = *ch.MinQuality
	}
	if ch.MaxTime != nil {
		req.Constraints.MaxTime = *ch.MaxTime
	}
	if len(ch.PreferredLocations) > 0 {
		req.Constraints.PreferredLocations = ch.PreferredLocations
	}
	if len(ch.RequiredCertifications) > 0 {
		req.Constraints.RequiredCertifications = ch.RequiredCertifications
	}
	if len(ch.ExcludeLabs) > 0 {
		req.Constraints.ExcludeLabs = ch.ExcludeLabs
	}
	return req
}

// RunWhatIf re-runs Optimize once per scenario with the scenario's changes
// merged over the base request. Scenarios are independent of each other and
// of the base; failures are reported per scenario, not raised.
func (o *CostOptimizer) RunWhatIf(base OptimizeRequest, scenarios []WhatIfScenario) []WhatIfResult {
	results := make([]WhatIfResult, 0, len(scenarios))
	for _, sc := range scenarios {
		res, err := o.Optimize(sc.Changes.merge(base))
		results = append(results, WhatIfResult{Name: sc.Name, Result: res, Err: err})
	}
	return results
}

// SavingsEstimate compares the optimizer's discounted pick against a
// synthetic worst case assembled from the most expensive catalog entries.
type SavingsEstimate struct {
	WorstCase       float64
	Optimized       float64
	Absolute        float64
	Percent         float64
	Recommendations []string
}

// EstimateSavings computes the worst-case batch cost — the single most
// expensive provider for the instrument, the most expensive AI model overall
// and the most expensive compute tier, with no discount or constraint
// filtering — and reports how far below it the optimized result lands.
// By construction Absolute is never negative.
func (o *CostOptimizer) EstimateSavings(req OptimizeRequest) (*SavingsEstimate, error) {
	result, err := o.Optimize(req)
	if err != nil {
		return nil, err
	}

	labs := o.catalog.LabsByInstrument(req.Instrument)
	costs := make([]float64, 0, len(labs))
	maxInstrument := 0.0
	for _, lab := range labs {
		p, _ := lab.InstrumentPricing(req.Instrument)
		costs = append(costs, p.BaseRate)
		if p.BaseRate > maxInstrument {
			maxInstrument = p.BaseRate
		}
	}
	maxPerSample := 0.0
	for _, m := range o.catalog.Models() {
		if m.PerSample > maxPerSample {
			maxPerSample = m.PerSample
		}
	}
	tiers := o.catalog.Tiers()
	worstTier := tiers[len(tiers)-1]
	worst := batchTotalCost(maxInstrument, maxPerSample, worstTier, req.Samples)

	est := &SavingsEstimate{
		WorstCase: worst,
		Optimized: result.Totals.DiscountedCost,
		Absolute:  worst - result.Totals.DiscountedCost,
	}
	if worst > 0 {
		est.Percent = est.Absolute / worst * 100
	}

	if next := NextDiscountThreshold(req.Samples); next > 0 && req.Samples < 50 {
		est.Recommendations = append(est.Recommendations,
			fmt.Sprintf("increase batch size to %d samples to reach the next discount tier", next))
	}
	if req.Constraints.Priority == PriorityCost && result.Model.Accuracy < 95 {
		est.Recommendations = append(est.Recommendations,
			fmt.Sprintf("consider a higher-accuracy model (%s runs at %.1f%%)", result.Model.Name, result.Model.Accuracy))
	}
	if result.Totals.EstimatedTimeMs > 3_600_000 {
		est.Recommendations = append(est.Recommendations,
			fmt.Sprintf("consider a faster provider; %s estimates %s", result.Provider.Name, result.Totals.EstimatedTime))
	}
	if len(req.Constraints.PreferredLocations) == 0 {
		est.Recommendations = append(est.Recommendations,
			"specify preferred locations to keep samples close to your site")
	}
	if len(costs) > 1 {
		mean, sd := stat.MeanStdDev(costs, nil)
		if mean > 0 && sd/mean > 0.25 {
			est.Recommendations = append(est.Recommendations,
				fmt.Sprintf("provider prices for %s vary widely (mean $%.2f, σ $%.2f); comparing quotes pays off", req.Instrument, mean, sd))
		}
	}
	return est, nil
}

// PriceRow is one entry of a price-comparison table. Value carries the
// table's figure of merit (quality, accuracy or GPU count); Selected marks
// the entry the optimizer actually picked for the same request.
type PriceRow struct {
	ID       string
	Name     string
	Cost     float64
	Value    float64
	Selected bool
}

// PriceComparison holds three independent tables ranked by ascending cost.
type PriceComparison struct {
	Providers []PriceRow
	Models    []PriceRow
	Tiers     []PriceRow
}

// ComparePrices builds side-by-side price tables for every provider that
// supports the instrument, every AI model and every compute tier, marking the
// optimizer's actual selection in each.
func (o *CostOptimizer) ComparePrices(req OptimizeRequest) (*PriceComparison, error) {
	result, err := o.Optimize(req)
	if err != nil {
		return nil, err
	}
	n := float64(req.Samples)

	cmp := &PriceComparison{}
	for _, lab := range o.catalog.LabsByInstrument(req.Instrument) {
		p, _ := lab.InstrumentPricing(req.Instrument)
		cmp.Providers = append(cmp.Providers, PriceRow{
			ID:       lab.ID,
			Name:     lab.Name,
			Cost:     p.BaseRate,
			Value:    lab.Quality,
			Selected: lab.ID == result.Provider.ID,
		})
	}
	for _, m := range o.catalog.Models() {
		cmp.Models = append(cmp.Models, PriceRow{
			ID:       m.ID,
			Name:     m.Name,
			Cost:     m.PerSample * n,
			Value:    m.Accuracy,
			Selected: m.ID == result.Model.ID,
		})
	}
	for _, t := range o.catalog.Tiers() {
		cmp.Tiers = append(cmp.Tiers, PriceRow{
			ID:       t.Name,
			Name:     t.Name,
			Cost:     t.CostPerMs * computeMsPerSample * n,
			Value:    float64(t.GPUs),
			Selected: t.Name == result.Tier.Name,
		})
	}
	byCost := func(rows []PriceRow) {
		sort.SliceStable(rows, func(a, b int) bool { return rows[a].Cost < rows[b].Cost })
	}
	byCost(cmp.Providers)
	byCost(cmp.Models)
	byCost(cmp.Tiers)
	return cmp, nil
}
