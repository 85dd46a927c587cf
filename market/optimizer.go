package market

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// OptimizeRequest asks the optimizer to plan a batch of homogeneous samples
// on one instrument kind under a constraint set.
type OptimizeRequest struct {
	Instrument          InstrumentKind
	Samples             int
	Constraints         Constraints
	IncludeAlternatives bool
}

// ProviderSummary is the chosen lab as reported in an OptimizationResult.
type ProviderSummary struct {
	ID             string
	Name           string
	InstrumentCost float64
	Quality        float64
	ETA            string
	Location       string
}

// ModelSummary is the chosen AI model as reported in an OptimizationResult.
type ModelSummary struct {
	ID        string
	Name      string
	PerSample float64
	Accuracy  float64
}

// TierSummary is the chosen compute tier as reported in an OptimizationResult.
type TierSummary struct {
	Name      string
	GPUs      int
	CostPerMs float64
}

// BatchDiscountSummary reports the volume discount applied to the batch.
type BatchDiscountSummary struct {
	Samples         int
	DiscountPercent float64
	Savings         float64
}

// Totals is the aggregate block of an OptimizationResult.
// AverageQuality averages the chosen lab's quality with the chosen model's
// accuracy normalized to the same 1–5 scale.
type Totals struct {
	BaseCost        float64
	DiscountedCost  float64
	TotalSavings    float64
	EstimatedTime   string
	EstimatedTimeMs int64
	AverageQuality  float64
}

// AlternativeOption is one non-primary provider × model combination, with a
// human-readable account of what differs from the primary selection.
type AlternativeOption struct {
	ProviderID     string
	ProviderName   string
	ModelID        string
	ModelName      string
	Changes        []string
	DiscountedCost float64
	AdditionalCost float64
	Quality        float64
}

// OptimizationResult is the optimizer's answer: one provider, one AI model,
// one compute tier, batch economics and ranked alternatives. A pure value
// computed fresh per request; never persisted.
type OptimizationResult struct {
	Provider     ProviderSummary
	Model        ModelSummary
	Tier         TierSummary
	Batch        *BatchDiscountSummary
	Totals       Totals
	Alternatives []AlternativeOption
	Warnings     []string
}

// CostOptimizer jointly selects provider + AI model + compute tier for a
// batch. Pure computation over the catalog; safe for concurrent use.
//
// The compute tier per priority is an explicit named mapping resolved and
// validated at construction, so catalog tier order stops being load-bearing
// after NewCostOptimizer returns.
type CostOptimizer struct {
	catalog         *Catalog
	tierForPriority map[Priority]string
}

// NewCostOptimizer builds an optimizer over the catalog. The default mapping
// assigns the cheapest tier to cost priority, the most expensive to speed,
// and the middle tier to quality and balanced; every priority must resolve to
// a defined tier or construction fails.
func NewCostOptimizer(c *Catalog) (*CostOptimizer, error) {
	tiers := c.Tiers()
	if len(tiers) != 3 {
		return nil, fmt.Errorf("cost optimizer requires exactly 3 compute tiers, got %d", len(tiers))
	}
	mapping := map[Priority]string{
		PriorityCost:     tiers[0].Name,
		PrioritySpeed:    tiers[2].Name,
		PriorityQuality:  tiers[1].Name,
		PriorityBalanced: tiers[1].Name,
	}
	for p, name := range mapping {
		if _, ok := c.TierByName(name); !ok {
			return nil, fmt.Errorf("priority %s maps to undefined tier %q", p, name)
		}
	}
	return &CostOptimizer{catalog: c, tierForPriority: mapping}, nil
}

// TierFor returns the compute tier the optimizer assigns to a priority.
func (o *CostOptimizer) TierFor(p Priority) ComputeTier {
	name := o.tierForPriority[p]
	tier, _ := o.catalog.TierByName(name)
	return tier
}

// combo is one provider × model pairing under evaluation.
type combo struct {
	lab       *Lab
	model     *AIModel
	totalCost float64
	etaMs     int64
	score     float64
}

// batchTotalCost is the optimizer's cost model for a batch: the lab's
// single-run instrument cost, the model's per-sample rate, a synthetic
// 3-second-per-sample compute charge on the chosen tier, and flat storage.
func batchTotalCost(instrumentCost, perSample float64, tier ComputeTier, samples int) float64 {
	n := float64(samples)
	return instrumentCost + perSample*n + tier.CostPerMs*computeMsPerSample*n + storageCostPerSample*n
}

func comboQuality(lab *Lab, model *AIModel) float64 {
	return (lab.Quality + model.QualityScore()) / 2
}

// Per-priority combination scores. The balanced constants (×1000, ×0.001)
// deliberately mix unnormalized cost/time/quality magnitudes; they are kept
// exactly as-is for ranking parity and isolated here by name.
func comboScoreCost(c combo) float64  { return 1 / c.totalCost }
func comboScoreSpeed(c combo) float64 { return 1 / float64(c.etaMs) }
func comboScoreQuality(c combo) float64 {
	return comboQuality(c.lab, c.model)
}
func comboScoreBalanced(c combo) float64 {
	return (comboScoreCost(c)*1000 + comboScoreSpeed(c)*0.001 + comboScoreQuality(c)) / 3
}

func comboScorer(p Priority) func(combo) float64 {
	switch p {
	case PriorityCost:
		return comboScoreCost
	case PrioritySpeed:
		return comboScoreSpeed
	case PriorityQuality:
		return comboScoreQuality
	case PriorityBalanced:
		return comboScoreBalanced
	default:
		panic(fmt.Sprintf("unknown priority %q", p))
	}
}

// maxAlternatives caps how many non-primary combinations a result reports.
const maxAlternatives = 3

// filterLabs applies the optimizer's provider filters in fixed order and
// reports the stage that emptied the set.
func (o *CostOptimizer) filterLabs(kind InstrumentKind, cons Constraints) ([]*Lab, error) {
	labs := o.catalog.LabsByInstrument(kind)
	if len(labs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoProvider, kind)
	}
	filters := []struct {
		stage string
		keep  func(*Lab) bool
	}{
		{StageMinQuality, func(l *Lab) bool {
			return cons.MinQuality <= 0 || l.Quality >= cons.MinQuality
		}},
		{StageMaxCost, func(l *Lab) bool {
			if cons.MaxCost <= 0 {
				return true
			}
			p, _ := l.InstrumentPricing(kind)
			return p.BaseRate <= cons.MaxCost
		}},
		{StageLocation, func(l *Lab) bool {
			return len(cons.PreferredLocations) == 0 || containsString(cons.PreferredLocations, l.Country)
		}},
		{StageCertification, func(l *Lab) bool {
			return l.HasCertifications(cons.RequiredCertifications)
		}},
	}
	for _, f := range filters {
		kept := labs[:0:len(labs)]
		for _, l := range labs {
			if f.keep(l) {
				kept = append(kept, l)
			}
		}
		if len(kept) == 0 {
			return nil, &InfeasibleError{Instrument: kind, Stage: f.stage}
		}
		labs = kept
	}
	return labs, nil
}

// filterModels applies the optimizer's AI-model filters.
func (o *CostOptimizer) filterModels(kind InstrumentKind, cons Constraints) ([]*AIModel, error) {
	var kept []*AIModel
	for _, m := range o.catalog.Models() {
		if cons.MaxCost > 0 && m.PerSample > cons.MaxCost {
			continue
		}
		if cons.MinQuality > 0 && m.QualityScore() < cons.MinQuality {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		return nil, &InfeasibleError{Instrument: kind, Stage: StageModels, Detail: "no AI model satisfies cost/quality constraints"}
	}
	return kept, nil
}

// Optimize plans a batch: filter providers and models, fix the compute tier
// by priority, score the full provider × model cross-product, apply the
// volume discount to the winner and rank alternatives. All-or-nothing: on
// failure no partial result is returned.
func (o *CostOptimizer) Optimize(req OptimizeRequest) (*OptimizationResult, error) {
	if req.Samples < 1 {
		return nil, fmt.Errorf("%w: sample count must be >= 1, got %d", ErrInvalidRequest, req.Samples)
	}
	cons := req.Constraints.withDefaults()
	if !IsValidPriority(cons.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidRequest, cons.Priority)
	}

	labs, err := o.filterLabs(req.Instrument, cons)
	if err != nil {
		return nil, err
	}
	models, err := o.filterModels(req.Instrument, cons)
	if err != nil {
		return nil, err
	}
	tier := o.TierFor(cons.Priority)

	var warnings []string
	combos := make([]combo, 0, len(labs)*len(models))
	for _, lab := range labs {
		pricing, _ := lab.InstrumentPricing(req.Instrument)
		etaMs, etaErr := ParseETA(pricing.ETA)
		if etaErr != nil {
			// Scored as zero for ranking parity, but never swallowed: a zero
			// ETA skews speed-based scores toward the malformed entry.
			warnings = append(warnings, fmt.Sprintf("lab %s: %v", lab.ID, etaErr))
			logrus.Warnf("lab %s (%s): %v", lab.ID, req.Instrument, etaErr)
		}
		for _, m := range models {
			combos = append(combos, combo{
				lab:       lab,
				model:     m,
				totalCost: batchTotalCost(pricing.BaseRate, m.PerSample, tier, req.Samples),
				etaMs:     etaMs,
			})
		}
	}

	score := comboScorer(cons.Priority)
	for i := range combos {
		combos[i].score = score(combos[i])
	}
	sort.SliceStable(combos, func(a, b int) bool { return combos[a].score > combos[b].score })

	best := combos[0]
	rate := DiscountFor(req.Samples)
	discounted := best.totalCost * (1 - rate)
	bestPricing, _ := best.lab.InstrumentPricing(req.Instrument)

	result := &OptimizationResult{
		Provider: ProviderSummary{
			ID:             best.lab.ID,
			Name:           best.lab.Name,
			InstrumentCost: bestPricing.BaseRate,
			Quality:        best.lab.Quality,
			ETA:            bestPricing.ETA,
			Location:       best.lab.Location,
		},
		Model: ModelSummary{
			ID:        best.model.ID,
			Name:      best.model.Name,
			PerSample: best.model.PerSample,
			Accuracy:  best.model.Accuracy,
		},
		Tier: TierSummary{
			Name:      tier.Name,
			GPUs:      tier.GPUs,
			CostPerMs: tier.CostPerMs,
		},
		Totals: Totals{
			BaseCost:        best.totalCost,
			DiscountedCost:  discounted,
			TotalSavings:    best.totalCost * rate,
			EstimatedTime:   bestPricing.ETA,
			EstimatedTimeMs: best.etaMs,
			AverageQuality:  comboQuality(best.lab, best.model),
		},
		Warnings: warnings,
	}
	if rate > 0 {
		result.Batch = &BatchDiscountSummary{
			Samples:         req.Samples,
			DiscountPercent: rate * 100,
			Savings:         best.totalCost * rate,
		}
	}

	if req.IncludeAlternatives {
		for _, alt := range combos[1:] {
			if len(result.Alternatives) == maxAlternatives {
				break
			}
			var changes []string
			if alt.lab.ID != best.lab.ID {
				changes = append(changes, fmt.Sprintf("provider: %s instead of %s", alt.lab.Name, best.lab.Name))
			}
			if alt.model.ID != best.model.ID {
				changes = append(changes, fmt.Sprintf("model: %s instead of %s", alt.model.Name, best.model.Name))
			}
			altDiscounted := alt.totalCost * (1 - rate)
			result.Alternatives = append(result.Alternatives, AlternativeOption{
				ProviderID:     alt.lab.ID,
				ProviderName:   alt.lab.Name,
				ModelID:        alt.model.ID,
				ModelName:      alt.model.Name,
				Changes:        changes,
				DiscountedCost: altDiscounted,
				AdditionalCost: altDiscounted - discounted,
				Quality:        comboQuality(alt.lab, alt.model),
			})
		}
	}

	logrus.Debugf("optimized %s x%d: lab=%s model=%s tier=%s cost=%.2f (discounted %.2f)",
		req.Instrument, req.Samples, best.lab.ID, best.model.ID, tier.Name, best.totalCost, discounted)
	return result, nil
}
