package market

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// RoutingOptions constrains a single-provider selection.
// Zero values mean "unset". MaxDistanceKm is only applied when CallerCoord is
// known; without a caller location the distance filter is skipped, not failed.
type RoutingOptions struct {
	Strategy               Strategy
	MaxCost                float64
	MinQuality             float64
	MaxDistanceKm          float64
	CallerCoord            *Coordinate
	PreferredLocations     []string
	ExcludeLabs            []string
	RequiredCertifications []string
	Fallbacks              []FallbackLab
}

// RoutedAlternative is one non-primary candidate that passed every filter.
type RoutedAlternative struct {
	Lab           *Lab
	Score         float64
	EstimatedCost float64
}

// Selection is the router's answer: exactly one lab plus the evidence behind
// the pick. EstimatedCost is the synthetic comparison workload (base rate
// scaled to 50 units, 10 compute units, one AI request), not an invoice.
type Selection struct {
	Lab           *Lab
	Score         float64
	Strategy      Strategy
	Reasoning     string
	EstimatedCost float64
	ETA           string
	Alternatives  []RoutedAlternative
}

// Router picks exactly one provider for a single-unit request under a named
// strategy. Pure computation over the catalog; safe for concurrent use.
type Router struct {
	catalog *Catalog
}

// NewRouter creates a Router over the given catalog.
func NewRouter(c *Catalog) *Router {
	return &Router{catalog: c}
}

// estimatedRouteCost is the fixed synthetic workload used to compare labs:
// 50 instrument units, 10 compute units, one AI request.
func estimatedRouteCost(lab *Lab, kind InstrumentKind) float64 {
	p := lab.Pricing.Instruments[kind]
	return p.BaseRate*50 + lab.Pricing.ComputeRate*10 + lab.Pricing.AIRate
}

// maxRoutedAlternatives caps how many non-primary candidates a Selection reports.
const maxRoutedAlternatives = 3

// SelectProvider filters and scores labs for one unit of work on the given
// instrument. Returns ErrNoProvider when nothing in the catalog supports the
// instrument, or an *InfeasibleError naming the filter stage that emptied the
// candidate set. Deterministic: ties are broken by catalog order.
func (r *Router) SelectProvider(kind InstrumentKind, opts RoutingOptions) (*Selection, error) {
	supporting := r.catalog.LabsByInstrument(kind)
	if len(supporting) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoProvider, kind)
	}

	strategy := opts.Strategy
	if strategy == "" {
		strategy = StrategyBalanced
	}
	if !IsValidStrategy(strategy) {
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidRequest, strategy)
	}

	candidates := make([]routeCandidate, 0, len(supporting))
	for _, lab := range supporting {
		if !lab.IsAvailable() {
			continue
		}
		c := routeCandidate{lab: lab, estimatedCost: estimatedRouteCost(lab, kind)}
		if opts.CallerCoord != nil {
			c.distanceKm = r.catalog.DistanceTo(lab, opts.CallerCoord.Lat, opts.CallerCoord.Lon)
			c.hasDistance = true
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return nil, &InfeasibleError{Instrument: kind, Stage: StageAvailability}
	}

	// Each filter is a pure predicate; order is fixed so the failing stage
	// reported to the caller is stable.
	filters := []struct {
		stage  string
		detail string
		keep   func(routeCandidate) bool
	}{
		{StageMaxCost, fmt.Sprintf("ceiling %.2f", opts.MaxCost), func(c routeCandidate) bool {
			return opts.MaxCost <= 0 || c.estimatedCost <= opts.MaxCost
		}},
		{StageMinQuality, fmt.Sprintf("floor %.2f", opts.MinQuality), func(c routeCandidate) bool {
			return opts.MinQuality <= 0 || c.lab.Quality >= opts.MinQuality
		}},
		{StageDistance, fmt.Sprintf("within %.0f km", opts.MaxDistanceKm), func(c routeCandidate) bool {
			return opts.MaxDistanceKm <= 0 || !c.hasDistance || c.distanceKm <= opts.MaxDistanceKm
		}},
		{StageLocation, fmt.Sprintf("countries %v", opts.PreferredLocations), func(c routeCandidate) bool {
			return len(opts.PreferredLocations) == 0 || containsString(opts.PreferredLocations, c.lab.Country)
		}},
		{StageExclusion, "", func(c routeCandidate) bool {
			return !containsString(opts.ExcludeLabs, c.lab.ID)
		}},
		{StageCertification, fmt.Sprintf("requires %v", opts.RequiredCertifications), func(c routeCandidate) bool {
			return c.lab.HasCertifications(opts.RequiredCertifications)
		}},
	}
	for _, f := range filters {
		kept := candidates[:0:len(candidates)]
		for _, c := range candidates {
			if f.keep(c) {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			return nil, &InfeasibleError{Instrument: kind, Stage: f.stage, Detail: f.detail}
		}
		candidates = kept
	}

	score := strategyScorer(strategy)
	best := 0
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = score(c)
		if scores[i] > scores[best] {
			best = i
		}
	}

	// Remaining candidates in descending score, catalog order on ties.
	order := make([]int, 0, len(candidates)-1)
	for i := range candidates {
		if i != best {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	if len(order) > maxRoutedAlternatives {
		order = order[:maxRoutedAlternatives]
	}
	alts := make([]RoutedAlternative, 0, len(order))
	for _, i := range order {
		alts = append(alts, RoutedAlternative{
			Lab:           candidates[i].lab,
			Score:         scores[i],
			EstimatedCost: candidates[i].estimatedCost,
		})
	}

	chosen := candidates[best]
	sel := &Selection{
		Lab:           chosen.lab,
		Score:         scores[best],
		Strategy:      strategy,
		Reasoning:     fmt.Sprintf("%s strategy: %s scored %.2f across %d candidates", strategy, chosen.lab.Name, scores[best], len(candidates)),
		EstimatedCost: chosen.estimatedCost,
		ETA:           ETAForLoad(chosen.lab.Load),
		Alternatives:  alts,
	}
	logrus.Debugf("routed %s to %s (score=%.2f, %d alternatives)", kind, chosen.lab.ID, sel.Score, len(alts))
	return sel, nil
}

// TryFallback walks the caller-supplied fallback list in ascending rank order
// and returns the first lab that still supports the instrument and is
// available. Invoked by callers only after SelectProvider has failed; it is
// not attempted automatically.
func (r *Router) TryFallback(kind InstrumentKind, opts RoutingOptions) (*Lab, error) {
	if len(opts.Fallbacks) == 0 {
		return nil, ErrFallbackExhausted
	}
	ordered := make([]FallbackLab, len(opts.Fallbacks))
	copy(ordered, opts.Fallbacks)
	sort.SliceStable(ordered, func(a, b int) bool { return ordered[a].Rank < ordered[b].Rank })
	for _, fb := range ordered {
		lab, ok := r.catalog.LabByID(fb.LabID)
		if !ok {
			logrus.Warnf("fallback list names unknown lab %q", fb.LabID)
			continue
		}
		if lab.Supports(kind) && lab.IsAvailable() {
			return lab, nil
		}
	}
	return nil, ErrFallbackExhausted
}
