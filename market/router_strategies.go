package market

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Strategy names a routing scoring strategy.
type Strategy string

const (
	StrategyCostOptimized  Strategy = "cost-optimized"
	StrategyFastest        Strategy = "fastest"
	StrategyHighestQuality Strategy = "highest-quality"
	StrategyNearest        Strategy = "nearest"
	StrategyBalanced       Strategy = "balanced"
)

// validStrategies maps strategy names to validity. Unexported to prevent mutation.
var validStrategies = map[Strategy]bool{
	StrategyCostOptimized:  true,
	StrategyFastest:        true,
	StrategyHighestQuality: true,
	StrategyNearest:        true,
	StrategyBalanced:       true,
}

// IsValidStrategy returns true if s is a recognized routing strategy.
func IsValidStrategy(s Strategy) bool { return validStrategies[s] }

// ValidStrategyNames returns sorted valid strategy names.
func ValidStrategyNames() []string {
	names := make([]string, 0, len(validStrategies))
	for s := range validStrategies {
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}

// ParseStrategy parses a user-supplied strategy name. Empty input defaults to
// balanced.
func ParseStrategy(s string) (Strategy, error) {
	if strings.TrimSpace(s) == "" {
		return StrategyBalanced, nil
	}
	strat := Strategy(strings.TrimSpace(s))
	if !IsValidStrategy(strat) {
		return "", fmt.Errorf("unknown strategy %q; valid: %s", s, strings.Join(ValidStrategyNames(), ", "))
	}
	return strat, nil
}

// routeCandidate is one lab under evaluation, with the derived quantities the
// strategy formulas consume.
type routeCandidate struct {
	lab           *Lab
	estimatedCost float64
	distanceKm    float64
	hasDistance   bool
}

// strategyFunc scores a candidate; higher is better. The constants below are
// intentionally unnormalized (mixed cost/load/uptime magnitudes) and must not
// change without revisiting every ranking test.
type strategyFunc func(c routeCandidate) float64

func scoreCostOptimized(c routeCandidate) float64 {
	return 100 - c.estimatedCost/2
}

func scoreFastest(c routeCandidate) float64 {
	return 0.7*(100-c.lab.Load) + 0.3*c.lab.Uptime
}

func scoreHighestQuality(c routeCandidate) float64 {
	return c.lab.Quality * 20
}

func scoreNearest(c routeCandidate) float64 {
	if !c.hasDistance {
		return 50
	}
	return math.Max(0, 100-c.distanceKm/100)
}

func scoreBalanced(c routeCandidate) float64 {
	availabilityBlend := 0.5*(100-c.lab.Load) + 0.5*c.lab.Availability
	return 0.3*scoreCostOptimized(c) + 0.3*scoreHighestQuality(c) +
		0.2*availabilityBlend + 0.2*c.lab.Uptime
}

// strategyScorer returns the scoring function for a validated strategy.
// Panics on unknown names; ParseStrategy is the validation gate.
func strategyScorer(s Strategy) strategyFunc {
	switch s {
	case StrategyCostOptimized:
		return scoreCostOptimized
	case StrategyFastest:
		return scoreFastest
	case StrategyHighestQuality:
		return scoreHighestQuality
	case StrategyNearest:
		return scoreNearest
	case StrategyBalanced:
		return scoreBalanced
	default:
		panic(fmt.Sprintf("unknown strategy %q", s))
	}
}
