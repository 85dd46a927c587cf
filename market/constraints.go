package market

import (
	"fmt"
	"sort"
	"strings"
)

// Priority names the objective an optimization run favors.
type Priority string

const (
	PriorityCost     Priority = "cost"
	PrioritySpeed    Priority = "speed"
	PriorityQuality  Priority = "quality"
	PriorityBalanced Priority = "balanced"
)

// validPriorities maps priorities to validity. Unexported to prevent mutation.
var validPriorities = map[Priority]bool{
	PriorityCost:     true,
	PrioritySpeed:    true,
	PriorityQuality:  true,
	PriorityBalanced: true,
}

// IsValidPriority returns true if p is a recognized priority.
func IsValidPriority(p Priority) bool { return validPriorities[p] }

// ValidPriorityNames returns sorted valid priority names.
func ValidPriorityNames() []string {
	names := make([]string, 0, len(validPriorities))
	for p := range validPriorities {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}

// ParsePriority parses a user-supplied priority name. Empty input defaults to
// balanced.
func ParsePriority(s string) (Priority, error) {
	if strings.TrimSpace(s) == "" {
		return PriorityBalanced, nil
	}
	p := Priority(strings.TrimSpace(s))
	if !IsValidPriority(p) {
		return "", fmt.Errorf("unknown priority %q; valid: %s", s, strings.Join(ValidPriorityNames(), ", "))
	}
	return p, nil
}

// FallbackLab is one entry of a caller-supplied ranked fallback list.
// Lower Rank is tried first.
type FallbackLab struct {
	LabID string
	Rank  int
}

// Constraints is the user-supplied constraint set for an optimization run.
// Zero values mean "unset": MaxCost 0 imposes no ceiling, MinQuality 0 no
// floor, empty lists no restriction. MaxTime uses the compact duration form
// of ParseETA and is a filtering/reporting input, not an enforced cutoff.
type Constraints struct {
	Priority               Priority
	MaxCost                float64
	MinQuality             float64
	MaxTime                string
	PreferredLocations     []string
	RequiredCertifications []string
	ExcludeLabs            []string
	Fallbacks              []FallbackLab
}

// withDefaults returns the constraints with an explicit priority.
func (c Constraints) withDefaults() Constraints {
	if c.Priority == "" {
		c.Priority = PriorityBalanced
	}
	return c
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
