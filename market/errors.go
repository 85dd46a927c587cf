package market

import (
	"errors"
	"fmt"
)

// ErrNoProvider reports that no lab in the catalog supports the requested
// instrument at all. Callers cannot fix this by relaxing constraints.
var ErrNoProvider = errors.New("no provider supports the requested instrument")

// ErrFallbackExhausted reports that the caller-supplied fallback list was
// absent or every listed lab is currently unavailable.
var ErrFallbackExhausted = errors.New("fallback list absent or exhausted")

// ErrInvalidRequest reports a malformed request (e.g. sample count below 1).
var ErrInvalidRequest = errors.New("invalid request")

// Filter stage names reported by InfeasibleError, in pipeline order.
const (
	StageAvailability  = "availability"
	StageMaxCost       = "max-cost"
	StageMinQuality    = "min-quality"
	StageDistance      = "max-distance"
	StageLocation      = "preferred-locations"
	StageExclusion     = "exclusions"
	StageCertification = "certifications"
	StageModels        = "ai-models"
)

// InfeasibleError reports an over-constrained selection: candidates existed,
// but the named filter stage emptied the set. Callers are expected to relax
// the corresponding constraint and retry at their own level; the router and
// optimizer never auto-relax.
type InfeasibleError struct {
	Instrument InstrumentKind
	Stage      string
	Detail     string
}

func (e *InfeasibleError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("no candidate for %s survived the %s filter", e.Instrument, e.Stage)
	}
	return fmt.Sprintf("no candidate for %s survived the %s filter: %s", e.Instrument, e.Stage, e.Detail)
}
