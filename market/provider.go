package market

// Coordinate is a WGS84 geocoordinate for distance-based routing.
type Coordinate struct {
	Lat float64
	Lon float64
}

// InstrumentPricing holds a lab's per-instrument base rate and turnaround
// estimate. BaseRate is both the single-unit instrument cost used by the
// optimizer and the rate the router scales into its synthetic cost estimate.
// ETA uses the compact duration form parsed by ParseETA (e.g. "2h", "45m").
type InstrumentPricing struct {
	BaseRate float64
	ETA      string
}

// LabPricing groups a lab's rates across the marketplace's billing axes.
type LabPricing struct {
	Instruments map[InstrumentKind]InstrumentPricing
	ComputeRate float64 // USD per compute unit
	AIRate      float64 // USD per AI request
	StorageRate float64 // USD per stored sample
}

// Lab is one provider in the marketplace catalog: a facility offering one or
// more instrument kinds at its own pricing, quality and availability.
// Quality is a continuous 1–5 score; Load and Availability are percentages.
// Labs are never removed during a process lifetime; only Load may be updated,
// through Catalog.UpdateLabLoad.
type Lab struct {
	ID             string
	Name           string
	Location       string
	Country        string
	Pricing        LabPricing
	Quality        float64
	Availability   float64
	Uptime         float64
	Load           float64
	Coord          *Coordinate
	Certifications []string
}

// Supports reports whether the lab offers the given instrument kind.
func (l *Lab) Supports(kind InstrumentKind) bool {
	_, ok := l.Pricing.Instruments[kind]
	return ok
}

// InstrumentPricing returns the lab's pricing entry for kind.
func (l *Lab) InstrumentPricing(kind InstrumentKind) (InstrumentPricing, bool) {
	p, ok := l.Pricing.Instruments[kind]
	return p, ok
}

// HasCertifications reports whether the lab holds every required certification.
func (l *Lab) HasCertifications(required []string) bool {
	for _, want := range required {
		found := false
		for _, have := range l.Certifications {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// congestionCeiling is the hard load percentage at or above which a lab is
// treated as unavailable regardless of its availability flag.
const congestionCeiling = 90.0

// IsAvailable reports whether the lab can accept work right now.
func (l *Lab) IsAvailable() bool {
	return l.Availability > 0 && l.Load < congestionCeiling
}

// ETAForLoad maps a lab's current load to a coarse human-readable turnaround
// band. Informational only; scoring uses the numeric load directly.
func ETAForLoad(load float64) string {
	switch {
	case load < 30:
		return "30 minutes"
	case load < 60:
		return "1-2 hours"
	case load < 80:
		return "2-4 hours"
	default:
		return "4+ hours"
	}
}
