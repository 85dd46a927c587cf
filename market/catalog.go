package market

import (
	"fmt"
	"math"
	"sync"
)

// Catalog is the read-only registry of labs, AI models and compute tiers.
// It is populated once at startup and never shrinks; the only mutation is the
// load-update hook used by external monitoring, which is mutex-guarded so the
// router and optimizer can read concurrently.
type Catalog struct {
	mu     sync.RWMutex
	labs   []*Lab
	models []*AIModel
	tiers  []ComputeTier

	labByID   map[string]*Lab
	modelByID map[string]*AIModel
}

// NewCatalog validates the seed data and builds a Catalog.
// Invariants enforced: each lab supports at least one instrument, quality in
// [1,5], load in [0,100]; model accuracy in [0,100] and perSample >= 0;
// exactly three compute tiers in strictly ascending cost order.
func NewCatalog(labs []*Lab, models []*AIModel, tiers []ComputeTier) (*Catalog, error) {
	c := &Catalog{
		labs:      labs,
		models:    models,
		tiers:     tiers,
		labByID:   make(map[string]*Lab, len(labs)),
		modelByID: make(map[string]*AIModel, len(models)),
	}
	for _, lab := range labs {
		if len(lab.Pricing.Instruments) == 0 {
			return nil, fmt.Errorf("lab %q supports no instruments", lab.ID)
		}
		if lab.Quality < 1 || lab.Quality > 5 {
			return nil, fmt.Errorf("lab %q quality %.2f outside [1,5]", lab.ID, lab.Quality)
		}
		if lab.Load < 0 || lab.Load > 100 {
			return nil, fmt.Errorf("lab %q load %.1f outside [0,100]", lab.ID, lab.Load)
		}
		if _, dup := c.labByID[lab.ID]; dup {
			return nil, fmt.Errorf("duplicate lab id %q", lab.ID)
		}
		c.labByID[lab.ID] = lab
	}
	for _, m := range models {
		if m.Accuracy < 0 || m.Accuracy > 100 {
			return nil, fmt.Errorf("model %q accuracy %.1f outside [0,100]", m.ID, m.Accuracy)
		}
		if m.PerSample < 0 {
			return nil, fmt.Errorf("model %q has negative per-sample price", m.ID)
		}
		if _, dup := c.modelByID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate model id %q", m.ID)
		}
		c.modelByID[m.ID] = m
	}
	if len(tiers) != 3 {
		return nil, fmt.Errorf("expected exactly 3 compute tiers, got %d", len(tiers))
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].CostPerMs <= tiers[i-1].CostPerMs {
			return nil, fmt.Errorf("compute tiers must be in strictly ascending cost order: %q (%.4f) after %q (%.4f)",
				tiers[i].Name, tiers[i].CostPerMs, tiers[i-1].Name, tiers[i-1].CostPerMs)
		}
	}
	return c, nil
}

// Labs returns all labs in catalog order.
func (c *Catalog) Labs() []*Lab {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Lab, len(c.labs))
	copy(out, c.labs)
	return out
}

// Models returns all AI models in catalog order.
func (c *Catalog) Models() []*AIModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*AIModel, len(c.models))
	copy(out, c.models)
	return out
}

// Tiers returns the compute tiers in ascending cost order.
func (c *Catalog) Tiers() []ComputeTier {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ComputeTier, len(c.tiers))
	copy(out, c.tiers)
	return out
}

// LabByID looks up a lab by identifier.
func (c *Catalog) LabByID(id string) (*Lab, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lab, ok := c.labByID[id]
	return lab, ok
}

// ModelByID looks up an AI model by identifier.
func (c *Catalog) ModelByID(id string) (*AIModel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.modelByID[id]
	return m, ok
}

// TierByName looks up a compute tier by name.
func (c *Catalog) TierByName(name string) (ComputeTier, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tiers {
		if t.Name == name {
			return t, true
		}
	}
	return ComputeTier{}, false
}

// LabsByInstrument returns labs whose supported-instrument set contains kind,
// in catalog order.
func (c *Catalog) LabsByInstrument(kind InstrumentKind) []*Lab {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*Lab
	for _, lab := range c.labs {
		if lab.Supports(kind) {
			out = append(out, lab)
		}
	}
	return out
}

// AvailableLabs returns labs supporting kind that can accept work now
// (availability > 0 and load below the congestion ceiling).
func (c *Catalog) AvailableLabs(kind InstrumentKind) []*Lab {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*Lab
	for _, lab := range c.labs {
		if lab.Supports(kind) && lab.IsAvailable() {
			out = append(out, lab)
		}
	}
	return out
}

// UpdateLabLoad is the hook external monitoring uses to feed back observed
// load. Returns an error for unknown labs or out-of-range load.
func (c *Catalog) UpdateLabLoad(id string, load float64) error {
	if load < 0 || load > 100 {
		return fmt.Errorf("load %.1f outside [0,100]", load)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	lab, ok := c.labByID[id]
	if !ok {
		return fmt.Errorf("unknown lab %q", id)
	}
	lab.Load = load
	return nil
}

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceTo returns the great-circle distance in kilometers from (lat, lon)
// to the lab, or +Inf when the lab has no recorded coordinate.
func (c *Catalog) DistanceTo(lab *Lab, lat, lon float64) float64 {
	if lab.Coord == nil {
		return math.Inf(1)
	}
	return haversineKm(lat, lon, lab.Coord.Lat, lab.Coord.Lon)
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
