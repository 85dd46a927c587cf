package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	market "github.com/ponimarevan/lab402/market"
)

// CatalogFile is the YAML schema for a catalog override file. All top-level
// sections must be listed to satisfy KnownFields(true) strict parsing.
type CatalogFile struct {
	Version string            `yaml:"version"`
	Labs    []LabEntry        `yaml:"labs"`
	Models  []ModelEntry      `yaml:"models"`
	Tiers   []TierEntry       `yaml:"tiers"`
	Notes   map[string]string `yaml:"notes"`
}

// LabEntry is one provider in the YAML catalog.
type LabEntry struct {
	ID             string                     `yaml:"id"`
	Name           string                     `yaml:"name"`
	Location       string                     `yaml:"location"`
	Country        string                     `yaml:"country"`
	Quality        float64                    `yaml:"quality"`
	Availability   float64                    `yaml:"availability"`
	Uptime         float64                    `yaml:"uptime"`
	Load           float64                    `yaml:"load"`
	Lat            *float64                   `yaml:"lat"`
	Lon            *float64                   `yaml:"lon"`
	Certifications []string                   `yaml:"certifications"`
	ComputeRate    float64                    `yaml:"compute_rate"`
	AIRate         float64                    `yaml:"ai_rate"`
	StorageRate    float64                    `yaml:"storage_rate"`
	Instruments    map[string]InstrumentEntry `yaml:"instruments"`
}

// InstrumentEntry is one per-instrument pricing row.
type InstrumentEntry struct {
	BaseRate float64 `yaml:"base_rate"`
	ETA      string  `yaml:"eta"`
}

// ModelEntry is one AI model in the YAML catalog.
type ModelEntry struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Specialization string   `yaml:"specialization"`
	PerSample      float64  `yaml:"per_sample"`
	PerToken       float64  `yaml:"per_token"`
	PerImage       float64  `yaml:"per_image"`
	Accuracy       float64  `yaml:"accuracy"`
	MinGPUs        int      `yaml:"min_gpus"`
	MinVRAMGB      int      `yaml:"min_vram_gb"`
	MinRAMGB       int      `yaml:"min_ram_gb"`
	Capabilities   []string `yaml:"capabilities"`
}

// TierEntry is one compute tier in the YAML catalog; order in the file is
// preserved and must be ascending by cost_per_ms.
type TierEntry struct {
	Name      string  `yaml:"name"`
	GPUs      int     `yaml:"gpus"`
	VRAMGB    int     `yaml:"vram_gb"`
	CostPerMs float64 `yaml:"cost_per_ms"`
}

// LoadCatalogFile reads a YAML catalog override and validates it through
// market.NewCatalog. Unknown YAML keys are rejected.
func LoadCatalogFile(path string) (*market.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var file CatalogFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return buildCatalog(file)
}

func buildCatalog(file CatalogFile) (*market.Catalog, error) {
	labs := make([]*market.Lab, 0, len(file.Labs))
	for _, e := range file.Labs {
		instruments := make(map[market.InstrumentKind]market.InstrumentPricing, len(e.Instruments))
		for name, p := range e.Instruments {
			kind, err := market.ParseInstrument(name)
			if err != nil {
				return nil, fmt.Errorf("lab %s: %w", e.ID, err)
			}
			instruments[kind] = market.InstrumentPricing{BaseRate: p.BaseRate, ETA: p.ETA}
		}
		lab := &market.Lab{
			ID:       e.ID,
			Name:     e.Name,
			Location: e.Location,
			Country:  e.Country,
			Pricing: market.LabPricing{
				Instruments: instruments,
				ComputeRate: e.ComputeRate,
				AIRate:      e.AIRate,
				StorageRate: e.StorageRate,
			},
			Quality:        e.Quality,
			Availability:   e.Availability,
			Uptime:         e.Uptime,
			Load:           e.Load,
			Certifications: e.Certifications,
		}
		if e.Lat != nil && e.Lon != nil {
			lab.Coord = &market.Coordinate{Lat: *e.Lat, Lon: *e.Lon}
		}
		labs = append(labs, lab)
	}

	models := make([]*market.AIModel, 0, len(file.Models))
	for _, e := range file.Models {
		models = append(models, &market.AIModel{
			ID:             e.ID,
			Name:           e.Name,
			Specialization: e.Specialization,
			PerSample:      e.PerSample,
			PerToken:       e.PerToken,
			PerImage:       e.PerImage,
			Accuracy:       e.Accuracy,
			MinGPUs:        e.MinGPUs,
			MinVRAMGB:      e.MinVRAMGB,
			MinRAMGB:       e.MinRAMGB,
			Capabilities:   e.Capabilities,
		})
	}

	tiers := make([]market.ComputeTier, 0, len(file.Tiers))
	for _, e := range file.Tiers {
		tiers = append(tiers, market.ComputeTier{
			Name:      e.Name,
			GPUs:      e.GPUs,
			VRAMGB:    e.VRAMGB,
			CostPerMs: e.CostPerMs,
		})
	}
	return market.NewCatalog(labs, models, tiers)
}
