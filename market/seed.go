package market

// DefaultCatalog returns the built-in seed catalog. Figures are fabricated
// but shaped like the real marketplace: instrument base rates in tens of
// dollars, AI interpretation in cents-to-dollars per sample, compute billed
// per millisecond. Tiers are listed in ascending cost order.
func DefaultCatalog() *Catalog {
	labs := []*Lab{
		{
			ID:       "lab-helix-bos",
			Name:     "Helix Genomics Boston",
			Location: "Boston, MA",
			Country:  "US",
			Pricing: LabPricing{
				Instruments: map[InstrumentKind]InstrumentPricing{
					InstrumentDNASequencer:     {BaseRate: 48, ETA: "4h"},
					InstrumentFlowCytometer:    {BaseRate: 30, ETA: "2h"},
					InstrumentMassSpectrometer: {BaseRate: 62, ETA: "6h"},
				},
				ComputeRate: 1.8,
				AIRate:      4.5,
				StorageRate: 0.02,
			},
			Quality:        4.5,
			Availability:   97,
			Uptime:         99.2,
			Load:           42,
			Coord:          &Coordinate{Lat: 42.3601, Lon: -71.0589},
			Certifications: []string{"CLIA", "CAP", "ISO-17025"},
		},
		{
			ID:       "lab-rheinland",
			Name:     "Rheinland Analytik",
			Location: "Cologne",
			Country:  "DE",
			Pricing: LabPricing{
				Instruments: map[InstrumentKind]InstrumentPricing{
					InstrumentDNASequencer:       {BaseRate: 55, ETA: "3h"},
					InstrumentNMRSpectrometer:    {BaseRate: 80, ETA: "8h"},
					InstrumentXRayDiffractometer: {BaseRate: 95, ETA: "12h"},
				},
				ComputeRate: 2.1,
				AIRate:      5.0,
				StorageRate: 0.03,
			},
			Quality:        5.0,
			Availability:   94,
			Uptime:         99.8,
			Load:           55,
			Coord:          &Coordinate{Lat: 50.9375, Lon: 6.9603},
			Certifications: []string{"ISO-17025", "GLP"},
		},
		{
			ID:       "lab-sakura",
			Name:     "Sakura BioWorks",
			Location: "Osaka",
			Country:  "JP",
			Pricing: LabPricing{
				Instruments: map[InstrumentKind]InstrumentPricing{
					InstrumentDNASequencer:       {BaseRate: 40, ETA: "6h"},
					InstrumentElectronMicroscope: {BaseRate: 120, ETA: "1d"},
					InstrumentFlowCytometer:      {BaseRate: 28, ETA: "3h"},
				},
				ComputeRate: 1.5,
				AIRate:      3.8,
				StorageRate: 0.02,
			},
			Quality:        4.0,
			Availability:   99,
			Uptime:         98.5,
			Load:           25,
			Coord:          &Coordinate{Lat: 34.6937, Lon: 135.5023},
			Certifications: []string{"ISO-17025"},
		},
		{
			ID:       "lab-thames",
			Name:     "Thames Analytical",
			Location: "Cambridge",
			Country:  "GB",
			Pricing: LabPricing{
				Instruments: map[InstrumentKind]InstrumentPricing{
					InstrumentMassSpectrometer: {BaseRate: 58, ETA: "5h"},
					InstrumentNMRSpectrometer:  {BaseRate: 72, ETA: "10h"},
				},
				ComputeRate: 2.0,
				AIRate:      4.2,
				StorageRate: 0.025,
			},
			Quality:        4.7,
			Availability:   92,
			Uptime:         99.5,
			Load:           68,
			Coord:          &Coordinate{Lat: 52.2053, Lon: 0.1218},
			Certifications: []string{"CLIA", "ISO-17025"},
		},
		{
			ID:       "lab-deccan",
			Name:     "Deccan Life Sciences",
			Location: "Hyderabad",
			Country:  "IN",
			Pricing: LabPricing{
				Instruments: map[InstrumentKind]InstrumentPricing{
					InstrumentDNASequencer:     {BaseRate: 24, ETA: "12h"},
					InstrumentMassSpectrometer: {BaseRate: 35, ETA: "1d"},
					InstrumentFlowCytometer:    {BaseRate: 18, ETA: "8h"},
				},
				ComputeRate: 0.9,
				AIRate:      2.5,
				StorageRate: 0.01,
			},
			Quality:        3.6,
			Availability:   96,
			Uptime:         97.0,
			Load:           78,
			Coord:          &Coordinate{Lat: 17.3850, Lon: 78.4867},
			Certifications: []string{"GLP"},
		},
		{
			ID:       "lab-cascadia",
			Name:     "Cascadia Proteomics",
			Location: "Seattle, WA",
			Country:  "US",
			Pricing: LabPricing{
				Instruments: map[InstrumentKind]InstrumentPricing{
					InstrumentMassSpectrometer:   {BaseRate: 50, ETA: "4h"},
					InstrumentElectronMicroscope: {BaseRate: 110, ETA: "18h"},
				},
				ComputeRate: 1.7,
				AIRate:      4.0,
				StorageRate: 0.02,
			},
			Quality:        4.3,
			Availability:   95,
			Uptime:         98.9,
			Load:           35,
			Coord:          &Coordinate{Lat: 47.6062, Lon: -122.3321},
			Certifications: []string{"CLIA", "CAP"},
		},
	}

	models := []*AIModel{
		{
			ID:             "model-variant-caller",
			Name:           "VariantCaller Pro",
			Specialization: "genomics",
			PerSample:      0.85,
			PerToken:       0.00002,
			Accuracy:       97.5,
			MinGPUs:        2,
			MinVRAMGB:      48,
			MinRAMGB:       64,
			Capabilities:   []string{"variant-calling", "annotation"},
		},
		{
			ID:             "model-specfit",
			Name:           "SpecFit",
			Specialization: "spectrometry",
			PerSample:      0.40,
			Accuracy:       93.0,
			MinGPUs:        1,
			MinVRAMGB:      24,
			MinRAMGB:       32,
			Capabilities:   []string{"peak-fitting", "compound-id"},
		},
		{
			ID:             "model-cellscope",
			Name:           "CellScope Vision",
			Specialization: "imaging",
			PerSample:      1.60,
			PerImage:       0.012,
			Accuracy:       98.2,
			MinGPUs:        4,
			MinVRAMGB:      80,
			MinRAMGB:       128,
			Capabilities:   []string{"segmentation", "morphology"},
		},
		{
			ID:             "model-quicklook",
			Name:           "QuickLook",
			Specialization: "triage",
			PerSample:      0.12,
			Accuracy:       86.0,
			MinGPUs:        1,
			MinVRAMGB:      16,
			MinRAMGB:       16,
			Capabilities:   []string{"screening"},
		},
	}

	tiers := []ComputeTier{
		{Name: "standard", GPUs: 1, VRAMGB: 24, CostPerMs: 0.0008},
		{Name: "performance", GPUs: 4, VRAMGB: 96, CostPerMs: 0.0030},
		{Name: "extreme", GPUs: 8, VRAMGB: 320, CostPerMs: 0.0110},
	}

	catalog, err := NewCatalog(labs, models, tiers)
	if err != nil {
		// The seed data is compiled in; failing validation is a programmer error.
		panic(err)
	}
	return catalog
}
