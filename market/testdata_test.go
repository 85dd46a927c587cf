package market

// Shared fixtures for the market package tests. The three dna-sequencer labs
// are priced 40/48/55 with qualities 4.0/4.5/5.0 so cost- and quality-ranked
// expectations stay easy to read.

func testLab(id, country string, cost, quality, load float64, eta string, certs ...string) *Lab {
	return &Lab{
		ID:       id,
		Name:     "Lab " + id,
		Location: country,
		Country:  country,
		Pricing: LabPricing{
			Instruments: map[InstrumentKind]InstrumentPricing{
				InstrumentDNASequencer: {BaseRate: cost, ETA: eta},
			},
			ComputeRate: 1.0,
			AIRate:      2.0,
			StorageRate: 0.02,
		},
		Quality:        quality,
		Availability:   95,
		Uptime:         99,
		Load:           load,
		Certifications: certs,
	}
}

func testTiers() []ComputeTier {
	return []ComputeTier{
		{Name: "standard", GPUs: 1, VRAMGB: 24, CostPerMs: 0.001},
		{Name: "performance", GPUs: 4, VRAMGB: 96, CostPerMs: 0.004},
		{Name: "extreme", GPUs: 8, VRAMGB: 320, CostPerMs: 0.010},
	}
}

func testModels() []*AIModel {
	return []*AIModel{
		{ID: "m-cheap", Name: "Cheap Model", PerSample: 0.10, Accuracy: 85, Specialization: "triage"},
		{ID: "m-mid", Name: "Mid Model", PerSample: 0.50, Accuracy: 92, Specialization: "genomics"},
		{ID: "m-best", Name: "Best Model", PerSample: 1.50, Accuracy: 99, Specialization: "genomics"},
	}
}

// testCatalog builds the canonical three-lab catalog used across tests.
func testCatalog() *Catalog {
	labs := []*Lab{
		testLab("alpha", "US", 40, 4.0, 20, "6h", "CLIA", "CAP"),
		testLab("beta", "DE", 48, 4.5, 50, "3h", "ISO-17025"),
		testLab("gamma", "US", 55, 5.0, 70, "2h", "CLIA", "CAP", "ISO-17025"),
	}
	c, err := NewCatalog(labs, testModels(), testTiers())
	if err != nil {
		panic(err)
	}
	return c
}

func testOptimizer() *CostOptimizer {
	opt, err := NewCostOptimizer(testCatalog())
	if err != nil {
		panic(err)
	}
	return opt
}
