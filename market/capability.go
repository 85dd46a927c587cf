package market

// AIModel is one interpretation/analysis capability in the catalog.
// Accuracy is a 0–100 percentage; PerToken and PerImage are optional rates
// (zero when the model does not bill on that axis). Immutable after load.
type AIModel struct {
	ID             string
	Name           string
	Specialization string
	PerSample      float64
	PerToken       float64
	PerImage       float64
	Accuracy       float64
	MinGPUs        int
	MinVRAMGB      int
	MinRAMGB       int
	Capabilities   []string
}

// QualityScore normalizes the model's accuracy to the labs' 1–5 quality scale.
func (m *AIModel) QualityScore() float64 {
	return m.Accuracy / 20
}

// ComputeTier is a named bundle of GPU allocation and per-millisecond cost.
// The default catalog carries exactly three tiers in ascending cost order.
type ComputeTier struct {
	Name      string
	GPUs      int
	VRAMGB    int
	CostPerMs float64
}

// Synthetic per-sample workload assumptions shared by the optimizer and the
// price-comparison tables: 3 seconds of compute and $0.01 storage per sample.
const (
	computeMsPerSample   = 3000.0
	storageCostPerSample = 0.01
)
