package metrics

// --- Metric identity ---

// Kind identifies the aggregation behavior of a metric family.
type Kind string

const (
	KindCounter   Kind = "counter"
	KindGauge     Kind = "gauge"
	KindHistogram Kind = "histogram"
	KindSummary   Kind = "summary"
)

// LabelPair is one dimension of a series identity. Snapshots carry pairs
// sorted by name so that consumers see a stable order.
type LabelPair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// --- Snapshot structures (for collection) ---

// CounterValue is the read-only payload of a counter series.
type CounterValue struct {
	Value float64 `json:"value"`
}

// GaugeValue is the read-only payload of a gauge series.
type GaugeValue struct {
	Value float64 `json:"value"`
}

// HistogramValue is the read-only payload of a histogram series.
// CumulativeCounts has one entry per bound plus a final entry for the
// implicit +Inf bucket; entry i counts observations that were ≤ Bounds[i].
type HistogramValue struct {
	Bounds           []float64 `json:"bounds"`
	CumulativeCounts []uint64  `json:"cumulative_counts"`
	Sum              float64   `json:"sum"`
	Count            uint64    `json:"count"`
}

// SummaryValue is the read-only payload of a summary series. Quantiles maps
// each configured quantile to its current windowed estimate; estimates are
// NaN while the window holds no observations.
type SummaryValue struct {
	Quantiles map[float64]float64 `json:"quantiles"`
	Sum       float64             `json:"sum"`
	Count     uint64              `json:"count"`
}

// MetricSnapshot is a read-only copy of one series at collection time.
// Exactly one of the kind-specific payloads is set, matching the owning
// family's kind.
type MetricSnapshot struct {
	Labels    []LabelPair     `json:"labels,omitempty"`
	Counter   *CounterValue   `json:"counter,omitempty"`
	Gauge     *GaugeValue     `json:"gauge,omitempty"`
	Histogram *HistogramValue `json:"histogram,omitempty"`
	Summary   *SummaryValue   `json:"summary,omitempty"`
}

// FamilySnapshot is a read-only copy of every series in one family.
type FamilySnapshot struct {
	Name    string           `json:"name"`
	Help    string           `json:"help"`
	Kind    Kind             `json:"kind"`
	Metrics []MetricSnapshot `json:"metrics"`
}
