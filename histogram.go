package pulse

import (
	"math"
	"sort"
	"sync"

	"github.com/fllarpy/pulse/domain"
	"github.com/fllarpy/pulse/domain/metrics"
)

// Histogram counts observations into cumulative buckets. Bucket i counts
// every observation ≤ bounds[i]; the final bucket is the implicit +Inf
// overflow, so it always equals the total observation count. A mutex guards
// the multi-field state so a collection pass never sees a torn update.
type Histogram struct {
	bounds []float64 // strictly ascending finite upper bounds, immutable

	mu         sync.Mutex
	cumulative []uint64 // len(bounds)+1, last entry is the +Inf bucket
	sum        float64
	count      uint64
}

// normalizeBounds validates bucket bounds and returns an owned copy with a
// trailing +Inf stripped (the overflow bucket is implicit).
func normalizeBounds(bounds []float64) ([]float64, error) {
	if n := len(bounds); n > 0 && math.IsInf(bounds[n-1], +1) {
		bounds = bounds[:n-1]
	}
	for i, b := range bounds {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, domain.NewConfigError("histogram bound %d (%v) must be finite", i, b)
		}
		if i > 0 && bounds[i-1] >= b {
			return nil, domain.NewConfigError(
				"histogram bounds must be strictly ascending: bound %d (%v) does not exceed %v",
				i, b, bounds[i-1])
		}
	}
	own := make([]float64, len(bounds))
	copy(own, bounds)
	return own, nil
}

// newHistogram assumes bounds have been through normalizeBounds.
func newHistogram(bounds []float64) *Histogram {
	return &Histogram{
		bounds:     bounds,
		cumulative: make([]uint64, len(bounds)+1),
	}
}

// Observe records a single value. The smallest bound ≥ v and every bucket
// above it are incremented; a value above the largest finite bound lands
// only in the +Inf bucket.
func (h *Histogram) Observe(v float64) {
	idx := sort.SearchFloat64s(h.bounds, v)

	h.mu.Lock()
	for i := idx; i < len(h.cumulative); i++ {
		h.cumulative[i]++
	}
	h.count++
	h.sum += v
	h.mu.Unlock()
}

// BucketDeltas carries precomputed per-bucket observation counts for the
// batch update path. It is a dedicated type so raw observations cannot be
// fed into ApplyDeltas by accident; build one with NewBucketDeltas.
type BucketDeltas struct {
	increments []uint64
	sum        float64
}

// NewBucketDeltas wraps per-bucket increments (one per bound plus the +Inf
// bucket) and the total sum of the underlying observed values. Increment i
// is the number of observations whose bucket search would have landed on
// bucket i, not a cumulative count; the cumulation happens on apply.
func NewBucketDeltas(increments []uint64, sum float64) BucketDeltas {
	own := make([]uint64, len(increments))
	copy(own, increments)
	return BucketDeltas{increments: own, sum: sum}
}

// ApplyDeltas applies a batch of precomputed bucket assignments, bypassing
// the per-value bucket search: increment i is fanned out to every cumulative
// bucket from i through +Inf, the running count grows by the total of all
// increments, and the running sum grows by the batch's sum. This is an
// optimization path, not a semantic variant: with correctly derived inputs
// it leaves the histogram in the exact state repeated Observe calls would
// have. The batch must carry exactly one increment per bucket.
func (h *Histogram) ApplyDeltas(d BucketDeltas) error {
	if len(d.increments) != len(h.cumulative) {
		return domain.NewConfigError(
			"bucket deltas carry %d increments, histogram has %d buckets",
			len(d.increments), len(h.cumulative))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	var running uint64
	for i, inc := range d.increments {
		running += inc
		h.cumulative[i] += running
	}
	h.count += running
	h.sum += d.sum
	return nil
}

// Sum returns the running sum of all observed values.
func (h *Histogram) Sum() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sum
}

// Count returns the running number of observations.
func (h *Histogram) Count() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

func (h *Histogram) write(m *metrics.MetricSnapshot) {
	bounds := make([]float64, len(h.bounds))
	copy(bounds, h.bounds)

	h.mu.Lock()
	counts := make([]uint64, len(h.cumulative))
	copy(counts, h.cumulative)
	sum, count := h.sum, h.count
	h.mu.Unlock()

	m.Histogram = &metrics.HistogramValue{
		Bounds:           bounds,
		CumulativeCounts: counts,
		Sum:              sum,
		Count:            count,
	}
}
