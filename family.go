package pulse

import (
	"sort"
	"sync"

	"github.com/fllarpy/pulse/domain/metrics"
)

// instrument is implemented by every metric kind in this package. write
// copies the instrument's current state into a snapshot; implementations
// must support concurrent callers.
type instrument interface {
	write(m *metrics.MetricSnapshot)
}

// series pairs an instrument with the labels identifying it.
type series[T instrument] struct {
	signature uint64
	pairs     []metrics.LabelPair
	inst      T
}

// Family owns every series of one metric: instruments of a single kind
// sharing a name and help text, keyed by label set. At most one instrument
// ever exists per distinct label set.
type Family[T instrument] struct {
	name string
	help string
	kind metrics.Kind

	newInstrument func() T

	mu     sync.RWMutex
	series map[uint64][]*series[T] // signature -> collision list
}

// Concrete aliases so callers don't spell out the type parameters.
type (
	CounterFamily   = Family[*Counter]
	GaugeFamily     = Family[*Gauge]
	HistogramFamily = Family[*Histogram]
	SummaryFamily   = Family[*Summary]
)

func newFamily[T instrument](name, help string, kind metrics.Kind, create func() T) *Family[T] {
	return &Family[T]{
		name:          name,
		help:          help,
		kind:          kind,
		newInstrument: create,
		series:        make(map[uint64][]*series[T]),
	}
}

// NewCounterFamily creates a family of counters sharing one metric name.
func NewCounterFamily(name, help string) *CounterFamily {
	return newFamily(name, help, metrics.KindCounter, newCounter)
}

// NewGaugeFamily creates a family of gauges sharing one metric name.
func NewGaugeFamily(name, help string) *GaugeFamily {
	return newFamily(name, help, metrics.KindGauge, newGauge)
}

// NewHistogramFamily creates a family of histograms sharing one metric name
// and one set of bucket bounds. Unsorted, duplicate, or non-finite bounds
// are a configuration error.
func NewHistogramFamily(name, help string, bounds []float64) (*HistogramFamily, error) {
	norm, err := normalizeBounds(bounds)
	if err != nil {
		return nil, err
	}
	return newFamily(name, help, metrics.KindHistogram, func() *Histogram {
		return newHistogram(norm)
	}), nil
}

// NewSummaryFamily creates a family of summaries sharing one metric name and
// one set of quantile objectives. Invalid objectives or window parameters
// are a configuration error.
func NewSummaryFamily(name, help string, opts SummaryOpts) (*SummaryFamily, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	return newFamily(name, help, metrics.KindSummary, func() *Summary {
		return newSummary(opts)
	}), nil
}

// Name returns the metric name shared by every series in the family.
func (f *Family[T]) Name() string { return f.name }

// Help returns the family's help text.
func (f *Family[T]) Help() string { return f.help }

// Kind returns the family's instrument kind.
func (f *Family[T]) Kind() metrics.Kind { return f.kind }

// GetOrCreate returns the instrument for the given label set, creating one
// with zero state on first use. The call is idempotent: concurrent
// first-time callers with equal labels all observe the same instrument.
// Looking labels up by map at runtime is the slow path; call sites on hot
// paths should obtain their instrument once and keep the handle.
func (f *Family[T]) GetOrCreate(labels Labels) T {
	sig := labels.signature()

	f.mu.RLock()
	inst, ok := f.lookup(sig, labels)
	f.mu.RUnlock()
	if ok {
		return inst
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	// Re-check: another caller may have won the creation race.
	if inst, ok := f.lookup(sig, labels); ok {
		return inst
	}
	sr := &series[T]{signature: sig, pairs: labels.pairs(), inst: f.newInstrument()}
	f.series[sig] = append(f.series[sig], sr)
	return sr.inst
}

// lookup resolves a label set to its instrument. Signature collisions fall
// back to pair-wise comparison. Callers must hold at least a read lock.
func (f *Family[T]) lookup(sig uint64, labels Labels) (T, bool) {
	for _, sr := range f.series[sig] {
		if pairsMatch(sr.pairs, labels) {
			return sr.inst, true
		}
	}
	var zero T
	return zero, false
}

// Collect copies every series into an immutable snapshot. The family lock is
// held only while the series list is copied; each instrument is then read
// under its own lock or atomic, so mutation of other series never waits on a
// collection pass. Series are ordered by label signature for a deterministic
// enumeration.
func (f *Family[T]) Collect() metrics.FamilySnapshot {
	f.mu.RLock()
	list := make([]*series[T], 0, len(f.series))
	for _, collisions := range f.series {
		list = append(list, collisions...)
	}
	f.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].signature < list[j].signature })

	snap := metrics.FamilySnapshot{
		Name:    f.name,
		Help:    f.help,
		Kind:    f.kind,
		Metrics: make([]metrics.MetricSnapshot, 0, len(list)),
	}
	for _, sr := range list {
		m := metrics.MetricSnapshot{Labels: copyPairs(sr.pairs)}
		sr.inst.write(&m)
		snap.Metrics = append(snap.Metrics, m)
	}
	return snap
}

func copyPairs(pairs []metrics.LabelPair) []metrics.LabelPair {
	if len(pairs) == 0 {
		return nil
	}
	out := make([]metrics.LabelPair, len(pairs))
	copy(out, pairs)
	return out
}
