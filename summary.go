package pulse

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/beorn7/perks/quantile"

	"github.com/fllarpy/pulse/domain"
	"github.com/fllarpy/pulse/domain/metrics"
)

// SummaryOpts configures the sliding-window quantile estimation of a
// summary. The zero value of MaxAge and AgeBuckets selects the defaults.
type SummaryOpts struct {
	// Objectives maps each target quantile φ to its allowed rank error ε:
	// the reported value x satisfies |rank(x) - φ·N| ≤ ε·N over the window.
	// Both φ and ε must lie in (0, 1).
	Objectives map[float64]float64

	// MaxAge is how long an observation stays relevant for quantile
	// estimation. Defaults to DefaultMaxAge.
	MaxAge time.Duration

	// AgeBuckets is the number of staggered estimator streams the window is
	// split into; more buckets smooth the expiry of old observations at the
	// cost of memory. Defaults to DefaultAgeBuckets.
	AgeBuckets int
}

// Defaults applied when SummaryOpts leaves the window unconfigured.
const (
	DefaultMaxAge     = 10 * time.Minute
	DefaultAgeBuckets = 5
)

// Summary tracks a running sum and count plus approximate quantiles over a
// sliding time window. The window is a ring of age-bucketed CKMS streams:
// every observation is inserted into all streams, quantiles are read from
// the oldest (head) stream, and the head is reset and rotated once its
// share of the window has passed, which eventually expires stale data.
type Summary struct {
	sortedQuantiles []float64
	streamDuration  time.Duration

	mu           sync.Mutex
	sum          float64
	count        uint64
	streams      []*quantile.Stream
	headStream   *quantile.Stream
	headIdx      int
	headDeadline time.Time
}

// validate reports the first misconfigured objective or window parameter.
func (o SummaryOpts) validate() error {
	for q, e := range o.Objectives {
		if q <= 0 || q >= 1 {
			return domain.NewConfigError("summary quantile %v must lie in (0, 1)", q)
		}
		if e <= 0 || e >= 1 {
			return domain.NewConfigError("summary error target %v for quantile %v must lie in (0, 1)", e, q)
		}
	}
	if o.MaxAge < 0 {
		return domain.NewConfigError("summary max age %v must not be negative", o.MaxAge)
	}
	if o.AgeBuckets < 0 {
		return domain.NewConfigError("summary age buckets %d must not be negative", o.AgeBuckets)
	}
	return nil
}

// withDefaults fills in the window defaults for unset fields.
func (o SummaryOpts) withDefaults() SummaryOpts {
	if o.MaxAge == 0 {
		o.MaxAge = DefaultMaxAge
	}
	if o.AgeBuckets == 0 {
		o.AgeBuckets = DefaultAgeBuckets
	}
	return o
}

// newSummary assumes opts have been validated and defaulted.
func newSummary(opts SummaryOpts) *Summary {
	maxAge := opts.MaxAge
	ageBuckets := opts.AgeBuckets

	targets := make(map[float64]float64, len(opts.Objectives))
	sorted := make([]float64, 0, len(opts.Objectives))
	for q, e := range opts.Objectives {
		targets[q] = e
		sorted = append(sorted, q)
	}
	sort.Float64s(sorted)

	s := &Summary{
		sortedQuantiles: sorted,
		streamDuration:  maxAge / time.Duration(ageBuckets),
		streams:         make([]*quantile.Stream, ageBuckets),
	}
	for i := range s.streams {
		s.streams[i] = quantile.NewTargeted(targets)
	}
	s.headStream = s.streams[0]
	s.headDeadline = time.Now().Add(s.streamDuration)
	return s
}

// Observe inserts v into the sliding window and updates the running sum and
// count. Sum and count are cumulative for the lifetime of the summary; only
// quantile estimation is windowed.
func (s *Summary) Observe(v float64) {
	s.mu.Lock()
	s.rotate(time.Now())
	for _, st := range s.streams {
		st.Insert(v)
	}
	s.count++
	s.sum += v
	s.mu.Unlock()
}

// Quantiles returns the current estimate for every configured objective.
// Estimates are NaN while the window holds no observations.
func (s *Summary) Quantiles() map[float64]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quantilesLocked()
}

// Sum returns the lifetime sum of observed values.
func (s *Summary) Sum() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sum
}

// Count returns the lifetime number of observations.
func (s *Summary) Count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Summary) quantilesLocked() map[float64]float64 {
	s.rotate(time.Now())
	out := make(map[float64]float64, len(s.sortedQuantiles))
	empty := s.headStream.Count() == 0
	for _, q := range s.sortedQuantiles {
		if empty {
			out[q] = math.NaN()
			continue
		}
		out[q] = s.headStream.Query(q)
	}
	return out
}

// rotate resets expired head streams and advances the ring. Called with the
// mutex held; loops in case more than one stream duration has passed since
// the last observation or read.
func (s *Summary) rotate(now time.Time) {
	for now.After(s.headDeadline) {
		s.headStream.Reset()
		s.headIdx = (s.headIdx + 1) % len(s.streams)
		s.headStream = s.streams[s.headIdx]
		s.headDeadline = s.headDeadline.Add(s.streamDuration)
	}
}

func (s *Summary) write(m *metrics.MetricSnapshot) {
	s.mu.Lock()
	quantiles := s.quantilesLocked()
	sum, count := s.sum, s.count
	s.mu.Unlock()

	m.Summary = &metrics.SummaryValue{
		Quantiles: quantiles,
		Sum:       sum,
		Count:     count,
	}
}
