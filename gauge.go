package pulse

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/fllarpy/pulse/domain/metrics"
)

// Gauge is an arbitrary value that can go up and down. All operations are
// unconditional; there is no monotonicity constraint. Safe for concurrent
// use.
type Gauge struct {
	bits atomic.Uint64 // IEEE 754 bits of the current value
}

func newGauge() *Gauge { return &Gauge{} }

// Set replaces the current value.
func (g *Gauge) Set(v float64) {
	g.bits.Store(math.Float64bits(v))
}

// Inc adds one to the gauge.
func (g *Gauge) Inc() { g.add(1) }

// Dec subtracts one from the gauge.
func (g *Gauge) Dec() { g.add(-1) }

// Add adds delta to the gauge. Negative deltas are allowed.
func (g *Gauge) Add(delta float64) { g.add(delta) }

// Sub subtracts delta from the gauge.
func (g *Gauge) Sub(delta float64) { g.add(-delta) }

// SetToCurrentTime sets the gauge to the current wall-clock time, expressed
// as seconds since the Unix epoch.
func (g *Gauge) SetToCurrentTime() {
	g.Set(float64(time.Now().UnixNano()) / 1e9)
}

// Value returns the current value.
func (g *Gauge) Value() float64 {
	return math.Float64frombits(g.bits.Load())
}

func (g *Gauge) add(delta float64) {
	for {
		old := g.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if g.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

func (g *Gauge) write(m *metrics.MetricSnapshot) {
	m.Gauge = &metrics.GaugeValue{Value: g.Value()}
}
