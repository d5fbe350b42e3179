package pulse

import (
	"math"
	"sync/atomic"

	"github.com/fllarpy/pulse/domain"
	"github.com/fllarpy/pulse/domain/metrics"
)

// Counter is a monotonically non-decreasing value, initialized to zero.
// All methods are safe for concurrent use; updates are a single CAS loop on
// the float bits, so counters never contend with a collection pass.
type Counter struct {
	bits atomic.Uint64 // IEEE 754 bits of the current total
}

func newCounter() *Counter { return &Counter{} }

// Inc adds one to the counter.
func (c *Counter) Inc() { c.add(1) }

// Add adds delta to the counter. A negative delta is rejected with
// domain.ErrNegativeDelta and leaves the value unchanged: counters must
// never decrease, but a single bad call must not crash an instrumented
// service.
func (c *Counter) Add(delta float64) error {
	if delta < 0 {
		return domain.ErrNegativeDelta
	}
	c.add(delta)
	return nil
}

// Value returns the accumulated total.
func (c *Counter) Value() float64 {
	return math.Float64frombits(c.bits.Load())
}

func (c *Counter) add(delta float64) {
	for {
		old := c.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if c.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

func (c *Counter) write(m *metrics.MetricSnapshot) {
	m.Counter = &metrics.CounterValue{Value: c.Value()}
}
