// Package collector drives periodic collection of a metrics source and
// delivery of the resulting snapshots to a sink.
package collector

import (
	"context"
	"sync"
	"time"

	"github.com/fllarpy/pulse/config"
	"github.com/fllarpy/pulse/domain"
)

// defaultInterval is used when the configuration leaves the collection
// interval unset, matching the config package's own default.
const defaultInterval = 10 * time.Second

// Record describes the outcome of one collection pass.
type Record struct {
	Time     time.Time
	Families int
	Err      error
}

// Collector drives periodic collection of a Collectable source and hands
// every snapshot to a Sink. It keeps a bounded history of recent passes so
// an operator can see whether exports are failing.
type Collector struct {
	source   domain.Collectable
	sink     domain.Sink
	interval time.Duration

	historyLock sync.Mutex
	history     *ringBuffer[Record]
}

// New builds a collector from the given source, configuration and sink. The
// sink may be nil, in which case snapshots are taken (and recorded in the
// history) but go nowhere.
func New(source domain.Collectable, cfg *config.Config, sink domain.Sink) *Collector {
	size := cfg.SnapshotHistory
	if size <= 0 {
		size = 1
	}
	interval := cfg.CollectionInterval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Collector{
		source:   source,
		sink:     sink,
		interval: interval,
		history:  newRingBuffer[Record](size),
	}
}

// Start launches a background goroutine that collects on every interval
// tick. It returns a function that stops the goroutine; calling it more than
// once is safe.
func (c *Collector) Start() (stop func()) {
	done := make(chan struct{})
	var once sync.Once
	ticker := time.NewTicker(c.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.collectOnce(context.Background())
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}

// collectOnce performs a single collection pass and records its outcome.
func (c *Collector) collectOnce(ctx context.Context) {
	snapshot := c.source.Collect()

	var err error
	if c.sink != nil {
		err = c.sink.Export(ctx, snapshot)
	}

	c.historyLock.Lock()
	c.history.add(Record{Time: time.Now(), Families: len(snapshot), Err: err})
	c.historyLock.Unlock()
}

// History returns the recent collection outcomes, oldest first.
func (c *Collector) History() []Record {
	c.historyLock.Lock()
	defer c.historyLock.Unlock()
	return c.history.getAll()
}
