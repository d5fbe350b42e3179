// Package pulse is an in-process metrics instrumentation core: a registry of
// metric families (counter, gauge, histogram, summary) addressed by label
// sets, with per-instrument-atomic collection toward a pluggable sink.
//
// Application code obtains an instrument once per series and mutates it
// repeatedly:
//
//	reg := pulse.NewRegistry()
//	packets, _ := reg.NewCounter("observed_packets_total", "Number of observed packets")
//	tcpRx := packets.GetOrCreate(pulse.Labels{"protocol": "tcp", "direction": "rx"})
//	tcpRx.Inc()
//
// A scrape trigger calls reg.Collect() concurrently with mutation; encoders
// and transports live behind the domain.Sink boundary and are out of scope
// here.
package pulse

import (
	"sync"

	"github.com/fllarpy/pulse/config"
	"github.com/fllarpy/pulse/domain"
	"github.com/fllarpy/pulse/internal/application/collector"
)

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide convenience registry, creating it on
// first use. No singleton is required anywhere in the package; libraries
// should accept an explicitly constructed *Registry. Applications that want
// one shared instance at the assembly layer can use this.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// StartCollector launches a background loop that snapshots source every
// cfg.CollectionInterval and hands the result to sink. The returned function
// stops the loop and is safe to call more than once.
func StartCollector(source domain.Collectable, cfg *config.Config, sink domain.Sink) (stop func()) {
	return collector.New(source, cfg, sink).Start()
}
