package pulse

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fllarpy/pulse/domain/metrics"
)

func TestFamilyGetOrCreateIsIdempotent(t *testing.T) {
	f := NewCounterFamily("packets_total", "Packets")

	first := f.GetOrCreate(Labels{"direction": "rx"})
	for i := 0; i < 10; i++ {
		assert.Same(t, first, f.GetOrCreate(Labels{"direction": "rx"}))
	}

	other := f.GetOrCreate(Labels{"direction": "tx"})
	assert.NotSame(t, first, other)
}

func TestFamilyGetOrCreateCopiesLabels(t *testing.T) {
	f := NewGaugeFamily("g", "help")

	labels := Labels{"queue": "ingest"}
	inst := f.GetOrCreate(labels)

	// The family must have copied the labels into its own key space.
	labels["queue"] = "mutated"
	assert.Same(t, inst, f.GetOrCreate(Labels{"queue": "ingest"}))
}

func TestFamilyConcurrentFirstUseCollapsesToOneInstrument(t *testing.T) {
	const callers = 16

	f := NewCounterFamily("races_total", "Races")

	start := make(chan struct{})
	results := make(chan *Counter, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			results <- f.GetOrCreate(Labels{"winner": "one"})
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	first := <-results
	require.NotNil(t, first)
	for c := range results {
		assert.Same(t, first, c, "every caller must observe the single created instrument")
	}
	assert.Len(t, f.Collect().Metrics, 1)
}

func TestFamilyCollectSnapshot(t *testing.T) {
	f := NewCounterFamily("observed_packets_total", "Number of observed packets")
	require.NoError(t, f.GetOrCreate(Labels{"protocol": "tcp", "direction": "rx"}).Add(3))
	require.NoError(t, f.GetOrCreate(Labels{"protocol": "udp", "direction": "rx"}).Add(5))

	snap := f.Collect()
	assert.Equal(t, "observed_packets_total", snap.Name)
	assert.Equal(t, "Number of observed packets", snap.Help)
	assert.Equal(t, metrics.KindCounter, snap.Kind)
	require.Len(t, snap.Metrics, 2)

	total := 0.0
	for _, m := range snap.Metrics {
		require.NotNil(t, m.Counter)
		require.Len(t, m.Labels, 2)
		assert.Equal(t, "direction", m.Labels[0].Name, "labels must be sorted by name")
		total += m.Counter.Value
	}
	assert.Equal(t, 8.0, total)
}

func TestFamilyCollectIsDeterministic(t *testing.T) {
	f := NewGaugeFamily("g", "help")
	for _, zone := range []string{"eu", "us", "ap"} {
		f.GetOrCreate(Labels{"zone": zone}).Set(1)
	}

	first := f.Collect()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first.Metrics, f.Collect().Metrics, "series enumeration order must be stable")
	}
}

func TestFamilyEmptyLabelSet(t *testing.T) {
	f := NewGaugeFamily("uptime_seconds", "Uptime")
	g := f.GetOrCreate(nil)
	g.Set(1)

	assert.Same(t, g, f.GetOrCreate(Labels{}))

	snap := f.Collect()
	require.Len(t, snap.Metrics, 1)
	assert.Empty(t, snap.Metrics[0].Labels)
}
