package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fllarpy/pulse/config"
	"github.com/fllarpy/pulse/domain/metrics"
)

// stubSource is a fixed-snapshot Collectable.
type stubSource struct {
	snapshot []metrics.FamilySnapshot
}

func (s *stubSource) Collect() []metrics.FamilySnapshot { return s.snapshot }

// stubSink records exports and signals each one on a channel.
type stubSink struct {
	exported chan int
	err      error
}

func (s *stubSink) Export(_ context.Context, snapshot []metrics.FamilySnapshot) error {
	s.exported <- len(snapshot)
	return s.err
}

func testConfig() *config.Config {
	return &config.Config{
		CollectionInterval: 10 * time.Millisecond,
		SnapshotHistory:    10,
	}
}

func testSnapshot(n int) []metrics.FamilySnapshot {
	out := make([]metrics.FamilySnapshot, n)
	for i := range out {
		out[i] = metrics.FamilySnapshot{Name: "m", Kind: metrics.KindGauge}
	}
	return out
}

func TestCollectorDeliversToSink(t *testing.T) {
	source := &stubSource{snapshot: testSnapshot(2)}
	sink := &stubSink{exported: make(chan int, 10)}

	c := New(source, testConfig(), sink)
	stop := c.Start()
	defer stop()

	select {
	case families := <-sink.exported:
		assert.Equal(t, 2, families)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an export")
	}
}

func TestCollectorRecordsHistory(t *testing.T) {
	source := &stubSource{snapshot: testSnapshot(3)}
	c := New(source, testConfig(), nil)

	c.collectOnce(context.Background())
	c.collectOnce(context.Background())

	history := c.History()
	require.Len(t, history, 2)
	assert.Equal(t, 3, history[0].Families)
	assert.NoError(t, history[0].Err)
	assert.False(t, history[1].Time.Before(history[0].Time))
}

func TestCollectorRecordsExportFailures(t *testing.T) {
	sinkErr := errors.New("downstream unavailable")
	source := &stubSource{snapshot: testSnapshot(1)}
	sink := &stubSink{exported: make(chan int, 1), err: sinkErr}

	c := New(source, testConfig(), sink)
	c.collectOnce(context.Background())

	history := c.History()
	require.Len(t, history, 1)
	assert.ErrorIs(t, history[0].Err, sinkErr)
}

func TestCollectorStopIsIdempotent(t *testing.T) {
	source := &stubSource{snapshot: nil}
	c := New(source, testConfig(), nil)

	stop := c.Start()
	stop()
	stop()
}

func TestNewToleratesZeroConfig(t *testing.T) {
	c := New(&stubSource{snapshot: nil}, &config.Config{}, nil)
	assert.Equal(t, defaultInterval, c.interval)

	stop := c.Start()
	stop()
	assert.Len(t, c.History(), 0)
}

func TestCollectorHistoryIsBounded(t *testing.T) {
	cfg := testConfig()
	cfg.SnapshotHistory = 3
	c := New(&stubSource{snapshot: testSnapshot(1)}, cfg, nil)

	for i := 0; i < 10; i++ {
		c.collectOnce(context.Background())
	}
	assert.Len(t, c.History(), 3)
}

func TestRingBufferOverwritesOldest(t *testing.T) {
	rb := newRingBuffer[int](3)
	assert.Nil(t, rb.getAll())

	for i := 1; i <= 5; i++ {
		rb.add(i)
	}
	assert.Equal(t, []int{3, 4, 5}, rb.getAll())
}
