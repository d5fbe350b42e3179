package pulse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fllarpy/pulse/config"
	"github.com/fllarpy/pulse/domain"
)

func TestNewHistogramFromConfigUsesConfiguredBuckets(t *testing.T) {
	cfg := &config.Config{DefaultBuckets: []float64{0.1, 1, 10}}
	r := NewRegistry()

	f, err := NewHistogramFromConfig(r, cfg, "request_duration_seconds", "Request latency in seconds")
	require.NoError(t, err)

	f.GetOrCreate(nil).Observe(0.5)
	snap := f.Collect()
	require.Len(t, snap.Metrics, 1)
	h := snap.Metrics[0].Histogram
	require.NotNil(t, h)
	assert.Equal(t, []float64{0.1, 1, 10}, h.Bounds)
	assert.Equal(t, []uint64{0, 1, 1, 1}, h.CumulativeCounts)
}

func TestNewSummaryFromConfigUsesConfiguredWindow(t *testing.T) {
	cfg := &config.Config{SummaryMaxAge: time.Minute, SummaryAgeBuckets: 3}
	r := NewRegistry()

	f, err := NewSummaryFromConfig(r, cfg, "payload_bytes", "Payload sizes in bytes")
	require.NoError(t, err)

	s := f.GetOrCreate(nil)
	assert.Len(t, s.streams, 3)
	assert.Equal(t, time.Minute/3, s.streamDuration)

	s.Observe(42)
	quantiles := s.Quantiles()
	assert.Len(t, quantiles, len(config.DefaultObjectives()))
	assert.Equal(t, 42.0, quantiles[0.5])
}

func TestNewSummaryFromConfigRejectsBadWindow(t *testing.T) {
	cfg := &config.Config{SummaryMaxAge: -time.Second}

	_, err := NewSummaryFromConfig(NewRegistry(), cfg, "payload_bytes", "")
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&config.Config{LogLevel: "debug"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(&config.Config{LogLevel: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger(&config.Config{LogLevel: "noisy"})
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}
