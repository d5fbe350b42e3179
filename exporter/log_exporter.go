// Package exporter contains ready-made sinks for collected snapshots.
package exporter

import (
	"context"

	"go.uber.org/zap"

	"github.com/fllarpy/pulse/domain"
	"github.com/fllarpy/pulse/domain/metrics"
)

// LogExporter is a diagnostic Sink that logs a compact description of every
// collected family. It is meant for development and tests; a production
// setup wires an encoder/transport of its own behind domain.Sink.
type LogExporter struct {
	logger *zap.Logger
}

var _ domain.Sink = (*LogExporter)(nil)

// NewLogExporter creates a LogExporter. A nil logger falls back to a nop
// logger, which makes the exporter a pure no-op sink.
func NewLogExporter(logger *zap.Logger) *LogExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogExporter{logger: logger}
}

// Export logs one debug entry per family.
func (e *LogExporter) Export(_ context.Context, snapshot []metrics.FamilySnapshot) error {
	for _, fam := range snapshot {
		e.logger.Debug("collected metric family",
			zap.String("name", fam.Name),
			zap.String("kind", string(fam.Kind)),
			zap.Int("series", len(fam.Metrics)),
		)
	}
	return nil
}
