package domain

import (
	"context"

	"github.com/fllarpy/pulse/domain/metrics"
)

// Collectable is the scrape-side contract of the core: a single call that
// yields a point-in-time snapshot of every registered family. Snapshots are
// atomic per instrument, not across instruments.
type Collectable interface {
	Collect() []metrics.FamilySnapshot
}

// Sink receives collected snapshots. Encoders and transports (an HTTP
// exposition endpoint, a remote-write client, ...) live behind this
// boundary; the core makes no assumption about the wire format.
type Sink interface {
	Export(ctx context.Context, snapshot []metrics.FamilySnapshot) error
}
