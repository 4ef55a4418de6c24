package recipient

import "context"

// Source supplies raw recipient rows and accepts per-record status
// writebacks. Implementations live in internal/infra; the orchestrator
// treats the source as an immutable snapshot once List has returned.
type Source interface {
	// List fetches all rows in stable source order.
	List(ctx context.Context) ([]RawRow, error)
	// WriteStatus records the delivery outcome for one row. Idempotent
	// per call; best-effort from the orchestrator's point of view.
	WriteStatus(ctx context.Context, ref RowRef, status DeliveryStatus) error
}
