package ports

import (
	"context"

	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/domain/model/kernel"
)

// CourierNotifier is the view the dispatch core has of the live courier registry.
type CourierNotifier interface {
	// LiveCourierIDs returns a snapshot of the couriers holding an open channel.
	// The snapshot may be stale as soon as it is returned.
	LiveCourierIDs() []kernel.UUID

	// SendTo delivers msg to the courier if they are still live.
	// found reports whether a live entry existed; err reports a broken channel.
	SendTo(ctx context.Context, courierID kernel.UUID, msg dispatch.Message) (found bool, err error)
}
