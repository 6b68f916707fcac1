package ports

import (
	"time"

	"marketplace/internal/core/domain/model/dispatch"
)

// TickOutcome labels how a scheduler tick ended.
type TickOutcome string

const (
	TickSucceeded TickOutcome = "succeeded"
	TickFailed    TickOutcome = "failed"
)

// DispatchMetrics receives the observations of the dispatch scheduler.
type DispatchMetrics interface {
	ObserveTick(outcome TickOutcome, duration time.Duration)
	AddAssignments(n int)
	AddNotifications(msgType dispatch.MessageType, delivered bool, n int)
	SetLiveCouriers(n int)
	SetUnassignedOrders(n int)
}
