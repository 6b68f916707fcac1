// Package realtime keeps track of the couriers holding an open channel to the service
// and delivers dispatch messages to them.
package realtime

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
)

// Channel is an open duplex connection to one courier.
// Implementations must be comparable, which pointer types are.
type Channel interface {
	Send(ctx context.Context, msg dispatch.Message) error
	Close() error
}

type session struct {
	ch  Channel
	seq uint64
}

// Registry is the in-memory set of live courier channels, at most one per courier.
// It is safe for concurrent use by the socket handlers and the dispatch job.
type Registry struct {
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[kernel.UUID]session
	seq      uint64
}

var _ ports.CourierNotifier = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:   logger.With("component", "courier_registry"),
		sessions: make(map[kernel.UUID]session),
	}
}

// Register records ch as the live channel of courierID. A channel already registered
// for the courier is replaced and closed.
func (r *Registry) Register(courierID kernel.UUID, ch Channel) {
	r.mu.Lock()
	prev, replaced := r.sessions[courierID]
	r.seq++
	r.sessions[courierID] = session{ch: ch, seq: r.seq}
	r.mu.Unlock()

	if !replaced || prev.ch == ch {
		r.logger.Info("courier connected", "courier_id", courierID)
		return
	}

	r.logger.Info("courier reconnected, closing previous channel", "courier_id", courierID)
	if err := prev.ch.Close(); err != nil {
		r.logger.Debug("previous channel close failed", "courier_id", courierID, "error", err)
	}
}

// Unregister removes the courier's channel if there is one. The channel is not closed.
func (r *Registry) Unregister(courierID kernel.UUID) {
	r.mu.Lock()
	_, ok := r.sessions[courierID]
	delete(r.sessions, courierID)
	r.mu.Unlock()

	if ok {
		r.logger.Info("courier disconnected", "courier_id", courierID)
	}
}

// Release removes the courier's entry only while ch is still its registered channel,
// so the teardown of a replaced connection leaves the newer one in place.
// It reports whether an entry was removed.
func (r *Registry) Release(courierID kernel.UUID, ch Channel) bool {
	r.mu.Lock()
	s, ok := r.sessions[courierID]
	if ok && s.ch == ch {
		delete(r.sessions, courierID)
	}
	r.mu.Unlock()

	released := ok && s.ch == ch
	if released {
		r.logger.Info("courier disconnected", "courier_id", courierID)
	}
	return released
}

// LiveCourierIDs returns the registered couriers, longest connected first.
// The result is a snapshot and may be stale by the time it is used.
func (r *Registry) LiveCourierIDs() []kernel.UUID {
	r.mu.RLock()
	live := make([]kernel.UUID, 0, len(r.sessions))
	seqs := make(map[kernel.UUID]uint64, len(r.sessions))
	for id, s := range r.sessions {
		live = append(live, id)
		seqs[id] = s.seq
	}
	r.mu.RUnlock()

	slices.SortFunc(live, func(a, b kernel.UUID) int {
		return cmp.Compare(seqs[a], seqs[b])
	})
	return live
}

// SendTo delivers msg to the courier's channel.
// found is false when the courier has no channel. A failed send is returned as err
// and leaves the registry unchanged: the socket handler owns the entry's removal.
func (r *Registry) SendTo(ctx context.Context, courierID kernel.UUID, msg dispatch.Message) (bool, error) {
	r.mu.RLock()
	s, ok := r.sessions[courierID]
	r.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if err := msg.Validate(); err != nil {
		return true, err
	}

	return true, s.ch.Send(ctx, msg)
}

// Len returns the number of live couriers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// CloseAll closes and forgets every channel. It is called on shutdown.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[kernel.UUID]session)
	r.mu.Unlock()

	var errs []error
	for id, s := range sessions {
		if err := s.ch.Close(); err != nil {
			errs = append(errs, err)
			r.logger.Debug("channel close failed", "courier_id", id, "error", err)
		}
	}

	return errors.Join(errs...)
}
