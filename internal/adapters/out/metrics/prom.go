// Package metrics exports the dispatch scheduler's observations to Prometheus.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
)

var _ ports.DispatchMetrics = (*PromSink)(nil)

// PromSink records dispatch metrics in Prometheus collectors.
type PromSink struct {
	ticks         *prometheus.CounterVec
	tickDuration  prometheus.Histogram
	assignments   prometheus.Counter
	notifications *prometheus.CounterVec
	liveCouriers  prometheus.Gauge
	unassigned    prometheus.Gauge
}

// NewPromSink registers the dispatch collectors on reg. A nil registerer defaults to
// the global Prometheus registerer. Collectors already registered by an earlier sink
// are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	ticks, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_ticks_total",
		Help: "Total number of dispatch scheduler ticks by outcome",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}

	tickDuration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_tick_duration_seconds",
		Help:    "Duration of dispatch scheduler ticks",
		Buckets: prometheus.DefBuckets,
	}))
	if err != nil {
		return nil, err
	}

	assignments, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_assignments_total",
		Help: "Total number of orders assigned to a courier",
	}))
	if err != nil {
		return nil, err
	}

	notifications, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_notifications_total",
		Help: "Total number of courier notifications by message type and delivery result",
	}, []string{"type", "delivered"}))
	if err != nil {
		return nil, err
	}

	liveCouriers, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_live_couriers",
		Help: "Number of couriers with an open channel at the last assignment phase",
	}))
	if err != nil {
		return nil, err
	}

	unassigned, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_unassigned_orders",
		Help: "Number of assignable orders left without a courier after the last assignment phase",
	}))
	if err != nil {
		return nil, err
	}

	return &PromSink{
		ticks:         ticks,
		tickDuration:  tickDuration,
		assignments:   assignments,
		notifications: notifications,
		liveCouriers:  liveCouriers,
		unassigned:    unassigned,
	}, nil
}

// register registers c, or returns the collector registered earlier under the same name.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return c, err
		}
		existing, ok := are.ExistingCollector.(T)
		if !ok {
			return c, err
		}
		return existing, nil
	}
	return c, nil
}

// ObserveTick counts the tick and records its duration.
func (s *PromSink) ObserveTick(outcome ports.TickOutcome, duration time.Duration) {
	s.ticks.WithLabelValues(string(outcome)).Inc()
	s.tickDuration.Observe(duration.Seconds())
}

// AddAssignments counts committed assignments.
func (s *PromSink) AddAssignments(n int) {
	if n > 0 {
		s.assignments.Add(float64(n))
	}
}

// AddNotifications counts courier notifications.
func (s *PromSink) AddNotifications(msgType dispatch.MessageType, delivered bool, n int) {
	if n > 0 {
		s.notifications.WithLabelValues(string(msgType), strconv.FormatBool(delivered)).Add(float64(n))
	}
}

// SetLiveCouriers sets the live courier gauge.
func (s *PromSink) SetLiveCouriers(n int) {
	s.liveCouriers.Set(float64(n))
}

// SetUnassignedOrders sets the backlog gauge.
func (s *PromSink) SetUnassignedOrders(n int) {
	s.unassigned.Set(float64(n))
}
