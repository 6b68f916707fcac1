package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// AssignCouriersHandler runs the assignment phase of a tick.
type AssignCouriersHandler interface {
	Handle(ctx context.Context, cmd commands.AssignCouriersCommand) (commands.AssignCouriersResult, error)
}

// AnnounceActiveOrdersHandler runs the re-announcement phase of a tick.
type AnnounceActiveOrdersHandler interface {
	Handle(ctx context.Context, cmd commands.AnnounceActiveOrdersCommand) (commands.AnnounceActiveOrdersResult, error)
}

// DispatchJobConfig holds the scheduling parameters of DispatchJob.
type DispatchJobConfig struct {
	// Interval is the period between two ticks. cron rounds it down to whole seconds.
	Interval time.Duration

	// TickTimeout bounds the store and notification work of one tick. Zero disables it.
	TickTimeout time.Duration
}

// DispatchJob periodically assigns waiting orders to live couriers and re-announces
// active orders to the couriers holding them.
type DispatchJob struct {
	assignHandler   AssignCouriersHandler
	announceHandler AnnounceActiveOrdersHandler
	metrics         ports.DispatchMetrics
	config          DispatchJobConfig
	cron            *cron.Cron
	logger          *slog.Logger
}

// NewDispatchJob creates the dispatch scheduler. It does not start until Start is called.
func NewDispatchJob(
	assignHandler AssignCouriersHandler,
	announceHandler AnnounceActiveOrdersHandler,
	metrics ports.DispatchMetrics,
	config DispatchJobConfig,
	logger *slog.Logger,
) *DispatchJob {
	if metrics == nil {
		metrics = noopMetrics{}
	}

	jobLogger := logger.With("component", "dispatch_job")
	cronLog := newCronLogger(jobLogger)

	return &DispatchJob{
		assignHandler:   assignHandler,
		announceHandler: announceHandler,
		metrics:         metrics,
		config:          config,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		logger: jobLogger,
	}
}

// Name identifies the job in JobManager errors.
func (j *DispatchJob) Name() string {
	return "dispatch"
}

// Start begins periodic execution of the dispatch tick.
func (j *DispatchJob) Start() error {
	schedule := fmt.Sprintf("@every %s", j.config.Interval)
	if _, err := j.cron.AddFunc(schedule, func() {
		_ = j.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to add dispatch job: %w", err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch job started",
		"interval", j.config.Interval.String(),
		"tick_timeout", j.config.TickTimeout.String())
	return nil
}

// Stop halts the schedule and waits for a running tick to finish.
func (j *DispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Dispatch job stopped")
}

// RunOnce performs a single tick: the assignment phase followed by the
// re-announcement phase. A failing phase ends the tick; the error is logged
// and returned.
func (j *DispatchJob) RunOnce(ctx context.Context) error {
	started := time.Now()

	if j.config.TickTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.TickTimeout)
		defer cancel()
	}

	outcome := ports.TickSucceeded
	err := j.tick(ctx)
	if err != nil {
		outcome = ports.TickFailed
		j.logger.ErrorContext(ctx, "Dispatch tick failed", "error", err)
	}

	j.metrics.ObserveTick(outcome, time.Since(started))
	return err
}

func (j *DispatchJob) tick(ctx context.Context) error {
	assigned, err := j.assignHandler.Handle(ctx, commands.NewAssignCouriersCommand())
	j.recordAssignment(ctx, assigned, err == nil)
	if err != nil {
		return fmt.Errorf("assignment phase: %w", err)
	}

	announced, err := j.announceHandler.Handle(ctx, commands.NewAnnounceActiveOrdersCommand())
	if err != nil {
		return fmt.Errorf("re-announcement phase: %w", err)
	}
	j.recordAnnouncement(ctx, announced)

	return nil
}

// recordAssignment logs and counts the outcome of an assignment phase. The backlog gauge
// keeps its previous value when the phase failed before reading the assignable orders.
func (j *DispatchJob) recordAssignment(ctx context.Context, result commands.AssignCouriersResult, completed bool) {
	for _, a := range result.Assigned {
		j.logger.InfoContext(ctx, "Order assigned",
			"order_id", a.OrderID.String(),
			"courier_id", a.CourierID.String())
	}
	for _, a := range result.Skipped {
		j.logger.InfoContext(ctx, "Assignment skipped, order changed since it was read",
			"order_id", a.OrderID.String(),
			"courier_id", a.CourierID.String())
	}
	for _, u := range result.Undelivered {
		reason := "courier offline"
		if u.Err != nil {
			reason = u.Err.Error()
		}
		j.logger.WarnContext(ctx, "Courier not notified of new order",
			"order_id", u.Assignment.OrderID.String(),
			"courier_id", u.Assignment.CourierID.String(),
			"reason", reason)
	}

	undelivered := len(result.Undelivered)
	j.metrics.AddAssignments(len(result.Assigned))
	j.metrics.AddNotifications(dispatch.NewOrder, true, len(result.Assigned)-undelivered)
	j.metrics.AddNotifications(dispatch.NewOrder, false, undelivered)
	if result.Assignable > 0 {
		j.metrics.SetLiveCouriers(result.LiveCouriers)
	}
	if completed || result.Assignable > 0 {
		j.metrics.SetUnassignedOrders(result.Backlog())
	}

	if result.Assignable > 0 && len(result.Assigned) == 0 && len(result.Skipped) == 0 {
		j.logger.DebugContext(ctx, "No courier available for waiting orders",
			"assignable", result.Assignable,
			"live_couriers", result.LiveCouriers)
	}
}

func (j *DispatchJob) recordAnnouncement(ctx context.Context, result commands.AnnounceActiveOrdersResult) {
	j.metrics.AddNotifications(dispatch.CurrentOrder, true, result.Delivered)
	j.metrics.AddNotifications(dispatch.CurrentOrder, false, result.Offline+result.Failed)

	if result.Failed > 0 {
		j.logger.WarnContext(ctx, "Some couriers could not be reminded of their order",
			"active", result.Active,
			"failed", result.Failed)
	}
}

type noopMetrics struct{}

func (noopMetrics) ObserveTick(ports.TickOutcome, time.Duration) {}
func (noopMetrics) AddAssignments(int) {}
func (noopMetrics) AddNotifications(dispatch.MessageType, bool, int) {}
func (noopMetrics) SetLiveCouriers(int) {}
func (noopMetrics) SetUnassignedOrders(int) {}
