// Package jobs provides the scheduled background tasks of the marketplace service.
//
// Jobs are built on github.com/robfig/cron/v3 and managed through JobManager.
//
// # Available Jobs
//
// DispatchJob runs the order-dispatch scheduler. Every tick has two phases:
//
//  1. assignment: Processed orders without a courier are handed to live couriers that
//     are not carrying an order, and each courier is sent NEW_ORDER
//  2. re-announcement: every courier holding an active order is sent CURRENT_ORDER,
//     so a courier that reconnected mid-delivery picks its order back up
//
// # Usage
//
//	dispatchJob := jobs.NewDispatchJob(assignHandler, announceHandler, sink, jobs.DispatchJobConfig{
//		Interval:    10 * time.Second,
//		TickTimeout: 5 * time.Second,
//	}, logger)
//
//	jobManager := jobs.NewJobManager(logger, dispatchJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Ticks never overlap: cron's SkipIfStillRunning drops a tick that fires while the
// previous one is still running, and the skip is logged. A panic in a tick is
// recovered and logged; the next tick runs as scheduled.
//
// # Error Handling
//
// A store error ends the tick early and is logged; it never stops the job.
// Couriers that could not be notified are logged and reached again by a later
// re-announcement.
package jobs
