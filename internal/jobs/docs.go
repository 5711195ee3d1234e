// Package jobs provides scheduled background tasks for the dispatch engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. NotificationSweepJob - Periodically re-dispatches acceptance
// notifications for orders sitting in pending or ready status. Because
// fanout is idempotent, the sweep is the retry backstop for couriers that
// were missed at dispatch time and the entry point for couriers activated
// after an order was created.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(dispatcher, uowFactory, "*/30 * * * * *", logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed dispatch for one order is logged and skipped; the next sweep tick
// retries it. Only listing failures abort a sweep pass.
package jobs
