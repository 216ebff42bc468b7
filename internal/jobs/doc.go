// Package jobs implements background job processing for the Gala API.
//
// The jobs package contains scheduled tasks that run independently of HTTP
// request handling.
//
// # Job Types
//
// Available background jobs:
//
//   - SuspensionSweeper: Lifts time-boxed suspensions whose end date has
//     passed by recomputing the affected standings
//
// # Lifecycle
//
// Jobs are constructed in main, started after the HTTP server is wired, and
// stopped during graceful shutdown:
//
//	sweeper := jobs.NewSuspensionSweeper(standingService, cfg.Jobs.SuspensionSweepInterval)
//	sweeper.Start()
//	defer sweeper.Stop()
//
// # Error Handling
//
// Jobs log errors and carry on; a failed sweep is retried on the next tick.
// Admin-held suspensions are never lifted by the sweeper, only by an
// explicit reinstate.
package jobs
