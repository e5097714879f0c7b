// Package coordinator runs background jobs on a fixed schedule.
//
// A Coordinator owns one Job. It runs the job once on start, then again on
// every tick of an interval with optional random jitter, until its context
// is cancelled or Stop is called. A failing run is logged, recorded in the
// status tracker and retried on the next tick; it never stops the loop.
//
// The tracker runs two coordinators side by side:
//
//   - roster sync (default every 5 minutes) with the sync Engine as job
//   - live source discovery (default every 30 seconds) with the live Bridge as job
//
// # Usage
//
//	coord := coordinator.New(engine, cfg.GetSyncInterval(),
//	    coordinator.WithJitter(cfg.GetSyncJitter()),
//	    coordinator.WithStatusTracker(tracker),
//	)
//	go coord.Start(ctx)
//	...
//	coord.Stop()
package coordinator
