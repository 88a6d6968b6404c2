// Package queue dispatches messages from named work queues to handlers and runs
// tasks on cron schedules.
//
// The package is organised around two independent components:
//
//   - HandlerRegistry: maps each queue name to one Handler and supervises one
//     worker per queue
//   - TaskManager: fires each registered Task whenever its cron expression matches
//
// Both are storage-agnostic. Workers talk to the queue store through the Store and
// Connector interfaces; the Redis implementation lives in pkg/redis and an in-memory
// one (MemoryStore) is provided for tests and local development.
//
// # Workers
//
// StartAll opens a dedicated Store connection for every registered queue, so a broken
// connection on one queue never affects the others. Each worker then loops:
//
//  1. Pop with a bounded wait (5s by default).
//  2. On ErrNoMessage, log at debug level and pop again. This is the idle path.
//  3. On a transport error, back off exponentially and retry. After too many
//     consecutive failures the worker exits with ErrRetrievalExhausted, which cancels
//     the sibling workers and is returned from Wait.
//  4. On a message, call HandleMessage and wait for it. Errors and panics are logged
//     and the message is dropped; there is no redelivery.
//
// A worker never runs two messages at once, so per-queue dispatch is sequential.
// Different queues are fully concurrent.
//
// # Scheduled tasks
//
// Cron expressions use the standard 5 fields (minute, hour, day of month, month,
// day of week) with an optional leading seconds field. Descriptors such as "@hourly"
// and "@every 30s" are accepted as well. Missed ticks are not made up.
//
// By default a firing is skipped while the previous run of the same task is still in
// progress; WithOverlap(true) lets runs overlap instead.
//
// # Usage
//
//	registry := queue.NewHandlerRegistry(queue.WithPopTimeout(5 * time.Second))
//	_ = registry.Register(queue.NewHandler("emails", func(ctx context.Context, msg string) error {
//	    return send(ctx, msg)
//	}))
//
//	tasks := queue.NewTaskManager()
//	_ = tasks.Register(queue.NewTask("cleanup", queue.DailyAt(2, 0), cleanup))
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(registry.Run(ctx, redis.NewConnector(cfg)))
//	g.Go(tasks.Run(ctx))
//	return g.Wait()
//
// # Cancellation
//
// The context passed to StartAll and Start reaches every Pop, HandleMessage and
// Execute call. Optional per-call deadlines are set with WithHandlerTimeout and
// WithTaskTimeout.
//
// # Error Handling
//
// Package-level sentinel errors (e.g. ErrConnectionFailed, ErrInvalidSchedule) can be
// checked with errors.Is.
package queue
