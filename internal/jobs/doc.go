// Package jobs holds the queue handlers and scheduled tasks of the loved
// processor.
//
// Handlers:
//
//   - UserUpdateQueue ("loved:queues:user_update"): a JSON UserUpdate produced
//     whenever user data was refreshed from the osu! API. The payload is validated
//     and upserted into the users table.
//
// Tasks:
//
//   - SessionCleanupTask: removes expired website sessions.
//
// Persistence goes through the UserStore and SessionStore interfaces; Postgres
// implements both on top of a pgx pool.
package jobs
