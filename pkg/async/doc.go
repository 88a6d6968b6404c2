// Package async runs functions in goroutines and collects their results through
// generic futures.
//
// Async starts fn immediately and returns a *Future; Await blocks for the result.
// AwaitAll waits for a whole batch and never abandons a future early, which lets the
// caller release resources produced by the successful ones when another failed:
//
//	futures := make([]*async.Future[queue.Store], len(queues))
//	for i, q := range queues {
//	    futures[i] = async.Async(ctx, q, connect)
//	}
//	stores, errs := async.AwaitAll(futures...)
//	if err := errors.Join(errs...); err != nil {
//	    closeAll(stores)
//	    return err
//	}
package async
