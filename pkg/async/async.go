package async

import (
	"context"
	"fmt"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await waits for the computation to finish and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// Done is closed once the computation has finished.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// Async runs fn(ctx, param) in a new goroutine and returns a Future for its result.
// A context that is already cancelled completes the future with ctx.Err() without calling fn.
// A panic in fn completes the future with an error instead of crashing the process.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				var zero U
				f.result, f.err = zero, fmt.Errorf("async: panic: %v", r)
			}
		}()

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.result, f.err = fn(ctx, param)
	}()

	return f
}

// AwaitAll waits for every future, even after one of them failed, and returns the results
// and errors index-aligned with the input.
func AwaitAll[U any](futures ...*Future[U]) ([]U, []error) {
	results := make([]U, len(futures))
	errs := make([]error, len(futures))

	for i, f := range futures {
		results[i], errs[i] = f.Await()
	}

	return results, errs
}
