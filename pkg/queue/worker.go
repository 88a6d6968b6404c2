package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/chlomaki1/project-loved/pkg/logger"
)

// worker drains a single queue with a dedicated store connection.
// Messages are dispatched strictly one at a time.
type worker struct {
	id             uuid.UUID
	queue          string
	handler        Handler
	store          Store
	popTimeout     time.Duration
	handlerTimeout time.Duration
	backoff        func() retry.Backoff
	logger         *slog.Logger
}

// newBackoff builds a fresh retrieval backoff: exponential from retryBase, capped at retryMax,
// giving up after maxRetries consecutive failures.
func (r *HandlerRegistry) newBackoff() retry.Backoff {
	b := retry.NewExponential(r.retryBase)
	b = retry.WithCappedDuration(r.retryMax, b)
	return retry.WithMaxRetries(r.maxRetries, b)
}

// run is the main retrieval loop
func (w *worker) run(ctx context.Context) error {
	defer func() {
		if err := w.store.Close(); err != nil {
			w.logger.WarnContext(ctx, "failed to close queue store connection", logger.Error(err))
		}
	}()

	w.logger.InfoContext(ctx, "worker started")

	b := w.backoff()
	failures := 0

	for {
		if ctx.Err() != nil {
			w.logger.InfoContext(ctx, "worker stopped")
			return nil
		}

		msg, err := w.store.Pop(ctx, w.queue, w.popTimeout)
		switch {
		case err == nil:
			if failures > 0 {
				b, failures = w.backoff(), 0
			}
			w.dispatch(ctx, msg)

		case errors.Is(err, ErrNoMessage):
			if failures > 0 {
				b, failures = w.backoff(), 0
			}
			w.logger.DebugContext(ctx, "no message on queue, polling again")

		case ctx.Err() != nil:
			w.logger.InfoContext(ctx, "worker stopped")
			return nil

		default:
			failures++
			delay, stop := b.Next()
			if stop {
				w.logger.ErrorContext(ctx, "giving up on queue retrieval",
					logger.Attempt(failures),
					logger.Error(err))
				return fmt.Errorf("%w: queue %q: %w", ErrRetrievalExhausted, w.queue, err)
			}

			w.logger.ErrorContext(ctx, "failed to retrieve message",
				logger.Attempt(failures),
				slog.Duration("retry_in", delay),
				logger.Error(err))

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				w.logger.InfoContext(ctx, "worker stopped")
				return nil
			case <-timer.C:
			}
		}
	}
}

// dispatch hands one message to the handler and logs the outcome. Failed messages are dropped.
func (w *worker) dispatch(ctx context.Context, msg string) {
	msgID := uuid.New()
	start := time.Now()

	w.logger.DebugContext(ctx, "dispatching message", logger.MessageID(msgID.String()))

	if err := w.handle(ctx, msg); err != nil {
		w.logger.ErrorContext(ctx, "failed to handle message",
			logger.MessageID(msgID.String()),
			logger.Duration(time.Since(start)),
			logger.Error(err))
		return
	}

	w.logger.DebugContext(ctx, "message handled",
		logger.MessageID(msgID.String()),
		logger.Duration(time.Since(start)))
}

// handle runs the handler, turning a panic into an error so the worker keeps going
func (w *worker) handle(ctx context.Context, msg string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	if w.handlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.handlerTimeout)
		defer cancel()
	}

	return w.handler.HandleMessage(ctx, msg)
}
