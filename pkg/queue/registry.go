package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chlomaki1/project-loved/pkg/async"
	"github.com/chlomaki1/project-loved/pkg/logger"
)

// HandlerRegistry maps queue names to handlers and supervises one worker per queue.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	started  bool
	group    *errgroup.Group

	// Configuration
	popTimeout     time.Duration
	handlerTimeout time.Duration
	retryBase      time.Duration
	retryMax       time.Duration
	maxRetries     uint64
	logger         *slog.Logger
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry(opts ...RegistryOption) *HandlerRegistry {
	options := &registryOptions{
		popTimeout: 5 * time.Second,
		retryBase:  100 * time.Millisecond,
		retryMax:   30 * time.Second,
		maxRetries: 10,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(options)
	}

	return &HandlerRegistry{
		handlers:       make(map[string]Handler),
		popTimeout:     options.popTimeout,
		handlerTimeout: options.handlerTimeout,
		retryBase:      options.retryBase,
		retryMax:       options.retryMax,
		maxRetries:     options.maxRetries,
		logger:         options.logger,
	}
}

// Register binds a handler to its queue. A second handler for the same queue replaces the first.
func (r *HandlerRegistry) Register(handler Handler) error {
	if handler == nil {
		return nil
	}

	queue := handler.QueueName()
	if queue == "" {
		return ErrEmptyQueueName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrRegistryStarted
	}

	if _, exists := r.handlers[queue]; exists {
		r.logger.Warn("replacing queue handler", logger.Queue(queue))
	}
	r.handlers[queue] = handler
	return nil
}

// RegisterHandlers registers multiple handlers in order
func (r *HandlerRegistry) RegisterHandlers(handlers ...Handler) error {
	for _, h := range handlers {
		if err := r.Register(h); err != nil {
			return err
		}
	}
	return nil
}

// Queues returns the registered queue names in sorted order
func (r *HandlerRegistry) Queues() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// StartAll opens one dedicated store connection per registered queue and launches a worker
// for each. It returns as soon as the workers are running. If any connection cannot be
// established, the connections already opened are closed and nothing is started.
//
// Workers stop when ctx is cancelled. Use Wait to block until they have all exited.
func (r *HandlerRegistry) StartAll(ctx context.Context, connector Connector) error {
	if connector == nil {
		return ErrConnectorNil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrRegistryStarted
	}
	if len(r.handlers) == 0 {
		return ErrNoHandlers
	}

	queues := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		queues = append(queues, name)
	}
	slices.Sort(queues)

	futures := make([]*async.Future[Store], len(queues))
	for i, queue := range queues {
		futures[i] = async.Async(ctx, queue, func(ctx context.Context, _ string) (Store, error) {
			return connector.Connect(ctx)
		})
	}

	stores, errs := async.AwaitAll(futures...)
	if err := errors.Join(errs...); err != nil {
		for _, s := range stores {
			if s != nil {
				_ = s.Close()
			}
		}
		return errors.Join(ErrConnectionFailed, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, queue := range queues {
		w := r.newWorker(queue, r.handlers[queue], stores[i])
		g.Go(func() error {
			return w.run(gctx)
		})
	}

	r.group = g
	r.started = true

	r.logger.InfoContext(ctx, "queue workers started",
		slog.Any("queues", queues),
		slog.Duration("pop_timeout", r.popTimeout))

	return nil
}

// Wait blocks until every worker has exited. It returns the first fatal worker error, or nil
// when the workers stopped because the start context was cancelled.
// A fatal error in one worker cancels the others.
func (r *HandlerRegistry) Wait() error {
	r.mu.RLock()
	g := r.group
	r.mu.RUnlock()

	if g == nil {
		return fmt.Errorf("handler registry not started")
	}
	return g.Wait()
}

// Run starts the registry and returns a function suitable for errgroup
func (r *HandlerRegistry) Run(ctx context.Context, connector Connector) func() error {
	return func() error {
		if err := r.StartAll(ctx, connector); err != nil {
			return err
		}
		return r.Wait()
	}
}

func (r *HandlerRegistry) newWorker(queue string, handler Handler, store Store) *worker {
	id := uuid.New()
	return &worker{
		id:             id,
		queue:          queue,
		handler:        handler,
		store:          store,
		popTimeout:     r.popTimeout,
		handlerTimeout: r.handlerTimeout,
		backoff:        r.newBackoff,
		logger: r.logger.With(
			logger.Queue(queue),
			logger.WorkerID(id.String()),
		),
	}
}
