package queue

import "errors"

// Common errors
var (
	// ErrNoMessage is returned by a Store when a blocking pop times out with nothing to deliver.
	// It marks the idle path and must never be treated as a failure.
	ErrNoMessage = errors.New("no message within timeout")

	// ErrEmptyQueueName is returned when a handler reports an empty queue name
	ErrEmptyQueueName = errors.New("queue name cannot be empty")

	// ErrNoHandlers is returned when the registry is started with no handlers registered
	ErrNoHandlers = errors.New("no queue handlers registered")

	// ErrRegistryStarted is returned when the registry is mutated or started twice
	ErrRegistryStarted = errors.New("handler registry already started")

	// ErrConnectorNil is returned when StartAll is called without a connector
	ErrConnectorNil = errors.New("queue store connector cannot be nil")

	// ErrConnectionFailed is returned when a worker's initial store connection cannot be established
	ErrConnectionFailed = errors.New("failed to connect to queue store")

	// ErrRetrievalExhausted is returned by a worker whose consecutive retrieval failures exceeded the retry budget
	ErrRetrievalExhausted = errors.New("queue retrieval retries exhausted")

	// ErrHandlerPanic wraps a recovered panic from a handler or task
	ErrHandlerPanic = errors.New("panic in handler")

	// ErrInvalidSchedule is returned when a cron expression cannot be parsed
	ErrInvalidSchedule = errors.New("invalid schedule format")

	// ErrNoTasks is returned when the task manager is started with no tasks
	ErrNoTasks = errors.New("no scheduled tasks registered")

	// ErrManagerStarted is returned when the task manager is used after Start
	ErrManagerStarted = errors.New("task manager already started")

	// ErrStoreClosed is returned by MemoryStore operations after Close
	ErrStoreClosed = errors.New("queue store is closed")
)
