package queue

import (
	"log/slog"
	"time"
)

// RegistryOption is a functional option for configuring a handler registry
type RegistryOption func(*registryOptions)

type registryOptions struct {
	popTimeout     time.Duration
	handlerTimeout time.Duration
	retryBase      time.Duration
	retryMax       time.Duration
	maxRetries     uint64
	logger         *slog.Logger
}

// WithPopTimeout sets how long a worker blocks waiting for a message before looping
func WithPopTimeout(d time.Duration) RegistryOption {
	return func(o *registryOptions) {
		if d > 0 {
			o.popTimeout = d
		}
	}
}

// WithHandlerTimeout bounds every HandleMessage call. Zero means no deadline.
func WithHandlerTimeout(d time.Duration) RegistryOption {
	return func(o *registryOptions) {
		if d >= 0 {
			o.handlerTimeout = d
		}
	}
}

// WithRetrievalBackoff configures the exponential backoff applied after a failed retrieval.
// After maxRetries consecutive failures the worker gives up with ErrRetrievalExhausted.
func WithRetrievalBackoff(base, maxInterval time.Duration, maxRetries uint64) RegistryOption {
	return func(o *registryOptions) {
		if base > 0 {
			o.retryBase = base
		}
		if maxInterval > 0 {
			o.retryMax = maxInterval
		}
		o.maxRetries = maxRetries
	}
}

// WithRegistryLogger sets the logger for the registry and its workers
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(o *registryOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
