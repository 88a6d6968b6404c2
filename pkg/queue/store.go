package queue

import (
	"context"
	"time"
)

type (
	// Store is a single connection to a queue store.
	// Pop blocks for up to timeout waiting for a message on the named queue and returns
	// ErrNoMessage when nothing arrived in time. Any other error is a transport failure.
	Store interface {
		Pop(ctx context.Context, queue string, timeout time.Duration) (string, error)
		Close() error
	}

	// Connector opens a new dedicated Store connection. The registry calls it once per worker.
	Connector interface {
		Connect(ctx context.Context) (Store, error)
	}

	// ConnectorFunc adapts a function to the Connector interface.
	ConnectorFunc func(ctx context.Context) (Store, error)
)

func (f ConnectorFunc) Connect(ctx context.Context) (Store, error) {
	return f(ctx)
}
