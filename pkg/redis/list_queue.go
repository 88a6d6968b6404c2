package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chlomaki1/project-loved/pkg/queue"
)

// ListQueue is a queue.Store backed by Redis lists.
// Producers LPUSH onto the head and consumers BRPOP from the tail, so each list is FIFO.
type ListQueue struct {
	client redis.UniversalClient
}

// NewListQueue wraps an existing client. Closing the ListQueue closes the client.
func NewListQueue(client redis.UniversalClient) *ListQueue {
	return &ListQueue{client: client}
}

// Push enqueues messages in order.
func (q *ListQueue) Push(ctx context.Context, name string, messages ...string) error {
	if len(messages) == 0 {
		return nil
	}

	values := make([]any, len(messages))
	for i, m := range messages {
		values[i] = m
	}
	return q.client.LPush(ctx, name, values...).Err()
}

// Pop blocks on BRPOP for up to timeout. Redis counts timeouts in whole seconds
// (fractions on 6.0+), and go-redis rounds sub-second values up to one second.
// An expired wait is reported as queue.ErrNoMessage.
func (q *ListQueue) Pop(ctx context.Context, name string, timeout time.Duration) (string, error) {
	res, err := q.client.BRPop(ctx, timeout, name).Result()
	if errors.Is(err, redis.Nil) {
		return "", queue.ErrNoMessage
	}
	if err != nil {
		return "", err
	}

	// BRPOP replies with [key, value]
	if len(res) != 2 {
		return "", fmt.Errorf("%w: BRPOP returned %d elements", ErrUnexpectedReply, len(res))
	}
	return res[1], nil
}

// Len returns the number of messages waiting in the named list.
func (q *ListQueue) Len(ctx context.Context, name string) (int64, error) {
	return q.client.LLen(ctx, name).Result()
}

// Close terminates the underlying client.
func (q *ListQueue) Close() error {
	return q.client.Close()
}

// Client returns the underlying Redis client.
func (q *ListQueue) Client() redis.UniversalClient {
	return q.client
}

// Connector opens one dedicated single-connection client per worker, so a broken
// connection on one queue never stalls the others.
type Connector struct {
	cfg Config
}

// NewConnector returns a queue.Connector for the given configuration.
func NewConnector(cfg Config) *Connector {
	cfg.PoolSize = 1
	return &Connector{cfg: cfg}
}

// Connect implements queue.Connector.
func (c *Connector) Connect(ctx context.Context) (queue.Store, error) {
	client, err := Connect(ctx, c.cfg)
	if err != nil {
		return nil, err
	}
	return NewListQueue(client), nil
}
