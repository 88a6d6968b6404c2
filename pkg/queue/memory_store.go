package queue

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process queue store for testing and local development.
// Push appends to the tail of a queue and Pop takes from the head, which matches
// the LPUSH/BRPOP ordering of the Redis store.
type MemoryStore struct {
	mu      sync.Mutex
	queues  map[string][]string
	waiters map[string]chan struct{}
	closed  bool
	done    chan struct{}
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		queues:  make(map[string][]string),
		waiters: make(map[string]chan struct{}),
		done:    make(chan struct{}),
	}
}

// Push appends messages to the named queue and wakes up blocked consumers.
func (ms *MemoryStore) Push(_ context.Context, queue string, messages ...string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.closed {
		return ErrStoreClosed
	}
	if len(messages) == 0 {
		return nil
	}

	ms.queues[queue] = append(ms.queues[queue], messages...)
	if ch, ok := ms.waiters[queue]; ok {
		close(ch)
		delete(ms.waiters, queue)
	}
	return nil
}

// Len returns the number of messages waiting in the named queue.
func (ms *MemoryStore) Len(queue string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.queues[queue])
}

// Pop implements Store
func (ms *MemoryStore) Pop(ctx context.Context, queue string, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		ms.mu.Lock()
		if ms.closed {
			ms.mu.Unlock()
			return "", ErrStoreClosed
		}
		if msgs := ms.queues[queue]; len(msgs) > 0 {
			msg := msgs[0]
			ms.queues[queue] = msgs[1:]
			ms.mu.Unlock()
			return msg, nil
		}
		ch, ok := ms.waiters[queue]
		if !ok {
			ch = make(chan struct{})
			ms.waiters[queue] = ch
		}
		ms.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ms.done:
			return "", ErrStoreClosed
		case <-timer.C:
			return "", ErrNoMessage
		case <-ch:
		}
	}
}

// Close releases blocked consumers. Subsequent operations return ErrStoreClosed.
func (ms *MemoryStore) Close() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.closed {
		return nil
	}
	ms.closed = true
	close(ms.done)
	return nil
}

// Connector returns a Connector whose connections share this store.
// Closing a connection does not close the store.
func (ms *MemoryStore) Connector() Connector {
	return ConnectorFunc(func(context.Context) (Store, error) {
		return memoryConn{ms}, nil
	})
}

type memoryConn struct {
	*MemoryStore
}

func (memoryConn) Close() error { return nil }
