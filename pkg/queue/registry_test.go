package queue_test

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chlomaki1/project-loved/pkg/logger"
	"github.com/chlomaki1/project-loved/pkg/queue"
)

func newRegistry(opts ...queue.RegistryOption) *queue.HandlerRegistry {
	base := []queue.RegistryOption{
		queue.WithPopTimeout(20 * time.Millisecond),
		queue.WithRetrievalBackoff(time.Millisecond, 5*time.Millisecond, 3),
		queue.WithRegistryLogger(logger.Discard()),
	}
	return queue.NewHandlerRegistry(append(base, opts...)...)
}

// startRegistry starts r against connector and stops it when the test ends.
func startRegistry(t *testing.T, r *queue.HandlerRegistry, connector queue.Connector) context.CancelFunc {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, r.StartAll(ctx, connector))

	t.Cleanup(func() {
		cancel()
		done := make(chan error, 1)
		go func() { done <- r.Wait() }()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("workers did not stop")
		}
	})
	return cancel
}

func TestHandlerRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("nil handler is ignored", func(t *testing.T) {
		t.Parallel()

		r := newRegistry()
		require.NoError(t, r.Register(nil))
		assert.Empty(t, r.Queues())
	})

	t.Run("empty queue name", func(t *testing.T) {
		t.Parallel()

		r := newRegistry()
		err := r.Register(&recorder{})
		assert.ErrorIs(t, err, queue.ErrEmptyQueueName)
	})

	t.Run("queues are sorted", func(t *testing.T) {
		t.Parallel()

		r := newRegistry()
		require.NoError(t, r.RegisterHandlers(
			&recorder{queue: "b"},
			&recorder{queue: "a"},
			&recorder{queue: "c"},
		))
		assert.Equal(t, []string{"a", "b", "c"}, r.Queues())
	})

	t.Run("register after start", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore(t)

		r := newRegistry()
		require.NoError(t, r.Register(&recorder{queue: "q1"}))
		startRegistry(t, r, store.Connector())

		err := r.Register(&recorder{queue: "q2"})
		assert.ErrorIs(t, err, queue.ErrRegistryStarted)
		assert.Equal(t, []string{"q1"}, r.Queues())
	})
}

func TestHandlerRegistry_LastRegistrationWins(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t)

	first := &recorder{queue: "q1"}
	second := &recorder{queue: "q1"}

	r := newRegistry()
	require.NoError(t, r.Register(first))
	require.NoError(t, r.Register(second))
	assert.Equal(t, []string{"q1"}, r.Queues())

	startRegistry(t, r, store.Connector())
	require.NoError(t, store.Push(context.Background(), "q1", "a", "b"))

	require.Eventually(t, func() bool {
		return len(second.received()) == 2
	}, 2*time.Second, 5*time.Millisecond)

	assert.Empty(t, first.received())
}

func TestHandlerRegistry_StartAll(t *testing.T) {
	t.Parallel()

	t.Run("no handlers", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore(t)

		err := newRegistry().StartAll(context.Background(), store.Connector())
		assert.ErrorIs(t, err, queue.ErrNoHandlers)
	})

	t.Run("nil connector", func(t *testing.T) {
		t.Parallel()

		r := newRegistry()
		require.NoError(t, r.Register(&recorder{queue: "q1"}))
		assert.ErrorIs(t, r.StartAll(context.Background(), nil), queue.ErrConnectorNil)
	})

	t.Run("started twice", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore(t)

		r := newRegistry()
		require.NoError(t, r.Register(&recorder{queue: "q1"}))
		startRegistry(t, r, store.Connector())

		assert.ErrorIs(t, r.StartAll(context.Background(), store.Connector()), queue.ErrRegistryStarted)
	})

	t.Run("wait before start", func(t *testing.T) {
		t.Parallel()

		assert.Error(t, newRegistry().Wait())
	})

	t.Run("connection failure closes opened connections", func(t *testing.T) {
		t.Parallel()

		dialErr := errors.New("dial tcp: connection refused")
		healthy := newScriptedStore("", 0, nil)

		var calls atomic.Int32
		connector := queue.ConnectorFunc(func(context.Context) (queue.Store, error) {
			if calls.Add(1) == 2 {
				return nil, dialErr
			}
			return healthy, nil
		})

		r := newRegistry()
		require.NoError(t, r.RegisterHandlers(
			&recorder{queue: "q1"},
			&recorder{queue: "q2"},
			&recorder{queue: "q3"},
		))

		err := r.StartAll(context.Background(), connector)
		require.ErrorIs(t, err, queue.ErrConnectionFailed)
		assert.ErrorIs(t, err, dialErr)
		assert.Equal(t, int32(3), calls.Load())
		assert.Equal(t, int32(2), healthy.closed.Load(), "successful connections must be released")

		// the registry stays unstarted and can be retried
		assert.NoError(t, r.Register(&recorder{queue: "q4"}))
	})

	t.Run("one connection per worker", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore(t)

		var calls atomic.Int32
		connector := queue.ConnectorFunc(func(ctx context.Context) (queue.Store, error) {
			calls.Add(1)
			return store.Connector().Connect(ctx)
		})

		r := newRegistry()
		require.NoError(t, r.RegisterHandlers(
			&recorder{queue: "q1"},
			&recorder{queue: "q2"},
		))
		startRegistry(t, r, connector)

		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestHandlerRegistry_EndToEnd(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t)

	q1 := &recorder{queue: "q1"}
	other := &recorder{queue: "other"}

	r := newRegistry()
	require.NoError(t, r.RegisterHandlers(q1, other))
	startRegistry(t, r, store.Connector())

	require.NoError(t, store.Push(context.Background(), "q1", "hello"))

	require.Eventually(t, func() bool {
		return len(q1.received()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	// give any stray dispatch a chance to show up
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, []string{"hello"}, q1.received())
	assert.Empty(t, other.received())
	assert.Zero(t, store.Len("q1"))
}

func TestHandlerRegistry_QueueIsolation(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t)

	failing := &recorder{queue: "q1", err: errors.New("handler exploded")}
	panicking := queue.NewHandler("q2", func(context.Context, string) error {
		panic("unexpected nil")
	})
	healthy := &recorder{queue: "q3"}

	r := newRegistry()
	require.NoError(t, r.RegisterHandlers(failing, panicking, healthy))
	startRegistry(t, r, store.Connector())

	ctx := context.Background()
	require.NoError(t, store.Push(ctx, "q1", "bad-1", "bad-2", "bad-3"))
	require.NoError(t, store.Push(ctx, "q2", "boom-1", "boom-2"))

	require.Eventually(t, func() bool {
		return len(failing.received()) == 3 && store.Len("q2") == 0
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, store.Push(ctx, "q3", "good"))

	require.Eventually(t, func() bool {
		return len(healthy.received()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	// the failing worker is still alive and keeps consuming
	require.NoError(t, store.Push(ctx, "q1", "bad-4"))
	require.Eventually(t, func() bool {
		return len(failing.received()) == 4
	}, 2*time.Second, 5*time.Millisecond)
}

func TestHandlerRegistry_SequentialPerQueue(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t)

	var (
		inFlight    atomic.Int32
		maxInFlight atomic.Int32
		order       = make(chan string, 10)
	)

	h := queue.NewHandler("q1", func(_ context.Context, msg string) error {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		order <- msg
		return nil
	})

	r := newRegistry()
	require.NoError(t, r.Register(h))

	msgs := make([]string, 5)
	for i := range msgs {
		msgs[i] = "m" + strconv.Itoa(i)
	}
	require.NoError(t, store.Push(context.Background(), "q1", msgs...))

	startRegistry(t, r, store.Connector())

	got := make([]string, 0, len(msgs))
	for range msgs {
		select {
		case m := <-order:
			got = append(got, m)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for messages")
		}
	}

	assert.Equal(t, msgs, got)
	assert.Equal(t, int32(1), maxInFlight.Load())
}

func TestHandlerRegistry_IdleIsNotAnError(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t)

	logs := &logBuffer{}
	r := newRegistry(queue.WithRegistryLogger(newTestLogger(logs)))
	require.NoError(t, r.Register(&recorder{queue: "quiet"}))
	startRegistry(t, r, store.Connector())

	require.Eventually(t, func() bool {
		return logs.count(t, "DEBUG", "no message on queue, polling again") >= 3
	}, 2*time.Second, 10*time.Millisecond)

	assert.Zero(t, logs.count(t, "ERROR", ""))
}

func TestHandlerRegistry_TransportErrorIsRetried(t *testing.T) {
	t.Parallel()

	store := newScriptedStore("q1", 2, errors.New("read: connection reset by peer"))
	logs := &logBuffer{}
	h := &recorder{queue: "q1"}

	r := newRegistry(queue.WithRegistryLogger(newTestLogger(logs)))
	require.NoError(t, r.Register(h))
	require.NoError(t, store.Push(context.Background(), "q1", "after-outage"))
	startRegistry(t, r, store.connector())

	require.Eventually(t, func() bool {
		return len(h.received()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, 2, logs.count(t, "ERROR", "failed to retrieve message"))

	var attempts []float64
	for _, e := range logs.entries(t) {
		if e["msg"] == "failed to retrieve message" {
			attempts = append(attempts, e["attempt"].(float64))
		}
	}
	assert.Equal(t, []float64{1, 2}, attempts)
}

func TestHandlerRegistry_RetrievalExhausted(t *testing.T) {
	t.Parallel()

	outage := errors.New("dial tcp: connection refused")
	store := newScriptedStore("broken", -1, outage)
	healthy := &recorder{queue: "healthy"}

	r := newRegistry(queue.WithRetrievalBackoff(time.Millisecond, 2*time.Millisecond, 2))
	require.NoError(t, r.RegisterHandlers(&recorder{queue: "broken"}, healthy))
	require.NoError(t, r.StartAll(context.Background(), store.connector()))

	done := make(chan error, 1)
	go func() { done <- r.Wait() }()

	select {
	case err := <-done:
		require.ErrorIs(t, err, queue.ErrRetrievalExhausted)
		assert.ErrorIs(t, err, outage)
		assert.Contains(t, err.Error(), "broken")
	case <-time.After(5 * time.Second):
		t.Fatal("registry did not report the exhausted worker")
	}

	// initial attempt plus two retries
	assert.Equal(t, int32(3), store.pops.Load())
	assert.Equal(t, int32(2), store.closed.Load(), "every worker closes its connection")
}

func TestHandlerRegistry_CancellationStopsWorkers(t *testing.T) {
	t.Parallel()

	store := newScriptedStore("", 0, nil)
	started := make(chan struct{})
	var sawCancel atomic.Bool

	h := queue.NewHandler("slow", func(ctx context.Context, _ string) error {
		close(started)
		<-ctx.Done()
		sawCancel.Store(true)
		return ctx.Err()
	})

	r := newRegistry()
	require.NoError(t, r.RegisterHandlers(h, &recorder{queue: "idle"}))
	require.NoError(t, store.Push(context.Background(), "slow", "hang"))

	ctx, cancel := context.WithCancel(context.Background())
	run := r.Run(ctx, store.connector())

	done := make(chan error, 1)
	go func() { done <- run() }()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never started")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not stop after cancellation")
	}

	assert.True(t, sawCancel.Load(), "handler must observe cancellation")
	assert.Equal(t, int32(2), store.closed.Load())
}

func TestHandlerRegistry_HandlerTimeout(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t)

	var handled atomic.Int32
	h := queue.NewHandler("q1", func(ctx context.Context, msg string) error {
		if msg == "hang" {
			<-ctx.Done()
			return ctx.Err()
		}
		handled.Add(1)
		return nil
	})

	r := newRegistry(queue.WithHandlerTimeout(20 * time.Millisecond))
	require.NoError(t, r.Register(h))
	require.NoError(t, store.Push(context.Background(), "q1", "hang", "next"))
	startRegistry(t, r, store.Connector())

	require.Eventually(t, func() bool {
		return handled.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)
}
