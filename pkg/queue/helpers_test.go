package queue_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chlomaki1/project-loved/pkg/logger"
	"github.com/chlomaki1/project-loved/pkg/queue"
)

// logBuffer collects JSON log lines written from many goroutines.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// entries decodes every JSON record written so far.
func (b *logBuffer) entries(t *testing.T) []map[string]any {
	t.Helper()

	b.mu.Lock()
	data := b.buf.String()
	b.mu.Unlock()

	var out []map[string]any
	sc := bufio.NewScanner(strings.NewReader(data))
	for sc.Scan() {
		var e map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		out = append(out, e)
	}
	return out
}

// count returns how many records match the level and message.
func (b *logBuffer) count(t *testing.T, level, msg string) int {
	t.Helper()
	n := 0
	for _, e := range b.entries(t) {
		if e["level"] == level && (msg == "" || e["msg"] == msg) {
			n++
		}
	}
	return n
}

func newTestLogger(buf *logBuffer) *slog.Logger {
	return logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelDebug))
}

// recorder is a Handler that remembers every message it received.
type recorder struct {
	queue string
	err   error

	mu       sync.Mutex
	messages []string
}

func (r *recorder) QueueName() string { return r.queue }

func (r *recorder) HandleMessage(_ context.Context, msg string) error {
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
	return r.err
}

func (r *recorder) received() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// scriptedStore fails Pop on failQueue (every queue when empty) a fixed number of times,
// then serves messages from a MemoryStore. A negative failure count fails forever.
type scriptedStore struct {
	*queue.MemoryStore
	failQueue string
	err       error
	failures  atomic.Int32
	closed    atomic.Int32
	pops      atomic.Int32
}

func newScriptedStore(failQueue string, failures int32, err error) *scriptedStore {
	s := &scriptedStore{MemoryStore: queue.NewMemoryStore(), failQueue: failQueue, err: err}
	s.failures.Store(failures)
	return s
}

func (s *scriptedStore) Pop(ctx context.Context, name string, timeout time.Duration) (string, error) {
	if s.failQueue == "" || s.failQueue == name {
		s.pops.Add(1)
		if n := s.failures.Load(); n != 0 {
			if n > 0 {
				s.failures.Add(-1)
			}
			return "", s.err
		}
	}
	return s.MemoryStore.Pop(ctx, name, timeout)
}

// Close counts connection closes; the shared memory store stays open.
func (s *scriptedStore) Close() error {
	s.closed.Add(1)
	return nil
}

func (s *scriptedStore) connector() queue.Connector {
	return queue.ConnectorFunc(func(context.Context) (queue.Store, error) {
		return s, nil
	})
}

// newMemoryStore returns a store that is closed after the test's other cleanups have run.
func newMemoryStore(t *testing.T) *queue.MemoryStore {
	t.Helper()
	s := queue.NewMemoryStore()
	t.Cleanup(func() { _ = s.Close() })
	return s
}
