package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chlomaki1/project-loved/pkg/config"
	"github.com/chlomaki1/project-loved/pkg/logger"
	"github.com/chlomaki1/project-loved/pkg/queue"
)

func TestConfig_Defaults(t *testing.T) {
	var cfg queue.Config
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 5*time.Second, cfg.PopTimeout)
	assert.Zero(t, cfg.HandlerTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.RetryBaseInterval)
	assert.Equal(t, 30*time.Second, cfg.RetryMaxInterval)
	assert.Equal(t, uint64(10), cfg.MaxRetrievalRetry)
	assert.Zero(t, cfg.TaskTimeout)
	assert.False(t, cfg.AllowOverlap)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestConfig_FromEnv(t *testing.T) {
	t.Setenv("QUEUE_POP_TIMEOUT", "2s")
	t.Setenv("QUEUE_MAX_RETRIEVAL_RETRY", "3")
	t.Setenv("SCHEDULER_ALLOW_OVERLAP", "true")
	t.Setenv("SCHEDULER_TIMEZONE", "Asia/Tokyo")

	var cfg queue.Config
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 2*time.Second, cfg.PopTimeout)
	assert.Equal(t, uint64(3), cfg.MaxRetrievalRetry)
	assert.True(t, cfg.AllowOverlap)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
}

func TestConfig_RegistryOptions(t *testing.T) {
	t.Parallel()

	cfg := queue.Config{
		PopTimeout:        10 * time.Millisecond,
		RetryBaseInterval: time.Millisecond,
		RetryMaxInterval:  time.Millisecond,
		MaxRetrievalRetry: 1,
	}

	store := newScriptedStore("q", -1, assert.AnError)
	opts := append(cfg.RegistryOptions(), queue.WithRegistryLogger(logger.Discard()))
	r := queue.NewHandlerRegistry(opts...)
	require.NoError(t, r.Register(&recorder{queue: "q"}))

	err := r.Run(context.Background(), store.connector())()
	require.ErrorIs(t, err, queue.ErrRetrievalExhausted)
	assert.Equal(t, int32(2), store.pops.Load())
}

func TestConfig_TaskManagerOptions(t *testing.T) {
	t.Parallel()

	loc := func(tz string) *time.Location {
		cfg := queue.Config{Timezone: tz, ShutdownTimeout: time.Second}
		opts := append(cfg.TaskManagerOptions(), queue.WithTaskManagerLogger(logger.Discard()))
		m := queue.NewTaskManager(opts...)
		require.NoError(t, m.Register(queue.NewTask("noon", queue.DailyAt(12, 0), func(context.Context) error { return nil })))
		return m.Entries()[0].Next.Location()
	}

	assert.Equal(t, "Asia/Tokyo", loc("Asia/Tokyo").String())
	assert.Equal(t, "UTC", loc("Mars/Olympus_Mons").String())
}
