package async_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chlomaki1/project-loved/pkg/async"
)

func TestAsync(t *testing.T) {
	t.Parallel()

	t.Run("returns result", func(t *testing.T) {
		t.Parallel()

		f := async.Async(context.Background(), 42, func(_ context.Context, n int) (string, error) {
			time.Sleep(10 * time.Millisecond)
			return fmt.Sprintf("n=%d", n), nil
		})

		res, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, "n=42", res)

		select {
		case <-f.Done():
		default:
			t.Fatal("done channel should be closed after Await")
		}
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		f := async.Async(context.Background(), 0, func(context.Context, int) (int, error) {
			return 0, boom
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, boom)
	})

	t.Run("cancelled context skips fn", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var called atomic.Bool
		f := async.Async(ctx, 0, func(context.Context, int) (int, error) {
			called.Store(true)
			return 1, nil
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called.Load())
	})

	t.Run("panic becomes error", func(t *testing.T) {
		t.Parallel()

		f := async.Async(context.Background(), 0, func(context.Context, int) (int, error) {
			panic("kaboom")
		})

		_, err := f.Await()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kaboom")
	})
}

func TestAwaitAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	boom := errors.New("boom")

	var finished atomic.Int32
	work := func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * 10 * time.Millisecond)
		finished.Add(1)
		if n == 1 {
			return 0, boom
		}
		return n * 10, nil
	}

	futures := []*async.Future[int]{
		async.Async(ctx, 3, work),
		async.Async(ctx, 1, work),
		async.Async(ctx, 2, work),
	}

	results, errs := async.AwaitAll(futures...)

	assert.Equal(t, int32(3), finished.Load(), "all futures must complete before AwaitAll returns")
	assert.Equal(t, []int{30, 0, 20}, results)
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], boom)
	assert.NoError(t, errs[2])
}

func TestAwaitAll_Empty(t *testing.T) {
	t.Parallel()

	results, errs := async.AwaitAll[int]()
	assert.Empty(t, results)
	assert.Empty(t, errs)
}
