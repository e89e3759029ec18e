package async_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/defectlens/pkg/utils/async"
)

func waitOrFail(t *testing.T, wg *sync.WaitGroup, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(d):
		t.Fatal("Async handler did not complete within timeout")
	}
}

func TestDispatch(t *testing.T) {
	t.Run("Execute handler asynchronously", func(t *testing.T) {
		var wg sync.WaitGroup
		var executed atomic.Bool

		wg.Add(1)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			executed.Store(true)
			return nil
		})

		waitOrFail(t, &wg, time.Second)
		gt.True(t, executed.Load())
	})

	t.Run("Handle errors in async handler", func(t *testing.T) {
		var wg sync.WaitGroup

		wg.Add(1)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			return goerr.New("test error")
		})

		waitOrFail(t, &wg, time.Second)
	})

	t.Run("Recover from panic in async handler", func(t *testing.T) {
		var wg sync.WaitGroup

		wg.Add(1)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			panic("test panic")
		})

		waitOrFail(t, &wg, time.Second)
	})

	t.Run("Logger is preserved and cancellation is not", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctxlog.With(context.Background(), ctxlog.From(context.Background())))
		cancel()

		var wg sync.WaitGroup
		var hasLogger atomic.Bool
		var ctxErr error

		wg.Add(1)
		async.Dispatch(ctx, func(ctx context.Context) error {
			defer wg.Done()
			hasLogger.Store(ctxlog.From(ctx) != nil)
			ctxErr = ctx.Err()
			return nil
		})

		waitOrFail(t, &wg, time.Second)
		gt.True(t, hasLogger.Load())
		gt.NoError(t, ctxErr)
	})
}

func TestJoin(t *testing.T) {
	t.Run("runs every task", func(t *testing.T) {
		var counter atomic.Int32
		tasks := make([]func(ctx context.Context) error, 6)
		for i := range tasks {
			tasks[i] = func(ctx context.Context) error {
				counter.Add(1)
				return nil
			}
		}

		gt.NoError(t, async.Join(context.Background(), tasks...))
		gt.Equal(t, counter.Load(), int32(6))
	})

	t.Run("returns task error", func(t *testing.T) {
		err := async.Join(context.Background(),
			func(ctx context.Context) error { return nil },
			func(ctx context.Context) error { return goerr.New("aggregation failed") },
		)
		gt.Error(t, err)
	})

	t.Run("converts panic into error", func(t *testing.T) {
		err := async.Join(context.Background(),
			func(ctx context.Context) error { panic("boom") },
		)
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("panic")
	})

	t.Run("reports cancelled parent context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := async.Join(ctx, func(ctx context.Context) error { return nil })
		gt.Error(t, err)
	})

	t.Run("no tasks", func(t *testing.T) {
		gt.NoError(t, async.Join(context.Background()))
	})
}
