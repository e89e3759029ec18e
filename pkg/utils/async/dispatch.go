package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Dispatch executes a handler function asynchronously with proper context and panic recovery.
// HTTP handlers use it to acknowledge a request while the work continues in background.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				ctxlog.From(newCtx).Error("Panic in async handler",
					"recover", r,
					"stack", string(stack),
				)
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("Error in async handler",
				"error", err,
			)
		}
	}()
}

// Join runs every task concurrently and waits for all of them. The first
// error (or recovered panic) is returned and cancels the context handed
// to the remaining tasks.
func Join(ctx context.Context, tasks ...func(ctx context.Context) error) error {
	eg, egCtx := errgroup.WithContext(ctx)

	for i, task := range tasks {
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					ctxlog.From(egCtx).Error("Panic in joined task",
						"task", i,
						"recover", r,
						"stack", string(debug.Stack()),
					)
					err = goerr.New("panic in joined task",
						goerr.V("task", i),
						goerr.V("recover", r))
				}
			}()
			return task(egCtx)
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// newBackgroundContext creates a new background context preserving the logger
func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()

	logger := ctxlog.From(ctx)
	if logger != nil {
		newCtx = ctxlog.With(newCtx, logger)
	}

	return newCtx
}
