package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// CancelledDetail is the failure detail for items never handed to a worker.
const CancelledDetail = "cancelled before processing"

// TransformFunc processes one source. Its ctx is done only when the item
// deadline passes.
type TransformFunc func(ctx context.Context, src Source) Outcome

type dispatchConfig struct {
	itemTimeout time.Duration
}

// DispatchOption configures Dispatch.
type DispatchOption func(*dispatchConfig)

// WithItemTimeout bounds the time a single item may take. Zero disables it.
func WithItemTimeout(d time.Duration) DispatchOption {
	return func(c *dispatchConfig) { c.itemTimeout = d }
}

// Dispatch runs fn over items on a pool of workers pulling from a shared
// queue and streams one Outcome per item. With a single worker outcomes
// arrive in input order. Once ctx is done no further items are started and
// each remaining item yields a Failure with CancelledDetail. Items already
// handed to a worker run to completion. The channel is closed after the
// last outcome.
func Dispatch(ctx context.Context, items []Source, workers int, fn TransformFunc, opts ...DispatchOption) <-chan Outcome {
	var cfg dispatchConfig
	for _, o := range opts {
		o(&cfg)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan Source)
	out := make(chan Outcome)
	workCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				out <- runItem(workCtx, src, fn, cfg.itemTimeout)
			}
		}()
	}

	go func() {
		next := 0
	feed:
		for next < len(items) {
			if ctx.Err() != nil {
				break
			}
			select {
			case <-ctx.Done():
				break feed
			case jobs <- items[next]:
				next++
			}
		}
		close(jobs)
		wg.Wait()

		for _, src := range items[next:] {
			out <- failed(src, CancelledDetail)
		}
		close(out)
	}()

	return out
}

// runItem calls fn with the item deadline applied and turns a panic into a
// Failure.
func runItem(ctx context.Context, src Source, fn TransformFunc, timeout time.Duration) (o Outcome) {
	itemCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		itemCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			o = failed(src, fmt.Sprintf("panic: %v", r))
		}
	}()

	o = fn(itemCtx, src)
	o.Source = src
	if o.Status == Failure && timeout > 0 && errors.Is(itemCtx.Err(), context.DeadlineExceeded) {
		o.Err = fmt.Sprintf("timed out after %s", timeout)
	}
	return o
}
