// Package workpool runs a fixed list of jobs on a bounded set of goroutines
// and hands results back to the caller's goroutine.
package workpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type result[R any] struct {
	index int
	value R
}

// Run calls fn for every item with at most limit calls in flight. Each
// result is passed to collect on the goroutine that called Run, in completion
// order, so collect needs no locking.
//
// The first error from fn cancels the context handed to the remaining calls
// and is returned once every started call has finished. Items are not
// submitted after ctx is done; Run then returns ctx's error.
func Run[T, R any](
	ctx context.Context,
	limit int,
	items []T,
	fn func(ctx context.Context, index int, item T) (R, error),
	collect func(index int, value R),
) error {
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make(chan result[R])
	done := make(chan error, 1)

	go func() {
		submitted := 0
		for i, item := range items {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				v, err := fn(gctx, i, item)
				if err != nil {
					return err
				}
				select {
				case results <- result[R]{index: i, value: v}:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
			submitted++
		}
		err := g.Wait()
		if err == nil && submitted < len(items) {
			err = ctx.Err()
		}
		done <- err
		close(results)
	}()

	for r := range results {
		if collect != nil {
			collect(r.index, r.value)
		}
	}
	return <-done
}
