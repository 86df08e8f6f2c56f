// Package concurrency runs per-item work on a bounded pool of goroutines.
package concurrency

import (
	"context"
	"sync"
)

type ParallelOptions struct {
	// MaxWorkers is the number of goroutines working at the same time.
	MaxWorkers int
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 10,
	}
}

func (o ParallelOptions) workers(items int) int {
	n := o.MaxWorkers
	if n <= 0 {
		n = DefaultOptions().MaxWorkers
	}
	if n > items {
		n = items
	}
	return n
}

type result[R any] struct {
	index int
	value R
	err   error
}

// ProcessParallel calls itemFunc for every item and returns the results in
// input order. Items not started before ctx is done are reported with
// ctx.Err().
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	jobs := make(chan int, len(items))
	for i := range items {
		jobs <- i
	}
	close(jobs)

	results := make(chan result[R], len(items))
	var wg sync.WaitGroup
	for w := 0; w < opts.workers(len(items)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result[R]{index: i, err: err}
					continue
				}
				v, err := itemFunc(ctx, i, items[i])
				results <- result[R]{index: i, value: v, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]R, len(items))
	var errs []error
	for res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
		}
		out[res.index] = res.value
	}
	return out, errs
}

// ForEach is ProcessParallel for work that only has side effects.
func ForEach[T any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) error,
) []error {
	_, errs := ProcessParallel(ctx, items, opts, func(ctx context.Context, i int, item T) (struct{}, error) {
		return struct{}{}, itemFunc(ctx, i, item)
	})
	return errs
}
