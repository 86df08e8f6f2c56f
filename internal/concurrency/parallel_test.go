package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func letter(_ context.Context, _ int, item int) (string, error) {
	return string(rune('a' + item - 1)), nil
}

func TestDefaultOptions(t *testing.T) {
	assert.Equal(t, 10, DefaultOptions().MaxWorkers)
}

func TestProcessParallel(t *testing.T) {
	ctx := context.Background()

	results, errs := ProcessParallel(ctx, []int{}, DefaultOptions(), letter)
	assert.Empty(t, results)
	assert.Nil(t, errs)

	input := []int{1, 2, 3, 4, 5}
	for _, opts := range []ParallelOptions{DefaultOptions(), {MaxWorkers: 2}, {MaxWorkers: -1}} {
		results, errs = ProcessParallel(ctx, input, opts, letter)
		assert.Empty(t, errs)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, results)
	}

	results, errs = ProcessParallel(ctx, input, DefaultOptions(), func(ctx context.Context, index int, item int) (string, error) {
		if item%2 == 0 {
			return "", errors.New("even number error")
		}
		return letter(ctx, index, item)
	})
	assert.Len(t, errs, 2)
	assert.Equal(t, []string{"a", "", "c", "", "e"}, results)
}

func TestProcessParallelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results, errs := ProcessParallel(ctx, []int{1, 2, 3}, DefaultOptions(), func(ctx context.Context, index int, item int) (string, error) {
		calls.Add(1)
		return letter(ctx, index, item)
	})
	assert.Zero(t, calls.Load())
	assert.Equal(t, []string{"", "", ""}, results)
	require.Len(t, errs, 3)
	assert.ErrorIs(t, errs[0], context.Canceled)
}

func TestProcessParallelOrder(t *testing.T) {
	input := []int{5, 3, 1, 4, 2}

	results, errs := ProcessParallel(context.Background(), input, DefaultOptions(), func(ctx context.Context, index int, item int) (int, error) {
		time.Sleep(time.Duration(item) * 5 * time.Millisecond)
		return item, nil
	})
	assert.Empty(t, errs)
	assert.Equal(t, input, results)
}

func TestProcessParallelBoundsWorkers(t *testing.T) {
	var running, peak atomic.Int32
	_, errs := ProcessParallel(context.Background(), make([]int, 20), ParallelOptions{MaxWorkers: 3}, func(ctx context.Context, index int, item int) (int, error) {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		return 0, nil
	})
	assert.Empty(t, errs)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestForEach(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, ForEach(ctx, []int{}, DefaultOptions(), func(ctx context.Context, index int, item int) error {
		return nil
	}))

	input := []int{1, 2, 3, 4, 5}
	results := make([]string, len(input))
	errs := ForEach(ctx, input, ParallelOptions{MaxWorkers: 2}, func(ctx context.Context, index int, item int) error {
		results[index], _ = letter(ctx, index, item)
		return nil
	})
	assert.Empty(t, errs)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, results)

	errs = ForEach(ctx, input, DefaultOptions(), func(ctx context.Context, index int, item int) error {
		if item%2 == 0 {
			return errors.New("even number error")
		}
		return nil
	})
	assert.Len(t, errs, 2)
}
