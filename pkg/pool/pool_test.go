package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectUnionOfSuccessfulTasks(t *testing.T) {
	years := []int{2020, 2021, 2022, 2023}

	records, failures := Collect(context.Background(), years, 3, func(_ context.Context, year int) ([]string, error) {
		if year == 2022 {
			return []string{"should not appear"}, errors.New("page failed to load")
		}
		return []string{fmt.Sprintf("%d-a", year), fmt.Sprintf("%d-b", year)}, nil
	})

	assert.ElementsMatch(t, []string{"2020-a", "2020-b", "2021-a", "2021-b", "2023-a", "2023-b"}, records)
	require.Len(t, failures, 1)
	assert.Equal(t, 2, failures[0].Index)
	assert.Equal(t, 2022, failures[0].Input)
	assert.ErrorContains(t, failures[0], "page failed to load")
}

func TestCollectRespectsWorkerLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	inputs := make([]int, 10)

	_, failures := Collect(context.Background(), inputs, 3, func(_ context.Context, _ int) ([]int, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return []int{1}, nil
	})

	assert.Empty(t, failures)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Greater(t, peak.Load(), int32(0))
}

func TestCollectKeepsTaskOrder(t *testing.T) {
	records, failures := Collect(context.Background(), []int{1}, 2, func(_ context.Context, _ int) ([]string, error) {
		return []string{"a", "b", "c"}, nil
	})
	assert.Empty(t, failures)
	assert.Equal(t, []string{"a", "b", "c"}, records)
}

func TestCollectRecoversPanics(t *testing.T) {
	records, failures := Collect(context.Background(), []string{"ok", "boom"}, 2, func(_ context.Context, s string) ([]string, error) {
		if s == "boom" {
			panic("browser crashed")
		}
		return []string{s}, nil
	})

	assert.Equal(t, []string{"ok"}, records)
	require.Len(t, failures, 1)
	assert.ErrorContains(t, failures[0].Err, "browser crashed")
}

func TestCollectCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	records, failures := Collect(ctx, []int{1, 2}, 1, func(_ context.Context, _ int) ([]int, error) {
		called.Store(true)
		return []int{1}, nil
	})

	assert.False(t, called.Load())
	assert.Empty(t, records)
	require.Len(t, failures, 2)
	assert.ErrorIs(t, failures[0], context.Canceled)
}

func TestCollectOnDone(t *testing.T) {
	var mu sync.Mutex
	done := map[int]int{}

	_, _ = Collect(context.Background(), []int{0, 1, 2}, 2, func(_ context.Context, i int) ([]int, error) {
		if i == 1 {
			return nil, errors.New("fail")
		}
		return make([]int, i+1), nil
	}, OnDone(func(index, count int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			count = -1
		}
		done[index] = count
	}))

	assert.Equal(t, map[int]int{0: 1, 1: -1, 2: 3}, done)
}

func TestCollectZeroWorkers(t *testing.T) {
	records, failures := Collect(context.Background(), []int{1, 2}, 0, func(_ context.Context, i int) ([]int, error) {
		return []int{i}, nil
	})
	assert.Empty(t, failures)
	assert.ElementsMatch(t, []int{1, 2}, records)
}
