package coalesce

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGroup_ConcurrentCallsShareOneComputation(t *testing.T) {
	t.Parallel()

	var g Group
	var calls int32
	start := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]string, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			v, err := Run(&g, "k", func() (string, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(10 * time.Millisecond)
				return "value", nil
			})
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	close(start)
	wg.Wait()

	require.Equal(t, int32(1), calls)
	for _, r := range results {
		require.Equal(t, "value", r)
	}
}

func TestGroup_FailureNotCached(t *testing.T) {
	t.Parallel()

	var g Group
	var calls int32

	_, err := Run(&g, "k", func() (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", errors.New("boom")
	})
	require.Error(t, err)

	v, err := Run(&g, "k", func() (string, error) {
		atomic.AddInt32(&calls, 1)
		return "retry", nil
	})
	require.NoError(t, err)
	require.Equal(t, "retry", v)
	require.Equal(t, int32(2), calls)
}

func TestGroup_DistinctKeysRunIndependently(t *testing.T) {
	t.Parallel()

	var g Group
	var calls int32

	v1, err := Run(&g, "a", func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 1, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, v1)

	v2, err := Run(&g, "b", func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 2, nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, v2)
	require.Equal(t, int32(2), calls)
}
