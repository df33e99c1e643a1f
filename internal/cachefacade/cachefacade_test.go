package cachefacade

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetOrCompute_NilCacheAlwaysComputes(t *testing.T) {
	t.Parallel()

	calls := 0
	for i := 0; i < 3; i++ {
		v, err := GetOrCompute[int](context.Background(), nil, "k", func() (int, error) {
			calls++
			return 42, nil
		})
		require.NoError(t, err)
		require.Equal(t, 42, v)
	}
	require.Equal(t, 3, calls)
}

func TestGetOrCompute_WritesThroughAndReusesCache(t *testing.T) {
	t.Parallel()

	c := NewMemory[string]()
	calls := 0

	v1, err := GetOrCompute(context.Background(), c, "k", func() (string, error) {
		calls++
		return "computed", nil
	})
	require.NoError(t, err)
	require.Equal(t, "computed", v1)

	v2, err := GetOrCompute(context.Background(), c, "k", func() (string, error) {
		calls++
		return "should-not-run", nil
	})
	require.NoError(t, err)
	require.Equal(t, "computed", v2)
	require.Equal(t, 1, calls)
}

func TestGetOrCompute_ThunkErrorNotCached(t *testing.T) {
	t.Parallel()

	c := NewMemory[string]()
	_, err := GetOrCompute(context.Background(), c, "k", func() (string, error) {
		return "", errors.New("boom")
	})
	require.Error(t, err)

	found, err := c.Has(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, found)
}
