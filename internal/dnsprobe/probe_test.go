package dnsprobe

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	calls int32
	fn    func(calls int32) ([]dns.RR, error)
}

func (s *stubResolver) Query(_ context.Context, _ string, _ uint16) ([]dns.RR, error) {
	n := atomic.AddInt32(&s.calls, 1)
	return s.fn(n)
}

func fastRetry() RetryPolicy {
	return RetryPolicy{Retries: 2, MinTimeout: time.Millisecond, MaxTimeout: 2 * time.Millisecond, Factor: 2}
}

func nonEmptyAnswer() []dns.RR {
	return []dns.RR{&dns.A{}}
}

func TestConfirm_ThresholdReachedAcrossServers(t *testing.T) {
	t.Parallel()

	a := &stubResolver{fn: func(int32) ([]dns.RR, error) { return nonEmptyAnswer(), nil }}
	b := &stubResolver{fn: func(int32) ([]dns.RR, error) { return nonEmptyAnswer(), nil }}
	c := &stubResolver{fn: func(int32) ([]dns.RR, error) { return nil, nil }}

	confirmed, err := Confirm(context.Background(), []Resolver{a, b, c}, "example.com", dns.TypeNS, Options{
		Confirmations: 2, MaxAttempts: 3, Retry: fastRetry(),
	})
	require.NoError(t, err)
	require.True(t, confirmed)
}

func TestConfirm_EmptyAnswersEverywhereIsNotConfirmed(t *testing.T) {
	t.Parallel()

	stubs := []Resolver{
		&stubResolver{fn: func(int32) ([]dns.RR, error) { return nil, nil }},
		&stubResolver{fn: func(int32) ([]dns.RR, error) { return nil, nil }},
	}
	confirmed, err := Confirm(context.Background(), stubs, "example.com", dns.TypeA, Options{
		Confirmations: 2, MaxAttempts: 2, Retry: fastRetry(),
	})
	require.NoError(t, err)
	require.False(t, confirmed)
}

func TestConfirm_MaxAttemptsClampedToServerCount(t *testing.T) {
	t.Parallel()

	var calls int32
	stub := &stubResolver{fn: func(n int32) ([]dns.RR, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	}}
	_, err := Confirm(context.Background(), []Resolver{stub}, "example.com", dns.TypeA, Options{
		Confirmations: 1, MaxAttempts: 10, Retry: fastRetry(),
	})
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestConfirm_RetryExhaustedTreatedAsNonConfirmingAndProbeContinues(t *testing.T) {
	t.Parallel()

	// The same stub fills both slots, so the shuffle cannot change the call
	// order: the first attempt's 3 calls (1 initial + 2 retries) all fail,
	// and the second attempt's first call confirms.
	flaky := &stubResolver{fn: func(n int32) ([]dns.RR, error) {
		if n <= 3 {
			return nil, errors.New("timeout")
		}
		return nonEmptyAnswer(), nil
	}}

	confirmed, err := Confirm(context.Background(), []Resolver{flaky, flaky}, "example.com", dns.TypeNS, Options{
		Confirmations: 1, MaxAttempts: 2, Retry: fastRetry(),
	})
	require.NoError(t, err)
	require.True(t, confirmed)
	require.Equal(t, int32(4), atomic.LoadInt32(&flaky.calls))
}

func TestConfirm_ResolverSucceedsOnKthRetry_ContributesOneAttempt(t *testing.T) {
	t.Parallel()

	flaky := &stubResolver{fn: func(n int32) ([]dns.RR, error) {
		if n < 3 {
			return nil, errors.New("transient")
		}
		return nonEmptyAnswer(), nil
	}}

	confirmed, err := Confirm(context.Background(), []Resolver{flaky}, "example.com", dns.TypeNS, Options{
		Confirmations: 1, MaxAttempts: 1, Retry: fastRetry(),
	})
	require.NoError(t, err)
	require.True(t, confirmed)
	require.Equal(t, int32(3), atomic.LoadInt32(&flaky.calls))
}

func TestConfirm_NoServersIsNotConfirmed(t *testing.T) {
	t.Parallel()

	confirmed, err := Confirm(context.Background(), nil, "example.com", dns.TypeA, Options{Confirmations: 1, MaxAttempts: 1, Retry: fastRetry()})
	require.NoError(t, err)
	require.False(t, confirmed)
}
