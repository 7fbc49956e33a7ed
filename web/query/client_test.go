package query

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_app_go/web/apiclient"
)

func newTestClient() (*Client, *time.Time) {
	c := New()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	c.retryDelay = func(int) time.Duration { return 0 }
	return c, &now
}

func counter(v string, err error) (func(context.Context) (string, error), *int) {
	calls := 0
	return func(context.Context) (string, error) {
		calls++
		return v, err
	}, &calls
}

func TestFetch_ServesFreshEntryFromCache(t *testing.T) {
	c, now := newTestClient()
	key := Key{"reports", "detail", "1"}
	fn, calls := counter("report", nil)

	v, err := Fetch(context.Background(), c, key, fn)
	require.NoError(t, err)
	assert.Equal(t, "report", v)

	*now = now.Add(59 * time.Second)
	_, err = Fetch(context.Background(), c, key, fn)
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)

	*now = now.Add(2 * time.Second)
	_, err = Fetch(context.Background(), c, key, fn)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls, "entry older than the stale time refetches")
}

func TestFetch_CustomStaleTime(t *testing.T) {
	c, now := newTestClient()
	key := Key{"auth", "me"}
	fn, calls := counter("me", nil)

	_, _ = Fetch(context.Background(), c, key, fn, WithStaleTime(5*time.Minute))
	*now = now.Add(4 * time.Minute)
	_, _ = Fetch(context.Background(), c, key, fn, WithStaleTime(5*time.Minute))
	assert.Equal(t, 1, *calls)
}

func TestInvalidate_MarksGroupStaleWithoutRefetching(t *testing.T) {
	c, _ := newTestClient()
	list := Key{"reports", "list", "page=1"}
	detail := Key{"reports", "detail", "1"}
	customers := Key{"customers", "list"}
	for _, k := range []Key{list, detail, customers} {
		c.SetData(k, "v")
	}

	c.Invalidate(Key{"reports"})

	assert.True(t, c.IsStale(list))
	assert.True(t, c.IsStale(detail))
	assert.False(t, c.IsStale(customers))

	fn, calls := counter("fresh", nil)
	assert.Equal(t, 0, *calls)
	v, err := Fetch(context.Background(), c, detail, fn)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, 1, *calls)
	assert.False(t, c.IsStale(detail))
}

func TestFetch_RetriesServerErrorsThreeTimes(t *testing.T) {
	c, _ := newTestClient()
	fn, calls := counter("", &apiclient.APIError{Status: http.StatusInternalServerError})

	_, err := Fetch(context.Background(), c, Key{"reports"}, fn)
	require.Error(t, err)
	assert.Equal(t, 4, *calls, "one attempt plus three retries")
	assert.False(t, c.Has(Key{"reports"}), "failures are not cached")
}

func TestFetch_RetriesNetworkErrors(t *testing.T) {
	c, _ := newTestClient()
	fn, calls := counter("", errors.New("connection refused"))

	_, err := Fetch(context.Background(), c, Key{"customers"}, fn)
	require.Error(t, err)
	assert.Equal(t, 4, *calls)
}

func TestFetch_DoesNotRetryClientErrors(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound} {
		c, _ := newTestClient()
		fn, calls := counter("", &apiclient.APIError{Status: status})

		_, err := Fetch(context.Background(), c, Key{"reports", "detail", "9"}, fn)
		require.Error(t, err)
		assert.Equal(t, 1, *calls, "status %d", status)
	}
}

func TestFetch_NoRetryOption(t *testing.T) {
	c, _ := newTestClient()
	fn, calls := counter("", errors.New("boom"))

	_, err := Fetch(context.Background(), c, Key{"auth", "me"}, fn, WithRetry(NoRetry))
	require.Error(t, err)
	assert.Equal(t, 1, *calls)
}

func TestFetch_SucceedsAfterTransientFailure(t *testing.T) {
	c, _ := newTestClient()
	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, &apiclient.APIError{Status: http.StatusServiceUnavailable}
		}
		return 42, nil
	}

	v, err := Fetch(context.Background(), c, Key{"users"}, fn)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, calls)
}

func TestFetch_StopsRetryingWhenContextIsCancelled(t *testing.T) {
	c, _ := newTestClient()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	fn := func(context.Context) (string, error) {
		calls++
		cancel()
		return "", errors.New("network")
	}

	_, err := Fetch(ctx, c, Key{"reports"}, fn)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestEntriesAreGarbageCollected(t *testing.T) {
	c := NewWithGC(30 * time.Millisecond)
	c.SetData(Key{"customers", "list"}, "v")
	require.True(t, c.Has(Key{"customers", "list"}))

	assert.Eventually(t, func() bool {
		return !c.Has(Key{"customers", "list"})
	}, time.Second, 10*time.Millisecond)
}

func TestMutate_InvalidatesOnSuccessOnly(t *testing.T) {
	c, _ := newTestClient()
	key := Key{"customers", "list"}
	c.SetData(key, "v")

	_, err := Mutate(context.Background(), c, func(context.Context) (string, error) {
		return "", &apiclient.APIError{Status: http.StatusConflict, Code: "CONFLICT"}
	}, Key{"customers"})
	require.Error(t, err)
	assert.False(t, c.IsStale(key))

	calls := 0
	_, err = Mutate(context.Background(), c, func(context.Context) (string, error) {
		calls++
		return "ok", nil
	}, Key{"customers"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, c.IsStale(key))
}

func TestKeyHasPrefix(t *testing.T) {
	assert.True(t, Key{"reports", "detail", "1"}.HasPrefix(Key{"reports"}))
	assert.True(t, Key{"reports"}.HasPrefix(Key{}))
	assert.False(t, Key{"reports"}.HasPrefix(Key{"reports", "list"}))
	assert.False(t, Key{"customers", "list"}.HasPrefix(Key{"reports"}))
}

func TestClear(t *testing.T) {
	c, _ := newTestClient()
	c.SetData(Key{"auth", "me"}, "u")
	c.Clear()
	assert.False(t, c.Has(Key{"auth", "me"}))
}
