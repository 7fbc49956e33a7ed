package search

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_RunsAfterDelay(t *testing.T) {
	d := NewDebouncer[string](10 * time.Millisecond)
	start := time.Now()

	v, err := d.Do(context.Background(), "row-0", func(context.Context) (string, error) {
		return "ABC商事", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ABC商事", v)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, 0, d.Pending())
}

func TestDo_NewerKeystrokeDropsPendingLookup(t *testing.T) {
	d := NewDebouncer[string](50 * time.Millisecond)
	var calls atomic.Int32
	lookup := func(term string) func(context.Context) (string, error) {
		return func(context.Context) (string, error) {
			calls.Add(1)
			return term, nil
		}
	}

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = d.Do(context.Background(), "row-0", lookup("A"))
	}()
	time.Sleep(10 * time.Millisecond)

	v, err := d.Do(context.Background(), "row-0", lookup("AB"))
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, "AB", v)
	assert.ErrorIs(t, firstErr, ErrSuperseded)
	assert.Equal(t, int32(1), calls.Load(), "the superseded lookup never fires")
}

func TestDo_DiscardsLateResult(t *testing.T) {
	d := NewDebouncer[string](0)
	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowErr = d.Do(context.Background(), "row-1", func(context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
	}()
	<-started

	v, err := d.Do(context.Background(), "row-1", func(context.Context) (string, error) {
		return "fresh", nil
	})
	close(release)
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.ErrorIs(t, slowErr, ErrSuperseded)
}

func TestDo_KeysAreIndependent(t *testing.T) {
	d := NewDebouncer[int](20 * time.Millisecond)
	var wg sync.WaitGroup
	results := make([]int, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = d.Do(context.Background(), []string{"a", "b"}[i], func(context.Context) (int, error) {
				return i + 1, nil
			})
		}(i)
	}
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Equal(t, []int{1, 2}, results)
}

func TestDo_CancelledContext(t *testing.T) {
	d := NewDebouncer[string](time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Do(ctx, "row-0", func(context.Context) (string, error) {
		t.Fatal("lookup must not run")
		return "", nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, d.Pending())
}

func TestDo_StaleResultLosesAfterKeyIsReused(t *testing.T) {
	d := NewDebouncer[string](0)
	releaseA := make(chan struct{})
	startedA := make(chan struct{})

	var wg sync.WaitGroup
	var aVal string
	var aErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		aVal, aErr = d.Do(context.Background(), "row-0", func(context.Context) (string, error) {
			close(startedA)
			<-releaseA
			return "A", nil
		})
	}()
	<-startedA

	// B overtakes A and finishes, which forgets the key.
	b, err := d.Do(context.Background(), "row-0", func(context.Context) (string, error) {
		return "B", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "B", b)

	// C starts on the forgotten key; A resolves while C is in flight.
	c, err := d.Do(context.Background(), "row-0", func(context.Context) (string, error) {
		close(releaseA)
		wg.Wait()
		return "C", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "C", c)
	assert.ErrorIs(t, aErr, ErrSuperseded)
	assert.Empty(t, aVal)
	assert.Equal(t, 0, d.Pending())
}
