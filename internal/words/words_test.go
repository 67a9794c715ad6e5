package words

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListLookup(t *testing.T) {
	l, err := NewList([]string{"Cat", "cats", "dog", "cat", "d0g", "", "cart"})
	require.NoError(t, err)
	assert.Equal(t, 4, l.Len())
	ctx := context.Background()

	got, err := l.Lookup(ctx, "CAT", 1)
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{Word: "cat"}}, got)

	got, err = l.Lookup(ctx, "cow", 1)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = l.Lookup(ctx, "ca*", 10)
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{Word: "cart"}, {Word: "cat"}, {Word: "cats"}}, got)

	got, err = l.Lookup(ctx, "ca*", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = l.Lookup(ctx, "d?g", 5)
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{Word: "dog"}}, got)
}

func TestListLookupHonoursContext(t *testing.T) {
	l, err := NewList([]string{"cat"})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Lookup(ctx, "cat", 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmptyList(t *testing.T) {
	_, err := NewList([]string{"", "123"})
	assert.ErrorIs(t, err, ErrEmptyList)
}

func TestDefaultAndFileList(t *testing.T) {
	l, err := DefaultList()
	require.NoError(t, err)
	assert.True(t, l.Contains("CAT"))
	assert.True(t, l.Contains("dog"))

	p := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(p, []byte("# comment\nzebra\n\nQuartz\n"), 0o644))
	l, err = LoadList(p)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())
	assert.True(t, l.Contains("quartz"))
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches([]Candidate{{Word: "cat"}}, "CAT"))
	assert.False(t, Matches([]Candidate{{Word: "cats"}, {Word: "cat"}}, "CAT"))
	assert.False(t, Matches(nil, "CAT"))
}

func TestDatamuseLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/words", r.URL.Path)
		assert.Equal(t, "cat", r.URL.Query().Get("sp"))
		assert.Equal(t, "1", r.URL.Query().Get("max"))
		_, _ = w.Write([]byte(`[{"word":"cat","score":4321},{"word":"cot","score":1}]`))
	}))
	defer srv.Close()

	d := NewDatamuse(srv.URL, 1)
	got, err := d.Lookup(context.Background(), "CAT", 1)
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{Word: "cat", Score: 4321}}, got)
}

func TestDatamuseRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"word":"dog"}]`))
	}))
	defer srv.Close()

	d := NewDatamuse(srv.URL, 3)
	d.Delay = time.Millisecond
	got, err := d.Lookup(context.Background(), "dog", 1)
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{Word: "dog"}}, got)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestDatamuseDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	d := NewDatamuse(srv.URL, 5)
	d.Delay = time.Millisecond
	_, err := d.Lookup(context.Background(), "dog", 1)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestDatamuseContextTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewDatamuse(srv.URL, 2).Lookup(ctx, "dog", 1)
	assert.Error(t, err)
}

type countingLookup struct {
	calls int32
	gate  chan struct{}
}

func (c *countingLookup) Lookup(ctx context.Context, spelling string, max int) ([]Candidate, error) {
	atomic.AddInt32(&c.calls, 1)
	if c.gate != nil {
		<-c.gate
	}
	return []Candidate{{Word: spelling}}, nil
}

func TestCachedStoresResults(t *testing.T) {
	next := &countingLookup{}
	mem := NewMemoryCache()
	c := NewCached(next, mem)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.Lookup(ctx, "CAT", 1)
		require.NoError(t, err)
		assert.Equal(t, []Candidate{{Word: "CAT"}}, got)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&next.calls))
	assert.Equal(t, 1, mem.Len())
	_, ok, _ := mem.Get(ctx, CacheKey("cat", 1))
	assert.True(t, ok)
}

func TestCachedCoalescesInFlight(t *testing.T) {
	next := &countingLookup{gate: make(chan struct{})}
	c := NewCached(next, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Lookup(context.Background(), "dog", 1)
			assert.NoError(t, err)
		}()
	}
	require.Eventually(t, func() bool { return atomic.LoadInt32(&next.calls) == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(next.gate)
	wg.Wait()
	assert.EqualValues(t, 1, atomic.LoadInt32(&next.calls))
}

// slowLookup answers after delay unless its context ends first.
type slowLookup struct {
	delay time.Duration
	calls int32
}

func (s *slowLookup) Lookup(ctx context.Context, spelling string, _ int) ([]Candidate, error) {
	atomic.AddInt32(&s.calls, 1)
	select {
	case <-time.After(s.delay):
		return []Candidate{{Word: spelling}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCachedCallerCancelDoesNotFailOthers(t *testing.T) {
	next := &slowLookup{delay: 100 * time.Millisecond}
	mem := NewMemoryCache()
	c := NewCached(next, mem)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Lookup(first, "cat", 1)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&next.calls) == 1 }, time.Second, time.Millisecond)

	second := make(chan []Candidate, 1)
	go func() {
		got, err := c.Lookup(context.Background(), "cat", 1)
		assert.NoError(t, err)
		second <- got
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-firstErr, context.Canceled)
	assert.Equal(t, []Candidate{{Word: "cat"}}, <-second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&next.calls))

	// the abandoned first caller still populated the cache
	_, ok, _ := mem.Get(context.Background(), CacheKey("cat", 1))
	assert.True(t, ok)
}

func TestCachedFlightTimeout(t *testing.T) {
	c := NewCached(&slowLookup{delay: time.Second}, nil)
	c.FlightTimeout = 20 * time.Millisecond

	start := time.Now()
	_, err := c.Lookup(context.Background(), "cat", 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestCachedCancelledCallerReturnsImmediately(t *testing.T) {
	next := &slowLookup{delay: time.Millisecond}
	c := NewCached(next, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Lookup(ctx, "cat", 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, atomic.LoadInt32(&next.calls))
}
