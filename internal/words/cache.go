package words

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Cache stores successful lookups keyed by normalized query.
// Implementations may be backed by memory (this package) or SQL (store).
type Cache interface {
	Get(ctx context.Context, key string) ([]Candidate, bool, error)
	Put(ctx context.Context, key string, cands []Candidate) error
}

// DefaultFlightTimeout bounds one shared upstream call.
const DefaultFlightTimeout = 10 * time.Second

// Cached wraps a Lookup with a result cache and in-flight coalescing:
// concurrent lookups of the same query share one upstream request.
//
// The shared request runs detached from any single caller's context, so
// a caller that gives up (a superseded board state) never fails the
// callers still waiting on the same word. Each caller stops waiting when
// its own context ends.
type Cached struct {
	next  Lookup
	cache Cache
	group singleflight.Group

	// FlightTimeout bounds the shared upstream call; zero means
	// DefaultFlightTimeout.
	FlightTimeout time.Duration
}

// NewCached decorates next. A nil cache only coalesces.
func NewCached(next Lookup, cache Cache) *Cached {
	return &Cached{next: next, cache: cache}
}

// CacheKey normalizes a query into a cache key.
func CacheKey(spelling string, max int) string {
	return strings.ToLower(strings.TrimSpace(spelling)) + "|" + strconv.Itoa(max)
}

func (c *Cached) flightTimeout() time.Duration {
	if c.FlightTimeout > 0 {
		return c.FlightTimeout
	}
	return DefaultFlightTimeout
}

// Lookup serves from the cache, or joins (or starts) the in-flight
// upstream request for the same query.
func (c *Cached) Lookup(ctx context.Context, spelling string, max int) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := CacheKey(spelling, max)
	if c.cache != nil {
		got, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("lookup cache get")
		} else if ok {
			return got, nil
		}
	}

	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.flightTimeout())
		defer cancel()
		res, err := c.next.Lookup(fctx, spelling, max)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			if err := c.cache.Put(fctx, key, res); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("lookup cache put")
			}
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		if r.Shared {
			log.Debug().Str("key", key).Msg("lookup coalesced")
		}
		res, _ := r.Val.([]Candidate)
		return res, nil
	}
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string][]Candidate
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string][]Candidate)}
}

// Get returns the cached candidates for key.
func (m *MemoryCache) Get(_ context.Context, key string) ([]Candidate, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.m[key]
	return c, ok, nil
}

// Put stores a copy of cands under key.
func (m *MemoryCache) Put(_ context.Context, key string, cands []Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[key] = append([]Candidate(nil), cands...)
	return nil
}

// Len is the number of cached queries.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.m)
}
