package core

import (
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultResultTTL is how long a finished result stays downloadable.
const DefaultResultTTL = 30 * time.Minute

// ResultStore keeps finished results in memory for a bounded time so a
// rendered page can link to its CSV. Nothing is written to disk.
//
// Expiry counts from Put; downloading a result does not extend it.
type ResultStore struct {
	ttl   time.Duration
	cache *ttlcache.Cache[string, *Result]
}

// NewResultStore returns a store that keeps results for ttl.
func NewResultStore(ttl time.Duration) *ResultStore {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &ResultStore{
		ttl: ttl,
		cache: ttlcache.New[string, *Result](
			ttlcache.WithTTL[string, *Result](ttl),
			ttlcache.WithDisableTouchOnHit[string, *Result](),
		),
	}
}

// Put stores r under r.ID.
func (s *ResultStore) Put(r *Result) {
	s.cache.Set(r.ID, r, ttlcache.DefaultTTL)
}

// Get returns the result stored under id. Expired results are reported as
// ErrResultNotFound even before the sweeper removes them.
func (s *ResultStore) Get(id string) (*Result, error) {
	item := s.cache.Get(id)
	if item == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrResultNotFound)
	}
	return item.Value(), nil
}

// Len returns the number of unexpired results.
func (s *ResultStore) Len() int {
	return s.cache.Len()
}

// Sweep removes expired results and returns how many were removed.
func (s *ResultStore) Sweep() int {
	before := s.cache.Metrics().Evictions
	s.cache.DeleteExpired()
	return int(s.cache.Metrics().Evictions - before)
}
