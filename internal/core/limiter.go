package core

// limiter.go bounds how many comparisons run at once.
//
// Extraction is CPU and memory heavy, so each comparison holds a slot of a
// semaphore for its whole duration. A request that cannot get a slot within
// maxWait fails with ErrTooManyComparisons. WaitForDrain lets shutdown wait
// for running comparisons.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyComparisons is returned when no comparison slot frees up in time.
var ErrTooManyComparisons = errors.New("too many comparisons in progress")

// DefaultMaxConcurrentComparisons is used when no positive limit is given.
const DefaultMaxConcurrentComparisons = 4

// DefaultMaxWait is how long Acquire waits for a slot by default.
const DefaultMaxWait = 30 * time.Second

// drainPollInterval is how often WaitForDrain checks for idle.
const drainPollInterval = 100 * time.Millisecond

// ComparisonLimiter is a counting semaphore for running comparisons.
type ComparisonLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.RWMutex
	active int
	total  int64
	denied int64
}

// NewComparisonLimiter allows at most maxConcurrent comparisons, each waiting
// at most maxWait for a slot.
func NewComparisonLimiter(maxConcurrent int, maxWait time.Duration) *ComparisonLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentComparisons
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	return &ComparisonLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting up to the limiter's max wait. It returns
// ErrTooManyComparisons on timeout or ctx's error if ctx ends first. Every
// successful Acquire must be paired with Release.
func (l *ComparisonLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.track(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		l.mu.Lock()
		l.denied++
		l.mu.Unlock()
		return ErrTooManyComparisons
	}
}

// TryAcquire takes a slot only if one is free right now.
func (l *ComparisonLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		l.track(1)
		return true
	default:
		return false
	}
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *ComparisonLimiter) Release() {
	l.track(-1)
	<-l.slots
}

func (l *ComparisonLimiter) track(delta int) {
	l.mu.Lock()
	l.active += delta
	if delta > 0 {
		l.total++
	}
	l.mu.Unlock()
}

// ActiveCount returns the number of comparisons holding a slot.
func (l *ComparisonLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the slot count.
func (l *ComparisonLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// Available returns the number of free slots.
func (l *ComparisonLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no comparison is active or ctx ends.
func (l *ComparisonLimiter) WaitForDrain(ctx context.Context) error {
	if l.ActiveCount() == 0 {
		return nil
	}

	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// LimiterStatus is a point-in-time view of a ComparisonLimiter.
type LimiterStatus struct {
	Active        int   `json:"active"`
	Available     int   `json:"available"`
	MaxConcurrent int   `json:"max_concurrent"`
	Started       int64 `json:"started"`
	Rejected      int64 `json:"rejected"`
}

// Status returns the limiter's counters.
func (l *ComparisonLimiter) Status() LimiterStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return LimiterStatus{
		Active:        l.active,
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
		Started:       l.total,
		Rejected:      l.denied,
	}
}
