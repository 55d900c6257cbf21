package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyUploads is returned when every analysis slot stays busy for
// longer than the limiter's wait time. Clients should retry shortly.
var ErrTooManyUploads = errors.New("too many concurrent uploads, please try again later")

const (
	DefaultMaxConcurrentUploads = 5
	DefaultMaxWaitTime          = 30 * time.Second
)

// UploadLimiter bounds how many analyses run at once. Parsing holds the
// whole payload in memory, so the slot count caps peak memory use.
type UploadLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	// inflight counts callers holding or waiting for a slot. A caller is
	// counted before it can take a slot, so WaitForDrain never misses one.
	mu       sync.Mutex
	inflight int
	idle     chan struct{} // closed while inflight == 0
}

// NewUploadLimiter allows maxConcurrent analyses, each caller waiting at
// most maxWait for a slot. Non-positive arguments select the defaults.
func NewUploadLimiter(maxConcurrent int, maxWait time.Duration) *UploadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentUploads
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	idle := make(chan struct{})
	close(idle)
	return &UploadLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
		idle:    idle,
	}
}

// Acquire blocks until a slot is free, ctx ends, or the wait time passes.
// Every successful Acquire must be paired with Release.
func (l *UploadLimiter) Acquire(ctx context.Context) error {
	l.track()
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.untrack()
		return ctx.Err()
	case <-timer.C:
		l.untrack()
		return ErrTooManyUploads
	}
}

// TryAcquire takes a slot only if one is free right now.
func (l *UploadLimiter) TryAcquire() bool {
	l.track()
	select {
	case l.slots <- struct{}{}:
		return true
	default:
		l.untrack()
		return false
	}
}

func (l *UploadLimiter) track() {
	l.mu.Lock()
	if l.inflight == 0 {
		l.idle = make(chan struct{})
	}
	l.inflight++
	l.mu.Unlock()
}

func (l *UploadLimiter) untrack() {
	l.mu.Lock()
	l.inflight--
	if l.inflight == 0 {
		close(l.idle)
	}
	l.mu.Unlock()
}

func (l *UploadLimiter) pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inflight
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *UploadLimiter) Release() {
	<-l.slots
	l.untrack()
}

// ActiveCount returns the number of running analyses.
func (l *UploadLimiter) ActiveCount() int { return len(l.slots) }

func (l *UploadLimiter) MaxConcurrent() int { return cap(l.slots) }

func (l *UploadLimiter) Available() int { return cap(l.slots) - len(l.slots) }

// WaitForDrain blocks until no analysis is running or waiting for a slot,
// or ctx ends.
// The server calls it during shutdown.
func (l *UploadLimiter) WaitForDrain(ctx context.Context) error {
	l.mu.Lock()
	idle := l.idle
	l.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UploadLimiterStatus is a point-in-time view of the limiter.
type UploadLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

func (l *UploadLimiter) Status() UploadLimiterStatus {
	return UploadLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     l.Available(),
		MaxConcurrent: l.MaxConcurrent(),
	}
}
