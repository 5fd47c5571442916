package web

// jobs.go caps how many pricing runs the server executes at once.
//
// Every run paces its calls against the same catalog client, so letting many
// runs in at once only makes each of them slower. A request that cannot get a
// slot within maxWait fails with ErrTooManyRuns.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTooManyRuns is returned when every run slot stays busy for maxWait.
var ErrTooManyRuns = errors.New("too many concurrent runs, please try again later")

const (
	// DefaultMaxConcurrentRuns is used when the configured limit is not positive.
	DefaultMaxConcurrentRuns = 2
	// DefaultMaxWaitTime is used when the configured wait is not positive.
	DefaultMaxWaitTime = 30 * time.Second
)

// JobLimiter is a weighted semaphore with a bounded wait.
type JobLimiter struct {
	sem     *semaphore.Weighted
	max     int
	maxWait time.Duration
	active  atomic.Int64
}

// NewJobLimiter allows at most maxConcurrent runs at once.
func NewJobLimiter(maxConcurrent int, maxWait time.Duration) *JobLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentRuns
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &JobLimiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		max:     maxConcurrent,
		maxWait: maxWait,
	}
}

// Acquire waits for a slot. It returns ctx.Err() if ctx ends first and
// ErrTooManyRuns if maxWait passes. The caller must Release after success.
func (l *JobLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyRuns
	}
	l.active.Add(1)
	return nil
}

// TryAcquire takes a slot without waiting.
func (l *JobLimiter) TryAcquire() bool {
	if !l.sem.TryAcquire(1) {
		return false
	}
	l.active.Add(1)
	return true
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *JobLimiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// Active returns the number of runs holding a slot.
func (l *JobLimiter) Active() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the slot count.
func (l *JobLimiter) MaxConcurrent() int {
	return l.max
}

// Available returns the number of free slots.
func (l *JobLimiter) Available() int {
	return l.max - l.Active()
}
