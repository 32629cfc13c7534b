package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

var (
	ErrLimiterConcurrency = errors.New("error running task, reached concurrency limit")
	ErrLimiterDrain       = errors.New("draining tasks")
)

// Limiter runs go routines limiting them by the defined concurrency.
//
// All error handling in the routines dispatched must be wrapped in a closure by the caller.
type Limiter struct {
	// waitgroup for running routines.
	wg sync.WaitGroup
	// slots holds a token for each running routine.
	slots chan struct{}
	// mu is the guard for drain.
	mu sync.RWMutex
	// dispatched indicates the number of routines running.
	dispatched int32
	// drain is the flag set when StopWait() invoked, with drain=true, no further tasks are accepted.
	drain bool
}

// NewLimiter returns a new limiting go routine runner.
// To ensure the routines spawned by Limiter are complete, the StopWait() method should be invoked.
//
// concurrency is the limit on the number of running go routines, values below 1 are treated as 1.
func NewLimiter(concurrency int) *Limiter {
	if concurrency < 1 {
		concurrency = 1
	}

	return &Limiter{slots: make(chan struct{}, concurrency)}
}

// Dispatch dispatches the given routine for execution,
// it returns ErrLimiterConcurrency when the concurrency limit has been reached.
func (l *Limiter) Dispatch(f func()) error {
	if l.draining() {
		return ErrLimiterDrain
	}

	select {
	case l.slots <- struct{}{}:
	default:
		return ErrLimiterConcurrency
	}

	l.run(f)

	return nil
}

// DispatchWait dispatches the given routine for execution,
// blocking until a slot is available or the context is canceled.
func (l *Limiter) DispatchWait(ctx context.Context, f func()) error {
	if l.draining() {
		return ErrLimiterDrain
	}

	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	l.run(f)

	return nil
}

func (l *Limiter) run(f func()) {
	atomic.AddInt32(&l.dispatched, 1)
	l.wg.Add(1)

	go func() {
		defer func() {
			atomic.AddInt32(&l.dispatched, -1)
			<-l.slots
			l.wg.Done()
		}()

		f()
	}()
}

func (l *Limiter) draining() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.drain
}

// ActiveCount returns the count of running routines
func (l *Limiter) ActiveCount() int {
	return int(atomic.LoadInt32(&l.dispatched))
}

// StopWait prevents any further routines from being added
// and waits until all the routines complete.
func (l *Limiter) StopWait() {
	l.mu.Lock()
	l.drain = true
	l.mu.Unlock()

	l.wg.Wait()
}
