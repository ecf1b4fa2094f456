// Package parallel runs independent units of work on a fixed set of worker
// goroutines.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/dd0wney/cluso-siteroute/pkg/logging"
)

var (
	// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers.
	ErrTooManyWorkers = errors.New("worker count exceeds maximum")
	// ErrPoolClosed is returned when submitting to a closed pool.
	ErrPoolClosed = errors.New("worker pool is closed")
)

// MaxWorkers bounds the pool size so the queue capacity cannot overflow.
const MaxWorkers = math.MaxInt / 2

// Stats counts the tasks a pool has seen.
type Stats struct {
	Submitted int64
	Completed int64
	Panicked  int64
}

// WorkerPool runs submitted tasks on a fixed number of goroutines. A task
// that panics is reported to the panic handler; its worker keeps running.
type WorkerPool struct {
	workers int
	tasks   chan func()
	wg      sync.WaitGroup

	// mu guards closed and the send side of tasks.
	mu     sync.RWMutex
	closed bool

	onPanic func(value any, stack []byte)

	submitted, completed, panicked atomic.Int64
}

// Option configures a WorkerPool.
type Option func(*WorkerPool)

// WithPanicHandler replaces the default handler, which logs recovered
// panics through the default logger.
func WithPanicHandler(fn func(value any, stack []byte)) Option {
	return func(wp *WorkerPool) { wp.onPanic = fn }
}

func logPanic(value any, stack []byte) {
	logging.DefaultLogger().Error("worker panic recovered",
		logging.Component("parallel"),
		logging.String("panic", fmt.Sprint(value)),
		logging.String("stack", string(stack)))
}

// NewWorkerPool starts a pool of the given size. Sizes below one are
// raised to one.
func NewWorkerPool(workers int, opts ...Option) (*WorkerPool, error) {
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}
	workers = max(workers, 1)

	wp := &WorkerPool{
		workers: workers,
		tasks:   make(chan func(), 2*workers),
		onPanic: logPanic,
	}
	for _, opt := range opts {
		opt(wp)
	}

	wp.wg.Add(workers)
	for range workers {
		go wp.work()
	}
	return wp, nil
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int { return wp.workers }

// Stats returns the task counts so far.
func (wp *WorkerPool) Stats() Stats {
	return Stats{
		Submitted: wp.submitted.Load(),
		Completed: wp.completed.Load(),
		Panicked:  wp.panicked.Load(),
	}
}

func (wp *WorkerPool) work() {
	defer wp.wg.Done()
	for task := range wp.tasks {
		wp.run(task)
	}
}

func (wp *WorkerPool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			wp.panicked.Add(1)
			wp.onPanic(r, debug.Stack())
			return
		}
		wp.completed.Add(1)
	}()
	task()
}

// Submit queues task, blocking while the queue is full. It fails when the
// pool is closed or ctx is done first.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolClosed
	}

	select {
	case wp.tasks <- task:
		wp.submitted.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for the queued ones to finish. It
// is safe to call more than once.
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	if !wp.closed {
		wp.closed = true
		close(wp.tasks)
	}
	wp.mu.Unlock()
	wp.wg.Wait()
}
