// Package parallel runs independent jobs, such as separate classification runs, on a
// bounded set of goroutines.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/dd0wney/cluso-reasoner/pkg/logging"
)

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
	logger    logging.Logger
	panics    atomic.Int64
}

var (
	// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
	ErrTooManyWorkers = errors.New("worker count exceeds maximum")
	// ErrPoolClosed is returned when work is submitted to a closed pool.
	ErrPoolClosed = errors.New("worker pool closed")
	// ErrTaskPanic wraps a panic recovered from a job.
	ErrTaskPanic = errors.New("task panicked")
)

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// NewWorkerPool creates a pool with the given number of workers. Non-positive counts
// start a single worker.
func NewWorkerPool(workers int, logger logging.Logger) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
		logger:    logging.OrNop(logger).With(logging.Component("worker_pool")),
	}

	pool.start()
	return pool, nil
}

func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					wp.panics.Add(1)
					wp.logger.Error("worker panic recovered", logging.Any("panic", r))
				}
			}()
			task()
		}()
	}
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int { return wp.workers }

// Panics returns how many submitted tasks panicked.
func (wp *WorkerPool) Panics() int64 { return wp.panics.Load() }

// Submit adds a task to the worker pool
// Returns false if the pool is closed, true if task was submitted
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}
	wp.taskQueue <- task
	return true
}

// Each runs fn for every index in [0, n) on the pool and waits for all of them. The
// returned slice holds the error of each index; a panicking job yields ErrTaskPanic.
// Indexes not yet started when ctx is cancelled get the context error.
func (wp *WorkerPool) Each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		wg.Add(1)
		job := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					wp.panics.Add(1)
					wp.logger.Error("job panic recovered", logging.Int("job", i), logging.Any("panic", r))
					errs[i] = fmt.Errorf("%w: %v", ErrTaskPanic, r)
				}
			}()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			errs[i] = fn(ctx, i)
		}
		if !wp.Submit(job) {
			wg.Done()
			errs[i] = ErrPoolClosed
		}
	}
	wg.Wait()
	return errs
}

// Close shuts down the worker pool
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait waits for all submitted tasks to complete and closes the pool.
func (wp *WorkerPool) Wait() {
	wp.Close()
}
