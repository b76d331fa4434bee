package parallel

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dd0wney/cluso-reasoner/pkg/logging"
)

func newPool(t testing.TB, workers int) *WorkerPool {
	t.Helper()
	pool, err := NewWorkerPool(workers, nil)
	if err != nil {
		t.Fatalf("NewWorkerPool(%d) failed: %v", workers, err)
	}
	return pool
}

// TestWorkerPoolBasicOperations tests basic worker pool functionality
func TestWorkerPoolBasicOperations(t *testing.T) {
	pool := newPool(t, 4)

	executed := false
	success := pool.Submit(func() {
		executed = true
	})

	if !success {
		t.Error("Task submission failed")
	}

	pool.Close()

	if !executed {
		t.Error("Task was not executed")
	}
}

func TestWorkerPoolSizing(t *testing.T) {
	if _, err := NewWorkerPool(math.MaxInt, nil); !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("Expected ErrTooManyWorkers, got %v", err)
	}

	for _, tc := range []struct{ in, want int }{{-5, 1}, {0, 1}, {1, 1}, {16, 16}} {
		pool := newPool(t, tc.in)
		if pool.Workers() != tc.want {
			t.Errorf("NewWorkerPool(%d) has %d workers, want %d", tc.in, pool.Workers(), tc.want)
		}
		if cap(pool.taskQueue) != tc.want*2 {
			t.Errorf("Expected buffer capacity %d, got %d", tc.want*2, cap(pool.taskQueue))
		}
		pool.Close()
	}
}

// TestWorkerPoolConcurrentSubmissions tests concurrent task submissions
func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool := newPool(t, 10)

	numTasks := 100
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < numTasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() {
				atomic.AddInt64(&counter, 1)
			})
		}()
	}

	wg.Wait()
	pool.Close()

	if counter != int64(numTasks) {
		t.Errorf("Expected counter %d, got %d", numTasks, counter)
	}
}

// TestWorkerPoolCloseRace checks that closing while submitting never panics
func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool := newPool(t, 4)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					pool.Submit(func() {
						time.Sleep(time.Millisecond)
					})
				}
			}()
		}

		time.Sleep(2 * time.Millisecond)
		pool.Close()
		wg.Wait()
	}
}

// TestWorkerPoolSubmitAfterClose tests that submissions after close return false
func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := newPool(t, 4)

	if !pool.Submit(func() {}) {
		t.Error("Task submission before close should succeed")
	}

	pool.Close()
	pool.Close()

	if pool.Submit(func() { t.Error("This task should never execute") }) {
		t.Error("Task submission after close should return false")
	}
}

// TestWorkerPoolWithPanic tests that panics in tasks don't crash the pool
func TestWorkerPoolWithPanic(t *testing.T) {
	var buf bytes.Buffer
	pool, err := NewWorkerPool(4, logging.NewJSONLogger(&buf, logging.DebugLevel))
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	var counter int64
	for i := 0; i < 5; i++ {
		pool.Submit(func() {
			panic("intentional panic")
		})
	}
	for i := 0; i < 10; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
		})
	}

	pool.Close()

	if counter != 10 {
		t.Errorf("Expected counter 10, got %d", counter)
	}
	if pool.Panics() != 5 {
		t.Errorf("Expected 5 recovered panics, got %d", pool.Panics())
	}
	if !strings.Contains(buf.String(), "worker panic recovered") {
		t.Errorf("Expected panic to be logged, got %q", buf.String())
	}
}

func TestWorkerPoolEach(t *testing.T) {
	pool := newPool(t, 3)
	defer pool.Close()

	results := make([]int, 20)
	errs := pool.Each(context.Background(), len(results), func(_ context.Context, i int) error {
		results[i] = i * i
		if i == 7 {
			return errors.New("seven")
		}
		if i == 9 {
			panic("nine")
		}
		return nil
	})

	for i, err := range errs {
		switch i {
		case 7:
			if err == nil || err.Error() != "seven" {
				t.Errorf("Job 7 error = %v, want seven", err)
			}
		case 9:
			if !errors.Is(err, ErrTaskPanic) {
				t.Errorf("Job 9 error = %v, want ErrTaskPanic", err)
			}
		default:
			if err != nil {
				t.Errorf("Job %d failed: %v", i, err)
			}
			if results[i] != i*i {
				t.Errorf("Job %d result = %d, want %d", i, results[i], i*i)
			}
		}
	}
}

func TestWorkerPoolEachCancelled(t *testing.T) {
	pool := newPool(t, 2)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int64
	errs := pool.Each(ctx, 5, func(context.Context, int) error {
		atomic.AddInt64(&ran, 1)
		return nil
	})

	if ran != 0 {
		t.Errorf("Expected no job to run, %d ran", ran)
	}
	for i, err := range errs {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Job %d error = %v, want context.Canceled", i, err)
		}
	}
}

func TestWorkerPoolEachAfterClose(t *testing.T) {
	pool := newPool(t, 2)
	pool.Close()

	errs := pool.Each(context.Background(), 2, func(context.Context, int) error { return nil })
	for i, err := range errs {
		if !errors.Is(err, ErrPoolClosed) {
			t.Errorf("Job %d error = %v, want ErrPoolClosed", i, err)
		}
	}
}

// BenchmarkWorkerPoolThroughput benchmarks worker pool throughput
func BenchmarkWorkerPoolThroughput(b *testing.B) {
	pool := newPool(b, 10)
	defer pool.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Submit(func() {})
	}
}

func BenchmarkWorkerPoolEach(b *testing.B) {
	pool := newPool(b, 10)
	defer pool.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Each(context.Background(), 16, func(context.Context, int) error {
			sum := 0
			for j := 0; j < 100; j++ {
				sum += j
			}
			_ = sum
			return nil
		})
	}
}
