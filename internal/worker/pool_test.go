package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type countJob struct {
	counter *atomic.Int64
	fail    bool
}

type countResult struct {
	err error
}

func (r *countResult) GetError() error { return r.err }

func (j *countJob) Execute(_ context.Context) Result {
	j.counter.Add(1)
	if j.fail {
		return &countResult{err: errors.New("job failed")}
	}
	return &countResult{}
}

func TestPool_ExecutesAllJobs(t *testing.T) {
	var counter atomic.Int64
	pool := NewPool(3)
	pool.Start()

	for i := 0; i < 20; i++ {
		pool.Submit(&countJob{counter: &counter})
	}
	results := pool.Wait()

	if counter.Load() != 20 {
		t.Errorf("Expected 20 executions, got %d", counter.Load())
	}
	if len(results) != 20 {
		t.Errorf("Expected 20 results, got %d", len(results))
	}
}

func TestPool_CollectsErrors(t *testing.T) {
	var counter atomic.Int64
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&countJob{counter: &counter})
	pool.Submit(&countJob{counter: &counter, fail: true})
	results := pool.Wait()

	failed := 0
	for _, result := range results {
		if result.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("Expected 1 failed result, got %d", failed)
	}
}

func TestPool_DefaultsToOneWorker(t *testing.T) {
	pool := NewPool(0)
	if pool.workers != 1 {
		t.Errorf("Expected 1 worker, got %d", pool.workers)
	}
}

func TestPool_ShutdownStopsWorkers(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	pool.Shutdown()

	// Submitting after shutdown must not block
	var counter atomic.Int64
	pool.Submit(&countJob{counter: &counter})
}
