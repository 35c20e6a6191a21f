package parallel

import (
	"sync/atomic"
	"testing"
)

func TestPoolRunsAllTasks(t *testing.T) {
	pool := NewPool(3)
	var count atomic.Int64
	for i := 0; i < 50; i++ {
		pool.Submit(func() { count.Add(1) })
	}
	pool.Wait()
	if count.Load() != 50 {
		t.Errorf("ran %d tasks, want 50", count.Load())
	}
}

func TestPoolDefaultsWorkerCount(t *testing.T) {
	pool := NewPool(0)
	done := make(chan struct{})
	pool.Submit(func() { close(done) })
	pool.Wait()
	select {
	case <-done:
	default:
		t.Error("task did not run")
	}
}

func TestPoolTasksWriteCallerSlots(t *testing.T) {
	pool := NewPool(2)
	results := make([]int, 4)
	for i := range results {
		idx := i
		pool.Submit(func() { results[idx] = idx * idx })
	}
	pool.Wait()
	for i, got := range results {
		if got != i*i {
			t.Errorf("results[%d] = %d, want %d", i, got, i*i)
		}
	}
}
