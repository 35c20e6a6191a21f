// Package parallel provides a small bounded worker pool used by the
// planner's parallel search mode. Search branches are independent by
// construction (each operates on its own clone of the constraint store),
// so the pool needs no result plumbing: callers submit closures that
// write to caller-owned slots and then Wait for the batch to drain.
package parallel

import (
	"runtime"
	"sync"
)

// Pool runs submitted tasks on a fixed number of goroutines. It is
// intended for one batch of tasks: Submit any number of tasks, then Wait
// exactly once. The zero value is not usable; use NewPool.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup
}

// NewPool creates a pool with the given number of workers. A value of 0
// or less defaults to the number of CPU cores.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{tasks: make(chan func(), workers)}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for task := range p.tasks {
		task()
		p.wg.Done()
	}
}

// Submit schedules a task. Submit must not be called after Wait.
func (p *Pool) Submit(task func()) {
	p.wg.Add(1)
	p.tasks <- task
}

// Wait blocks until every submitted task has finished, then shuts the
// workers down. The pool cannot be reused afterwards.
func (p *Pool) Wait() {
	p.wg.Wait()
	close(p.tasks)
}
