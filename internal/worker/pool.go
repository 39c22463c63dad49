// Package worker runs background tasks detached from the request cycle.
package worker

import (
	"sync"

	"go.uber.org/zap"
)

// Task is a unit of background work. It receives no context: once
// started, materialization runs to completion and reports its outcome
// through the document store, not to the submitter. Declared as an
// alias so callers can pass plain closures through narrow interfaces.
type Task = func()

// Pool executes submitted tasks on a fixed set of goroutines.
type Pool struct {
	tasks  chan Task
	logger *zap.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewPool starts concurrency goroutines draining a queue of the given size.
func NewPool(concurrency, queueSize int, logger *zap.Logger) *Pool {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}

	p := &Pool{
		tasks:  make(chan Task, queueSize),
		logger: logger,
	}

	p.wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go p.run(i)
	}
	return p
}

func (p *Pool) run(id int) {
	defer p.wg.Done()
	for task := range p.tasks {
		p.execute(id, task)
	}
}

func (p *Pool) execute(id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("background task panicked",
				zap.Int("worker", id),
				zap.Any("panic", r),
			)
		}
	}()
	task()
}

// Submit queues a task, blocking until there is room in the queue.
// Returns false if the pool has been stopped. The read lock is held
// across the send so Stop cannot close the queue under an in-flight
// submission.
func (p *Pool) Submit(task Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return false
	}
	p.tasks <- task
	return true
}

// Stop closes the queue and waits for queued and in-flight tasks to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	close(p.tasks)
	p.wg.Wait()
}
