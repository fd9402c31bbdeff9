package analyzer

import (
	"runtime"
	"sync"
)

// WorkerPool runs submitted jobs on a fixed set of goroutines
type WorkerPool struct {
	workers  int
	jobQueue chan func()
	once     sync.Once

	// mu guards closed and the send side of jobQueue
	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool creates a pool; workers <= 0 means one worker per CPU.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Workers returns the number of worker goroutines
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Start launches the workers. Calling it more than once is a no-op.
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		job()
	}
}

// Group returns a job group whose Wait blocks until every job submitted
// through it has finished. Groups let concurrent callers share one pool.
func (wp *WorkerPool) Group() *JobGroup {
	return &JobGroup{pool: wp}
}

// Close stops the workers once queued jobs drain. Jobs submitted after Close
// run on the submitting goroutine.
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.closed {
		return
	}
	wp.closed = true
	close(wp.jobQueue)
}

// JobGroup tracks a batch of jobs submitted to a WorkerPool
type JobGroup struct {
	pool *WorkerPool
	wg   sync.WaitGroup
}

// Submit queues job on the pool, or runs it inline if the pool is closed
func (g *JobGroup) Submit(job func()) {
	g.wg.Add(1)
	wrapped := func() {
		defer g.wg.Done()
		job()
	}

	g.pool.mu.RLock()
	if g.pool.closed {
		g.pool.mu.RUnlock()
		wrapped()
		return
	}
	g.pool.jobQueue <- wrapped
	g.pool.mu.RUnlock()
}

// Wait blocks until all jobs submitted to the group are done
func (g *JobGroup) Wait() {
	g.wg.Wait()
}
