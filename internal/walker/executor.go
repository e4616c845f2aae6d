package walker

import "sync"

// Executor runs units of work. The walker schedules one unit per
// directory listing; units must never block waiting for other units.
type Executor interface {
	Execute(task func())
}

// GoExecutor runs every task on its own goroutine. This is the
// unbounded fan-out mode: every discovered subdirectory is listed
// immediately.
type GoExecutor struct{}

func (GoExecutor) Execute(task func()) {
	go task()
}

// WorkerPool is an Executor with a fixed number of workers pulling
// from an unbounded queue. The queue is unbounded so that a unit
// scheduling its children can never deadlock against a full queue.
type WorkerPool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	stopped bool
	wg      sync.WaitGroup
}

// NewWorkerPool starts a pool with the given number of workers.
// A non-positive count defaults to 1.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	p := &WorkerPool{}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Execute enqueues task. Tasks submitted after Stop are discarded.
func (p *WorkerPool) Execute(task func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.queue = append(p.queue, task)
	p.cond.Signal()
}

// Stop shuts the pool down. Queued tasks that have not started are
// discarded; Stop returns once all workers have exited.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.queue = nil
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.stopped {
			p.cond.Wait()
		}
		if p.stopped {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		task()
	}
}
