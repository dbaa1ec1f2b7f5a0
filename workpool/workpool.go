// Package workpool runs tasks on a fixed set of workers with optional
// rate limiting and per-task result retrieval.
package workpool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lixenwraith/apputil/errutil"
)

// Task is a unit of work. The context is cancelled when the pool shuts
// down; long tasks should honor it.
type Task func(ctx context.Context) (any, error)

// Result is the handle returned by Post. It is ready once the task has
// run (or the pool shut down first).
type Result struct {
	done  chan struct{}
	value any
	err   error
}

// Get blocks until the task finishes and returns its outcome. A zero or
// negative timeout waits forever; otherwise expiry returns an error
// wrapping errutil.ErrTimeout without cancelling the task.
func (r *Result) Get(timeout time.Duration) (any, error) {
	if timeout <= 0 {
		<-r.done
		return r.value, r.err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-r.done:
		return r.value, r.err
	case <-timer.C:
		return nil, fmt.Errorf("waiting for task result: %w", errutil.ErrTimeout)
	}
}

// Done returns a channel closed when the task has finished.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

type job struct {
	task Task
	res  *Result
}

// Option configures a Pool.
type Option func(*Pool)

// WithRateLimit caps task starts at rps per second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(p *Pool) {
		p.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithQueueDepth sets how many tasks may wait before Post blocks.
// The default is twice the worker count.
func WithQueueDepth(depth int) Option {
	return func(p *Pool) {
		p.queueDepth = depth
	}
}

// Pool executes posted tasks on a fixed number of worker goroutines.
type Pool struct {
	ctx        context.Context
	cancel     context.CancelFunc
	jobs       chan job
	workers    sync.WaitGroup
	limiter    *rate.Limiter
	queueDepth int

	mutex    sync.Mutex
	pending  int
	failed   bool
	shutdown bool
	idle     *sync.Cond
}

// New creates a pool with the given number of workers and starts them.
func New(workers int, opts ...Option) *Pool {
	if workers < 1 {
		workers = 1
	}

	p := &Pool{queueDepth: workers * 2}
	for _, opt := range opts {
		opt(p)
	}

	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.jobs = make(chan job, p.queueDepth)
	p.idle = sync.NewCond(&p.mutex)

	p.workers.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.workers.Done()
	for j := range p.jobs {
		if p.limiter != nil {
			if err := p.limiter.Wait(p.ctx); err != nil {
				p.finish(j.res, nil, fmt.Errorf("pool shut down before task started: %w", err))
				continue
			}
		}
		p.run(j)
	}
}

func (p *Pool) run(j job) {
	defer func() {
		if r := recover(); r != nil {
			p.finish(j.res, nil, fmt.Errorf("task panicked: %v", r))
		}
	}()
	value, err := j.task(p.ctx)
	p.finish(j.res, value, err)
}

func (p *Pool) finish(res *Result, value any, err error) {
	res.value = value
	res.err = err
	close(res.done)

	p.mutex.Lock()
	p.pending--
	if err != nil {
		p.failed = true
	}
	if p.pending == 0 {
		p.idle.Broadcast()
	}
	p.mutex.Unlock()
}

// Post submits a task. It blocks while the queue is full and panics if
// the pool has been shut down.
func (p *Pool) Post(task Task) *Result {
	res := &Result{done: make(chan struct{})}

	p.mutex.Lock()
	if p.shutdown {
		p.mutex.Unlock()
		panic("workpool: Post after Shutdown")
	}
	p.pending++
	p.mutex.Unlock()

	p.jobs <- job{task: task, res: res}
	return res
}

// Ready reports whether the pool can accept a task without blocking.
func (p *Pool) Ready() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return !p.shutdown && len(p.jobs) < cap(p.jobs)
}

// Wait blocks until every posted task has finished. It returns true when
// all of them succeeded.
func (p *Pool) Wait() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	for p.pending > 0 {
		p.idle.Wait()
	}
	return !p.failed
}

// Shutdown stops accepting tasks, waits for the workers to drain the
// queue and exit, then cancels the pool context.
func (p *Pool) Shutdown() {
	p.mutex.Lock()
	if p.shutdown {
		p.mutex.Unlock()
		return
	}
	p.shutdown = true
	p.mutex.Unlock()

	close(p.jobs)
	p.workers.Wait()
	p.cancel()
}

// Abort cancels the pool context so running tasks see cancellation, then
// shuts down. Queued tasks still run, with an already-cancelled context.
func (p *Pool) Abort() {
	p.cancel()
	p.Shutdown()
}
