// Package worker runs the player's background catalog jobs (seeding,
// purging, upload ingestion) on a small fixed set of goroutines.
package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned for submissions after shutdown began.
var ErrPoolClosed = errors.New("worker: pool closed")

// queueDepth bounds waiting jobs. The player queues at most a handful of
// catalog jobs at a time, so a short fixed queue is enough.
const queueDepth = 16

// Pool runs submitted jobs on a fixed number of workers.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	size   int
}

// New starts a pool with at least one worker.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{
		jobs: make(chan func(), queueDepth),
		size: size,
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		if job != nil {
			job()
		}
	}
}

// Submit enqueues a job, blocking while the queue is full. The read lock
// is held across the send so shutdown cannot close the queue mid-send.
func (p *Pool) Submit(job func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.jobs <- job
	return nil
}

// SubmitWait enqueues a job and waits for its result.
func (p *Pool) SubmitWait(job func() error) error {
	if job == nil {
		return nil
	}

	result := make(chan error, 1)
	if err := p.Submit(func() { result <- job() }); err != nil {
		return err
	}
	return <-result
}

// SubmitWaitContext enqueues a job and waits for its result or for ctx,
// whichever comes first. An abandoned job still runs to completion.
func (p *Pool) SubmitWaitContext(ctx context.Context, job func() error) error {
	if job == nil {
		return nil
	}

	result := make(chan error, 1)
	if err := p.Submit(func() { result <- job() }); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-result:
		return err
	}
}

// Shutdown stops intake, then waits for queued and in-flight jobs until
// ctx expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.closeQueue()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// StopNow stops intake without waiting for jobs to finish.
func (p *Pool) StopNow() {
	p.closeQueue()
}

func (p *Pool) closeQueue() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
}

// Size returns the worker count.
func (p *Pool) Size() int {
	return p.size
}
