// Package worker provides the bounded-parallelism primitives used when
// scraping several portals at once.
package worker

import (
	"context"
	"sync"
)

// Pool runs tasks with bounded parallelism. Adapters have no shared
// mutable state and no ordering dependency, so the pool only affects
// wall-clock time, never the result set.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

// NewPool creates a pool allowing up to workers concurrent tasks.
// workers <= 0 is treated as 1 (sequential).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{sem: make(chan struct{}, workers)}
}

// Go schedules task. It blocks until a worker slot is free or ctx is
// done; a cancelled context drops the task without running it.
func (p *Pool) Go(ctx context.Context, task func(ctx context.Context)) {
	select {
	case <-ctx.Done():
		return
	case p.sem <- struct{}{}:
	}

	p.wg.Add(1)
	go func() {
		defer func() {
			<-p.sem
			p.wg.Done()
		}()
		task(ctx)
	}()
}

// Wait blocks until every scheduled task has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}
