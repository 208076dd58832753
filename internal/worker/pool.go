package worker

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool bounds how many CPU-heavy jobs run at once.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a pool with size slots. A non-positive size uses GOMAXPROCS.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Do waits for a free slot, runs job and returns its error.
// It returns ctx.Err() if the context ends before a slot frees up.
func (p *Pool) Do(ctx context.Context, job func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return job()
}
