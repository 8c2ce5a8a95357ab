// Package worker runs indexed jobs on a bounded pool of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/okian/jobscope/pkg/logger"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
)

// Job processes item i. Jobs for different indexes run concurrently and must
// only write state owned by their index.
type Job func(ctx context.Context, i int) error

// Pool fans indexed jobs out to a fixed number of workers.
type Pool struct {
	size   int
	name   string
	logger logger.Logger
}

// NewPool creates a pool of size workers. A non-positive size defaults to
// twice the CPU count.
func NewPool(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{size: size, name: "worker-pool"}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Run executes job for every index in [0, n) and waits for completion. The
// first job error cancels the remaining work and is returned.
func (p *Pool) Run(ctx context.Context, n int, job Job) error {
	if n <= 0 {
		return ctx.Err()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := p.size
	if workers > n {
		workers = n
	}

	indexes := make(chan int)
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := range indexes {
				if ctx.Err() != nil {
					continue
				}
				if err := job(ctx, i); err != nil {
					p.logger.Debug(ctx, "job failed", logger.String("worker", name), logger.Int("index", i), logger.Error(err))
					fail(fmt.Errorf("job %d: %w", i, err))
				}
			}
		}(p.name + "-" + strconv.Itoa(w))
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
