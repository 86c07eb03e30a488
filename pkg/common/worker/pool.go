package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"wampcore/pkg/common/logger"
)

type Job func()

// Stats is a snapshot of pool activity.
type Stats struct {
	Capacity       int       `json:"capacity"`
	Running        int       `json:"running"`
	Free           int       `json:"free"`
	Waiting        int       `json:"waiting"`
	Submitted      uint64    `json:"submitted"`
	Completed      uint64    `json:"completed"`
	Panics         uint64    `json:"panics"`
	LastDurationMS int64     `json:"last_duration_ms"`
	LastFinishedAt time.Time `json:"last_finished_at"`
}

// Pool runs jobs on a bounded set of goroutines.
type Pool struct {
	pool  *ants.Pool
	mu    sync.RWMutex
	stats Stats
}

// New creates a pool of the given size. Submit blocks while all workers are
// busy.
func New(size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("worker: pool size must be positive, got %d", size)
	}
	p, err := ants.NewPool(size, ants.WithPanicHandler(func(r interface{}) {
		logger.WithComponent("worker").Error().Interface("panic", r).Msg("worker panic recovered")
	}))
	if err != nil {
		return nil, err
	}
	return &Pool{pool: p}, nil
}

// Submit enqueues a job for asynchronous execution.
func (p *Pool) Submit(j Job) error {
	p.mu.Lock()
	p.stats.Submitted++
	p.mu.Unlock()
	err := p.pool.Submit(func() {
		start := time.Now()
		defer func() {
			r := recover()
			p.mu.Lock()
			p.stats.Completed++
			if r != nil {
				p.stats.Panics++
			}
			p.stats.LastDurationMS = time.Since(start).Milliseconds()
			p.stats.LastFinishedAt = time.Now()
			p.mu.Unlock()
			if r != nil {
				panic(r)
			}
		}()
		j()
	})
	if err != nil {
		p.mu.Lock()
		p.stats.Submitted--
		p.mu.Unlock()
	}
	return err
}

// Map runs fn(i) for i in [0,n) on the pool and waits for all of them.
// It stops submitting once ctx is done and returns ctx.Err() in that case.
func (p *Pool) Map(ctx context.Context, n int, fn func(i int)) error {
	var wg sync.WaitGroup
	var err error
	for i := 0; i < n; i++ {
		if err = ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		if serr := p.Submit(func() {
			defer wg.Done()
			fn(i)
		}); serr != nil {
			wg.Done()
			err = serr
			break
		}
	}
	wg.Wait()
	return err
}

// Stats returns a copy of current pool statistics.
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	s := p.stats
	p.mu.RUnlock()
	s.Capacity = p.pool.Cap()
	s.Running = p.pool.Running()
	s.Free = p.pool.Free()
	s.Waiting = p.pool.Waiting()
	return s
}

// Release stops the pool; pending jobs still finish.
func (p *Pool) Release() {
	p.pool.Release()
}

var (
	global     *Pool
	globalOnce sync.Once
	globalErr  error
)

// Init initializes the global worker pool with the given size. Safe to call multiple times.
func Init(size int) error {
	globalOnce.Do(func() {
		global, globalErr = New(size)
	})
	return globalErr
}

// Default returns the global pool, creating one of size 4 if Init was
// never called.
func Default() *Pool {
	if err := Init(4); err != nil {
		return nil
	}
	return global
}
