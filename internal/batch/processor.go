// Package batch runs independent jobs on a bounded worker pool.
package batch

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/AntiCG/AliceVision/internal/logger"
)

// Run executes fn(i) for every i in [0, n) using a pool of workers. Once a
// job fails, the jobs not yet started are skipped and the first error is
// returned after the pool drains.
func Run(n, workers int, fn func(int) error) error {
	if n <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	jobs := make(chan int, workers)
	var wg sync.WaitGroup
	var processed atomic.Int64

	// Progress reporter for long runs.
	start := time.Now()
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					logger.Infof("[%d/%d] jobs done in %.1fs", p, n, time.Since(start).Seconds())
				}
			}
		}
	}()

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if failed() {
					continue
				}
				if err := fn(idx); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
				processed.Add(1)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(done)

	return firstErr
}
