package rworker

import (
	"runtime"
	"sync"
)

// Job schedules fn on its own goroutine, bounded by the rate channel. The
// first error wins; later ones are dropped.
func Job(wg *sync.WaitGroup, fn func() error, rate chan struct{}, errCh chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		rate <- struct{}{}
		if err := fn(); err != nil {
			select {
			case errCh <- err:
			default:
			}
		}
		<-rate
	}()
}

// Each runs fn(i) for i in [0, n) across at most workers goroutines and
// returns the first error encountered. Every index has a fixed destination in
// the caller's output, so completion order does not matter. workers < 1 means
// NumCPU.
func Each(workers, n int, fn func(i int) error) error {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	var wg sync.WaitGroup
	rate := make(chan struct{}, workers)
	errCh := make(chan error, 1)
	for i := 0; i < n; i++ {
		i := i
		Job(&wg, func() error { return fn(i) }, rate, errCh)
	}
	wg.Wait()
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
