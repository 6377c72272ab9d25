package rworker

import (
	"fmt"
	"sync"
	"testing"
)

func TestJob(t *testing.T) {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	rate := make(chan struct{}, 2)
	errCh := make(chan error, 1)
	seen := map[int]bool{}
	for i := 0; i < 8; i++ {
		i := i
		Job(&wg, func() error {
			mu.Lock()
			seen[i] = true
			mu.Unlock()
			return nil
		}, rate, errCh)
	}
	wg.Wait()
	if len(seen) != 8 {
		t.Errorf("expected 8 jobs to run, got %d", len(seen))
	}
	select {
	case err := <-errCh:
		t.Errorf("the error should not be returned: %v", err)
	default:
	}
}

func TestEach(t *testing.T) {
	out := make([]int, 100)
	err := Each(4, len(out), func(i int) error {
		out[i] = i * i
		return nil
	})
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	for i, v := range out {
		if v != i*i {
			t.Fatalf("index %d has a wrong destination value %d", i, v)
		}
	}
}

func TestEachError(t *testing.T) {
	sentinel := fmt.Errorf("boom")
	err := Each(2, 10, func(i int) error {
		if i == 5 {
			return sentinel
		}
		return nil
	})
	if err == nil {
		t.Fatalf("expected the worker error to propagate")
	}
}

func TestEachDefaultWorkers(t *testing.T) {
	var n int
	var mu sync.Mutex
	err := Each(0, 16, func(i int) error {
		mu.Lock()
		n++
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	if n != 16 {
		t.Errorf("expected 16 runs, got %d", n)
	}
}
