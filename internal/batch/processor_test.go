package batch

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRunAllJobs(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]int{}

	err := Run(20, 4, func(i int) error {
		mu.Lock()
		seen[i]++
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != 20 {
		t.Fatalf("ran %d distinct jobs, want 20", len(seen))
	}
	for i, n := range seen {
		if n != 1 {
			t.Errorf("job %d ran %d times", i, n)
		}
	}
}

func TestRunFirstErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	var ran atomic.Int64

	err := Run(100, 1, func(i int) error {
		ran.Add(1)
		if i == 3 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	// With one worker the failure at job 3 must skip the rest.
	if got := ran.Load(); got != 4 {
		t.Errorf("jobs executed = %d, want 4", got)
	}
}

func TestRunKeepsFirstError(t *testing.T) {
	first := errors.New("first")
	err := Run(2, 1, func(i int) error {
		if i == 0 {
			return first
		}
		return errors.New("second")
	})
	if !errors.Is(err, first) {
		t.Fatalf("err = %v, want the first failure", err)
	}
}

func TestRunEdgeCases(t *testing.T) {
	if err := Run(0, 4, func(int) error { return errors.New("never") }); err != nil {
		t.Errorf("n=0 err = %v", err)
	}

	var ran atomic.Int64
	if err := Run(3, 100, func(int) error { ran.Add(1); return nil }); err != nil {
		t.Errorf("workers>n err = %v", err)
	}
	if ran.Load() != 3 {
		t.Errorf("ran = %d, want 3", ran.Load())
	}

	ran.Store(0)
	if err := Run(5, 0, func(int) error { ran.Add(1); return nil }); err != nil {
		t.Errorf("workers=0 err = %v", err)
	}
	if ran.Load() != 5 {
		t.Errorf("ran = %d, want 5", ran.Load())
	}
}
