package idgen

import (
	"sync"
	"testing"
)

func TestIncrementStartsAtOne(t *testing.T) {
	c := New()
	for i := uint64(1); i < 10; i++ {
		if got := c.Increment(); got != i {
			t.Fatalf("expected %d got %d", i, got)
		}
	}
	c.Reset()
	if got := c.Increment(); got != 1 {
		t.Fatalf("expected 1 after reset, got %d", got)
	}
}

func TestIncrementConcurrentDistinct(t *testing.T) {
	const n = 10000
	c := New()
	results := make(chan uint64, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			results <- c.Increment()
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[uint64]bool, n)
	for v := range results {
		if seen[v] {
			t.Fatalf("duplicate id %d", v)
		}
		seen[v] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d ids, got %d", n, len(seen))
	}
	for i := uint64(1); i <= n; i++ {
		if !seen[i] {
			t.Fatalf("missing id %d", i)
		}
	}
}

func TestIncrementWrapsAfterMax(t *testing.T) {
	c := New()
	c.n.Store(MaxID - 1)
	if got := c.Increment(); got != MaxID {
		t.Fatalf("expected MaxID, got %d", got)
	}
	if got := c.Increment(); got != 1 {
		t.Fatalf("expected wrap to 1, got %d", got)
	}
}

func TestDefaultGenerator(t *testing.T) {
	Default.Reset()
	t.Cleanup(Default.Reset)
	if got := Increment(); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	var g Generator = Default
	if got := g.Increment(); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}
