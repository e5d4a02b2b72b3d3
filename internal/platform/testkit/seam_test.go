package testkit

import (
	"sync"
	"testing"
	"time"
)

var (
	clock      = func() time.Time { return time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC) }
	maxBuckets = 1000
)

func TestSwap_RestoresAfterSubtest(t *testing.T) {
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("clock", func(t *testing.T) {
		Swap(t, &clock, func() time.Time { return frozen })
		if !clock().Equal(frozen) {
			t.Fatalf("clock not swapped: %v", clock())
		}
	})
	t.Run("limit", func(t *testing.T) {
		Swap(t, &maxBuckets, 3)
		if maxBuckets != 3 {
			t.Fatalf("maxBuckets = %d", maxBuckets)
		}
	})

	if clock().Day() != 6 || maxBuckets != 1000 {
		t.Fatalf("seams not restored: clock=%v maxBuckets=%d", clock(), maxBuckets)
	}
}

func TestSerial_NoInterleaving(t *testing.T) {
	var mu sync.Mutex
	var trail []string
	mark := func(s string) {
		mu.Lock()
		trail = append(trail, s)
		mu.Unlock()
	}

	t.Run("group", func(t *testing.T) {
		for _, name := range []string{"pg", "ch"} {
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				Serial(t)
				mark(name + "+")
				time.Sleep(20 * time.Millisecond)
				mark(name + "-")
			})
		}
	})

	// parallel subtests finish before group returns
	if len(trail) != 4 {
		t.Fatalf("trail = %v", trail)
	}
	for i := 0; i < 4; i += 2 {
		if trail[i][:2] != trail[i+1][:2] || trail[i][2] != '+' {
			t.Fatalf("interleaved: %v", trail)
		}
	}
}
