package unit

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestQueueRunsInOrder(t *testing.T) {
	q := NewQueue(4)
	q.Start()
	defer q.Close()

	var got []int
	for i := 0; i < 20; i++ {
		i := i
		if err := q.Async(func() { got = append(got, i) }); err != nil {
			t.Fatalf("Async() error = %v", err)
		}
	}
	if err := q.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if len(got) != 20 {
		t.Fatalf("ran %d callbacks, want 20", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("position %d ran callback %d", i, v)
		}
	}
}

func TestQueueSync(t *testing.T) {
	q := NewQueue(1)
	q.Start()
	defer q.Close()

	var ran atomic.Bool
	if err := q.Sync(func() { ran.Store(true) }); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if !ran.Load() {
		t.Fatal("Sync returned before callback ran")
	}
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue(8)
	q.Start()

	var count atomic.Int64
	for i := 0; i < 5; i++ {
		_ = q.Async(func() { count.Add(1) })
	}
	q.Close()

	if c := count.Load(); c != 5 {
		t.Fatalf("pending callbacks drained = %d, want 5", c)
	}
	if err := q.Async(func() {}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("Async() after Close error = %v", err)
	}
	if err := q.Sync(func() {}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("Sync() after Close error = %v", err)
	}
}

func TestMainQueueShared(t *testing.T) {
	if MainQueue() != MainQueue() {
		t.Fatal("MainQueue must return the same queue")
	}
	if err := MainQueue().Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

func TestQueueAcceptedCallbacksRunAcrossClose(t *testing.T) {
	for round := 0; round < 50; round++ {
		q := NewQueue(4)
		q.Start()

		var accepted, ran atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					if q.Async(func() { ran.Add(1) }) == nil {
						accepted.Add(1)
					}
				}
			}()
		}
		q.Close()
		wg.Wait()

		if a, r := accepted.Load(), ran.Load(); a != r {
			t.Fatalf("round %d: accepted %d callbacks, ran %d", round, a, r)
		}
	}
}
