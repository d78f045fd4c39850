package unit

import (
	"context"
	"sync"
)

// Queue runs callbacks one at a time on a single goroutine, in the order
// they were submitted.
type Queue struct {
	ch     chan func()
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool

	// Close flips closed under sendMu before cancelling, and the worker
	// waits for inflight sends before its final drain.
	sendMu   sync.RWMutex
	closed   bool
	inflight sync.WaitGroup
}

var (
	mainQueue     *Queue
	mainQueueOnce sync.Once
)

// MainQueue returns the shared queue property notifications are delivered on
// by default. It is started on first use and never closed.
func MainQueue() *Queue {
	mainQueueOnce.Do(func() {
		mainQueue = NewQueue(256)
		mainQueue.Start()
	})
	return mainQueue
}

// NewQueue creates a queue with a fixed buffer.
func NewQueue(buffer int) *Queue {
	if buffer <= 0 {
		buffer = 32
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{ch: make(chan func(), buffer), ctx: ctx, cancel: cancel}
}

// Start launches the worker. Calling it again is a no-op.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return
	}
	q.started = true

	q.wg.Add(1)
	go q.run()
}

func (q *Queue) run() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			q.inflight.Wait()
			for {
				select {
				case fn := <-q.ch:
					fn()
				default:
					return
				}
			}
		case fn := <-q.ch:
			fn()
		}
	}
}

// Async submits fn and returns without waiting for it to run.
func (q *Queue) Async(fn func()) error {
	if fn == nil {
		return nil
	}
	q.sendMu.RLock()
	if q.closed {
		q.sendMu.RUnlock()
		return ErrQueueClosed
	}
	q.inflight.Add(1)
	q.sendMu.RUnlock()
	defer q.inflight.Done()

	select {
	case q.ch <- fn:
		return nil
	case <-q.ctx.Done():
		return ErrQueueClosed
	}
}

// Sync submits fn and blocks until it has run. It must not be called from
// a callback already running on q, and blocks until Start on a queue that
// has not been started.
func (q *Queue) Sync(fn func()) error {
	done := make(chan struct{})
	err := q.Async(func() {
		defer close(done)
		if fn != nil {
			fn()
		}
	})
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-q.ctx.Done():
		select {
		case <-done:
			return nil
		default:
			return ErrQueueClosed
		}
	}
}

// Flush waits until every callback submitted before it has run.
func (q *Queue) Flush() error {
	return q.Sync(nil)
}

// Close stops accepting callbacks, runs what is pending and waits for the
// worker to exit.
func (q *Queue) Close() {
	q.sendMu.Lock()
	q.closed = true
	q.sendMu.Unlock()

	q.cancel()

	q.mu.Lock()
	started := q.started
	q.mu.Unlock()

	if started {
		q.wg.Wait()
	}
}
