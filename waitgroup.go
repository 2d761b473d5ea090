package async

import (
	"container/list"
	"context"
	"sync"
)

// WaitGroup is a dynamic collection of in-flight awaitables, mirroring
// Boost.Cobalt's wait_group: children can be pushed in at any time, and
// completed children accumulate in a reap queue until collected by
// WaitOne or Reap.
type WaitGroup[T any] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending map[*wgEntry[T]]struct{}
	reaped  *list.List // of *wgEntry[T]
	closed  bool
}

type wgEntry[T any] struct {
	child Awaitable[T]
	value T
	err   error
}

// NewWaitGroup returns an empty wait group.
func NewWaitGroup[T any]() *WaitGroup[T] {
	wg := &WaitGroup[T]{
		pending: make(map[*wgEntry[T]]struct{}),
		reaped:  list.New(),
	}
	wg.cond = sync.NewCond(&wg.mu)
	return wg
}

// PushBack adds child to the group and starts awaiting it in the
// background; its eventual result is queued for WaitOne/Reap.
func (wg *WaitGroup[T]) PushBack(ctx context.Context, child Awaitable[T]) {
	entry := &wgEntry[T]{child: child}

	wg.mu.Lock()
	wg.pending[entry] = struct{}{}
	wg.mu.Unlock()

	go func() {
		v, err := child.Await(ctx)
		entry.value = v
		entry.err = err

		wg.mu.Lock()
		delete(wg.pending, entry)
		wg.reaped.PushBack(entry)
		wg.cond.Signal()
		wg.mu.Unlock()
	}()
}

// WaitOne suspends until at least one child has completed, then removes
// and returns its outcome. It returns ErrClosed if the group has no
// pending children and nothing left to reap, or ctx.Err() if ctx is done
// first.
func (wg *WaitGroup[T]) WaitOne(ctx context.Context) (T, error) {
	type outcome struct {
		entry *wgEntry[T]
		err   error
	}
	out := make(chan outcome, 1)
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		wg.mu.Lock()
		for wg.reaped.Len() == 0 && len(wg.pending) != 0 && ctx.Err() == nil {
			wg.cond.Wait()
		}
		var res outcome
		switch {
		case wg.reaped.Len() > 0:
			res.entry = wg.reaped.Remove(wg.reaped.Front()).(*wgEntry[T])
		case ctx.Err() != nil:
			res.err = ctx.Err()
		default:
			res.err = ErrClosed
		}
		wg.mu.Unlock()
		out <- res
	}()

	// A cond.Wait() cannot select on ctx.Done directly, so a second
	// goroutine bridges the two: it broadcasts to wake the waiter above
	// once ctx is cancelled, and exits as soon as either side is done so
	// it never outlives this call.
	if done := ctx.Done(); done != nil {
		go func() {
			select {
			case <-done:
				wg.mu.Lock()
				wg.cond.Broadcast()
				wg.mu.Unlock()
			case <-finished:
			}
		}()
	}

	res := <-out
	if res.err != nil {
		var zero T
		return zero, res.err
	}
	return res.entry.value, res.entry.err
}

// Reap returns and removes every currently-complete child without
// suspending.
func (wg *WaitGroup[T]) Reap() []Outcome[T] {
	wg.mu.Lock()
	defer wg.mu.Unlock()

	out := make([]Outcome[T], 0, wg.reaped.Len())
	for e := wg.reaped.Front(); e != nil; {
		next := e.Next()
		entry := wg.reaped.Remove(e).(*wgEntry[T])
		out = append(out, Outcome[T]{Value: entry.value, Err: entry.err})
		e = next
	}
	return out
}

// Cancel emits terminal cancellation into every live (pending) child.
func (wg *WaitGroup[T]) Cancel() {
	wg.mu.Lock()
	children := make([]Awaitable[T], 0, len(wg.pending))
	for entry := range wg.pending {
		children = append(children, entry.child)
	}
	wg.mu.Unlock()

	for _, c := range children {
		c.Cancel(CancelTerminal)
	}
}

// Wait blocks until no children remain pending, draining the reap queue
// as it goes, and returns every outcome observed. The idiomatic shutdown
// sequence is Cancel followed by Wait: await every child unwinding before
// discarding the group, since the group's destruction is only safe once
// no child can still reference it.
func (wg *WaitGroup[T]) Wait(ctx context.Context) ([]Outcome[T], error) {
	var out []Outcome[T]
	for {
		wg.mu.Lock()
		empty := len(wg.pending) == 0 && wg.reaped.Len() == 0
		wg.mu.Unlock()
		if empty {
			return out, nil
		}
		v, err := wg.WaitOne(ctx)
		if err == ErrClosed {
			return out, nil
		}
		out = append(out, Outcome[T]{Value: v, Err: err})
	}
}

// Len reports the number of children not yet reaped (pending or waiting
// to be reaped).
func (wg *WaitGroup[T]) Len() int {
	wg.mu.Lock()
	defer wg.mu.Unlock()
	return len(wg.pending) + wg.reaped.Len()
}
