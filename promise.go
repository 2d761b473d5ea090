package async

import (
	"context"
	"sync"
)

// Promise is an eager coroutine: unlike [Task], its body starts running the
// instant [NewPromise] returns. It may be awaited any number of times and
// from any number of goroutines — concurrent Await calls are idempotent,
// all observing the same settled value once the body completes — matching
// Boost.Cobalt's promise<T> semantics (as opposed to task<T>'s single-shot
// lazy contract).
type Promise[T any] struct {
	executor Executor
	signal   *CancellationSignal
	slot     *CancellationSlot
	kernel   *kernel[T]

	detachOnce sync.Once
}

var _ Awaitable[int] = (*Promise[int])(nil)

// NewPromise allocates a promise bound to ex and immediately starts fn
// running on its own goroutine.
func NewPromise[T any](ex Executor, fn Body[T], opts ...KernelOption) *Promise[T] {
	cfg := resolveKernelOptions(opts)
	sig := NewCancellationSignal()
	p := &Promise[T]{
		executor: ex,
		signal:   sig,
		slot:     sig.Slot(),
		kernel:   newKernel[T](cfg.logger, cfg.allocator),
	}
	go p.run(fn)
	return p
}

// Cancel implements Awaitable.
func (p *Promise[T]) Cancel(mask ...CancellationType) {
	m := CancelTerminal
	if len(mask) > 0 {
		m = mask[0]
	}
	p.signal.Emit(m)
}

// Await implements Awaitable. Unlike Task.Await, Promise.Await may be
// called repeatedly and concurrently; every caller observes the same
// outcome once the promise settles.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	return p.kernel.awaitCancelling(ctx, p.signal)
}

// Ready reports whether the promise has already settled, without
// suspending.
func (p *Promise[T]) Ready() bool {
	return p.kernel.Ready()
}

// Get returns the settled outcome without suspending. It returns
// ErrNotReady if the promise has not yet settled.
func (p *Promise[T]) Get() (T, error) {
	return p.kernel.Get()
}

// Detach disowns the promise: if it eventually completes with an error,
// the error is reported via the package's terminate hook (see
// [SetTerminateHook]) instead of being silently discarded by the absence
// of any Await call. category labels the report, typically a call-site
// name. Detach is idempotent.
func (p *Promise[T]) Detach(category string) {
	p.detachOnce.Do(func() {
		go func() {
			_, err := p.kernel.awaitCancelling(context.Background(), p.signal)
			if err != nil {
				invokeTerminateHook(category, WrapError("detached coroutine failed", err))
			}
		}()
	})
}

func (p *Promise[T]) run(fn Body[T]) {
	defer func() {
		if r := recover(); r != nil {
			p.finish(zeroOf[T](), &UserException{Panic: r, Recovered: true, Stack: p.kernel.captureStack()})
		}
	}()
	v, err := fn(p.slot)
	p.finish(v, err)
}

func (p *Promise[T]) finish(v T, err error) {
	if dispatchErr := p.executor.Dispatch(func() {
		p.kernel.settle(v, err)
	}); dispatchErr != nil {
		p.kernel.settle(v, err)
	}
}

// Spawn starts fn as a detached promise: equivalent to calling
// NewPromise followed immediately by Detach(category). This is the
// idiomatic "fire and forget" entry point described by the spec's
// detached-spawning operation.
func Spawn[T any](ex Executor, category string, fn Body[T], opts ...KernelOption) *Promise[T] {
	p := NewPromise[T](ex, fn, opts...)
	p.Detach(category)
	return p
}
