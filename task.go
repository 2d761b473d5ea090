package async

import (
	"context"
	"sync"
)

// Awaitable is anything that can be awaited for a T result and cancelled.
// [Task], [Promise], and the awaitable returned by [UseOp] all implement it, so
// combinators can be written generically over whichever coroutine kind
// produced a child.
type Awaitable[T any] interface {
	// Await blocks until the awaitable settles or ctx is done, returning
	// its value or error.
	Await(ctx context.Context) (T, error)

	// Cancel emits the given cancellation bits (CancelTerminal if mask is
	// omitted) into the awaitable's signal. Cancelling an already-settled
	// awaitable has no effect. Cancelling a [Task] before it starts is
	// recorded: once the Task runs, its body observes the bits through its
	// slot.
	Cancel(mask ...CancellationType)
}

// Body is the signature of a coroutine's executable logic: it receives its
// own cancellation slot (the equivalent of this_coro::cancelled) so it can
// cooperatively check for, and unwind on, cancellation at its own
// suspension points.
type Body[T any] func(slot *CancellationSlot) (T, error)

// Task is a lazy, single-shot coroutine awaitable: construction allocates
// its frame but does not run it. The first call to Await starts it; every
// call after the first returns ErrAlreadyAwaited without touching the
// frame, matching the "may be awaited at most once" invariant.
type Task[T any] struct {
	mu       sync.Mutex
	fn       Body[T]
	executor Executor
	signal   *CancellationSignal
	slot     *CancellationSlot
	kernel   *kernel[T]
	started  bool
	awaited  bool
}

var _ Awaitable[int] = (*Task[int])(nil)

// NewTask allocates a lazy task bound to ex, running fn only once awaited
// or spawned.
func NewTask[T any](ex Executor, fn Body[T], opts ...KernelOption) *Task[T] {
	cfg := resolveKernelOptions(opts)
	sig := NewCancellationSignal()
	return &Task[T]{
		fn:       fn,
		executor: ex,
		signal:   sig,
		slot:     sig.Slot(),
		kernel:   newKernel[T](cfg.logger, cfg.allocator),
	}
}

// Cancel implements Awaitable.
func (t *Task[T]) Cancel(mask ...CancellationType) {
	m := CancelTerminal
	if len(mask) > 0 {
		m = mask[0]
	}
	t.signal.Emit(m)
}

// Await implements Awaitable. The first call starts the task's goroutine;
// subsequent calls fail with ErrAlreadyAwaited, matching the "already
// started" coroutine invariant — a Task is consumed by its one permitted
// Await.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	t.mu.Lock()
	if t.awaited {
		t.mu.Unlock()
		return zeroOf[T](), ErrAlreadyAwaited
	}
	t.awaited = true
	if !t.started {
		t.started = true
		go t.run()
	}
	t.mu.Unlock()

	return t.kernel.awaitCancelling(ctx, t.signal)
}

// Spawn starts the task's body immediately on its own goroutine without
// waiting for an Await, returning itself so the caller can still Await it later to
// observe the result (the common "spawn now, join later" pattern). A task
// spawned this way may still only be Awaited once.
func (t *Task[T]) Spawn() *Task[T] {
	t.mu.Lock()
	if !t.started {
		t.started = true
		go t.run()
	}
	t.mu.Unlock()
	return t
}

func (t *Task[T]) run() {
	defer func() {
		if r := recover(); r != nil {
			t.finish(zeroOf[T](), &UserException{Panic: r, Recovered: true, Stack: t.kernel.captureStack()})
		}
	}()
	v, err := t.fn(t.slot)
	t.finish(v, err)
}

func (t *Task[T]) finish(v T, err error) {
	if dispatchErr := t.executor.Dispatch(func() {
		t.kernel.settle(v, err)
	}); dispatchErr != nil {
		// Executor already closed: settle directly so Await still
		// observes the true outcome rather than hanging forever.
		t.kernel.settle(v, err)
	}
}
