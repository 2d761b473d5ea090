package async

import (
	"context"
	"runtime"
	"sync"
)

// PromiseState is the lifecycle state of a coroutine frame's result cell.
// It starts Pending and transitions exactly once to either Resolved or
// Rejected.
type PromiseState int

const (
	// Pending indicates the coroutine has not yet produced a result.
	Pending PromiseState = iota
	// Resolved indicates the coroutine completed successfully.
	Resolved
	// Rejected indicates the coroutine completed with an error.
	Rejected
)

// String renders the state name.
func (s PromiseState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// kernel is the shared per-coroutine result cell underlying both [Task]
// and [Promise]. It owns exactly one of {value, error} once settled, and
// is safe to settle exactly once — a second settle is a documented no-op,
// matching the teacher's "calling resolve on an already-settled promise
// has no effect" policy.
type kernel[T any] struct {
	mu        sync.Mutex
	state     PromiseState
	value     T
	err       error
	done      chan struct{}
	logger    Logger
	allocator func() any
}

func newKernel[T any](logger Logger, allocator func() any) *kernel[T] {
	if logger == nil {
		logger = getGlobalLogger()
	}
	return &kernel[T]{done: make(chan struct{}), logger: logger, allocator: allocator}
}

// captureStack formats the calling goroutine's stack for inclusion in a
// [UserException] recovered from a panic, matching the teacher's
// debug-mode creation-stack capture style (promise.go's
// CreationStackTrace) applied to failures instead of construction sites.
// It uses the kernel's configured allocator (see [WithAllocator]) to
// obtain the scratch buffer when one was supplied, falling back to a
// fresh allocation otherwise.
func (k *kernel[T]) captureStack() string {
	return captureStack(k.allocator)
}

// settle stores the coroutine's outcome and wakes every current and future
// awaiter. Settling an already-settled kernel is a no-op.
func (k *kernel[T]) settle(v T, err error) {
	k.mu.Lock()
	if k.state != Pending {
		k.mu.Unlock()
		return
	}
	k.value = v
	k.err = err
	if err != nil {
		k.state = Rejected
	} else {
		k.state = Resolved
	}
	close(k.done)
	k.mu.Unlock()
}

// State returns the current lifecycle state.
func (k *kernel[T]) State() PromiseState {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.state
}

// Ready reports whether the kernel has settled.
func (k *kernel[T]) Ready() bool {
	return k.State() != Pending
}

// Get returns the settled value/error without suspending. Its
// precondition is Ready(); calling it on a pending kernel returns
// ErrNotReady.
func (k *kernel[T]) Get() (T, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.state == Pending {
		var zero T
		return zero, ErrNotReady
	}
	return k.value, k.err
}

// awaitCancelling blocks until the kernel settles or ctx is done. If ctx
// completes first, it emits CancelTerminal into sig (forwarding the
// caller's intent into the coroutine) and then continues waiting for the
// coroutine to actually observe cancellation and settle — this keeps the
// "no suspended child left behind" invariant: Await never returns while
// its own coroutine is still running.
func (k *kernel[T]) awaitCancelling(ctx context.Context, sig *CancellationSignal) (T, error) {
	select {
	case <-k.done:
		return k.Get()
	case <-ctx.Done():
		sig.Emit(CancelTerminal)
		<-k.done
		return k.Get()
	}
}

func zeroOf[T any]() T {
	var zero T
	return zero
}

// captureStack formats the calling goroutine's stack, sizing its scratch
// buffer via alloc when provided (see [WithAllocator]) rather than always
// allocating fresh, matching the teacher's debug-mode creation-stack
// capture style (promise.go's CreationStackTrace) applied to failures
// instead of construction sites.
func captureStack(alloc func() any) string {
	var buf []byte
	if alloc != nil {
		if b, ok := alloc().([]byte); ok && len(b) > 0 {
			buf = b
		}
	}
	if buf == nil {
		buf = make([]byte, 4096)
	}
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
