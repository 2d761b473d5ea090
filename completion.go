package async

import "context"

// CompletionFunc is the handler shape a leaf operation's [Initiation]
// invokes exactly once on completion, bridging callback-style APIs
// (timers, I/O results, RPC replies) into the coroutine world.
type CompletionFunc[T any] func(err error, result T)

// Initiation arranges for handler to be invoked exactly once, either
// synchronously or from another goroutine, and is the seam through which
// any external, callback-based API can be adapted into an [Awaitable] via
// [UseOp].
type Initiation[T any] func(handler CompletionFunc[T])

// UseOp wraps init as an [Awaitable], resuming the caller's Await once
// init's handler fires. This is this runtime's completion token,
// standing in for the spec's use_op: the one place a foreign,
// callback-driven leaf operation is turned into something co_await-able.
func UseOp[T any](init Initiation[T]) Awaitable[T] {
	return &initAwaitable[T]{init: init, signal: NewCancellationSignal()}
}

type initAwaitable[T any] struct {
	init   Initiation[T]
	signal *CancellationSignal
}

func (o *initAwaitable[T]) Cancel(mask ...CancellationType) {
	m := CancelTerminal
	if len(mask) > 0 {
		m = mask[0]
	}
	o.signal.Emit(m)
}

func (o *initAwaitable[T]) Await(ctx context.Context) (T, error) {
	k := newKernel[T](getGlobalLogger(), nil)
	o.init(func(err error, result T) {
		k.settle(result, err)
	})
	return k.awaitCancelling(ctx, o.signal)
}

// Result is the tagged, non-throwing outcome produced by [AsResult]: since
// this runtime already reports errors through plain Go error returns
// rather than panics, AsResult/AsTuple exist for symmetry with the
// spec's as_result/as_tuple and for call sites that want a single value
// to pass around instead of a (T, error) pair.
type Result[T any] struct {
	Value T
	Err   error
}

// AsResult awaits aw and packages its outcome as a single [Result] value.
func AsResult[T any](ctx context.Context, aw Awaitable[T]) Result[T] {
	v, err := aw.Await(ctx)
	return Result[T]{Value: v, Err: err}
}

// AsTuple awaits aw and returns its outcome as the spec's as_tuple form:
// an (error, T) pair rather than AsResult's single tagged [Result] value.
// The two forms carry the same information — AsResult(ctx, aw) equals
// Result{Value: v, Err: err} for (err, v) := AsTuple(ctx, aw) — satisfying
// the round-trip law without collapsing the tuple shape into the sum type.
func AsTuple[T any](ctx context.Context, aw Awaitable[T]) (error, T) {
	v, err := aw.Await(ctx)
	return err, v
}
