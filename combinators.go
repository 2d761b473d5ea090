package async

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
)

// Outcome captures a child's settled result inside a [GatherAll] /
// [Gather2] / [Gather3] result set, since gather (unlike join) never
// fails fast and must carry either a value or an error per child.
type Outcome[T any] struct {
	Value T
	Err   error
}

func cancelAllExcept[T any](children []Awaitable[T], except int, mask CancellationType) {
	for i, c := range children {
		if i == except {
			continue
		}
		c.Cancel(mask)
	}
}

// Race starts every child concurrently and returns the value of whichever
// completes first, cancelling the rest with CancelTerminal and discarding
// their eventual results (including errors), per the spec's race
// semantics. When multiple children are ready in the same turn the winner
// is chosen pseudo-randomly using rng (pass nil for a package-default
// source), matching race's documented random tie-break; use [LeftRace]
// for the deterministic lowest-index variant.
func Race[T any](ctx context.Context, rng *rand.Rand, children ...Awaitable[T]) (T, error) {
	if len(children) == 0 {
		var zero T
		return zero, ErrNotReady
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(int64(len(children))*2654435761 + 1))
	}

	type indexed struct {
		idx int
		val T
		err error
	}
	results := make(chan indexed, len(children))
	for i, c := range children {
		i, c := i, c
		go func() {
			v, err := c.Await(ctx)
			results <- indexed{idx: i, val: v, err: err}
		}()
	}

	// Drain whatever arrives within the first available batch so a true
	// simultaneous tie is broken randomly rather than by goroutine
	// scheduling order; everything after the winner is just discarded.
	first := <-results
	batch := []indexed{first}
drain:
	for {
		select {
		case next := <-results:
			batch = append(batch, next)
		default:
			break drain
		}
	}
	winner := batch[rng.Intn(len(batch))]

	cancelAllExcept(children, winner.idx, CancelTerminal)
	go func() {
		for i := 0; i < len(children)-1; i++ {
			<-results
		}
	}()

	return winner.val, winner.err
}

// LeftRace behaves like [Race] but ties resolve to the lowest index
// deterministically instead of pseudo-randomly.
func LeftRace[T any](ctx context.Context, children ...Awaitable[T]) (T, error) {
	if len(children) == 0 {
		var zero T
		return zero, ErrNotReady
	}

	type indexed struct {
		idx int
		val T
		err error
	}
	results := make(chan indexed, len(children))
	for i, c := range children {
		i, c := i, c
		go func() {
			v, err := c.Await(ctx)
			results <- indexed{idx: i, val: v, err: err}
		}()
	}

	first := <-results
	batch := []indexed{first}
drain:
	for {
		select {
		case next := <-results:
			batch = append(batch, next)
		default:
			break drain
		}
	}
	winner := batch[0]
	for _, r := range batch[1:] {
		if r.idx < winner.idx {
			winner = r
		}
	}

	cancelAllExcept(children, winner.idx, CancelTerminal)
	go func() {
		for i := 0; i < len(children)-1; i++ {
			<-results
		}
	}()

	return winner.val, winner.err
}

// JoinAll starts every child, and as soon as any one fails, immediately
// cancels the rest, awaits their unwind, and returns the first error
// observed; if every child succeeds it returns their values in input
// order.
func JoinAll[T any](ctx context.Context, children ...Awaitable[T]) ([]T, error) {
	if len(children) == 0 {
		return nil, nil
	}

	values := make([]T, len(children))
	var (
		mu        sync.Mutex
		firstErr  error
		failed    atomic.Bool
		wg        sync.WaitGroup
	)
	wg.Add(len(children))

	for i, c := range children {
		i, c := i, c
		go func() {
			defer wg.Done()
			v, err := c.Await(ctx)
			if err != nil {
				if failed.CompareAndSwap(false, true) {
					mu.Lock()
					firstErr = err
					mu.Unlock()
					cancelAllExcept(children, i, CancelTerminal)
				}
				return
			}
			mu.Lock()
			values[i] = v
			mu.Unlock()
		}()
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if firstErr != nil {
		return nil, firstErr
	}
	return values, nil
}

// Join2 is the fixed-arity form of JoinAll for two differently-typed
// children, standing in for the spec's heterogeneous-tuple join since Go
// generics cannot express a variadic tuple of distinct types.
func Join2[A, B any](ctx context.Context, a Awaitable[A], b Awaitable[B]) (A, B, error) {
	type result struct {
		idx int
		err error
	}
	results := make(chan result, 2)
	var va A
	var vb B
	var failed atomic.Bool
	var mu sync.Mutex
	var firstErr error

	go func() {
		v, err := a.Await(ctx)
		if err == nil {
			mu.Lock()
			va = v
			mu.Unlock()
		} else if failed.CompareAndSwap(false, true) {
			mu.Lock()
			firstErr = err
			mu.Unlock()
			b.Cancel(CancelTerminal)
		}
		results <- result{idx: 0, err: err}
	}()
	go func() {
		v, err := b.Await(ctx)
		if err == nil {
			mu.Lock()
			vb = v
			mu.Unlock()
		} else if failed.CompareAndSwap(false, true) {
			mu.Lock()
			firstErr = err
			mu.Unlock()
			a.Cancel(CancelTerminal)
		}
		results <- result{idx: 1, err: err}
	}()

	<-results
	<-results

	mu.Lock()
	defer mu.Unlock()
	if firstErr != nil {
		var zeroA A
		var zeroB B
		return zeroA, zeroB, firstErr
	}
	return va, vb, nil
}

// Join3 is the three-argument sibling of Join2: all three children start
// concurrently, and the first failure cancels the remaining two, awaits
// their unwind, and then returns that first error.
func Join3[A, B, C any](ctx context.Context, a Awaitable[A], b Awaitable[B], c Awaitable[C]) (A, B, C, error) {
	results := make(chan struct{}, 3)
	var va A
	var vb B
	var vc C
	var failed atomic.Bool
	var mu sync.Mutex
	var firstErr error

	claim := func(err error, cancel func()) {
		if failed.CompareAndSwap(false, true) {
			mu.Lock()
			firstErr = err
			mu.Unlock()
			cancel()
		}
	}

	go func() {
		v, err := a.Await(ctx)
		if err == nil {
			mu.Lock()
			va = v
			mu.Unlock()
		} else {
			claim(err, func() {
				b.Cancel(CancelTerminal)
				c.Cancel(CancelTerminal)
			})
		}
		results <- struct{}{}
	}()
	go func() {
		v, err := b.Await(ctx)
		if err == nil {
			mu.Lock()
			vb = v
			mu.Unlock()
		} else {
			claim(err, func() {
				a.Cancel(CancelTerminal)
				c.Cancel(CancelTerminal)
			})
		}
		results <- struct{}{}
	}()
	go func() {
		v, err := c.Await(ctx)
		if err == nil {
			mu.Lock()
			vc = v
			mu.Unlock()
		} else {
			claim(err, func() {
				a.Cancel(CancelTerminal)
				b.Cancel(CancelTerminal)
			})
		}
		results <- struct{}{}
	}()

	<-results
	<-results
	<-results

	mu.Lock()
	defer mu.Unlock()
	if firstErr != nil {
		var zeroA A
		var zeroB B
		var zeroC C
		return zeroA, zeroB, zeroC, firstErr
	}
	return va, vb, vc, nil
}

// GatherAll starts every child and waits for all of them to complete
// regardless of individual failure, returning one [Outcome] per child in
// input order.
func GatherAll[T any](ctx context.Context, children ...Awaitable[T]) []Outcome[T] {
	if len(children) == 0 {
		return nil
	}
	out := make([]Outcome[T], len(children))
	var wg sync.WaitGroup
	wg.Add(len(children))
	for i, c := range children {
		i, c := i, c
		go func() {
			defer wg.Done()
			v, err := c.Await(ctx)
			out[i] = Outcome[T]{Value: v, Err: err}
		}()
	}
	wg.Wait()
	return out
}

// GatherErr reduces a [GatherAll] / [Gather2] / [Gather3] result set into a
// single error: nil if every outcome succeeded, the lone error if exactly
// one failed, or an [AggregateError] collecting every failure in input
// order otherwise — mirroring the teacher's Any combinator, which
// aggregates every settled rejection into one composite error rather than
// surfacing only the first.
func GatherErr(outcomes ...error) error {
	var errs []error
	for _, err := range outcomes {
		if err != nil {
			errs = append(errs, err)
		}
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &AggregateError{Errors: errs}
	}
}

// Gather2 is the fixed-arity form of GatherAll for two differently-typed
// children.
func Gather2[A, B any](ctx context.Context, a Awaitable[A], b Awaitable[B]) (Outcome[A], Outcome[B]) {
	var oa Outcome[A]
	var ob Outcome[B]
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		v, err := a.Await(ctx)
		oa = Outcome[A]{Value: v, Err: err}
	}()
	go func() {
		defer wg.Done()
		v, err := b.Await(ctx)
		ob = Outcome[B]{Value: v, Err: err}
	}()
	wg.Wait()
	return oa, ob
}

// Gather3 is the three-argument sibling of Gather2.
func Gather3[A, B, C any](ctx context.Context, a Awaitable[A], b Awaitable[B], c Awaitable[C]) (Outcome[A], Outcome[B], Outcome[C]) {
	var oa Outcome[A]
	var ob Outcome[B]
	var oc Outcome[C]
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		v, err := a.Await(ctx)
		oa = Outcome[A]{Value: v, Err: err}
	}()
	go func() {
		defer wg.Done()
		v, err := b.Await(ctx)
		ob = Outcome[B]{Value: v, Err: err}
	}()
	go func() {
		defer wg.Done()
		v, err := c.Await(ctx)
		oc = Outcome[C]{Value: v, Err: err}
	}()
	wg.Wait()
	return oa, ob, oc
}
