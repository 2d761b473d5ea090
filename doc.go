// Package async provides a coroutine-flavoured structured concurrency
// runtime for Go, featuring lazy tasks, eager promises, generators, a
// bounded channel, and fan-in combinators (race, join, gather, wait
// groups) with hierarchical, typed cancellation.
//
// # Architecture
//
// Every "coroutine" is a goroutine. Suspension points are blocking
// channel operations rather than co_await; resumption is modelled by
// posting a continuation through the bound [Executor], mirroring a
// classic reactor-free event loop's task queue. An [Executor] only
// schedules ready callbacks — it does not provide I/O polling, timers,
// or sockets; those are external collaborators the kernel consumes but
// does not implement.
//
// # Cancellation
//
// [CancellationSignal] and [CancellationSlot] implement hierarchical,
// typed cancellation ([CancellationType]: Terminal, Partial, Total) with
// idempotent bitwise-OR accumulation, matching a classic DOM
// AbortController/AbortSignal pair generalized from a single boolean flag
// to a three-bit intent.
//
// # Combinators
//
// [Race] and [LeftRace] return the first settled child and cancel the
// rest. [JoinAll], [Join2], and [Join3] fail fast, cancelling siblings on
// the first error. [GatherAll], [Gather2], and [Gather3] always wait for
// every child and report per-child results. [WaitGroup] manages a dynamic
// set of running promises with incremental reaping.
//
// # Usage
//
//	ex := async.NewSerialExecutor()
//	defer ex.Close()
//
//	t := async.NewTask(ex, func(slot *async.CancellationSlot) (int, error) {
//	    return 42, nil
//	})
//	v, err := t.Await(context.Background())
package async
