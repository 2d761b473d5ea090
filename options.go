package async

import "time"

// kernelOptions holds per-coroutine configuration, mirroring the teacher's
// functional-options pattern for its Loop type.
type kernelOptions struct {
	logger    Logger
	allocator func() any
}

func resolveKernelOptions(opts []KernelOption) *kernelOptions {
	cfg := &kernelOptions{logger: getGlobalLogger()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(cfg)
	}
	return cfg
}

// KernelOption configures a [Task], [Promise], or [Generator] at
// construction.
type KernelOption interface {
	apply(*kernelOptions)
}

type kernelOptionFunc func(*kernelOptions)

func (f kernelOptionFunc) apply(o *kernelOptions) { f(o) }

// WithLogger stores l as the logger of a single Task or Promise, in place
// of the package-level logger set by [SetStructuredLogger]. The runtime's
// own log output, including the terminate-hook report of a failed detached
// Promise, is written through the package-level logger, not through l; a
// [Generator] ignores this option.
func WithLogger(l Logger) KernelOption {
	return kernelOptionFunc(func(o *kernelOptions) {
		if l != nil {
			o.logger = l
		}
	})
}

// WithAllocator installs an allocator capability used to size the
// coroutine's per-suspension scratch buffers — currently, the []byte
// buffer captureStack uses to record a panicking coroutine body's stack
// trace. No particular pooling policy is mandated: passing nil (the
// default) falls back to ordinary allocation. This exists primarily so
// callers porting a pool-backed reactor can plug their pool in without
// the kernel caring about its implementation.
func WithAllocator(alloc func() any) KernelOption {
	return kernelOptionFunc(func(o *kernelOptions) {
		o.allocator = alloc
	})
}

// WithRateLimitedDiagnostics configures the sliding-window rate limits
// applied to the default detached-spawn terminate hook (see
// [SetTerminateHook]), so a runaway panicking detached task cannot flood
// the log. rates maps a window duration to the maximum number of log
// lines permitted in that window, per distinct panic site.
func WithRateLimitedDiagnostics(rates map[time.Duration]int) {
	configureTerminateLimiter(rates)
}
