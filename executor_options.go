package async

// executorOptions holds configuration applied when constructing a
// [SerialExecutor], mirroring the teacher's loopOptions/LoopOption split.
type executorOptions struct {
	strictOrdering bool
	metricsEnabled bool
}

// ExecutorOption configures a [SerialExecutor] at construction.
type ExecutorOption interface {
	applyExecutor(*executorOptions)
}

type executorOptionFunc func(*executorOptions)

func (f executorOptionFunc) applyExecutor(o *executorOptions) { f(o) }

// WithStrictOrdering disables Dispatch's inline fast path, forcing every
// resumption through the same FIFO queue Post uses. Off by default, where
// Dispatch runs inline when the caller is already on the executor's
// worker goroutine, trading strict FIFO-with-everything for lower
// resumption latency — the same trade-off as the teacher's
// WithStrictMicrotaskOrdering.
func WithStrictOrdering(enabled bool) ExecutorOption {
	return executorOptionFunc(func(o *executorOptions) { o.strictOrdering = enabled })
}

// WithMetrics enables queue-depth and throughput tracking on the
// executor, retrievable via [SerialExecutor.Metrics]. Disabled by
// default to keep the hot path allocation-free.
func WithMetrics(enabled bool) ExecutorOption {
	return executorOptionFunc(func(o *executorOptions) { o.metricsEnabled = enabled })
}

func resolveExecutorOptions(opts []ExecutorOption) *executorOptions {
	cfg := &executorOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyExecutor(cfg)
	}
	return cfg
}
