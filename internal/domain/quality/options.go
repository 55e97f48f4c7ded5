package quality

import "runtime"

// Option applies a configuration option to pairwise evaluation.
type Option func(*options)

type options struct {
	concurrency int
}

func newOptions(opts []Option) options {
	o := options{concurrency: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithConcurrency bounds the number of pairs evaluated at once.
// A value of 1 evaluates every pair on the calling goroutine.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
