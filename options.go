package numidx

import (
	"github.com/attrindex/numidx/inverted"
	"github.com/attrindex/numidx/kvstore"
	"github.com/attrindex/numidx/resource"
)

type options struct {
	maxSize    int
	backend    kvstore.Env
	logger     *Logger
	controller *resource.Controller
	metrics    MetricsCollector
}

// Option configures an Index constructor.
//
// Breaking changes are expected while numidx is pre-release.
type Option func(*options)

// WithMaxSize overrides the default bucket saturation threshold
// (1024). Tests exercising split behavior at smaller scale pass a
// small value here; production use should leave the default.
func WithMaxSize(maxSize int) Option {
	return func(o *options) {
		if maxSize > 0 {
			o.maxSize = maxSize
		}
	}
}

// WithBackend supplies the kvstore.Env backing the index. If not set,
// New returns an error — callers must choose durable (kvstore.OpenBolt)
// or in-memory (kvstore.OpenMemory) storage explicitly.
func WithBackend(env kvstore.Env) Option {
	return func(o *options) {
		o.backend = env
	}
}

// WithLogger configures structured logging for index operations. Pass
// nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithController configures writer-admission and split-I/O
// backpressure. A nil Controller (the default) behaves as unlimited.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		maxSize: inverted.DefaultMaxSize,
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
