package mobius

import "go.uber.org/zap"

// Option configures a Builder and the routers built from it.
type Option func(*config)

type config struct {
	buffer int
	logger *zap.Logger
}

func parseConfig(opts []Option) config {
	c := config{
		buffer: 0,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithBuffer sets the buffer size of the branch and output channels created
// for each subscription. The default is unbuffered: the dispatcher waits for
// a branch to accept each effect before reading the next one.
func WithBuffer(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.buffer = n
		}
	}
}

// WithLogger sets the logger used for router and subscription
// instrumentation. The default discards all output.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
