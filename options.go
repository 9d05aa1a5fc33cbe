package contiguous

import (
	"math"

	"github.com/rawbytedev/contiguous/tracing"
)

// config collects the options a Deserialize/DeserializeCopy call was
// built with. Mirrors the teacher's struct-of-flags Options/SafeOptions
// idiom rather than a free-floating set of globals.
type config struct {
	maxLength   uint64
	reusableErr bool
	logger      *tracing.Logger
}

func defaultConfig() config {
	return config{
		maxLength: math.MaxUint64,
		logger:    tracing.NoOp(),
	}
}

// Option configures a single Deserialize/DeserializeCopy call.
type Option func(*config)

// WithMaxLength sets the hard ceiling (spec §6 "max_length") on any
// single dynamic array's serialized length. Exceeding it raises a
// DeserializationError. The default is the maximum representable
// machine word, i.e. effectively unbounded.
func WithMaxLength(max uint64) Option {
	return func(c *config) { c.maxLength = max }
}

// WithReusableError opts into the process-wide reusable error instance
// described in spec §5/§7/§9: the DeserializationError itself is not
// allocated per call, at the cost of losing concurrency safety across
// overlapping failing calls. Deserialize and DeserializeCopy still wrap
// it with call-site context, which allocates.
// Off by default, per spec §9's recommendation to prefer per-call error
// values in a Go rendition.
func WithReusableError(enable bool) Option {
	return func(c *config) { c.reusableErr = enable }
}

// WithLogger attaches a structured logger (see package tracing) that
// records one debug event per call: data_len, extra_len, and whether
// the buffer had to grow. The default logger is a no-op, so tracing
// never touches the hot path unless a caller opts in.
func WithLogger(l *tracing.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func resolveOptions(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
