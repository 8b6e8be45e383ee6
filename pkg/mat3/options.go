package mat3

import (
	"encoding/binary"

	"github.com/goopsie/bmdFileTools/pkg/logging"
)

// Option configures Read, Decode and Encode.
type Option func(*options)

type options struct {
	legacy bool
	logger logging.Logger
	order  binary.ByteOrder
}

// WithLegacy selects the MAT2 layout. Read also switches to it when the chunk
// signature is MAT2.
func WithLegacy(legacy bool) Option {
	return func(o *options) {
		o.legacy = legacy
	}
}

// WithLogger forwards every diagnostic to l.Warnf.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithByteOrder overrides the default big-endian byte order.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(o *options) {
		o.order = order
	}
}

func buildOptions(opts []Option) options {
	o := options{order: binary.BigEndian}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.OrNop(o.logger)
	if o.order == nil {
		o.order = binary.BigEndian
	}
	return o
}
