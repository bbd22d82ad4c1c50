// Package service implements the contact relay and visitor counter
// operations independent of the transport that invokes them.
package service

import (
	"github.com/okian/sitefn/pkg/logger"
)

// Option applies a configuration option to a service.
type Option func(*options)

type options struct {
	logger logger.Logger
	key    string
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCounterKey overrides the key of the visitor counter record.
func WithCounterKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
