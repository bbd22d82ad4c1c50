// Package repository provides the visitor counter stores.
//
// Every backend implements Counter with a single store-side atomic
// operation, so concurrent callers never lose an increment.
package repository

import (
	"context"
	"time"

	"github.com/okian/sitefn/pkg/metrics"
)

// Counter adds to a named counter and returns the post-update value,
// creating the record on first use.
type Counter interface {
	Add(ctx context.Context, key string, delta int64) (int64, error)
}

// Backend names reported by the stores.
const (
	BackendDynamoDB  = "dynamodb"
	BackendRedis     = "redis"
	BackendMongo     = "mongo"
	BackendDatastore = "datastore"
	BackendMemory    = "memory"
)

type instrumented struct {
	next    Counter
	backend string
}

// Instrument records latency and failures of next under backend.
func Instrument(next Counter, backend string) Counter {
	return &instrumented{next: next, backend: backend}
}

func (c *instrumented) Add(ctx context.Context, key string, delta int64) (int64, error) {
	start := time.Now()
	n, err := c.next.Add(ctx, key, delta)
	metrics.RecordStoreLatency(c.backend, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordStoreError(c.backend)
		return 0, err
	}
	return n, nil
}
