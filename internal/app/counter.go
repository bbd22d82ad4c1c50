package service

import (
	"context"

	"github.com/okian/sitefn/internal/adapters/repository"
	"github.com/okian/sitefn/internal/domain/failure"
	"github.com/okian/sitefn/internal/domain/model"
	"github.com/okian/sitefn/pkg/logger"
	"github.com/okian/sitefn/pkg/metrics"
)

// MsgCountFailed is the client-facing message for any store failure.
const MsgCountFailed = "Could not update visitor count"

// VisitorCounter increments the persisted visitor count.
type VisitorCounter struct {
	store  repository.Counter
	key    string
	logger logger.Logger
}

// NewVisitorCounter returns a counter over store.
func NewVisitorCounter(store repository.Counter, opts ...Option) *VisitorCounter {
	o := applyOptions(opts)
	if o.key == "" {
		o.key = model.VisitorCountKey
	}
	return &VisitorCounter{
		store:  store,
		key:    o.key,
		logger: o.logger.Named("counter"),
	}
}

// Increment adds one to the counter with a single store call and returns
// the value that call produced. Store errors carry failure.KindDependency.
func (c *VisitorCounter) Increment(ctx context.Context) (int64, error) {
	const op = "counter.increment"

	n, err := c.store.Add(ctx, c.key, 1)
	if err != nil {
		err = failure.WrapKind(op, failure.KindDependency, err)
		c.logger.Error(ctx, "visitor count update failed", logger.String("key", c.key), logger.Error(err))
		metrics.RecordCounterIncrement(metrics.OutcomeDependencyError)
		metrics.RecordError("counter", failure.KindDependency.String())
		return 0, err
	}

	c.logger.Debug(ctx, "visitor count updated", logger.String("key", c.key), logger.Int64("count", n))
	metrics.RecordCounterIncrement(metrics.OutcomeOK)
	metrics.UpdateCounterValue(n)
	return n, nil
}
