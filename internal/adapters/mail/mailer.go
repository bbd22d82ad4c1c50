// Package mail delivers contact messages through an email service.
package mail

import (
	"context"
	"errors"
	"time"

	"github.com/okian/sitefn/internal/domain/model"
	"github.com/okian/sitefn/pkg/metrics"
)

// Backend names reported by the senders.
const (
	BackendSES = "ses"
	BackendLog = "log"
)

// Sentinel kinds for mail errors.
var (
	ErrUnknownBackend = errors.New("unknown mail backend")
	ErrNoRecipient    = errors.New("message has no recipient")
)

// Sender delivers one message. Implementations must not retry.
type Sender interface {
	Send(ctx context.Context, msg model.Message) error
}

type instrumented struct {
	next    Sender
	backend string
}

// Instrument records latency and failures of next under backend.
func Instrument(next Sender, backend string) Sender {
	return &instrumented{next: next, backend: backend}
}

func (s *instrumented) Send(ctx context.Context, msg model.Message) error {
	start := time.Now()
	err := s.next.Send(ctx, msg)
	metrics.RecordMailLatency(s.backend, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordMailError(s.backend)
	}
	return err
}
