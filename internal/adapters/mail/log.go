package mail

import (
	"context"

	"github.com/okian/sitefn/internal/domain/model"
	"github.com/okian/sitefn/pkg/logger"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	log logger.Logger
}

var _ Sender = (*LogSender)(nil)

// NewLogSender returns a sender logging through l.
func NewLogSender(l logger.Logger) *LogSender {
	return &LogSender{log: l}
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, msg model.Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipient
	}
	s.log.Info(ctx, "mail not delivered (log backend)",
		logger.String("from", msg.From),
		logger.Any("to", msg.To),
		logger.String("subject", msg.Subject),
		logger.String("text", msg.Text),
	)
	return nil
}
