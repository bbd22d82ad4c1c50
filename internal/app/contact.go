package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/okian/sitefn/internal/adapters/mail"
	"github.com/okian/sitefn/internal/domain/failure"
	"github.com/okian/sitefn/internal/domain/model"
	"github.com/okian/sitefn/pkg/logger"
	"github.com/okian/sitefn/pkg/metrics"
)

// Client-facing messages of the contact relay.
const (
	MsgMissingBody = "Missing 'body' in event."
	MsgSent        = "Email sent successfully"
	MsgSendFailed  = "Failed to send message"
)

var (
	errMissingBody = errors.New(MsgMissingBody)
	errNotObject   = errors.New("body must be a JSON object")
)

// ContactRelay forwards contact submissions to a mail Sender.
type ContactRelay struct {
	sender mail.Sender
	from   string
	to     string
	logger logger.Logger
}

// NewContactRelay returns a relay sending from one fixed address to another.
func NewContactRelay(sender mail.Sender, from, to string, opts ...Option) *ContactRelay {
	o := applyOptions(opts)
	return &ContactRelay{
		sender: sender,
		from:   from,
		to:     to,
		logger: o.logger.Named("contact"),
	}
}

// Relay parses body and sends exactly one email. Errors carry
// failure.KindInput for bad bodies and failure.KindDependency for send
// failures; nothing is sent when the body is rejected.
func (r *ContactRelay) Relay(ctx context.Context, body string) error {
	const op = "contact.relay"

	sub, err := parseSubmission(body)
	if err != nil {
		err = failure.WrapKind(op, failure.KindInput, err)
		r.logger.Warn(ctx, "rejected contact submission", logger.Error(err))
		r.record(ctx, failure.KindInput)
		return err
	}

	r.logger.Debug(ctx, "parsed contact submission",
		logger.String("name", sub.Name),
		logger.String("email", sub.Email),
	)

	if err := r.sender.Send(ctx, sub.ToMessage(r.from, r.to)); err != nil {
		err = failure.WrapKind(op, failure.KindDependency, err)
		r.logger.Error(ctx, "email send failed", logger.Error(err))
		r.record(ctx, failure.KindDependency)
		return err
	}

	r.logger.Info(ctx, "email sent", logger.String("name", sub.Name))
	metrics.RecordContactRelay(metrics.OutcomeOK)
	return nil
}

func (r *ContactRelay) record(_ context.Context, kind failure.Kind) {
	outcome := metrics.OutcomeDependencyError
	if kind == failure.KindInput {
		outcome = metrics.OutcomeInputError
	}
	metrics.RecordContactRelay(outcome)
	metrics.RecordError("contact", kind.String())
}

func parseSubmission(body string) (model.ContactSubmission, error) {
	if body == "" {
		return model.ContactSubmission{}, errMissingBody
	}

	var p *model.ContactPayload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return model.ContactSubmission{}, parseError(err)
	}
	if p == nil {
		return model.ContactSubmission{}, parseError(errNotObject)
	}
	return p.Resolve(), nil
}

func parseError(err error) error {
	return fmt.Errorf("Could not parse JSON body: %v", err) //nolint:stylecheck // client-facing text
}
