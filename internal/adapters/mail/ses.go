package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/okian/sitefn/internal/domain/model"
)

// SESAPI is the slice of the SES v2 client used by SESSender.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender sends plain-text messages through Amazon SES.
type SESSender struct {
	api SESAPI
}

var _ Sender = (*SESSender)(nil)

// NewSESSender wraps api.
func NewSESSender(api SESAPI) *SESSender {
	return &SESSender{api: api}
}

// Send implements Sender.
func (s *SESSender) Send(ctx context.Context, msg model.Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipient
	}
	_, err := s.api.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination:      &types.Destination{ToAddresses: msg.To},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Text)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sesv2.SendEmail: %w", err)
	}
	return nil
}
