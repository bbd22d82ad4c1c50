// Package model contains domain models passed between layers.
package model

import (
	"fmt"

	"github.com/samber/lo"
)

// Placeholders used when a submission omits a field.
const (
	DefaultName    = "No Name"
	DefaultEmail   = "No Email"
	DefaultMessage = "No Message"
)

// ContactPayload is the partial shape decoded from a contact form body.
// A nil field was absent; a non-nil empty string was sent empty.
type ContactPayload struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Message *string `json:"message"`
}

// ContactSubmission is a payload with every field resolved.
type ContactSubmission struct {
	Name    string
	Email   string
	Message string
}

// Resolve fills absent fields with their placeholders.
func (p ContactPayload) Resolve() ContactSubmission {
	return ContactSubmission{
		Name:    lo.FromPtrOr(p.Name, DefaultName),
		Email:   lo.FromPtrOr(p.Email, DefaultEmail),
		Message: lo.FromPtrOr(p.Message, DefaultMessage),
	}
}

// Message is an outbound plain-text email.
type Message struct {
	From    string
	To      []string
	Subject string
	Text    string
}

// Subject returns the email subject for the submission.
func (s ContactSubmission) Subject() string {
	return "Contact Form Submission from " + s.Name
}

// Text returns the email body for the submission.
func (s ContactSubmission) Text() string {
	return fmt.Sprintf("From: %s <%s>\n\n%s", s.Name, s.Email, s.Message)
}

// ToMessage addresses the submission from sender to recipient.
func (s ContactSubmission) ToMessage(from, to string) Message {
	return Message{
		From:    from,
		To:      []string{to},
		Subject: s.Subject(),
		Text:    s.Text(),
	}
}
