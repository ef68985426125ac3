package email

import (
	"context"
	"fmt"

	"github.com/coachdesk/coachdesk/pkg/validator"
)

// EmailSender represents an interface for sending emails.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`       // Email address of the recipient
	Subject  string `json:"subject"`       // Subject of the email
	BodyHTML string `json:"body_html"`     // HTML body of the email
	Tag      string `json:"tag,omitempty"` // Optional
}

// Validate checks that every required field is present and SendTo is a
// deliverable address.
func (p SendEmailParams) Validate() error {
	err := validator.Apply(
		validator.ValidEmail("SendTo", p.SendTo),
		validator.RequiredString("Subject", p.Subject),
		validator.RequiredString("BodyHTML", p.BodyHTML),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}
