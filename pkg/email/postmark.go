package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/coachdesk/coachdesk/pkg/validator"
)

// Postmark error codes a retry cannot fix.
// https://postmarkapp.com/developer/api/overview#error-codes
const (
	postmarkInvalidEmailRequest = 300
	postmarkInvalidJSON         = 402
	postmarkInactiveRecipient   = 406
)

// PostmarkSender delivers through Postmark's transactional API. Replies go
// to the support address.
type PostmarkSender struct {
	client  *postmark.Client
	from    string
	replyTo string
}

// NewPostmarkClient checks the Postmark part of cfg and returns a sender.
func NewPostmarkClient(cfg Config) (*PostmarkSender, error) {
	err := validator.Apply(
		validator.RequiredString("POSTMARK_SERVER_TOKEN", cfg.PostmarkServerToken),
		validator.RequiredString("POSTMARK_ACCOUNT_TOKEN", cfg.PostmarkAccountToken),
		validator.ValidEmail("SENDER_EMAIL", cfg.SenderEmail),
		validator.ValidEmail("SUPPORT_EMAIL", cfg.SupportEmail),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &PostmarkSender{
		client:  postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		from:    cfg.SenderEmail,
		replyTo: cfg.SupportEmail,
	}, nil
}

// MustNewPostmarkClient panics when cfg is invalid.
func MustNewPostmarkClient(cfg Config) *PostmarkSender {
	s, err := NewPostmarkClient(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *PostmarkSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       s.from,
		ReplyTo:    s.replyTo,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return postmarkError(int64(resp.ErrorCode), resp.Message)
}

// postmarkError is nil for code 0. Codes that will never succeed also carry
// ErrRecipientRejected.
func postmarkError(code int64, message string) error {
	if code == 0 {
		return nil
	}
	errs := []error{ErrFailedToSendEmail, fmt.Errorf("postmark %d: %s", code, message)}
	switch code {
	case postmarkInvalidEmailRequest, postmarkInvalidJSON, postmarkInactiveRecipient:
		errs = append(errs, ErrRecipientRejected)
	}
	return errors.Join(errs...)
}
