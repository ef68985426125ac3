package email

import "errors"

var (
	ErrFailedToSendEmail = errors.New("email: failed to send email")
	ErrInvalidConfig     = errors.New("email: invalid config")
	ErrInvalidParams     = errors.New("email: invalid params")

	// ErrRecipientRejected marks a delivery the provider will never accept,
	// such as an inactive or malformed recipient. Retrying it is pointless.
	ErrRecipientRejected = errors.New("email: recipient rejected")
)
