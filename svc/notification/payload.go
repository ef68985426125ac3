package notification

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/coachdesk/coachdesk/pkg/validator"
)

// Payload is the template-specific part of an envelope.
// The set of implementations is closed: one struct per Template.
type Payload interface {
	// Template returns the template this payload belongs to.
	Template() Template
	// Recipient returns the destination address.
	Recipient() string
	// Validate reports missing or malformed fields, wrapped in ErrInvalidPayload.
	Validate() error

	payload()
}

// GenericPayload carries a pre-composed message.
type GenericPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SignupPayload carries the signup verification code.
// UUID correlates the code with the pending signup.
type SignupPayload struct {
	To   string `json:"to"`
	Code string `json:"code"`
	UUID string `json:"uuid"`
}

type SignupSucceededPayload struct {
	To string `json:"to"`
}

// PasswordRecoveryPayload carries the recovery code and the reset token used
// to build the reset link.
type PasswordRecoveryPayload struct {
	To    string `json:"to"`
	Code  string `json:"code"`
	Token string `json:"token"`
}

type ResetConfirmationPayload struct {
	To string `json:"to"`
}

type WelcomePayload struct {
	To   string `json:"to"`
	Name string `json:"name"`
}

func (GenericPayload) Template() Template           { return TemplateGeneric }
func (SignupPayload) Template() Template            { return TemplateSignup }
func (SignupSucceededPayload) Template() Template   { return TemplateSignupSucceeded }
func (PasswordRecoveryPayload) Template() Template  { return TemplatePasswordRecovery }
func (ResetConfirmationPayload) Template() Template { return TemplateResetConfirmation }
func (WelcomePayload) Template() Template           { return TemplateWelcome }

func (p GenericPayload) Recipient() string           { return p.To }
func (p SignupPayload) Recipient() string            { return p.To }
func (p SignupSucceededPayload) Recipient() string   { return p.To }
func (p PasswordRecoveryPayload) Recipient() string  { return p.To }
func (p ResetConfirmationPayload) Recipient() string { return p.To }
func (p WelcomePayload) Recipient() string           { return p.To }

func (GenericPayload) payload()           {}
func (SignupPayload) payload()            {}
func (SignupSucceededPayload) payload()   {}
func (PasswordRecoveryPayload) payload()  {}
func (ResetConfirmationPayload) payload() {}
func (WelcomePayload) payload()           {}

func (p GenericPayload) Validate() error {
	return validate(p.Template(),
		validator.ValidEmail("to", p.To),
		validator.RequiredString("subject", p.Subject),
		validator.RequiredString("body", p.Body),
	)
}

func (p SignupPayload) Validate() error {
	return validate(p.Template(),
		validator.ValidEmail("to", p.To),
		validator.RequiredString("code", p.Code),
		validator.RequiredString("uuid", p.UUID),
	)
}

func (p SignupSucceededPayload) Validate() error {
	return validate(p.Template(), validator.ValidEmail("to", p.To))
}

func (p PasswordRecoveryPayload) Validate() error {
	return validate(p.Template(),
		validator.ValidEmail("to", p.To),
		validator.RequiredString("code", p.Code),
		validator.RequiredString("token", p.Token),
	)
}

func (p ResetConfirmationPayload) Validate() error {
	return validate(p.Template(), validator.ValidEmail("to", p.To))
}

func (p WelcomePayload) Validate() error {
	return validate(p.Template(),
		validator.ValidEmail("to", p.To),
		validator.RequiredString("name", p.Name),
	)
}

func validate(t Template, rules ...validator.Rule) error {
	if err := validator.Apply(rules...); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, t, err)
	}
	return nil
}

// decodePayload decodes raw into the payload type T. Unknown fields are
// rejected: a payload carrying another template's fields is a shape error.
func decodePayload[T Payload](raw json.RawMessage) (Payload, error) {
	var p T
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: %s: payload is missing", ErrInvalidPayload, p.Template())
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, p.Template(), err)
	}
	return p, nil
}
