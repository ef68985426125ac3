package notification

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope is the queued unit of work: a kind discriminator, a template and
// the payload for that template.
//
// On the wire it is
//
//	{"type":"email","template":"signup","payload":{"to":"a@x.com","code":"123456","uuid":"u1"}}
type Envelope struct {
	Type     Kind
	Template Template
	Payload  Payload
}

// NewEnvelope wraps p in an email envelope. The template is taken from the
// payload, so the two always agree.
func NewEnvelope(p Payload) Envelope {
	env := Envelope{Type: KindEmail, Payload: p}
	if p != nil {
		env.Template = p.Template()
	}
	return env
}

// Validate checks the discriminator, the template/payload pairing and the
// payload fields.
func (e Envelope) Validate() error {
	if e.Type == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidEnvelope)
	}
	if !e.Template.Valid() {
		return fmt.Errorf("%w: %q", ErrHandlerNotFound, e.Template)
	}
	if e.Payload == nil {
		return fmt.Errorf("%w: %s: payload is missing", ErrInvalidPayload, e.Template)
	}
	if e.Payload.Template() != e.Template {
		return fmt.Errorf("%w: %s payload sent with template %s", ErrInvalidPayload, e.Payload.Template(), e.Template)
	}
	return e.Payload.Validate()
}

// header is the wire form; the payload stays raw until the template is known.
type header struct {
	Type     Kind            `json:"type"`
	Template Template        `json:"template"`
	Payload  json.RawMessage `json:"payload"`
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("%w: payload is missing", ErrInvalidEnvelope)
	}
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(header{Type: e.Type, Template: e.Template, Payload: raw})
}

// UnmarshalJSON decodes the header, then the payload into the struct bound to
// the template. Unknown templates fail with ErrHandlerNotFound.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	h, err := decodeHeader(data)
	if err != nil {
		return err
	}
	decode, ok := payloadDecoders[h.Template]
	if !ok {
		return fmt.Errorf("%w: %q", ErrHandlerNotFound, h.Template)
	}
	p, err := decode(h.Payload)
	if err != nil {
		return err
	}
	*e = Envelope{Type: h.Type, Template: h.Template, Payload: p}
	return nil
}

func decodeHeader(data []byte) (header, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return header{}, errors.Join(ErrInvalidEnvelope, err)
	}
	return h, nil
}

// payloadDecoders is the static template -> payload type table used when
// reading envelopes back.
var payloadDecoders = map[Template]func(json.RawMessage) (Payload, error){
	TemplateGeneric:           decodePayload[GenericPayload],
	TemplateSignup:            decodePayload[SignupPayload],
	TemplateSignupSucceeded:   decodePayload[SignupSucceededPayload],
	TemplatePasswordRecovery:  decodePayload[PasswordRecoveryPayload],
	TemplateResetConfirmation: decodePayload[ResetConfirmationPayload],
	TemplateWelcome:           decodePayload[WelcomePayload],
}
