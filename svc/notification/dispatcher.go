package notification

import (
	"context"
	"encoding/json"
	"fmt"
)

// route delivers one decoded payload.
type route func(ctx context.Context, p Payload) error

// bind adapts a typed handler to a route.
func bind[T Payload](h func(context.Context, T) error) route {
	return func(ctx context.Context, p Payload) error {
		typed, ok := p.(T)
		if !ok {
			var want T
			return fmt.Errorf("%w: %s payload routed to %s handler", ErrInvalidPayload, p.Template(), want.Template())
		}
		return h(ctx, typed)
	}
}

// Dispatcher is the handler registry: one route per template, fixed at
// construction. Dispatch is a lookup and a call; composing the message is
// the Notifier's job.
type Dispatcher struct {
	routes map[Template]route
}

// NewDispatcher binds every template to the matching Notifier method.
func NewDispatcher(n Notifier) (*Dispatcher, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: notifier", ErrNilDependency)
	}

	return &Dispatcher{routes: map[Template]route{
		TemplateGeneric: bind(n.SendGeneric),
		TemplateSignup: bind(func(ctx context.Context, p SignupPayload) error {
			return n.SendSignupCode(ctx, p.To, p.Code, p.UUID)
		}),
		TemplateSignupSucceeded: bind(func(ctx context.Context, p SignupSucceededPayload) error {
			return n.SendSignupSucceeded(ctx, p.To)
		}),
		TemplatePasswordRecovery: bind(func(ctx context.Context, p PasswordRecoveryPayload) error {
			return n.SendPasswordRecovery(ctx, p.To, p.Code, p.Token)
		}),
		TemplateResetConfirmation: bind(func(ctx context.Context, p ResetConfirmationPayload) error {
			return n.SendResetConfirmation(ctx, p.To)
		}),
		TemplateWelcome: bind(func(ctx context.Context, p WelcomePayload) error {
			return n.SendWelcome(ctx, p.To, p.Name)
		}),
	}}, nil
}

// Handles reports whether a route is registered for t.
func (d *Dispatcher) Handles(t Template) bool {
	_, ok := d.routes[t]
	return ok
}

// Dispatch validates env and calls the Notifier method bound to its template.
// An unknown template fails with ErrHandlerNotFound, a payload that does not
// fit its template with ErrInvalidPayload; in both cases nothing is sent.
func (d *Dispatcher) Dispatch(ctx context.Context, env Envelope) error {
	h, ok := d.routes[env.Template]
	if !ok {
		return fmt.Errorf("%w: %q", ErrHandlerNotFound, env.Template)
	}
	if err := env.Validate(); err != nil {
		return err
	}
	return h(ctx, env.Payload)
}

// DispatchRaw decodes raw with the payload type bound to template and
// dispatches it.
func (d *Dispatcher) DispatchRaw(ctx context.Context, template Template, raw json.RawMessage) error {
	h, ok := d.routes[template]
	if !ok {
		return fmt.Errorf("%w: %q", ErrHandlerNotFound, template)
	}
	decode, ok := payloadDecoders[template]
	if !ok {
		return fmt.Errorf("%w: %q has no payload type", ErrHandlerNotFound, template)
	}
	p, err := decode(raw)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	return h(ctx, p)
}
