package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/coachdesk/coachdesk/pkg/email"
	"github.com/coachdesk/coachdesk/pkg/email/templates"
	"github.com/coachdesk/coachdesk/pkg/logger"
)

// Mailer is the email-backed Notifier. It renders one message per template
// and hands it to an email.EmailSender.
type Mailer struct {
	sender  email.EmailSender
	product string
	baseURL string
	logger  *slog.Logger
}

// MailerOption configures a Mailer.
type MailerOption func(*Mailer)

// WithProductName sets the name used in subjects and greetings.
func WithProductName(name string) MailerOption {
	return func(m *Mailer) {
		if name != "" {
			m.product = name
		}
	}
}

// WithBaseURL sets the web app URL used for links in messages.
func WithBaseURL(u string) MailerOption {
	return func(m *Mailer) { m.baseURL = strings.TrimRight(u, "/") }
}

// WithMailerLogger sets the logger; nil keeps the default.
func WithMailerLogger(l *slog.Logger) MailerOption {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMailer creates a Mailer delivering through sender.
func NewMailer(sender email.EmailSender, opts ...MailerOption) (*Mailer, error) {
	if sender == nil {
		return nil, fmt.Errorf("%w: email sender", ErrNilDependency)
	}
	m := &Mailer{
		sender:  sender,
		product: "CoachDesk",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

var _ Notifier = (*Mailer)(nil)

func (m *Mailer) SendGeneric(ctx context.Context, p GenericPayload) error {
	return m.send(ctx, TemplateGeneric, p.To, p.Subject,
		templates.Heading(p.Subject),
		templates.Text(p.Body),
	)
}

func (m *Mailer) SendSignupCode(ctx context.Context, to, code, correlationID string) error {
	m.logger.DebugContext(ctx, "rendering signup code",
		logger.Template(string(TemplateSignup)),
		slog.String("correlation_id", correlationID))

	return m.send(ctx, TemplateSignup, to, "Your "+m.product+" signup code",
		templates.Heading("Confirm your email"),
		templates.Text("Enter this code to finish creating your "+m.product+" account:"),
		templates.OTP(code),
		templates.TextSecondary("If you did not sign up, you can ignore this email."),
	)
}

func (m *Mailer) SendSignupSucceeded(ctx context.Context, to string) error {
	return m.send(ctx, TemplateSignupSucceeded, to, "Your "+m.product+" account is ready",
		templates.Heading("You're all set"),
		templates.Text("Your email is confirmed and your account is active."),
		m.button("Open "+m.product, ""),
	)
}

func (m *Mailer) SendPasswordRecovery(ctx context.Context, to, code, resetToken string) error {
	return m.send(ctx, TemplatePasswordRecovery, to, "Reset your "+m.product+" password",
		templates.Heading("Password recovery"),
		templates.Text("Use this code to reset your password:"),
		templates.OTP(code),
		m.button("Reset password", "/reset-password?token="+url.QueryEscape(resetToken)),
		templates.TextSecondary("If you did not request a reset, your password stays unchanged."),
	)
}

func (m *Mailer) SendResetConfirmation(ctx context.Context, to string) error {
	return m.send(ctx, TemplateResetConfirmation, to, "Your "+m.product+" password was changed",
		templates.Heading("Password changed"),
		templates.Text("Your password was reset successfully."),
		templates.TextSecondary("If this was not you, contact support right away."),
	)
}

func (m *Mailer) SendWelcome(ctx context.Context, to, name string) error {
	return m.send(ctx, TemplateWelcome, to, "Welcome to "+m.product,
		templates.Heading("Welcome, "+name+"!"),
		templates.Text("Your coach has added you to "+m.product+". Sign in to see your training plan."),
		m.button("Sign in", "/login"),
	)
}

// button renders a link into the web app, or nothing when no base URL is set.
func (m *Mailer) button(label, path string) templ.Component {
	if m.baseURL == "" {
		return nil
	}
	return templates.PrimaryButton(label, m.baseURL+path)
}

func (m *Mailer) send(ctx context.Context, t Template, to, subject string, body ...templ.Component) error {
	html, err := templates.Render(ctx, templates.Layout(subject, body...))
	if err != nil {
		return fmt.Errorf("render %s: %w", t, err)
	}

	err = m.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   to,
		Subject:  subject,
		BodyHTML: html,
		Tag:      string(t),
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, email.ErrInvalidParams) || errors.Is(err, email.ErrRecipientRejected) {
		return errors.Join(ErrUndeliverable, err)
	}
	return err
}
