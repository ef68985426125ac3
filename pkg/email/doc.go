// Package email sends transactional emails through Postmark, or writes them to
// disk during development.
//
// # Architecture
//
// Everything is built around the EmailSender interface:
//   - PostmarkSender delivers through the Postmark API;
//   - DevSender saves each message as an HTML file plus a JSON metadata file.
//
// NewSender picks the backend from Config. Both validate SendEmailParams before
// doing any work.
//
// # Usage
//
//	var cfg email.Config
//	config.MustLoad(&cfg)
//
//	sender, err := email.NewSender(cfg)
//	if err != nil {
//	    return err
//	}
//
//	html, err := templates.Render(ctx, templates.Layout("Your code",
//	    templates.Text("Use this code to finish signing up:"),
//	    templates.OTP(code),
//	))
//	if err != nil {
//	    return err
//	}
//
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "athlete@example.com",
//	    Subject:  "Your signup code",
//	    BodyHTML: html,
//	    Tag:      "signup-code",
//	})
//
// # Error Handling
//
//   - ErrInvalidConfig: configuration validation failed
//   - ErrInvalidParams: email parameters validation failed
//   - ErrFailedToSendEmail: delivery failed
//   - ErrRecipientRejected: delivery failed and will fail again (joined with ErrFailedToSendEmail)
//
// Queue handlers treat ErrInvalidParams and ErrRecipientRejected as permanent
// and everything else as transient.
package email
