package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the shared email shell.
func Layout(title string, body ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`+
			templ.EscapeString(title)+
			`</title></head><body style="margin:0;padding:24px;background:#f4f5f7;font-family:Helvetica,Arial,sans-serif;color:#1f2933;">`+
			`<table role="presentation" width="100%" cellpadding="0" cellspacing="0"><tr><td align="center">`+
			`<table role="presentation" width="560" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;padding:32px;">`); err != nil {
			return err
		}
		for _, c := range body {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</table></td></tr></table></body></html>`)
		return err
	})
}

// Heading renders a section title.
func Heading(text string) templ.Component {
	return row(`<h1 style="margin:0 0 16px;font-size:22px;">` + templ.EscapeString(text) + `</h1>`)
}

// Text renders a paragraph.
func Text(text string) templ.Component {
	return row(`<p style="margin:0 0 16px;font-size:15px;line-height:22px;">` + templ.EscapeString(text) + `</p>`)
}

// TextSecondary renders a muted paragraph, usually a footnote.
func TextSecondary(text string) templ.Component {
	return row(`<p style="margin:0 0 16px;font-size:13px;line-height:18px;color:#7b8794;">` + templ.EscapeString(text) + `</p>`)
}

// OTP renders a one-time code in a large monospace block.
func OTP(code string) templ.Component {
	return row(`<p style="margin:0 0 16px;font-size:32px;letter-spacing:6px;font-family:Menlo,Consolas,monospace;text-align:center;">` +
		templ.EscapeString(code) + `</p>`)
}

// PrimaryButton renders a call-to-action link styled as a button.
// Unsafe URLs (javascript: and friends) are replaced by templ's failed-sanitization marker.
func PrimaryButton(label, href string) templ.Component {
	safe := templ.URL(href)
	return row(`<a href="` + templ.EscapeString(string(safe)) +
		`" style="display:inline-block;padding:12px 24px;background:#2563eb;color:#ffffff;border-radius:6px;text-decoration:none;font-weight:bold;">` +
		templ.EscapeString(label) + `</a>`)
}

func row(html string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<tr><td>`+html+`</td></tr>`)
		return err
	})
}

// Render returns the HTML produced by c.
func Render(ctx context.Context, c templ.Component) (string, error) {
	html, err := templ.ToGoHTML(ctx, c)
	return string(html), err
}
