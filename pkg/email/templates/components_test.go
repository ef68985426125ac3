package templates_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/pkg/email/templates"
)

func TestRender(t *testing.T) {
	t.Parallel()

	html, err := templates.Render(context.Background(), templates.Layout("Sign up",
		templates.Heading("Welcome"),
		templates.Text("Use the code below."),
		templates.OTP("123456"),
		nil,
		templates.TextSecondary("Ignore this email if you did not sign up."),
	))
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Sign up</title>")
	assert.Contains(t, html, "Welcome")
	assert.Contains(t, html, "123456")
	assert.Contains(t, html, "Ignore this email")
	assert.True(t, len(html) > 0 && html[:15] == "<!DOCTYPE html>")
}

func TestRender_EscapesContent(t *testing.T) {
	t.Parallel()

	html, err := templates.Render(context.Background(), templates.Text(`<script>alert("x")</script>`))
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestPrimaryButton(t *testing.T) {
	t.Parallel()

	html, err := templates.Render(context.Background(), templates.PrimaryButton("Reset password", "https://app.coachdesk.io/reset?token=abc&x=1"))
	require.NoError(t, err)
	assert.Contains(t, html, `href="https://app.coachdesk.io/reset?token=abc&amp;x=1"`)
	assert.Contains(t, html, "Reset password")

	html, err = templates.Render(context.Background(), templates.PrimaryButton("Click", "javascript:alert(1)"))
	require.NoError(t, err)
	assert.NotContains(t, html, "javascript:")
}
