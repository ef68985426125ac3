package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/pkg/email"
)

func validParams() email.SendEmailParams {
	return email.SendEmailParams{
		SendTo:   "athlete@example.com",
		Subject:  "Your signup code",
		BodyHTML: "<p>123456</p>",
		Tag:      "signup-code",
	}
}

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(p *email.SendEmailParams)
		errMsg string
	}{
		{"valid params", func(p *email.SendEmailParams) {}, ""},
		{"tag is optional", func(p *email.SendEmailParams) { p.Tag = "" }, ""},
		{"empty recipient", func(p *email.SendEmailParams) { p.SendTo = "" }, "SendTo is not a valid email address"},
		{"whitespace recipient", func(p *email.SendEmailParams) { p.SendTo = "   " }, "SendTo is not a valid email address"},
		{"malformed recipient", func(p *email.SendEmailParams) { p.SendTo = "athlete" }, "SendTo is not a valid email address"},
		{"missing domain", func(p *email.SendEmailParams) { p.SendTo = "athlete@" }, "SendTo is not a valid email address"},
		{"missing local part", func(p *email.SendEmailParams) { p.SendTo = "@example.com" }, "SendTo is not a valid email address"},
		{"display name form", func(p *email.SendEmailParams) { p.SendTo = "Athlete <athlete@example.com>" }, "SendTo is not a valid email address"},
		{"non-ascii recipient", func(p *email.SendEmailParams) { p.SendTo = "jörg@exämple.de" }, ""},
		{"empty subject", func(p *email.SendEmailParams) { p.Subject = " " }, "Subject is required"},
		{"empty body", func(p *email.SendEmailParams) { p.BodyHTML = "" }, "BodyHTML is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := validParams()
			tt.modify(&p)
			err := p.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, email.ErrInvalidParams)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func readSent(t *testing.T, dir string) (html []string, meta []map[string]any) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		switch filepath.Ext(e.Name()) {
		case ".html":
			html = append(html, string(data))
		case ".json":
			var m map[string]any
			require.NoError(t, json.Unmarshal(data, &m))
			m["file"] = e.Name()
			meta = append(meta, m)
		}
	}
	return html, meta
}

func TestDevSender_SendEmail(t *testing.T) {
	t.Parallel()

	t.Run("writes html and metadata", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "out")
		sender := email.NewDevSender(dir)
		require.NoError(t, sender.SendEmail(context.Background(), validParams()))

		html, meta := readSent(t, dir)
		require.Len(t, html, 1)
		require.Len(t, meta, 1)
		assert.Equal(t, "<p>123456</p>", html[0])
		assert.Equal(t, "athlete@example.com", meta[0]["send_to"])
		assert.Equal(t, "Your signup code", meta[0]["subject"])
		assert.Equal(t, "signup-code", meta[0]["tag"])
		assert.NotEmpty(t, meta[0]["timestamp"])
		assert.True(t, strings.HasSuffix(meta[0]["file"].(string), "_signup-code.json"))
	})

	t.Run("falls back to subject for the file name", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		p := validParams()
		p.Tag = ""
		p.Subject = "Password Reset!"
		require.NoError(t, email.NewDevSender(dir).SendEmail(context.Background(), p))

		_, meta := readSent(t, dir)
		require.Len(t, meta, 1)
		assert.Contains(t, meta[0]["file"], "password_reset")
		assert.NotContains(t, meta[0], "tag")
	})

	t.Run("concurrent sends never collide", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, sender.SendEmail(context.Background(), validParams()))
			}()
		}
		wg.Wait()

		html, meta := readSent(t, dir)
		assert.Len(t, html, 20)
		assert.Len(t, meta, 20)
	})

	t.Run("rejects invalid params without touching disk", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "never")
		p := validParams()
		p.SendTo = "nope"
		err := email.NewDevSender(dir).SendEmail(context.Background(), p)
		assert.ErrorIs(t, err, email.ErrInvalidParams)
		_, statErr := os.Stat(dir)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := email.NewDevSender(t.TempDir()).SendEmail(ctx, validParams())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unwritable directory", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
		err := email.NewDevSender(filepath.Join(file, "sub")).SendEmail(context.Background(), validParams())
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
	})
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	base := email.Config{
		SenderEmail:  "noreply@coachdesk.io",
		SupportEmail: "support@coachdesk.io",
		DevOutputDir: t.TempDir(),
	}

	t.Run("no tokens means dev sender", func(t *testing.T) {
		t.Parallel()
		s, err := email.NewSender(base)
		require.NoError(t, err)
		assert.IsType(t, &email.DevSender{}, s)
	})

	t.Run("dev mode wins over tokens", func(t *testing.T) {
		t.Parallel()
		cfg := base
		cfg.DevMode = true
		cfg.PostmarkServerToken = "server"
		cfg.PostmarkAccountToken = "account"
		s, err := email.NewSender(cfg)
		require.NoError(t, err)
		assert.IsType(t, &email.DevSender{}, s)
	})

	t.Run("tokens select postmark", func(t *testing.T) {
		t.Parallel()
		cfg := base
		cfg.PostmarkServerToken = "server"
		cfg.PostmarkAccountToken = "account"
		s, err := email.NewSender(cfg)
		require.NoError(t, err)
		_, isDev := s.(*email.DevSender)
		assert.False(t, isDev)
	})

	t.Run("dev sender needs a directory", func(t *testing.T) {
		t.Parallel()
		cfg := base
		cfg.DevOutputDir = ""
		_, err := email.NewSender(cfg)
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}
