package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
	"unicode"
)

// DevSender writes every message to dir instead of delivering it: the HTML
// body as <name>.html and the envelope as <name>.json.
type DevSender struct {
	dir string
	seq atomic.Int64
}

// NewDevSender returns a DevSender for dir. The directory is created on the
// first send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

type devEnvelope struct {
	Timestamp string `json:"timestamp"`
	SendTo    string `json:"send_to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now()
	envelope, err := json.MarshalIndent(devEnvelope{
		Timestamp: now.Format(time.RFC3339),
		SendTo:    params.SendTo,
		Subject:   params.Subject,
		Tag:       params.Tag,
	}, "", "  ")
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	label := params.Tag
	if label == "" {
		label = params.Subject
	}
	name := fmt.Sprintf("%s_%04d_%s", now.Format("20060102_150405"), d.seq.Add(1), slugify(label))

	for ext, data := range map[string][]byte{
		".html": []byte(params.BodyHTML),
		".json": envelope,
	} {
		if err := os.WriteFile(filepath.Join(d.dir, name+ext), data, 0o644); err != nil {
			return errors.Join(ErrFailedToSendEmail, err)
		}
	}
	return nil
}

// slugify keeps letters, digits, '-', '_' and '.', maps spaces to '_' and
// lowercases the result.
func slugify(s string) string {
	const maxLen = 100

	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_.", r)):
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "email"
	}
	return b.String()
}
