package validator

import (
	"net/mail"
	"net/url"
	"strings"
)

// ValidEmail accepts a bare RFC 5322 address whose domain has at least two
// labels. Display-name forms like "Jo <jo@example.com>" are rejected: the
// value is used as a delivery address as is. Non-ASCII local parts and
// domains are accepted.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool { return isEmail(value) },
		Error: ValidationError{Field: field, Message: "is not a valid email address", Code: "email"},
	}
}

func isEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Name != "" || addr.Address != value {
		return false
	}
	at := strings.LastIndexByte(addr.Address, '@')
	if at <= 0 {
		return false
	}
	labels := strings.Split(addr.Address[at+1:], ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if l == "" {
			return false
		}
	}
	return true
}

// ValidURL accepts absolute http and https URLs. Empty values fail.
func ValidURL(field, value string) Rule {
	return Rule{
		Check: func() bool {
			u, err := url.ParseRequestURI(strings.TrimSpace(value))
			return err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https")
		},
		Error: ValidationError{Field: field, Message: "must be an absolute http(s) URL", Code: "url"},
	}
}
