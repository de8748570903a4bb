package email

import (
	"context"
	"fmt"
	"regexp"
)

// EmailSender sends a single transactional email. Implementations do not
// retry or queue; a failed send surfaces to the caller.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`       // Email address of the recipient
	Subject  string `json:"subject"`       // Subject of the email
	BodyHTML string `json:"body_html"`     // HTML body of the email
	Tag      string `json:"tag,omitempty"` // Optional, for provider-side analytics
}

// emailRegex is intentionally loose: it catches obviously malformed
// addresses and leaves full RFC 5322 validation to the provider.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidAddress reports whether s looks like a deliverable email address.
func ValidAddress(s string) bool {
	return emailRegex.MatchString(s)
}

// Validate checks the parameters before handing them to a provider.
func (p SendEmailParams) Validate() error {
	if p.SendTo == "" {
		return fmt.Errorf("%w: SendTo is required", ErrInvalidParams)
	}
	if !ValidAddress(p.SendTo) {
		return fmt.Errorf("%w: SendTo must be a valid email address", ErrInvalidParams)
	}
	if p.Subject == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	if p.BodyHTML == "" {
		return fmt.Errorf("%w: BodyHTML is required", ErrInvalidParams)
	}
	return nil
}
