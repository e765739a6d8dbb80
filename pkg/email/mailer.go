package email

import (
	"context"
	"fmt"
	"regexp"
)

// EmailSender represents an interface for sending emails.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// Attachment is a file attached to an outbound email. Content stays in the
// base64 form it arrived in from the client.
type Attachment struct {
	Name          string `json:"name"`
	ContentBase64 string `json:"content_base64"`
	ContentType   string `json:"content_type"`
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	SendTo      string       `json:"send_to"`
	Subject     string       `json:"subject"`
	BodyHTML    string       `json:"body_html"`
	Tag         string       `json:"tag,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks the required fields before any provider call.
func (p SendEmailParams) Validate() error {
	if p.SendTo == "" {
		return fmt.Errorf("%w: SendTo is required", ErrInvalidParams)
	}
	if !emailRegex.MatchString(p.SendTo) {
		return fmt.Errorf("%w: SendTo must be a valid email address", ErrInvalidParams)
	}
	if p.Subject == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	if p.BodyHTML == "" {
		return fmt.Errorf("%w: BodyHTML is required", ErrInvalidParams)
	}
	for _, att := range p.Attachments {
		if att.Name == "" || att.ContentBase64 == "" {
			return fmt.Errorf("%w: attachment name and content are required", ErrInvalidParams)
		}
	}
	return nil
}
