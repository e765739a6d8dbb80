package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
)

type sesClient struct {
	svc    *ses.SES
	config Config
}

// NewSESClient creates an Amazon SES-backed email sender. Credentials fall
// back to the default AWS chain when not set explicitly.
func NewSESClient(cfg Config) (EmailSender, error) {
	if cfg.SenderEmail == "" || !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}

	awsCfg := aws.NewConfig().WithRegion(cfg.AWSRegion)
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		awsCfg = awsCfg.WithCredentials(
			credentials.NewStaticCredentials(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return &sesClient{svc: ses.New(sess), config: cfg}, nil
}

// SendEmail implements EmailSender. Plain messages go through the simple
// API; messages with attachments are assembled as raw MIME because SES only
// supports attachments on the raw path.
func (c *sesClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	if len(params.Attachments) == 0 {
		return c.sendSimple(ctx, params)
	}
	return c.sendRaw(ctx, params)
}

func (c *sesClient) sendSimple(ctx context.Context, params SendEmailParams) error {
	input := &ses.SendEmailInput{
		Source: aws.String(c.config.SenderEmail),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(params.SendTo)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &ses.Body{
				Html: &ses.Content{
					Data:    aws.String(params.BodyHTML),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}
	if c.config.ReplyTo != "" {
		input.ReplyToAddresses = []*string{aws.String(c.config.ReplyTo)}
	}

	if _, err := c.svc.SendEmailWithContext(ctx, input); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return nil
}

func (c *sesClient) sendRaw(ctx context.Context, params SendEmailParams) error {
	raw := buildRawMessage(c.config.SenderEmail, params)

	input := &ses.SendRawEmailInput{
		Source:       aws.String(c.config.SenderEmail),
		Destinations: []*string{aws.String(params.SendTo)},
		RawMessage:   &ses.RawMessage{Data: raw},
	}

	if _, err := c.svc.SendRawEmailWithContext(ctx, input); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return nil
}

// buildRawMessage assembles a multipart/mixed MIME message. Attachment
// content is already base64; it is reflowed to 76-column lines as the MIME
// transfer encoding requires.
func buildRawMessage(from string, params SendEmailParams) []byte {
	const boundary = "site-api-mixed-boundary"

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", params.SendTo)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", params.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	buf.WriteString(params.BodyHTML)
	buf.WriteString("\r\n")

	for _, att := range params.Attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: %s\r\n", contentType)
		buf.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", att.Name)
		buf.WriteString(wrapBase64(att.ContentBase64))
		buf.WriteString("\r\n")
	}

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes()
}

func wrapBase64(content string) string {
	const lineLen = 76

	var sb strings.Builder
	for len(content) > lineLen {
		sb.WriteString(content[:lineLen])
		sb.WriteString("\r\n")
		content = content[lineLen:]
	}
	sb.WriteString(content)
	return sb.String()
}
