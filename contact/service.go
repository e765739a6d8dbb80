package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mehdibp/site-api/pkg/captcha"
	"github.com/mehdibp/site-api/pkg/email"
	"github.com/mehdibp/site-api/pkg/validator"
)

// ErrDeliveryFailed is returned when the required admin notification could
// not be dispatched.
var ErrDeliveryFailed = errors.New("contact.errors.delivery_failed")

// Config holds contact pipeline settings.
type Config struct {
	AdminEmail string `env:"ADMIN_EMAIL,required"`
}

// Service runs the contact submission pipeline.
type Service struct {
	cfg      Config
	sender   email.EmailSender
	verifier captcha.Verifier
	logger   *slog.Logger
}

// NewService wires the pipeline. A nil verifier accepts any non-empty token.
func NewService(cfg Config, sender email.EmailSender, verifier captcha.Verifier, logger *slog.Logger) *Service {
	if verifier == nil {
		verifier = captcha.NoopVerifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, sender: sender, verifier: verifier, logger: logger}
}

// Submit validates the request end to end and dispatches the two emails.
//
// The user confirmation is best-effort: a failure is logged and swallowed so
// a broken courtesy email never fails the submission. The admin notification
// is the substantive delivery; its failure is the request's failure.
// Attachments ride only on the admin email.
func (s *Service) Submit(ctx context.Context, req SubmitRequest, clientIP string) error {
	req.Normalize()

	sanitized, errs := ValidateForm(req)
	errs = append(errs, ValidateFiles(req.Files)...)
	if !errs.IsEmpty() {
		return errs
	}

	if err := s.verifier.Verify(ctx, req.CaptchaToken, clientIP); err != nil {
		if errors.Is(err, captcha.ErrUnavailable) {
			return err
		}
		return validator.ValidationErrors{{
			Field:   "captchaToken",
			Message: "captcha verification failed",
		}}
	}

	now := time.Now()

	if err := s.sendUserConfirmation(ctx, sanitized); err != nil {
		s.logger.WarnContext(ctx, "user confirmation email failed",
			slog.String("email", sanitized.Email),
			slog.Any("error", err),
		)
	}

	if err := s.sendAdminNotification(ctx, sanitized, req.Files, clientIP, now); err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}

	s.logger.InfoContext(ctx, "contact submission delivered",
		slog.String("plan", sanitized.Plan),
		slog.String("client_ip", clientIP),
		slog.Int("attachments", len(req.Files)),
	)
	return nil
}

func (s *Service) sendUserConfirmation(ctx context.Context, sanitized Sanitized) error {
	html, err := RenderUserConfirmation(sanitized)
	if err != nil {
		return err
	}

	return s.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   sanitized.Email,
		Subject:  "پیام شما دریافت شد",
		BodyHTML: html,
		Tag:      "contact-confirmation",
	})
}

func (s *Service) sendAdminNotification(ctx context.Context, sanitized Sanitized, files []FileAttachment, clientIP string, at time.Time) error {
	names := make([]string, 0, len(files))
	attachments := make([]email.Attachment, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
		attachments = append(attachments, email.Attachment{
			Name:          f.Name,
			ContentBase64: f.ContentBase64,
			ContentType:   f.MimeType,
		})
	}

	html, err := RenderAdminNotification(sanitized, clientIP, at, names)
	if err != nil {
		return err
	}

	return s.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:      s.cfg.AdminEmail,
		Subject:     fmt.Sprintf("پیام جدید از فرم تماس — پلن %s", sanitized.Plan),
		BodyHTML:    html,
		Tag:         "contact-admin",
		Attachments: attachments,
	})
}
