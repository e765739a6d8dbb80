package newsletter

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/mehdibp/site-api/pkg/email"
	"github.com/mehdibp/site-api/pkg/sanitizer"
	"github.com/mehdibp/site-api/pkg/validator"
)

// ErrUnauthorized is returned when the publish bearer token does not match
// the configured secret.
var ErrUnauthorized = errors.New("newsletter.errors.unauthorized")

// Config holds newsletter settings. An empty PublishToken disables the
// publish endpoint entirely: every call is rejected as unauthorized.
type Config struct {
	PublishToken string `env:"NEWSLETTER_PUBLISH_TOKEN"`
}

// Service implements subscribe, unsubscribe, and publish.
type Service struct {
	cfg    Config
	store  Store
	sender email.EmailSender
	logger *slog.Logger
}

// NewService wires the newsletter pipeline.
func NewService(cfg Config, store Store, sender email.EmailSender, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, store: store, sender: sender, logger: logger}
}

// Subscribe validates the address and upserts the record. Subscribing twice
// leaves exactly one record.
func (s *Service) Subscribe(ctx context.Context, addr, lang string) error {
	addr = sanitizer.Apply(addr, sanitizer.Trim, sanitizer.ToLower)
	if err := validator.Apply(validator.ValidEmail("email", addr)); err != nil {
		return err
	}

	return s.store.Upsert(ctx, Subscriber{
		Email:        addr,
		Lang:         NormalizeLang(lang),
		SubscribedAt: time.Now().UTC(),
	})
}

// Unsubscribe deletes the record. Unsubscribing an address that was never
// subscribed still succeeds.
func (s *Service) Unsubscribe(ctx context.Context, addr string) error {
	addr = sanitizer.Apply(addr, sanitizer.Trim, sanitizer.ToLower)
	if err := validator.Apply(validator.ValidEmail("email", addr)); err != nil {
		return err
	}
	return s.store.Delete(ctx, addr)
}

// Publish fans one issue out to every stored subscriber and returns the
// number of emails sent. The bearer token is checked in constant time
// before the store is touched at all. Per-subscriber delivery failures are
// logged and skipped so one bad address cannot abort the whole run.
func (s *Service) Publish(ctx context.Context, req PublishRequest, authToken string) (int, error) {
	if !s.authorized(authToken) {
		return 0, ErrUnauthorized
	}

	if err := validator.Apply(
		validator.Required("title", req.Title),
		validator.Required("summary", req.Summary),
	); err != nil {
		return 0, err
	}

	subs, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}

	lang := NormalizeLang(req.Lang)
	html, err := RenderIssue(req, lang)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, sub := range subs {
		err := s.sender.SendEmail(ctx, email.SendEmailParams{
			SendTo:   sub.Email,
			Subject:  req.Title,
			BodyHTML: html,
			Tag:      "newsletter",
		})
		if err != nil {
			s.logger.WarnContext(ctx, "newsletter delivery failed",
				slog.String("email", sub.Email),
				slog.Any("error", err),
			)
			continue
		}
		sent++
	}

	s.logger.InfoContext(ctx, "newsletter published",
		slog.String("title", req.Title),
		slog.Int("subscribers", len(subs)),
		slog.Int("sent", sent),
	)
	return sent, nil
}

func (s *Service) authorized(token string) bool {
	if s.cfg.PublishToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.cfg.PublishToken), []byte(token)) == 1
}
