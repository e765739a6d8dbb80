// Package captcha verifies Cloudflare Turnstile tokens submitted with the
// contact form.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrVerificationFailed is returned when the token is rejected.
	ErrVerificationFailed = errors.New("captcha verification failed")
	// ErrUnavailable is returned when the verification endpoint cannot be reached.
	ErrUnavailable = errors.New("captcha verification unavailable")
)

// DefaultEndpoint is Cloudflare's Turnstile verification endpoint.
const DefaultEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Verifier checks a client-supplied CAPTCHA token.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// Config holds Turnstile settings. An empty secret disables verification,
// which is the expected state in local development.
type Config struct {
	Secret   string        `env:"TURNSTILE_SECRET"`
	Endpoint string        `env:"TURNSTILE_ENDPOINT"`
	Timeout  time.Duration `env:"TURNSTILE_TIMEOUT" envDefault:"10s"`
}

// Turnstile verifies tokens against the Cloudflare siteverify API.
type Turnstile struct {
	secret   string
	endpoint string
	client   *http.Client
}

// Option configures a Turnstile verifier.
type Option func(*Turnstile)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(t *Turnstile) {
		if client != nil {
			t.client = client
		}
	}
}

// WithEndpoint overrides the verification URL, mainly for tests.
func WithEndpoint(endpoint string) Option {
	return func(t *Turnstile) {
		if endpoint != "" {
			t.endpoint = endpoint
		}
	}
}

// New creates a Turnstile verifier from config.
func New(cfg Config, opts ...Option) *Turnstile {
	t := &Turnstile{
		secret:   cfg.Secret,
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.Endpoint != "" {
		t.endpoint = cfg.Endpoint
	}
	if t.client.Timeout == 0 {
		t.client.Timeout = 10 * time.Second
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// siteverifyResponse mirrors Cloudflare's verification response body.
type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the token to the siteverify endpoint. A missing token fails
// immediately; transport failures surface as ErrUnavailable so the caller
// can decide its own policy for provider outages.
func (t *Turnstile) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrVerificationFailed)
	}

	form := url.Values{
		"secret":   {t.secret},
		"response": {token},
	}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var body siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return errors.Join(ErrUnavailable, err)
	}

	if !body.Success {
		return fmt.Errorf("%w: %s", ErrVerificationFailed, strings.Join(body.ErrorCodes, ", "))
	}
	return nil
}

// NoopVerifier accepts every non-empty token. Used when no Turnstile secret
// is configured.
type NoopVerifier struct{}

func (NoopVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrVerificationFailed)
	}
	return nil
}

// FromConfig returns the Turnstile verifier when a secret is configured and
// the no-op verifier otherwise.
func FromConfig(cfg Config, opts ...Option) Verifier {
	if cfg.Secret == "" {
		return NoopVerifier{}
	}
	return New(cfg, opts...)
}
