package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehdibp/site-api/api"
	"github.com/mehdibp/site-api/contact"
	"github.com/mehdibp/site-api/newsletter"
	"github.com/mehdibp/site-api/pkg/email"
	"github.com/mehdibp/site-api/pkg/ratelimit"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []email.SendEmailParams
}

func (f *fakeSender) SendEmail(_ context.Context, params email.SendEmailParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, params)
	return nil
}

func (f *fakeSender) sentTo(addr string) []email.SendEmailParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []email.SendEmailParams
	for _, p := range f.sent {
		if p.SendTo == addr {
			out = append(out, p)
		}
	}
	return out
}

const (
	testAdmin        = "admin@example.com"
	testPublishToken = "publish-secret"
	testOrigin       = "https://example.com"
)

func newTestRouter(t *testing.T, sender *fakeSender, limit int) http.Handler {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	contactSvc := contact.NewService(
		contact.Config{AdminEmail: testAdmin},
		sender, nil, logger,
	)

	store, err := newsletter.NewMemStore()
	require.NoError(t, err)
	newsletterSvc := newsletter.NewService(
		newsletter.Config{PublishToken: testPublishToken},
		store, sender, logger,
	)

	limiter, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), limit, time.Hour)
	require.NoError(t, err)

	return api.NewRouter(api.RouterDeps{
		Contact:    contactSvc,
		Newsletter: newsletterSvc,
		Limiter:    limiter,
		RateLimit:  ratelimit.Config{Limit: limit, Window: time.Hour, FailOpen: true},
		CORS:       api.CORSConfig{AllowedOrigins: []string{testOrigin}, MaxAge: 24 * time.Hour},
		Logger:     logger,
	})
}

func postJSON(t *testing.T, h http.Handler, path string, body any, ip string) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if ip != "" {
		req.Header.Set("CF-Connecting-IP", ip)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) api.Envelope {
	t.Helper()

	var env api.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func validSubmission() map[string]any {
	return map[string]any{
		"name":         "Mehdi",
		"email":        "mehdi@example.com",
		"plan":         "professional",
		"message":      "I would like to discuss a project with you.",
		"captchaToken": "token-123",
	}
}

func TestRouter_ContactSubmit(t *testing.T) {
	t.Parallel()

	t.Run("valid submission delivers admin notification", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		h := newTestRouter(t, sender, 5)

		rec := postJSON(t, h, "/api/contact", validSubmission(), "203.0.113.7")
		require.Equal(t, http.StatusOK, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
		assert.NotEmpty(t, env.Message)

		require.Len(t, sender.sentTo(testAdmin), 1)
		require.Len(t, sender.sentTo("mehdi@example.com"), 1)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		h := newTestRouter(t, &fakeSender{}, 5)

		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.Error)
	})

	t.Run("body over the cap is rejected with 413", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		h := newTestRouter(t, sender, 5)

		var buf bytes.Buffer
		buf.Grow(api.MaxContactBodySize + 64)
		buf.WriteString(`{"name":"`)
		buf.Write(bytes.Repeat([]byte("a"), api.MaxContactBodySize))
		buf.WriteString(`"}`)

		req := httptest.NewRequest(http.MethodPost, "/api/contact", &buf)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.Error)
		assert.Empty(t, sender.sent)
	})

	t.Run("validation errors are collected into one message", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		h := newTestRouter(t, sender, 5)

		body := validSubmission()
		body["name"] = "x"
		body["message"] = "short"

		rec := postJSON(t, h, "/api/contact", body, "203.0.113.7")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Contains(t, env.Error, ";")
		assert.Empty(t, sender.sent)
	})

	t.Run("oversized attachment rejected before dispatch", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		h := newTestRouter(t, sender, 5)

		body := validSubmission()
		body["files"] = []map[string]any{{
			"name":          "big.pdf",
			"mimeType":      "application/pdf",
			"sizeBytes":     contact.MaxFileSize + 1,
			"contentBase64": "JVBERi0=",
		}}

		rec := postJSON(t, h, "/api/contact", body, "203.0.113.7")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, sender.sent)
	})

	t.Run("legacy singular file is forwarded as attachment", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		h := newTestRouter(t, sender, 5)

		body := validSubmission()
		body["file"] = map[string]any{
			"name":          "resume.pdf",
			"mimeType":      "application/pdf",
			"sizeBytes":     1024,
			"contentBase64": "JVBERi0=",
		}

		rec := postJSON(t, h, "/api/contact", body, "203.0.113.7")
		require.Equal(t, http.StatusOK, rec.Code)

		admin := sender.sentTo(testAdmin)
		require.Len(t, admin, 1)
		require.Len(t, admin[0].Attachments, 1)
		assert.Equal(t, "resume.pdf", admin[0].Attachments[0].Name)
	})
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &fakeSender{}, 2)

	for i := range 2 {
		rec := postJSON(t, h, "/api/contact", validSubmission(), "198.51.100.1")
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := postJSON(t, h, "/api/contact", validSubmission(), "198.51.100.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)

	// Another client is keyed separately and still admitted.
	rec = postJSON(t, h, "/api/contact", validSubmission(), "198.51.100.2")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RateLimitSkipsNewsletter(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &fakeSender{}, 1)

	for i := range 3 {
		rec := postJSON(t, h, "/api/newsletter/subscribe",
			map[string]string{"email": fmt.Sprintf("user%d@example.com", i)}, "198.51.100.9")
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRouter_Newsletter(t *testing.T) {
	t.Parallel()

	t.Run("subscribe then publish", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		h := newTestRouter(t, sender, 5)

		rec := postJSON(t, h, "/api/newsletter/subscribe",
			map[string]string{"email": "Reader@Example.com", "lang": "fa"}, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeEnvelope(t, rec).Success)

		raw, err := json.Marshal(map[string]string{
			"title":   "Release notes",
			"summary": "What changed this month.",
			"lang":    "fa",
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/newsletter/publish", bytes.NewReader(raw))
		req.Header.Set("Authorization", "Bearer "+testPublishToken)
		out := httptest.NewRecorder()
		h.ServeHTTP(out, req)

		require.Equal(t, http.StatusOK, out.Code)
		env := decodeEnvelope(t, out)
		require.NotNil(t, env.Sent)
		assert.Equal(t, 1, *env.Sent)

		// Address was lowercased on the way in.
		require.Len(t, sender.sentTo("reader@example.com"), 1)
	})

	t.Run("subscribe rejects invalid email", func(t *testing.T) {
		t.Parallel()

		h := newTestRouter(t, &fakeSender{}, 5)

		rec := postJSON(t, h, "/api/newsletter/subscribe",
			map[string]string{"email": "not-an-email"}, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, decodeEnvelope(t, rec).Success)
	})

	t.Run("unsubscribe is idempotent", func(t *testing.T) {
		t.Parallel()

		h := newTestRouter(t, &fakeSender{}, 5)

		for range 2 {
			rec := postJSON(t, h, "/api/newsletter/unsubscribe",
				map[string]string{"email": "gone@example.com"}, "")
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("publish without token", func(t *testing.T) {
		t.Parallel()

		h := newTestRouter(t, &fakeSender{}, 5)

		rec := postJSON(t, h, "/api/newsletter/publish",
			map[string]string{"title": "t", "summary": "s"}, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, decodeEnvelope(t, rec).Success)
	})

	t.Run("publish with wrong token", func(t *testing.T) {
		t.Parallel()

		h := newTestRouter(t, &fakeSender{}, 5)

		raw, err := json.Marshal(map[string]string{"title": "t", "summary": "s"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/newsletter/publish", bytes.NewReader(raw))
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRouter_Fallbacks(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &fakeSender{}, 5)

	t.Run("unknown route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, decodeEnvelope(t, rec).Success)
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.False(t, decodeEnvelope(t, rec).Success)
	})
}
