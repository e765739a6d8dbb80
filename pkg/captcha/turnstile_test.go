package captcha_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehdibp/site-api/pkg/captcha"
)

func newVerifyServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret-key", r.Form.Get("secret"))
		assert.NotEmpty(t, r.Form.Get("response"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTurnstile_Verify_Success(t *testing.T) {
	t.Parallel()

	srv := newVerifyServer(t, `{"success":true}`)
	verifier := captcha.New(
		captcha.Config{Secret: "secret-key", Timeout: time.Second},
		captcha.WithEndpoint(srv.URL),
	)

	err := verifier.Verify(context.Background(), "valid-token", "203.0.113.7")
	assert.NoError(t, err)
}

func TestTurnstile_Verify_Rejected(t *testing.T) {
	t.Parallel()

	srv := newVerifyServer(t, `{"success":false,"error-codes":["invalid-input-response"]}`)
	verifier := captcha.New(
		captcha.Config{Secret: "secret-key", Timeout: time.Second},
		captcha.WithEndpoint(srv.URL),
	)

	err := verifier.Verify(context.Background(), "bad-token", "")
	assert.ErrorIs(t, err, captcha.ErrVerificationFailed)
	assert.Contains(t, err.Error(), "invalid-input-response")
}

func TestTurnstile_Verify_EmptyToken(t *testing.T) {
	t.Parallel()

	verifier := captcha.New(captcha.Config{Secret: "secret-key"})
	err := verifier.Verify(context.Background(), "", "")
	assert.ErrorIs(t, err, captcha.ErrVerificationFailed)
}

func TestTurnstile_Verify_EndpointDown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	verifier := captcha.New(
		captcha.Config{Secret: "secret-key", Timeout: time.Second},
		captcha.WithEndpoint(srv.URL),
	)

	err := verifier.Verify(context.Background(), "token", "")
	assert.ErrorIs(t, err, captcha.ErrUnavailable)
}

func TestNoopVerifier(t *testing.T) {
	t.Parallel()

	v := captcha.NoopVerifier{}
	assert.NoError(t, v.Verify(context.Background(), "anything", ""))
	assert.ErrorIs(t, v.Verify(context.Background(), "", ""), captcha.ErrVerificationFailed)
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	assert.IsType(t, captcha.NoopVerifier{}, captcha.FromConfig(captcha.Config{}))
	assert.IsType(t, &captcha.Turnstile{}, captcha.FromConfig(captcha.Config{Secret: "s"}))
}
