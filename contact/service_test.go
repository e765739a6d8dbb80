package contact_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehdibp/site-api/contact"
	"github.com/mehdibp/site-api/pkg/captcha"
	"github.com/mehdibp/site-api/pkg/email"
	"github.com/mehdibp/site-api/pkg/validator"
)

// fakeSender records sends and can fail per recipient.
type fakeSender struct {
	mu     sync.Mutex
	sent   []email.SendEmailParams
	failTo map[string]error
}

func (f *fakeSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failTo[params.SendTo]; ok {
		return err
	}
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

type rejectingVerifier struct{}

func (rejectingVerifier) Verify(context.Context, string, string) error {
	return captcha.ErrVerificationFailed
}

type countingVerifier struct{ calls int }

func (v *countingVerifier) Verify(context.Context, string, string) error {
	v.calls++
	return nil
}

func newService(sender email.EmailSender, verifier captcha.Verifier) *contact.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return contact.NewService(contact.Config{AdminEmail: "admin@example.com"}, sender, verifier, logger)
}

func TestSubmit_HappyPath(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	svc := newService(sender, nil)

	err := svc.Submit(context.Background(), validRequest(), "203.0.113.7")
	require.NoError(t, err)

	admin := sender.sentTo("admin@example.com")
	require.Len(t, admin, 1, "exactly one admin notification")
	assert.Empty(t, admin[0].Attachments)

	user := sender.sentTo("ali@example.com")
	require.Len(t, user, 1, "exactly one user confirmation")
	assert.Empty(t, user[0].Attachments, "confirmation never carries uploads")
}

func TestSubmit_AttachmentsOnlyOnAdminEmail(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	svc := newService(sender, nil)

	req := validRequest()
	req.Files = []contact.FileAttachment{pdfFile("brief.pdf")}

	require.NoError(t, svc.Submit(context.Background(), req, "203.0.113.7"))

	admin := sender.sentTo("admin@example.com")
	require.Len(t, admin, 1)
	require.Len(t, admin[0].Attachments, 1)
	assert.Equal(t, "brief.pdf", admin[0].Attachments[0].Name)

	user := sender.sentTo("ali@example.com")
	require.Len(t, user, 1)
	assert.Empty(t, user[0].Attachments)
}

func TestSubmit_ValidationFailureSkipsDispatch(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	svc := newService(sender, nil)

	req := validRequest()
	req.Email = "broken"

	err := svc.Submit(context.Background(), req, "203.0.113.7")
	require.Error(t, err)
	assert.True(t, validator.IsValidationError(err))
	assert.Empty(t, sender.sent, "no dispatch on invalid input")
}

func TestSubmit_OversizedFileSkipsDispatch(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	svc := newService(sender, nil)

	req := validRequest()
	big := pdfFile("big.pdf")
	big.SizeBytes = 6 * 1024 * 1024
	req.Files = []contact.FileAttachment{big}

	err := svc.Submit(context.Background(), req, "203.0.113.7")
	require.Error(t, err)
	assert.True(t, validator.IsValidationError(err))
	assert.Empty(t, sender.sent)
}

func TestSubmit_CaptchaRejection(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	svc := newService(sender, rejectingVerifier{})

	err := svc.Submit(context.Background(), validRequest(), "203.0.113.7")
	require.Error(t, err)
	assert.True(t, validator.IsValidationError(err))
	assert.Empty(t, sender.sent)
}

func TestSubmit_CaptchaRunsAfterValidation(t *testing.T) {
	t.Parallel()

	verifier := &countingVerifier{}
	svc := newService(&fakeSender{}, verifier)

	req := validRequest()
	req.Email = "broken"

	_ = svc.Submit(context.Background(), req, "203.0.113.7")
	assert.Zero(t, verifier.calls, "captcha not consulted for invalid input")
}

func TestSubmit_UserSendFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{failTo: map[string]error{
		"ali@example.com": errors.New("bounce"),
	}}
	svc := newService(sender, nil)

	err := svc.Submit(context.Background(), validRequest(), "203.0.113.7")
	require.NoError(t, err, "user confirmation failure must not fail the request")
	require.Len(t, sender.sentTo("admin@example.com"), 1, "admin notification still goes out")
}

func TestSubmit_AdminSendFailurePropagates(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{failTo: map[string]error{
		"admin@example.com": errors.New("provider down"),
	}}
	svc := newService(sender, nil)

	err := svc.Submit(context.Background(), validRequest(), "203.0.113.7")
	assert.ErrorIs(t, err, contact.ErrDeliveryFailed)
}

func TestSubmit_NormalizesLegacyFileField(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	svc := newService(sender, nil)

	file := pdfFile("legacy.pdf")
	req := validRequest()
	req.File = &file

	require.NoError(t, svc.Submit(context.Background(), req, "203.0.113.7"))

	admin := sender.sentTo("admin@example.com")
	require.Len(t, admin, 1)
	require.Len(t, admin[0].Attachments, 1)
	assert.Equal(t, "legacy.pdf", admin[0].Attachments[0].Name)
}
