package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehdibp/site-api/pkg/email"
)

func TestDevSender_WritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sender := email.NewDevSender(dir)

	err := sender.SendEmail(context.Background(), email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Welcome aboard",
		BodyHTML: "<h1>Hello</h1>",
		Tag:      "contact-confirmation",
		Attachments: []email.Attachment{
			{Name: "brief.pdf", ContentBase64: "aGVsbG8=", ContentType: "application/pdf"},
		},
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var htmlFile, jsonFile string
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".html":
			htmlFile = filepath.Join(dir, e.Name())
		case ".json":
			jsonFile = filepath.Join(dir, e.Name())
		}
	}
	require.NotEmpty(t, htmlFile)
	require.NotEmpty(t, jsonFile)

	html, err := os.ReadFile(htmlFile)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1>", string(html))

	var meta struct {
		SendTo      string   `json:"send_to"`
		Subject     string   `json:"subject"`
		Tag         string   `json:"tag"`
		Attachments []string `json:"attachments"`
	}
	raw, err := os.ReadFile(jsonFile)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, "user@example.com", meta.SendTo)
	assert.Equal(t, "Welcome aboard", meta.Subject)
	assert.Equal(t, []string{"brief.pdf"}, meta.Attachments)
	assert.True(t, strings.Contains(filepath.Base(htmlFile), "contact-confirmation"))
}

func TestDevSender_RejectsInvalidParams(t *testing.T) {
	t.Parallel()

	sender := email.NewDevSender(t.TempDir())
	err := sender.SendEmail(context.Background(), email.SendEmailParams{})
	assert.ErrorIs(t, err, email.ErrInvalidParams)
}
