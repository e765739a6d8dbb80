package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRawMessage(t *testing.T) {
	t.Parallel()

	raw := string(buildRawMessage("noreply@example.com", SendEmailParams{
		SendTo:   "admin@example.com",
		Subject:  "New contact submission",
		BodyHTML: "<p>hi</p>",
		Attachments: []Attachment{
			{Name: "brief.pdf", ContentBase64: strings.Repeat("QUJD", 40), ContentType: "application/pdf"},
		},
	}))

	assert.Contains(t, raw, "From: noreply@example.com\r\n")
	assert.Contains(t, raw, "To: admin@example.com\r\n")
	assert.Contains(t, raw, "Content-Type: multipart/mixed;")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, raw, `Content-Disposition: attachment; filename="brief.pdf"`)
	assert.Contains(t, raw, "Content-Transfer-Encoding: base64")

	// Base64 body reflowed to MIME line length.
	for line := range strings.Lines(raw) {
		if strings.HasPrefix(line, "QUJD") {
			assert.LessOrEqual(t, len(strings.TrimRight(line, "\r\n")), 76)
		}
	}
}

func TestWrapBase64_ShortContentUntouched(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "aGVsbG8=", wrapBase64("aGVsbG8="))
}
