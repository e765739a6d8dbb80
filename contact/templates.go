package contact

import (
	"html/template"
	"strings"
	"time"
)

// The renderers assume their inputs went through ValidateForm first: the
// sanitizer already stripped HTML-significant characters, so what lands in
// the templates is plain text.

var userConfirmationTmpl = template.Must(template.New("user").Parse(`<!DOCTYPE html>
<html dir="rtl" lang="fa">
<body style="font-family: Tahoma, Arial, sans-serif; background: #f6f6f6; padding: 24px;">
  <div style="max-width: 560px; margin: 0 auto; background: #fff; border-radius: 8px; padding: 24px;">
    <h2 style="color: #1a1a2e;">{{.Name}} عزیز، پیام شما دریافت شد</h2>
    <p>از تماس شما سپاسگزاریم. درخواست شما برای پلن <strong>{{.Plan}}</strong> ثبت شد و در اولین فرصت با شما تماس می‌گیریم.</p>
    <p style="color: #888; font-size: 13px;">این ایمیل به صورت خودکار ارسال شده است؛ نیازی به پاسخ نیست.</p>
  </div>
</body>
</html>`))

var adminNotificationTmpl = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html dir="rtl" lang="fa">
<body style="font-family: Tahoma, Arial, sans-serif; background: #f6f6f6; padding: 24px;">
  <div style="max-width: 640px; margin: 0 auto; background: #fff; border-radius: 8px; padding: 24px;">
    <h2 style="color: #1a1a2e;">پیام جدید از فرم تماس</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><td style="padding: 6px 0; color: #555;">نام</td><td>{{.Name}}</td></tr>
      <tr><td style="padding: 6px 0; color: #555;">ایمیل</td><td>{{.Email}}</td></tr>
{{- if .Whatsapp}}
      <tr><td style="padding: 6px 0; color: #555;">واتساپ</td><td>{{.Whatsapp}}</td></tr>
{{- end}}
      <tr><td style="padding: 6px 0; color: #555;">پلن</td><td>{{.Plan}}</td></tr>
      <tr><td style="padding: 6px 0; color: #555;">آی‌پی</td><td>{{.ClientIP}}</td></tr>
      <tr><td style="padding: 6px 0; color: #555;">زمان</td><td>{{.Timestamp}}</td></tr>
{{- if .AttachmentNames}}
      <tr><td style="padding: 6px 0; color: #555;">پیوست‌ها</td><td>{{.AttachmentList}}</td></tr>
{{- end}}
    </table>
    <h3 style="color: #1a1a2e; margin-top: 20px;">متن پیام</h3>
    <p style="white-space: pre-wrap; background: #f9f9f9; padding: 12px; border-radius: 6px;">{{.Message}}</p>
  </div>
</body>
</html>`))

type adminTemplateData struct {
	Sanitized
	ClientIP        string
	Timestamp       string
	AttachmentNames []string
}

func (d adminTemplateData) AttachmentList() string {
	return strings.Join(d.AttachmentNames, "، ")
}

// RenderUserConfirmation builds the courtesy email sent back to the visitor.
func RenderUserConfirmation(s Sanitized) (string, error) {
	var sb strings.Builder
	if err := userConfirmationTmpl.Execute(&sb, s); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderAdminNotification builds the operator email carrying the full
// submission. The WhatsApp and attachment rows appear only when present.
func RenderAdminNotification(s Sanitized, clientIP string, at time.Time, attachmentNames []string) (string, error) {
	data := adminTemplateData{
		Sanitized:       s,
		ClientIP:        clientIP,
		Timestamp:       at.UTC().Format(time.RFC3339),
		AttachmentNames: attachmentNames,
	}

	var sb strings.Builder
	if err := adminNotificationTmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
