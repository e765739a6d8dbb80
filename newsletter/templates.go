package newsletter

import (
	"html/template"
	"strings"
)

var issueTmpl = template.Must(template.New("issue").Parse(`<!DOCTYPE html>
<html dir="{{.Dir}}" lang="{{.Lang}}">
<body style="font-family: Tahoma, Arial, sans-serif; background: #f6f6f6; padding: 24px;">
  <div style="max-width: 560px; margin: 0 auto; background: #fff; border-radius: 8px; padding: 24px;">
    <h2 style="color: #1a1a2e;">{{.Title}}</h2>
    <p>{{.Summary}}</p>
{{- if .URL}}
    <p><a href="{{.URL}}" style="color: #0f3460;">{{.ReadMoreLabel}}</a></p>
{{- end}}
    <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
    <p style="color: #888; font-size: 12px;">{{.UnsubscribeHint}}</p>
  </div>
</body>
</html>`))

type issueTemplateData struct {
	Title   string
	Summary string
	URL     string
	Lang    string
}

func (d issueTemplateData) Dir() string {
	if d.Lang == "en" {
		return "ltr"
	}
	return "rtl"
}

func (d issueTemplateData) ReadMoreLabel() string {
	if d.Lang == "en" {
		return "Read more"
	}
	return "ادامه مطلب"
}

func (d issueTemplateData) UnsubscribeHint() string {
	if d.Lang == "en" {
		return "You receive this email because you subscribed to our newsletter. Reply with \"unsubscribe\" to stop."
	}
	return "این ایمیل را دریافت می‌کنید چون در خبرنامه عضو شده‌اید. برای لغو عضویت پاسخ دهید."
}

// RenderIssue builds the HTML for one newsletter issue in the given
// language. Title and summary come from the operator and are interpolated
// through html/template, so markup in them is escaped, not rendered.
func RenderIssue(req PublishRequest, lang string) (string, error) {
	data := issueTemplateData{
		Title:   req.Title,
		Summary: req.Summary,
		URL:     req.URL,
		Lang:    lang,
	}

	var sb strings.Builder
	if err := issueTmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
