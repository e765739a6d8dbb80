// Package contact implements the contact-form intake pipeline: server-side
// validation, CAPTCHA verification, email rendering, and dispatch.
package contact

// Plan names accepted by the form, matching the pricing page.
const (
	PlanBasic        = "basic"
	PlanProfessional = "professional"
	PlanEnterprise   = "enterprise"
)

// Plans is the closed set of valid plan selections.
var Plans = []string{PlanBasic, PlanProfessional, PlanEnterprise}

// Field constraints enforced server-side regardless of what the browser
// already validated.
const (
	NameMinLen        = 2
	NameMaxLen        = 100
	MessageMinLen     = 10
	MessageMaxLen     = 5000
	WhatsappMinDigits = 10

	MaxFiles    = 5
	MaxFileSize = 5_242_880 // 5 MiB per file
)

// FileAttachment is a client-encoded upload. The payload stays base64 for
// its whole lifetime; it is forwarded to the email provider and never stored.
type FileAttachment struct {
	Name          string `json:"name"`
	MimeType      string `json:"mimeType"`
	SizeBytes     int64  `json:"sizeBytes"`
	ContentBase64 string `json:"contentBase64"`
}

// SubmitRequest is the POST /api/contact body. The singular File field is a
// leftover from an older client and mirrors Files[0]; Normalize folds it in
// so the rest of the pipeline only ever sees the slice.
type SubmitRequest struct {
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Whatsapp     string           `json:"whatsapp,omitempty"`
	Plan         string           `json:"plan"`
	Message      string           `json:"message"`
	CaptchaToken string           `json:"captchaToken"`
	Files        []FileAttachment `json:"files,omitempty"`
	File         *FileAttachment  `json:"file,omitempty"`
}

// Normalize resolves the legacy singular file field. When both are present
// the plural form wins; afterwards File is always nil.
func (r *SubmitRequest) Normalize() {
	if r.File != nil && len(r.Files) == 0 {
		r.Files = []FileAttachment{*r.File}
	}
	r.File = nil
}

// Sanitized holds the cleaned field values safe for interpolation into the
// HTML email templates.
type Sanitized struct {
	Name     string
	Email    string
	Whatsapp string
	Plan     string
	Message  string
}
