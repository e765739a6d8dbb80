package contact

import (
	"github.com/mehdibp/site-api/pkg/sanitizer"
	"github.com/mehdibp/site-api/pkg/validator"
)

// ValidateForm cleans and validates the text fields of a submission. The
// client runs the same checks before submitting, but nothing coming over the
// wire is trusted. All failed rules accumulate so the response can report
// every problem at once.
func ValidateForm(req SubmitRequest) (Sanitized, validator.ValidationErrors) {
	s := Sanitized{
		Name:     sanitizer.CleanText(req.Name),
		Email:    sanitizer.Apply(req.Email, sanitizer.CleanText, sanitizer.ToLower),
		Whatsapp: sanitizer.CleanText(req.Whatsapp),
		Plan:     sanitizer.Apply(req.Plan, sanitizer.CleanText, sanitizer.ToLower),
		Message:  sanitizer.CleanText(req.Message),
	}

	err := validator.Apply(
		validator.MinLen("name", s.Name, NameMinLen),
		validator.MaxLen("name", s.Name, NameMaxLen),
		validator.ValidEmail("email", s.Email),
		validator.When(s.Whatsapp != "", validator.PhoneChars("whatsapp", s.Whatsapp, WhatsappMinDigits)),
		validator.OneOf("plan", s.Plan, Plans...),
		validator.MinLen("message", s.Message, MessageMinLen),
		validator.MaxLen("message", s.Message, MessageMaxLen),
		validator.Required("captchaToken", req.CaptchaToken),
	)

	return s, validator.ExtractValidationErrors(err)
}
