// Package sanitizer provides pure string cleaning helpers for user-submitted
// form values. Cleaned values are safe for direct interpolation into the
// HTML email templates used by the contact pipeline.
package sanitizer
