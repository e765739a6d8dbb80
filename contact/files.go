package contact

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mehdibp/site-api/pkg/validator"
)

// Allow-lists shared with the browser-side picker. A file passes the type
// check when either its declared MIME type or its extension matches:
// client-declared MIME types are unreliable, so the match is permissive.
var (
	allowedMimeTypes = map[string]struct{}{
		"application/pdf": {},
		"image/jpeg":      {},
		"image/jpg":       {},
		"image/png":       {},
		"image/gif":       {},
		"text/plain":      {},
		"application/msword": {},
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
		"audio/mpeg":  {},
		"audio/mp3":   {},
		"audio/wav":   {},
		"audio/x-wav": {},
		"audio/wave":  {},
	}

	allowedExtensions = map[string]struct{}{
		".pdf": {}, ".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {},
		".txt": {}, ".doc": {}, ".docx": {}, ".mp3": {}, ".wav": {},
	}
)

var base64Regex = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)

// IsValidBase64 reports whether s is well-formed standard base64. The
// pattern check catches obvious garbage cheaply; the decode catches
// truncated or mis-padded payloads the pattern alone would miss.
func IsValidBase64(s string) bool {
	if s == "" || !base64Regex.MatchString(s) {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}

// ValidateFile checks one attachment's type, size, and payload encoding.
func ValidateFile(f FileAttachment) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if !typeAllowed(f) {
		errs.Add(validator.ValidationError{
			Field:   "files",
			Message: fmt.Sprintf("%s: file type is not allowed", f.Name),
		})
	}
	if f.SizeBytes > MaxFileSize {
		errs.Add(validator.ValidationError{
			Field:   "files",
			Message: fmt.Sprintf("%s: file exceeds the 5 MB size limit", f.Name),
		})
	}
	if !IsValidBase64(f.ContentBase64) {
		errs.Add(validator.ValidationError{
			Field:   "files",
			Message: fmt.Sprintf("%s: file content is not valid base64", f.Name),
		})
	}

	return errs
}

// ValidateFiles checks the whole batch. An over-long batch is rejected
// before any per-file work; per-file errors are prefixed with the filename
// so the client can attribute them.
func ValidateFiles(files []FileAttachment) validator.ValidationErrors {
	if len(files) > MaxFiles {
		return validator.ValidationErrors{{
			Field:   "files",
			Message: fmt.Sprintf("at most %d files can be attached", MaxFiles),
		}}
	}

	var errs validator.ValidationErrors
	for _, f := range files {
		errs = append(errs, ValidateFile(f)...)
	}
	return errs
}

func typeAllowed(f FileAttachment) bool {
	if _, ok := allowedMimeTypes[strings.ToLower(f.MimeType)]; ok {
		return true
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	_, ok := allowedExtensions[ext]
	return ok
}
