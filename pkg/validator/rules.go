package validator

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// Single local part, single @, dotted domain. Matches the shape the
	// front end enforces so both sides agree on what a valid address is.
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// Digits plus the separators commonly pasted from phone apps.
	phoneCharsRegex = regexp.MustCompile(`^[\d\s\-+()]+$`)
)

// Required validates that a string is not empty after trimming.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: field + " is required"},
	}
}

// MinLen validates that a string has at least min runes.
func MinLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= min },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be at least %d characters", field, min),
		},
	}
}

// MaxLen validates that a string has at most max runes.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be at most %d characters", field, max),
		},
	}
}

// ValidEmail validates that a string looks like local@domain.tld.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool { return emailRegex.MatchString(value) },
		Error: ValidationError{Field: field, Message: field + " must be a valid email address"},
	}
}

// PhoneChars validates that a string contains only digits and common phone
// separators, and carries at least minDigits digit characters.
func PhoneChars(field, value string, minDigits int) Rule {
	return Rule{
		Check: func() bool {
			if !phoneCharsRegex.MatchString(value) {
				return false
			}
			digits := 0
			for _, r := range value {
				if unicode.IsDigit(r) {
					digits++
				}
			}
			return digits >= minDigits
		},
		Error: ValidationError{Field: field, Message: field + " must be a valid phone number"},
	}
}

// OneOf validates that a value is a member of a closed set.
func OneOf(field, value string, allowed ...string) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")),
		},
	}
}

// When applies a rule only if the condition holds, for optional fields that
// are validated only when present.
func When(cond bool, rule Rule) Rule {
	if cond {
		return rule
	}
	return Rule{
		Check: func() bool { return true },
		Error: rule.Error,
	}
}
