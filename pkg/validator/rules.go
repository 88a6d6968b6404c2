package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// RequiredString validates that a string is not empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

// MaxLenString limits the length of value in characters.
func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= max
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters long", max)},
	}
}

// MinNum validates that value is at least min.
func MinNum[T Numeric](field string, value, min T) Rule {
	return Rule{
		Check: func() bool {
			return value >= min
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %v", min)},
	}
}

// CountryCode validates an ISO 3166-1 alpha-2 code such as "NL".
func CountryCode(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if len(value) != 2 {
				return false
			}
			for _, r := range value {
				if r < 'A' || r > 'Z' {
					return false
				}
			}
			return true
		},
		Error: ValidationError{Field: field, Message: "must be a two-letter uppercase country code"},
	}
}
