// Package validation provides custom validation rules for the application.
package validation

import (
	"path"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/linkvault/internal/errors"
)

// MaxEmailLength is the longest address accepted (RFC 5321 forward-path limit).
const MaxEmailLength = 254

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9](?:[a-zA-Z0-9\-]*[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9\-]*[a-zA-Z0-9])?)*\.[a-zA-Z]{2,}$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// IsEmail reports whether s is a syntactically valid email address.
func IsEmail(s string) bool {
	if len(s) > MaxEmailLength || strings.Contains(s, "..") {
		return false
	}
	return emailRegex.MatchString(s)
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	IsEmail,
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// RelativePath validates the syntax of a slash-separated store path. Absolute
// paths, backslashes and control characters are rejected. ".." segments pass:
// whether the cleaned path stays in the caller's namespace is decided by
// storage/domain.Namespace, which answers ErrForbiddenPath.
var RelativePath = validation.NewStringRuleWithError(
	func(s string) bool {
		if strings.HasPrefix(s, "/") || strings.ContainsAny(s, "\\\x00") {
			return false
		}
		for _, r := range s {
			if r < 0x20 || r == 0x7f {
				return false
			}
		}
		return true
	},
	validation.NewError("validation_relative_path", "must be a relative path without backslashes or control characters"),
)

// FileName validates a single path element: no separators, not "." or "..".
var FileName = validation.NewStringRuleWithError(
	func(s string) bool {
		if s == "" {
			return true
		}
		return !strings.ContainsAny(s, "/\\\x00") && s != "." && s != ".." && path.Base(s) == s
	},
	validation.NewError("validation_file_name", "must be a plain file name"),
)
