// Package inputval validates and sanitizes user-supplied input.
//
// Struct validation uses go-playground/validator tags on the request
// payload types; free-text fields that are echoed back to other users
// (message content, team descriptions) pass through bluemonday's strict
// policy so stored text carries no markup.
package inputval

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate = validator.New(validator.WithRequiredStructEnabled())
	strict   = bluemonday.StrictPolicy()
)

// ValidateStruct runs validator tags over a request payload and returns
// the first failure as a client-presentable message.
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}

// FirstError turns a validator error into a short human-readable reason.
func FirstError(err error) string {
	if err == nil {
		return ""
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid input"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " is too short"
	case "max":
		return field + " is too long"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	default:
		return field + " is invalid"
	}
}

// IsValidEmail reports whether s is a plausible email address.
func IsValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// CleanText strips all markup from free text and trims whitespace.
func CleanText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
