// Package dto provides data transfer objects for the sign-in endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/linkvault/internal/validation"
)

// RequestAccessRequest asks for a sign-in link to be mailed to Email.
type RequestAccessRequest struct {
	Email string `json:"email"`
}

// Validate checks the email syntax. Surrounding whitespace and case are
// normalized later, so only the trimmed address has to be valid.
func (r *RequestAccessRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, customValidation.MaxEmailLength+64),
		),
	)
}
