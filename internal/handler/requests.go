package handler

// Request schemas, one struct per endpoint body. Each schema validates
// itself with ozzo-validation before anything reaches the service layer,
// so a handler body is always: decode → Validate → call service.

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/sakif/imagevault/internal/apperror"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r signupRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
	))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login only checks presence — length/format rules must not lock out
// accounts created before the rules existed.
func (r loginRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	))
}

type createFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

func (r createFolderRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
	))
}

// toValidationError converts an ozzo validation result into the domain
// error taxonomy so writeError maps it to 400 like every other validation
// failure.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperror.ValidationFailed("", err.Error())
}
