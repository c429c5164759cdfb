package domain

import (
	"errors"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the notblank rule registered.
func NewValidator() *validatorv10.Validate {
	v := validatorv10.New()
	_ = v.RegisterValidation("notblank", func(fl validatorv10.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// ValidateShare checks a decoded share request and reports the first
// failure as a *ValidationError.
func ValidateShare(v *validatorv10.Validate, req ShareReq, maxSize int) error {
	if err := v.Struct(req); err != nil {
		var ve validatorv10.ValidationErrors
		if errors.As(err, &ve) {
			return &ValidationError{Field: "text", Msg: "text required"}
		}
		return err
	}
	if maxSize > 0 && len(req.Text) > maxSize {
		return &ValidationError{Field: "text", Msg: "text too large"}
	}
	return nil
}

// ValidateCode checks the code query parameter.
func ValidateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return &ValidationError{Field: "code", Msg: "code required"}
	}
	return nil
}
