package services

import (
	"github.com/go-playground/validator/v10"
)

// validate backs the service-level input checks. Handlers already bind
// with the same tag set, but mutation operations must reject malformed
// input even when invoked outside the HTTP layer.
var validate = newValidator()

// newValidator reads the same `binding` tags gin uses, so one tag set
// covers both layers.
func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

func validateStruct(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		return validationError("%s", err.Error())
	}
	return nil
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return validationError("a valid email is required")
	}
	return nil
}
