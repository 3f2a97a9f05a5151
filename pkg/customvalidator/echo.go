package customvalidator

import (
	"github.com/go-playground/validator/v10"
)

// EchoValidator подключает валидатор к echo.Echo.Validator.
type EchoValidator struct {
	validate *validator.Validate
}

func NewEchoValidator(v *validator.Validate) *EchoValidator {
	return &EchoValidator{validate: v}
}

func (ev *EchoValidator) Validate(i interface{}) error {
	return ev.validate.Struct(i)
}
