package notification

import "github.com/go-playground/validator/v10"

func (req DispatchRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(req)
}
