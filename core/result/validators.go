package result

import "github.com/go-playground/validator/v10"

func (nr NewResult) Validate(validate *validator.Validate) error {
	return validate.Struct(nr)
}
