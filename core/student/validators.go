package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/campushq/campus/core"
)

// RegisterValidators registers the package's struct level validations.
func RegisterValidators(validate *validator.Validate) {
	validate.RegisterStructValidation(studentStructValidation, NewStudent{})
}

// studentStructValidation applies the password policy to NewStudent.
func studentStructValidation(sl validator.StructLevel) {
	if ns, ok := sl.Current().Interface().(NewStudent); ok {
		core.ValidatePassword(sl, ns.Password, ns.Name, ns.RollNumber, ns.Email)
	}
}

func (ns NewStudent) Validate(validate *validator.Validate) error {
	return validate.Struct(ns)
}

func (us UpdateStudent) Validate(validate *validator.Validate) error {
	return validate.Struct(us)
}
