package faculty

import (
	"github.com/go-playground/validator/v10"

	"github.com/campushq/campus/core"
)

// RegisterValidators registers the package's struct level validations.
func RegisterValidators(validate *validator.Validate) {
	validate.RegisterStructValidation(facultyStructValidation, NewFaculty{})
}

func facultyStructValidation(sl validator.StructLevel) {
	if nf, ok := sl.Current().Interface().(NewFaculty); ok {
		core.ValidatePassword(sl, nf.Password, nf.Name, nf.Email)
	}
}

func (nf NewFaculty) Validate(validate *validator.Validate) error {
	return validate.Struct(nf)
}

func (uf UpdateFaculty) Validate(validate *validator.Validate) error {
	return validate.Struct(uf)
}
