package faculty

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/campus/core"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("faculty member not found")
	ErrEmailExists = core.NewConflictError("a faculty member with this email already exists")
)

type Faculty struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Mobile        string `json:"mobile"`
	Department    string `json:"department"`
	Designation   string `json:"designation"`
	Qualification string `json:"qualification"`
	Experience    string `json:"experience"`

	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (f *Faculty) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	f.PasswordHash = hash
	return nil
}

func (f *Faculty) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(f.PasswordHash, []byte(pwd))
}

type NewFaculty struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Mobile        string `json:"mobile" validate:"omitempty,numeric"`
	Department    string `json:"department" validate:"required"`
	Designation   string `json:"designation"`
	Qualification string `json:"qualification"`
	Experience    string `json:"experience"`
	Password      string `json:"password" validate:"required"`
}

type UpdateFaculty struct {
	Name          string `json:"name"`
	Email         string `json:"email" validate:"omitempty,email"`
	Mobile        string `json:"mobile" validate:"omitempty,numeric"`
	Department    string `json:"department"`
	Designation   string `json:"designation"`
	Qualification string `json:"qualification"`
	Experience    string `json:"experience"`
}
