package student

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/campus/core"
)

// Roles; admins live in the student table as well.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("student not found")
	ErrRollNumberExists = core.NewConflictError("a student with this roll number already exists")
	ErrEmailExists      = core.NewConflictError("a student with this email already exists")
)

type Student struct {
	ID         string     `json:"id"`
	RollNumber string     `json:"roll_number"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Mobile     string     `json:"mobile"`
	FatherName string     `json:"father_name"`
	MotherName string     `json:"mother_name"`
	Address    string     `json:"address"`
	City       string     `json:"city"`
	State      string     `json:"state"`
	PinCode    string     `json:"pin_code"`
	DOB        *time.Time `json:"dob"`
	Gender     string     `json:"gender"`
	Category   string     `json:"category"`
	Role       string     `json:"role"`

	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

func (s *Student) IsAdmin() bool { return s.Role == RoleAdmin }

type NewStudent struct {
	RollNumber string     `json:"roll_number" validate:"required,alphanum"`
	Name       string     `json:"name" validate:"required"`
	Email      string     `json:"email" validate:"required,email"`
	Mobile     string     `json:"mobile" validate:"omitempty,numeric"`
	FatherName string     `json:"father_name"`
	MotherName string     `json:"mother_name"`
	Address    string     `json:"address"`
	City       string     `json:"city"`
	State      string     `json:"state"`
	PinCode    string     `json:"pin_code"`
	DOB        *time.Time `json:"dob"`
	Gender     string     `json:"gender" validate:"omitempty,oneof=male female other"`
	Category   string     `json:"category"`
	Password   string     `json:"password" validate:"required"`
}

type UpdateStudent struct {
	Name       string     `json:"name"`
	Email      string     `json:"email" validate:"omitempty,email"`
	Mobile     string     `json:"mobile" validate:"omitempty,numeric"`
	FatherName string     `json:"father_name"`
	MotherName string     `json:"mother_name"`
	Address    string     `json:"address"`
	City       string     `json:"city"`
	State      string     `json:"state"`
	PinCode    string     `json:"pin_code"`
	DOB        *time.Time `json:"dob"`
	Gender     string     `json:"gender" validate:"omitempty,oneof=male female other"`
	Category   string     `json:"category"`
}
