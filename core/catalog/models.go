package catalog

import (
	"time"

	"github.com/campushq/campus/core"
)

var (
	// errors
	ErrCourseNotFound     = core.NewNotFoundError("course not found")
	ErrDepartmentNotFound = core.NewNotFoundError("department not found")
	ErrCategoryNotFound   = core.NewNotFoundError("category not found")
	ErrDepartmentExists   = core.NewConflictError("a department with this name already exists")
	ErrCategoryExists     = core.NewConflictError("a category with this name already exists")
)

type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type Course struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DepartmentID string    `json:"department_id"`
	CategoryID   string    `json:"category_id"`
	FeeStructure string    `json:"fee_structure"`
	FormURL      string    `json:"form_url"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC

	// populated refs for listings
	DepartmentName string `json:"department_name,omitempty"`
	CategoryName   string `json:"category_name,omitempty"`
}

// NewCourse references its department and category by name; both must exist.
type NewCourse struct {
	Name           string `json:"name" validate:"required"`
	DepartmentName string `json:"department_name" validate:"required"`
	CategoryName   string `json:"category_name" validate:"required"`
	FeeStructure   string `json:"fee_structure"`
	FormURL        string `json:"form_url" validate:"omitempty,url"`
}

type UpdateCourse struct {
	Name         string `json:"name"`
	DepartmentID string `json:"department_id"`
	CategoryID   string `json:"category_id"`
	FeeStructure string `json:"fee_structure"`
	FormURL      string `json:"form_url" validate:"omitempty,url"`
}

type NewDepartment struct {
	Name string `json:"name" validate:"required"`
}

type NewCategory struct {
	Name string `json:"name" validate:"required"`
}
