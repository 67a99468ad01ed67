package result

import (
	"time"

	"github.com/campushq/campus/core"
)

// Defaults applied when the upload omits the maximums.
const (
	DefaultMaxTotal   = 500
	DefaultSubjectMax = 100
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("result not found")
	ErrExists   = core.NewConflictError("a result already exists for this student and term")
)

// Subject is one graded subject line of a result. Grade is derived from
// Marks/MaxMarks at upload and never independently writable.
type Subject struct {
	Name     string  `json:"name" validate:"required"`
	Marks    float64 `json:"marks" validate:"gte=0"`
	MaxMarks float64 `json:"max_marks" validate:"gte=0"`
	Grade    string  `json:"grade"`
}

// Result is an academic term result. Its identity is (RollNumber, Term):
// a second upload for the same pair is rejected, never merged or overwritten.
// Records are immutable after creation.
type Result struct {
	ID         string    `json:"id"`
	RollNumber string    `json:"roll_number"`
	Term       int       `json:"term"`
	Subjects   []Subject `json:"subjects"`
	TotalMarks float64   `json:"total_marks"`
	MaxTotal   float64   `json:"max_total"`
	Percentage float64   `json:"percentage"`
	Grade      string    `json:"grade"`
	Status     Status    `json:"status"`
	Remarks    string    `json:"remarks,omitempty"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"` // UTC
	CreatedAt  time.Time `json:"created_at"`  // UTC
}

type NewResult struct {
	RollNumber string    `json:"roll_number" validate:"required"`
	Term       int       `json:"term" validate:"required,min=1"`
	Subjects   []Subject `json:"subjects" validate:"omitempty,dive"`
	TotalMarks float64   `json:"total_marks" validate:"required,gt=0"`
	MaxTotal   float64   `json:"max_total" validate:"omitempty,gt=0"`
	Remarks    string    `json:"remarks"`
}
