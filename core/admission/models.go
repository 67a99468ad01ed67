package admission

import (
	"time"

	"github.com/campushq/campus/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("admission not found")
	ErrDecided  = core.NewConflictError("admission has already been decided")
)

// Status is the admission decision state machine:
// pending -> approved | rejected, terminal on either branch.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Admission struct {
	ID        string     `json:"id"`
	StudentID string     `json:"student_id"`
	CourseID  string     `json:"course_id"`
	Status    Status     `json:"status"`
	AppliedAt time.Time  `json:"applied_at"` // UTC
	DecidedAt *time.Time `json:"decided_at,omitempty"`
	DecidedBy string     `json:"decided_by,omitempty"`

	// populated refs for listings
	StudentName  string `json:"student_name,omitempty"`
	StudentEmail string `json:"student_email,omitempty"`
	CourseName   string `json:"course_name,omitempty"`
}

type Decision struct {
	Status Status `json:"status" validate:"required,oneof=approved rejected"`
}
