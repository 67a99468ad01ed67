package payment

import (
	"time"

	"github.com/campushq/campus/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("payment not found")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

type Payment struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Amount    float64   `json:"amount"`
	Status    Status    `json:"status"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC

	// populated student info for listings
	StudentName  string `json:"student_name,omitempty"`
	StudentEmail string `json:"student_email,omitempty"`
}
