package notification

import (
	"time"

	"github.com/campushq/campus/core"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("notification not found")
	ErrUnknownKind = core.NewValidationError(nil, core.FieldError{
		Field: "recipient_kind", Error: "unknown recipient kind",
	})
)

// Kind identifies the population a recipient belongs to.
// The set is closed: every Kind must have a Directory registered with the Service.
type Kind string

const (
	KindStudent Kind = "student"
	KindFaculty Kind = "faculty"
	KindAdmin   Kind = "admin"
)

// AllKinds lists every valid Kind; NewService checks Directory coverage against it.
var AllKinds = []Kind{KindStudent, KindFaculty, KindAdmin}

func (k Kind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

type Channel string

const (
	ChannelInApp Channel = "in-app"
	ChannelEmail Channel = "email"
	ChannelBoth  Channel = "both"
)

func (c Channel) wantsEmail() bool { return c == ChannelEmail || c == ChannelBoth }

// Notification is a persisted in-app notice. It is written exactly once and
// never mutated; the stored channel is always "in-app" regardless of the
// channel requested on dispatch.
type Notification struct {
	ID            string    `json:"id"`
	RecipientID   string    `json:"recipient_id"`
	RecipientKind Kind      `json:"recipient_kind"`
	Message       string    `json:"message"`
	Channel       Channel   `json:"channel"`
	CreatedAt     time.Time `json:"created_at"` // UTC
}

type Recipient struct {
	ID   string `json:"id" validate:"required"`
	Kind Kind   `json:"kind" validate:"required"`
}

// DispatchRequest is a parameter object consumed once per Dispatch call;
// it is never persisted.
type DispatchRequest struct {
	Recipients   []Recipient `json:"recipients" validate:"required,min=1,dive"`
	Message      string      `json:"message" validate:"required"`
	Channel      Channel     `json:"channel" validate:"required,oneof=in-app email both"`
	EmailSubject string      `json:"email_subject"`
}

// Outcome is the per-recipient delivery result.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeSkipped   Outcome = "skipped" // no email wanted, or no address on record
	OutcomeFailed    Outcome = "failed"
)

type Delivery struct {
	Recipient Recipient `json:"recipient"`
	Outcome   Outcome   `json:"outcome"`
	Reason    string    `json:"reason,omitempty"`
}

// Report aggregates a dispatch: the persisted in-app records and the
// per-recipient delivery outcomes, independent of each other.
type Report struct {
	Notifications []Notification `json:"notifications"`
	Deliveries    []Delivery     `json:"deliveries"`
}

func (r Report) Delivered() int { return r.count(OutcomeDelivered) }
func (r Report) Skipped() int   { return r.count(OutcomeSkipped) }
func (r Report) Failed() int    { return r.count(OutcomeFailed) }

func (r Report) count(o Outcome) int {
	var n int
	for _, d := range r.Deliveries {
		if d.Outcome == o {
			n++
		}
	}
	return n
}
