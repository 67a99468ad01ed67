package core

import (
	"context"
	"net/mail"

	"github.com/pkg/errors"
)

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		Body    string // text/plain content
	}

	// EmailService is any service that can send emails.
	// Send blocks until the message is accepted by the transport or fails as a unit.
	EmailService interface {
		Send(ctx context.Context, msg *EmailMessage) error
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.Body != "" }

// DeliveryError reports a failed email delivery. It is non-fatal:
// callers log it and move on; it never aborts the enclosing operation.
type DeliveryError struct {
	Err error
}

func NewDeliveryError(err error) error {
	return &DeliveryError{Err: err}
}

func (e *DeliveryError) Error() string {
	if e.Err == nil {
		return "email delivery failed"
	}
	return e.Err.Error()
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func IsDeliveryError(err error) bool {
	_, ok := errors.Cause(err).(*DeliveryError)
	return ok
}
