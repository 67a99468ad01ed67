package notification

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/campushq/campus/core"
)

type (
	Repository interface {
		CreateNotification(ctx context.Context, nt Notification) (Notification, error)
		// QueryNotificationsForRecipient returns a recipient's notices, newest first.
		QueryNotificationsForRecipient(ctx context.Context, recipientID string, kind Kind) ([]Notification, error)
	}

	// Directory resolves recipients of one Kind. Email returns the empty
	// string when the recipient has no address on record; List snapshots the
	// whole population at call time.
	Directory interface {
		Email(ctx context.Context, id string) (string, error)
		List(ctx context.Context) ([]Recipient, error)
	}

	Service struct {
		repo Repository
		mail core.EmailService
		log  core.Logger
		dirs map[Kind]Directory
	}
)

// NewService wires the dispatcher. Every Kind must have a Directory;
// a partial table is a programming error caught at construction.
func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger, dirs map[Kind]Directory) (*Service, error) {
	for _, kind := range AllKinds {
		if _, ok := dirs[kind]; !ok {
			return nil, errors.Errorf("notification: no directory registered for kind %q", kind)
		}
	}
	return &Service{repo: repo, mail: mailSvc, log: logger, dirs: dirs}, nil
}

// Dispatch fans the message out to every recipient in the request.
// For each recipient an in-app record is persisted first (its channel is
// always "in-app"); only then, if the requested channel wants email, a
// delivery is attempted. A missing address skips the email silently and a
// failed delivery is logged, never failing the call or removing the record.
// Duplicate recipients are each processed; there is no implicit de-duplication.
func (svc *Service) Dispatch(ctx context.Context, req DispatchRequest) (Report, error) {
	for _, rcp := range req.Recipients {
		if !rcp.Kind.Valid() {
			return Report{}, ErrUnknownKind
		}
	}

	var report Report
	for _, rcp := range req.Recipients {
		nt, err := svc.repo.CreateNotification(ctx, Notification{
			RecipientID:   rcp.ID,
			RecipientKind: rcp.Kind,
			Message:       req.Message,
			Channel:       ChannelInApp,
			CreatedAt:     time.Now().UTC(),
		})
		if err != nil {
			return report, errors.Wrap(err, "persisting notification")
		}
		report.Notifications = append(report.Notifications, nt)
		report.Deliveries = append(report.Deliveries, svc.deliver(ctx, rcp, req))
	}
	return report, nil
}

// Broadcast resolves the full population of the given kind at call time and
// dispatches to it. The membership is a snapshot: recipients added while the
// broadcast runs are not notified by this call.
func (svc *Service) Broadcast(ctx context.Context, kind Kind, message string, channel Channel, emailSubject string) (Report, error) {
	dir, ok := svc.dirs[kind]
	if !ok {
		return Report{}, ErrUnknownKind
	}
	recipients, err := dir.List(ctx)
	if err != nil {
		return Report{}, errors.Wrap(err, "listing recipients")
	}
	return svc.Dispatch(ctx, DispatchRequest{
		Recipients:   recipients,
		Message:      message,
		Channel:      channel,
		EmailSubject: emailSubject,
	})
}

func (svc *Service) QueryForRecipient(ctx context.Context, recipientID string, kind Kind) ([]Notification, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	return svc.repo.QueryNotificationsForRecipient(ctx, recipientID, kind)
}

// deliver attempts the email leg for one recipient. The in-app record already
// exists by the time deliver runs, so a failure here leaves the recipient with
// a record of the event regardless.
func (svc *Service) deliver(ctx context.Context, rcp Recipient, req DispatchRequest) Delivery {
	if !req.Channel.wantsEmail() {
		return Delivery{Recipient: rcp, Outcome: OutcomeSkipped, Reason: "email not requested"}
	}

	addr, err := svc.dirs[rcp.Kind].Email(ctx, rcp.ID)
	if err != nil {
		svc.log.Error(fmt.Sprintf("resolving email for %s %s: %v", rcp.Kind, rcp.ID, err), err)
		return Delivery{Recipient: rcp, Outcome: OutcomeFailed, Reason: err.Error()}
	}
	if addr == "" {
		return Delivery{Recipient: rcp, Outcome: OutcomeSkipped, Reason: "no email address on record"}
	}

	subject := req.EmailSubject
	if subject == "" {
		subject = "New Notification"
	}
	msg := &core.EmailMessage{
		To:      []mail.Address{{Address: addr}},
		Subject: subject,
		Body:    req.Message,
	}
	if err := svc.mail.Send(ctx, msg); err != nil {
		svc.log.Error(fmt.Sprintf("sending notification email to %s: %v", addr, err), err)
		return Delivery{Recipient: rcp, Outcome: OutcomeFailed, Reason: err.Error()}
	}
	return Delivery{Recipient: rcp, Outcome: OutcomeDelivered}
}
