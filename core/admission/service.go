package admission

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/notification"
)

type (
	Repository interface {
		GetAdmissionByID(ctx context.Context, id string) (Admission, error)
		// QueryAllAdmissions returns admissions with student/course refs populated, newest first.
		QueryAllAdmissions(ctx context.Context) ([]Admission, error)
		UpdateAdmissionStatus(ctx context.Context, id string, status Status, decidedBy string, decidedAt time.Time) (Admission, error)
	}

	Notifier interface {
		Dispatch(ctx context.Context, req notification.DispatchRequest) (notification.Report, error)
	}

	Service struct {
		repo     Repository
		mail     core.EmailService
		notifier Notifier
		log      core.Logger
	}
)

func NewService(repo Repository, mailSvc core.EmailService, notifier Notifier, logger core.Logger) *Service {
	return &Service{repo: repo, mail: mailSvc, notifier: notifier, log: logger}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Admission, error) {
	return svc.repo.QueryAllAdmissions(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Admission, error) {
	return svc.repo.GetAdmissionByID(ctx, id)
}

// Decide moves a pending admission to approved or rejected. The decision is
// terminal; deciding an already-decided admission fails with ErrDecided.
// Once the new status is committed, the student is emailed (the approved
// body carries the payment-due instruction) and gets one in-app record via
// the dispatcher. Both fan-out legs are independent and best-effort.
func (svc *Service) Decide(ctx context.Context, id string, dec Decision, decidedBy string) (Admission, error) {
	adm, err := svc.repo.GetAdmissionByID(ctx, id)
	if err != nil {
		return Admission{}, err
	}
	if adm.Status != StatusPending {
		return Admission{}, ErrDecided
	}

	adm, err = svc.repo.UpdateAdmissionStatus(ctx, id, dec.Status, decidedBy, time.Now().UTC())
	if err != nil {
		return Admission{}, err
	}

	// decision committed; everything below is fan-out
	body := fmt.Sprintf("Your admission for %s is %s.", adm.CourseName, adm.Status)
	if adm.Status == StatusApproved {
		body += " Please pay the full fee."
	}
	if adm.StudentEmail != "" {
		msg := &core.EmailMessage{
			To:      []mail.Address{{Name: adm.StudentName, Address: adm.StudentEmail}},
			Subject: "Admission Update",
			Body:    body,
		}
		if err := svc.mail.Send(ctx, msg); err != nil {
			svc.log.Error(fmt.Sprintf("sending admission email: %v", err), err)
		}
	}

	if _, err := svc.notifier.Dispatch(ctx, notification.DispatchRequest{
		Recipients: []notification.Recipient{{ID: adm.StudentID, Kind: notification.KindStudent}},
		Message:    fmt.Sprintf("Admission %s", adm.Status),
		Channel:    notification.ChannelInApp,
	}); err != nil {
		svc.log.Error(fmt.Sprintf("dispatching admission notification: %v", err), err)
	}
	return adm, nil
}

func (dec Decision) Validate(validate *validator.Validate) error {
	return validate.Struct(dec)
}
