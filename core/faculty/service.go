package faculty

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/campushq/campus/core"
)

type (
	Repository interface {
		CreateFaculty(ctx context.Context, fac Faculty) (Faculty, error)
		GetFacultyByID(ctx context.Context, id string) (Faculty, error)
		GetFacultyByEmail(ctx context.Context, email string) (Faculty, error)
		// QueryAllFaculty returns all faculty members sorted by name.
		QueryAllFaculty(ctx context.Context) ([]Faculty, error)
		UpdateFaculty(ctx context.Context, fac Faculty) (Faculty, error)
		DeleteFaculty(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
		mail core.EmailService
		log  core.Logger
	}
)

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{repo: repo, mail: mailSvc, log: logger}
}

// Create registers a new faculty member and sends them a welcome email.
// The welcome email is best-effort: a delivery failure is logged and the
// created record is returned regardless.
func (svc *Service) Create(ctx context.Context, nf NewFaculty) (Faculty, error) {
	now := time.Now().UTC()
	fac := Faculty{
		Name:          core.CleanString(nf.Name),
		Email:         core.CleanString(nf.Email, true /* lower */),
		Mobile:        nf.Mobile,
		Department:    nf.Department,
		Designation:   nf.Designation,
		Qualification: nf.Qualification,
		Experience:    nf.Experience,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := fac.SetPassword(nf.Password); err != nil {
		return Faculty{}, err
	}

	fac, err := svc.repo.CreateFaculty(ctx, fac)
	if err != nil {
		return Faculty{}, err
	}

	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: fac.Name, Address: fac.Email}},
		Subject: "Faculty Account Created",
		Body: fmt.Sprintf(
			"Hello %s, your faculty account has been created. You can login with your email and password.",
			fac.Name,
		),
	}
	if err := svc.mail.Send(ctx, msg); err != nil {
		svc.log.Error(fmt.Sprintf("sending faculty welcome email: %v", err), err)
	}
	return fac, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Faculty, error) {
	return svc.repo.GetFacultyByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Faculty, error) {
	return svc.repo.QueryAllFaculty(ctx)
}

func (svc *Service) Update(ctx context.Context, id string, uf UpdateFaculty) (Faculty, error) {
	fac, err := svc.repo.GetFacultyByID(ctx, id)
	if err != nil {
		return Faculty{}, err
	}
	if uf.Name != "" {
		fac.Name = core.CleanString(uf.Name)
	}
	if uf.Email != "" {
		fac.Email = core.CleanString(uf.Email, true /* lower */)
	}
	if uf.Mobile != "" {
		fac.Mobile = uf.Mobile
	}
	if uf.Department != "" {
		fac.Department = uf.Department
	}
	if uf.Designation != "" {
		fac.Designation = uf.Designation
	}
	if uf.Qualification != "" {
		fac.Qualification = uf.Qualification
	}
	if uf.Experience != "" {
		fac.Experience = uf.Experience
	}
	fac.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateFaculty(ctx, fac)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteFaculty(ctx, id)
}
