package main

import (
	"context"

	"github.com/campushq/campus/core/faculty"
	"github.com/campushq/campus/core/notification"
	"github.com/campushq/campus/core/student"
)

// studentDirectory resolves student (or admin) recipients from the
// student table.
type studentDirectory struct {
	svc  *student.Service
	kind notification.Kind
}

var _ notification.Directory = (*studentDirectory)(nil)

func (dir *studentDirectory) Email(ctx context.Context, id string) (string, error) {
	std, err := dir.svc.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return std.Email, nil
}

func (dir *studentDirectory) List(ctx context.Context) ([]notification.Recipient, error) {
	var (
		students []student.Student
		err      error
	)
	if dir.kind == notification.KindAdmin {
		students, err = dir.svc.QueryAdmins(ctx)
	} else {
		students, err = dir.svc.QueryAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	recipients := make([]notification.Recipient, 0, len(students))
	for _, std := range students {
		recipients = append(recipients, notification.Recipient{ID: std.ID, Kind: dir.kind})
	}
	return recipients, nil
}

type facultyDirectory struct {
	svc *faculty.Service
}

var _ notification.Directory = (*facultyDirectory)(nil)

func (dir *facultyDirectory) Email(ctx context.Context, id string) (string, error) {
	fac, err := dir.svc.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return fac.Email, nil
}

func (dir *facultyDirectory) List(ctx context.Context) ([]notification.Recipient, error) {
	members, err := dir.svc.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	recipients := make([]notification.Recipient, 0, len(members))
	for _, fac := range members {
		recipients = append(recipients, notification.Recipient{ID: fac.ID, Kind: notification.KindFaculty})
	}
	return recipients, nil
}

func newDirectories(studentSvc *student.Service, facultySvc *faculty.Service) map[notification.Kind]notification.Directory {
	return map[notification.Kind]notification.Directory{
		notification.KindStudent: &studentDirectory{svc: studentSvc, kind: notification.KindStudent},
		notification.KindAdmin:   &studentDirectory{svc: studentSvc, kind: notification.KindAdmin},
		notification.KindFaculty: &facultyDirectory{svc: facultySvc},
	}
}
