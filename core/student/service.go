package student

import (
	"context"
	"time"

	"github.com/campushq/campus/core"
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByRollNumber(ctx context.Context, rollNumber string) (Student, error)
		GetStudentByEmail(ctx context.Context, email string) (Student, error)
		// QueryStudentsByRole returns students with the given role, sorted by name.
		QueryStudentsByRole(ctx context.Context, role string) ([]Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		RollNumber: core.CleanString(ns.RollNumber, true /* lower */),
		Name:       core.CleanString(ns.Name),
		Email:      core.CleanString(ns.Email, true /* lower */),
		Mobile:     ns.Mobile,
		FatherName: ns.FatherName,
		MotherName: ns.MotherName,
		Address:    ns.Address,
		City:       ns.City,
		State:      ns.State,
		PinCode:    ns.PinCode,
		DOB:        ns.DOB,
		Gender:     ns.Gender,
		Category:   ns.Category,
		Role:       RoleStudent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := std.SetPassword(ns.Password); err != nil {
		return Student{}, err
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetByRollNumber(ctx context.Context, rollNumber string) (Student, error) {
	return svc.repo.GetStudentByRollNumber(ctx, core.CleanString(rollNumber, true /* lower */))
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudentsByRole(ctx, RoleStudent)
}

func (svc *Service) QueryAdmins(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudentsByRole(ctx, RoleAdmin)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if us.Name != "" {
		std.Name = core.CleanString(us.Name)
	}
	if us.Email != "" {
		std.Email = core.CleanString(us.Email, true /* lower */)
	}
	if us.Mobile != "" {
		std.Mobile = us.Mobile
	}
	if us.FatherName != "" {
		std.FatherName = us.FatherName
	}
	if us.MotherName != "" {
		std.MotherName = us.MotherName
	}
	if us.Address != "" {
		std.Address = us.Address
	}
	if us.City != "" {
		std.City = us.City
	}
	if us.State != "" {
		std.State = us.State
	}
	if us.PinCode != "" {
		std.PinCode = us.PinCode
	}
	if us.DOB != nil {
		std.DOB = us.DOB
	}
	if us.Gender != "" {
		std.Gender = us.Gender
	}
	if us.Category != "" {
		std.Category = us.Category
	}
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}
