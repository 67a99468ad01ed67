package catalog

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/campushq/campus/core"
)

type (
	Repository interface {
		CreateDepartment(ctx context.Context, dep Department) (Department, error)
		GetDepartmentByName(ctx context.Context, name string) (Department, error)
		QueryAllDepartments(ctx context.Context) ([]Department, error)

		CreateCategory(ctx context.Context, cat Category) (Category, error)
		GetCategoryByName(ctx context.Context, name string) (Category, error)
		QueryAllCategories(ctx context.Context) ([]Category, error)

		CreateCourse(ctx context.Context, crs Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		// QueryAllCourses returns courses with department/category names populated.
		QueryAllCourses(ctx context.Context) ([]Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCourse(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) AddDepartment(ctx context.Context, nd NewDepartment) (Department, error) {
	return svc.repo.CreateDepartment(ctx, Department{
		Name:      core.CleanString(nd.Name),
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) QueryDepartments(ctx context.Context) ([]Department, error) {
	return svc.repo.QueryAllDepartments(ctx)
}

func (svc *Service) AddCategory(ctx context.Context, nc NewCategory) (Category, error) {
	return svc.repo.CreateCategory(ctx, Category{
		Name:      core.CleanString(nc.Name),
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) QueryCategories(ctx context.Context) ([]Category, error) {
	return svc.repo.QueryAllCategories(ctx)
}

// AddCourse resolves the department and category by name before creating the
// course; either being absent fails the call with its not-found error.
func (svc *Service) AddCourse(ctx context.Context, nc NewCourse) (Course, error) {
	dep, err := svc.repo.GetDepartmentByName(ctx, core.CleanString(nc.DepartmentName))
	if err != nil {
		return Course{}, err
	}
	cat, err := svc.repo.GetCategoryByName(ctx, core.CleanString(nc.CategoryName))
	if err != nil {
		return Course{}, err
	}

	now := time.Now().UTC()
	return svc.repo.CreateCourse(ctx, Course{
		Name:         core.CleanString(nc.Name),
		DepartmentID: dep.ID,
		CategoryID:   cat.ID,
		FeeStructure: nc.FeeStructure,
		FormURL:      nc.FormURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *Service) GetCourseByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) QueryCourses(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

func (svc *Service) UpdateCourse(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if uc.Name != "" {
		crs.Name = core.CleanString(uc.Name)
	}
	if uc.DepartmentID != "" {
		crs.DepartmentID = uc.DepartmentID
	}
	if uc.CategoryID != "" {
		crs.CategoryID = uc.CategoryID
	}
	if uc.FeeStructure != "" {
		crs.FeeStructure = uc.FeeStructure
	}
	if uc.FormURL != "" {
		crs.FormURL = uc.FormURL
	}
	crs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *Service) DeleteCourse(ctx context.Context, id string) error {
	if _, err := svc.repo.GetCourseByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteCourse(ctx, id)
}

func (nc NewCourse) Validate(validate *validator.Validate) error {
	return validate.Struct(nc)
}

func (uc UpdateCourse) Validate(validate *validator.Validate) error {
	return validate.Struct(uc)
}

func (nd NewDepartment) Validate(validate *validator.Validate) error {
	return validate.Struct(nd)
}

func (nc NewCategory) Validate(validate *validator.Validate) error {
	return validate.Struct(nc)
}
