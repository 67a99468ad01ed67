package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/catalog"
)

type nameRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type courseRow struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	DepartmentID   string    `db:"department_id"`
	CategoryID     string    `db:"category_id"`
	FeeStructure   string    `db:"fee_structure"`
	FormURL        string    `db:"form_url"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	DepartmentName string    `db:"department_name"`
	CategoryName   string    `db:"category_name"`
}

func (r courseRow) toCourse() catalog.Course {
	return catalog.Course{
		ID:             r.ID,
		Name:           r.Name,
		DepartmentID:   r.DepartmentID,
		CategoryID:     r.CategoryID,
		FeeStructure:   r.FeeStructure,
		FormURL:        r.FormURL,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		DepartmentName: r.DepartmentName,
		CategoryName:   r.CategoryName,
	}
}

var courseSelect = []string{
	"c.id", "c.name", "c.department_id", "c.category_id", "c.fee_structure",
	"c.form_url", "c.created_at", "c.updated_at",
	"d.name AS department_name", "cat.name AS category_name",
}

type catalogRepository struct {
	exec core.DBExecutor
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(exec core.DBExecutor) *catalogRepository {
	return &catalogRepository{exec: exec}
}

func (repo catalogRepository) CreateDepartment(ctx context.Context, dep catalog.Department) (catalog.Department, error) {
	dep.ID = uuid.New().String()
	query, args, err := psql.Insert("department").Columns("id", "name", "created_at").
		Values(dep.ID, dep.Name, dep.CreatedAt.UTC()).ToSql()
	if err != nil {
		return catalog.Department{}, errors.Wrap(err, "building department insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		if pqConstraint(err) == "department_name_key" {
			return catalog.Department{}, catalog.ErrDepartmentExists
		}
		return catalog.Department{}, errors.Wrap(err, "inserting department")
	}
	return dep, nil
}

func (repo catalogRepository) GetDepartmentByName(ctx context.Context, name string) (catalog.Department, error) {
	query, args, err := psql.Select("id", "name", "created_at").From("department").
		Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return catalog.Department{}, errors.Wrap(err, "building department select")
	}
	var row nameRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, query, args...); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return catalog.Department{}, catalog.ErrDepartmentNotFound
		}
		return catalog.Department{}, errors.Wrap(err, "finding department")
	}
	return catalog.Department(row), nil
}

func (repo catalogRepository) QueryAllDepartments(ctx context.Context) ([]catalog.Department, error) {
	query, args, err := psql.Select("id", "name", "created_at").From("department").
		OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building department query")
	}
	var rows []nameRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying departments")
	}
	deps := make([]catalog.Department, 0, len(rows))
	for _, row := range rows {
		deps = append(deps, catalog.Department(row))
	}
	return deps, nil
}

func (repo catalogRepository) CreateCategory(ctx context.Context, cat catalog.Category) (catalog.Category, error) {
	cat.ID = uuid.New().String()
	query, args, err := psql.Insert("category").Columns("id", "name", "created_at").
		Values(cat.ID, cat.Name, cat.CreatedAt.UTC()).ToSql()
	if err != nil {
		return catalog.Category{}, errors.Wrap(err, "building category insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		if pqConstraint(err) == "category_name_key" {
			return catalog.Category{}, catalog.ErrCategoryExists
		}
		return catalog.Category{}, errors.Wrap(err, "inserting category")
	}
	return cat, nil
}

func (repo catalogRepository) GetCategoryByName(ctx context.Context, name string) (catalog.Category, error) {
	query, args, err := psql.Select("id", "name", "created_at").From("category").
		Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return catalog.Category{}, errors.Wrap(err, "building category select")
	}
	var row nameRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, query, args...); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return catalog.Category{}, catalog.ErrCategoryNotFound
		}
		return catalog.Category{}, errors.Wrap(err, "finding category")
	}
	return catalog.Category(row), nil
}

func (repo catalogRepository) QueryAllCategories(ctx context.Context) ([]catalog.Category, error) {
	query, args, err := psql.Select("id", "name", "created_at").From("category").
		OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building category query")
	}
	var rows []nameRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}
	cats := make([]catalog.Category, 0, len(rows))
	for _, row := range rows {
		cats = append(cats, catalog.Category(row))
	}
	return cats, nil
}

func (repo catalogRepository) CreateCourse(ctx context.Context, crs catalog.Course) (catalog.Course, error) {
	crs.ID = uuid.New().String()
	query, args, err := psql.Insert("course").
		Columns("id", "name", "department_id", "category_id", "fee_structure", "form_url", "created_at", "updated_at").
		Values(crs.ID, crs.Name, crs.DepartmentID, crs.CategoryID, crs.FeeStructure, crs.FormURL,
			crs.CreatedAt.UTC(), crs.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return catalog.Course{}, errors.Wrap(err, "building course insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return catalog.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo catalogRepository) selectCourses() sq.SelectBuilder {
	return psql.Select(courseSelect...).From("course c").
		Join("department d ON d.id = c.department_id").
		Join("category cat ON cat.id = c.category_id")
}

func (repo catalogRepository) GetCourseByID(ctx context.Context, id string) (catalog.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return catalog.Course{}, catalog.ErrCourseNotFound
	}
	query, args, err := repo.selectCourses().Where(sq.Eq{"c.id": id}).ToSql()
	if err != nil {
		return catalog.Course{}, errors.Wrap(err, "building course select")
	}
	var row courseRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, query, args...); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return catalog.Course{}, catalog.ErrCourseNotFound
		}
		return catalog.Course{}, errors.Wrap(err, "finding course")
	}
	return row.toCourse(), nil
}

func (repo catalogRepository) QueryAllCourses(ctx context.Context) ([]catalog.Course, error) {
	query, args, err := repo.selectCourses().OrderBy("c.name ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building course query")
	}
	var rows []courseRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]catalog.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toCourse())
	}
	return courses, nil
}

func (repo catalogRepository) UpdateCourse(ctx context.Context, crs catalog.Course) (catalog.Course, error) {
	query, args, err := psql.Update("course").
		Set("name", crs.Name).
		Set("department_id", crs.DepartmentID).
		Set("category_id", crs.CategoryID).
		Set("fee_structure", crs.FeeStructure).
		Set("form_url", crs.FormURL).
		Set("updated_at", crs.UpdatedAt.UTC()).
		Where(sq.Eq{"id": crs.ID}).ToSql()
	if err != nil {
		return catalog.Course{}, errors.Wrap(err, "building course update")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return catalog.Course{}, errors.Wrap(err, "updating course")
	}
	return repo.GetCourseByID(ctx, crs.ID)
}

func (repo catalogRepository) DeleteCourse(ctx context.Context, id string) error {
	query, args, err := psql.Delete("course").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building course delete")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return nil
}
