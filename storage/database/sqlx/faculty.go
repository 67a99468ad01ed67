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
	"github.com/campushq/campus/core/faculty"
)

type facultyRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Email         string    `db:"email"`
	Mobile        string    `db:"mobile"`
	Department    string    `db:"department"`
	Designation   string    `db:"designation"`
	Qualification string    `db:"qualification"`
	Experience    string    `db:"experience"`
	PasswordHash  []byte    `db:"password_hash"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

var facultyColumns = []string{
	"id", "name", "email", "mobile", "department", "designation",
	"qualification", "experience", "password_hash", "created_at", "updated_at",
}

func (r facultyRow) toFaculty() faculty.Faculty {
	return faculty.Faculty{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		Mobile:        r.Mobile,
		Department:    r.Department,
		Designation:   r.Designation,
		Qualification: r.Qualification,
		Experience:    r.Experience,
		PasswordHash:  r.PasswordHash,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type facultyRepository struct {
	exec core.DBExecutor
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(exec core.DBExecutor) *facultyRepository {
	return &facultyRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to faculty.ErrNotFound
func (repo facultyRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return faculty.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo facultyRepository) CreateFaculty(ctx context.Context, fac faculty.Faculty) (faculty.Faculty, error) {
	fac.ID = uuid.New().String()
	query, args, err := psql.Insert("faculty").Columns(facultyColumns...).
		Values(fac.ID, fac.Name, fac.Email, fac.Mobile, fac.Department, fac.Designation,
			fac.Qualification, fac.Experience, fac.PasswordHash, fac.CreatedAt.UTC(), fac.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return faculty.Faculty{}, errors.Wrap(err, "building faculty insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		if pqConstraint(err) == "faculty_email_key" {
			return faculty.Faculty{}, faculty.ErrEmailExists
		}
		return faculty.Faculty{}, errors.Wrap(err, "inserting faculty")
	}
	return fac, nil
}

func (repo facultyRepository) getFaculty(ctx context.Context, pred interface{}) (faculty.Faculty, error) {
	query, args, err := psql.Select(facultyColumns...).From("faculty").Where(pred).ToSql()
	if err != nil {
		return faculty.Faculty{}, errors.Wrap(err, "building faculty select")
	}
	var row facultyRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, query, args...); err != nil {
		return faculty.Faculty{}, repo.trapNoRowsErr(err, "finding faculty")
	}
	return row.toFaculty(), nil
}

func (repo facultyRepository) GetFacultyByID(ctx context.Context, id string) (faculty.Faculty, error) {
	if _, err := uuid.Parse(id); err != nil {
		return faculty.Faculty{}, faculty.ErrNotFound
	}
	return repo.getFaculty(ctx, sq.Eq{"id": id})
}

func (repo facultyRepository) GetFacultyByEmail(ctx context.Context, email string) (faculty.Faculty, error) {
	return repo.getFaculty(ctx, sq.Eq{"email": email})
}

func (repo facultyRepository) QueryAllFaculty(ctx context.Context) ([]faculty.Faculty, error) {
	query, args, err := psql.Select(facultyColumns...).From("faculty").OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building faculty query")
	}
	var rows []facultyRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying faculty")
	}
	members := make([]faculty.Faculty, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toFaculty())
	}
	return members, nil
}

func (repo facultyRepository) UpdateFaculty(ctx context.Context, fac faculty.Faculty) (faculty.Faculty, error) {
	query, args, err := psql.Update("faculty").
		Set("name", fac.Name).
		Set("email", fac.Email).
		Set("mobile", fac.Mobile).
		Set("department", fac.Department).
		Set("designation", fac.Designation).
		Set("qualification", fac.Qualification).
		Set("experience", fac.Experience).
		Set("password_hash", fac.PasswordHash).
		Set("updated_at", fac.UpdatedAt.UTC()).
		Where(sq.Eq{"id": fac.ID}).ToSql()
	if err != nil {
		return faculty.Faculty{}, errors.Wrap(err, "building faculty update")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		if pqConstraint(err) == "faculty_email_key" {
			return faculty.Faculty{}, faculty.ErrEmailExists
		}
		return faculty.Faculty{}, errors.Wrap(err, "updating faculty")
	}
	return fac, nil
}

func (repo facultyRepository) DeleteFaculty(ctx context.Context, id string) error {
	query, args, err := psql.Delete("faculty").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building faculty delete")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting faculty")
	}
	return nil
}
