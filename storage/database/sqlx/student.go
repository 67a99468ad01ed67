package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/student"
)

// psql builds queries with postgres placeholders; shared by all repositories.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const uniqueViolation = "23505"

// pqConstraint returns the violated unique constraint name, or "" when err
// is not a unique violation.
func pqConstraint(err error) string {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return pqErr.Constraint
	}
	return ""
}

type studentRow struct {
	ID           string       `db:"id"`
	RollNumber   string       `db:"roll_number"`
	Name         string       `db:"name"`
	Email        string       `db:"email"`
	Mobile       string       `db:"mobile"`
	FatherName   string       `db:"father_name"`
	MotherName   string       `db:"mother_name"`
	Address      string       `db:"address"`
	City         string       `db:"city"`
	State        string       `db:"state"`
	PinCode      string       `db:"pin_code"`
	DOB          sql.NullTime `db:"dob"`
	Gender       string       `db:"gender"`
	Category     string       `db:"category"`
	Role         string       `db:"role"`
	PasswordHash []byte       `db:"password_hash"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

var studentColumns = []string{
	"id", "roll_number", "name", "email", "mobile", "father_name", "mother_name",
	"address", "city", "state", "pin_code", "dob", "gender", "category", "role",
	"password_hash", "created_at", "updated_at",
}

func (r studentRow) toStudent() student.Student {
	std := student.Student{
		ID:           r.ID,
		RollNumber:   r.RollNumber,
		Name:         r.Name,
		Email:        r.Email,
		Mobile:       r.Mobile,
		FatherName:   r.FatherName,
		MotherName:   r.MotherName,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		PinCode:      r.PinCode,
		Gender:       r.Gender,
		Category:     r.Category,
		Role:         r.Role,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.DOB.Valid {
		dob := r.DOB.Time
		std.DOB = &dob
	}
	return std
}

func studentValues(std student.Student) []interface{} {
	var dob sql.NullTime
	if std.DOB != nil {
		dob = sql.NullTime{Time: std.DOB.UTC(), Valid: true}
	}
	return []interface{}{
		std.ID, std.RollNumber, std.Name, std.Email, std.Mobile, std.FatherName,
		std.MotherName, std.Address, std.City, std.State, std.PinCode, dob,
		std.Gender, std.Category, std.Role, std.PasswordHash,
		std.CreatedAt.UTC(), std.UpdatedAt.UTC(),
	}
}

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to student.ErrNotFound
func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()
	query, args, err := psql.Insert("student").Columns(studentColumns...).Values(studentValues(std)...).ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building student insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		switch pqConstraint(err) {
		case "student_roll_number_key":
			return student.Student{}, student.ErrRollNumberExists
		case "student_email_key":
			return student.Student{}, student.ErrEmailExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo studentRepository) getStudent(ctx context.Context, pred interface{}, args ...interface{}) (student.Student, error) {
	query, qargs, err := psql.Select(studentColumns...).From("student").Where(pred, args...).ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building student select")
	}
	var row studentRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, query, qargs...); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student")
	}
	return row.toStudent(), nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, student.ErrNotFound
	}
	return repo.getStudent(ctx, sq.Eq{"id": id})
}

func (repo studentRepository) GetStudentByRollNumber(ctx context.Context, rollNumber string) (student.Student, error) {
	return repo.getStudent(ctx, sq.Eq{"roll_number": rollNumber})
}

func (repo studentRepository) GetStudentByEmail(ctx context.Context, email string) (student.Student, error) {
	return repo.getStudent(ctx, sq.Eq{"email": email})
}

func (repo studentRepository) QueryStudentsByRole(ctx context.Context, role string) ([]student.Student, error) {
	query, args, err := psql.Select(studentColumns...).From("student").
		Where(sq.Eq{"role": role}).OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building student query")
	}
	var rows []studentRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toStudent())
	}
	return students, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	var dob sql.NullTime
	if std.DOB != nil {
		dob = sql.NullTime{Time: std.DOB.UTC(), Valid: true}
	}
	query, args, err := psql.Update("student").
		Set("name", std.Name).
		Set("email", std.Email).
		Set("mobile", std.Mobile).
		Set("father_name", std.FatherName).
		Set("mother_name", std.MotherName).
		Set("address", std.Address).
		Set("city", std.City).
		Set("state", std.State).
		Set("pin_code", std.PinCode).
		Set("dob", dob).
		Set("gender", std.Gender).
		Set("category", std.Category).
		Set("password_hash", std.PasswordHash).
		Set("updated_at", std.UpdatedAt.UTC()).
		Where(sq.Eq{"id": std.ID}).ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building student update")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		if pqConstraint(err) == "student_email_key" {
			return student.Student{}, student.ErrEmailExists
		}
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return std, nil
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id string) error {
	query, args, err := psql.Delete("student").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building student delete")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return nil
}
