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
	"github.com/campushq/campus/core/admission"
)

type admissionRow struct {
	ID           string       `db:"id"`
	StudentID    string       `db:"student_id"`
	CourseID     string       `db:"course_id"`
	Status       string       `db:"status"`
	AppliedAt    time.Time    `db:"applied_at"`
	DecidedAt    sql.NullTime `db:"decided_at"`
	DecidedBy    string       `db:"decided_by"`
	StudentName  string       `db:"student_name"`
	StudentEmail string       `db:"student_email"`
	CourseName   string       `db:"course_name"`
}

func (r admissionRow) toAdmission() admission.Admission {
	adm := admission.Admission{
		ID:           r.ID,
		StudentID:    r.StudentID,
		CourseID:     r.CourseID,
		Status:       admission.Status(r.Status),
		AppliedAt:    r.AppliedAt,
		DecidedBy:    r.DecidedBy,
		StudentName:  r.StudentName,
		StudentEmail: r.StudentEmail,
		CourseName:   r.CourseName,
	}
	if r.DecidedAt.Valid {
		decidedAt := r.DecidedAt.Time
		adm.DecidedAt = &decidedAt
	}
	return adm
}

// populated admission columns; student and course refs joined in.
var admissionSelect = []string{
	"a.id", "a.student_id", "a.course_id", "a.status", "a.applied_at",
	"a.decided_at", "a.decided_by",
	"s.name AS student_name", "s.email AS student_email", "c.name AS course_name",
}

type admissionRepository struct {
	exec core.DBExecutor
}

var _ admission.Repository = (*admissionRepository)(nil) // interface compliance check

func NewAdmissionRepository(exec core.DBExecutor) *admissionRepository {
	return &admissionRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to admission.ErrNotFound
func (repo admissionRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return admission.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo admissionRepository) selectAdmissions() sq.SelectBuilder {
	return psql.Select(admissionSelect...).From("admission a").
		Join("student s ON s.id = a.student_id").
		Join("course c ON c.id = a.course_id")
}

func (repo admissionRepository) GetAdmissionByID(ctx context.Context, id string) (admission.Admission, error) {
	if _, err := uuid.Parse(id); err != nil {
		return admission.Admission{}, admission.ErrNotFound
	}
	query, args, err := repo.selectAdmissions().Where(sq.Eq{"a.id": id}).ToSql()
	if err != nil {
		return admission.Admission{}, errors.Wrap(err, "building admission select")
	}
	var row admissionRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, query, args...); err != nil {
		return admission.Admission{}, repo.trapNoRowsErr(err, "finding admission")
	}
	return row.toAdmission(), nil
}

func (repo admissionRepository) QueryAllAdmissions(ctx context.Context) ([]admission.Admission, error) {
	query, args, err := repo.selectAdmissions().OrderBy("a.applied_at DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building admission query")
	}
	var rows []admissionRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying admissions")
	}
	admissions := make([]admission.Admission, 0, len(rows))
	for _, row := range rows {
		admissions = append(admissions, row.toAdmission())
	}
	return admissions, nil
}

func (repo admissionRepository) UpdateAdmissionStatus(ctx context.Context, id string, status admission.Status, decidedBy string, decidedAt time.Time) (admission.Admission, error) {
	// the status guard makes the pending -> decided transition atomic;
	// a concurrent decide loses the race and affects zero rows
	query, args, err := psql.Update("admission").
		Set("status", string(status)).
		Set("decided_by", decidedBy).
		Set("decided_at", decidedAt.UTC()).
		Where(sq.Eq{"id": id, "status": string(admission.StatusPending)}).ToSql()
	if err != nil {
		return admission.Admission{}, errors.Wrap(err, "building admission update")
	}
	res, err := repo.exec.ExecContext(ctx, query, args...)
	if err != nil {
		return admission.Admission{}, errors.Wrap(err, "updating admission")
	}
	if n, err := res.RowsAffected(); err != nil {
		return admission.Admission{}, errors.Wrap(err, "updating admission")
	} else if n == 0 {
		if _, err := repo.GetAdmissionByID(ctx, id); err != nil {
			return admission.Admission{}, err
		}
		return admission.Admission{}, admission.ErrDecided
	}
	return repo.GetAdmissionByID(ctx, id)
}
