package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/result"
)

type resultRow struct {
	ID         string    `db:"id"`
	RollNumber string    `db:"roll_number"`
	Term       int       `db:"term"`
	Subjects   []byte    `db:"subjects"` // jsonb
	TotalMarks float64   `db:"total_marks"`
	MaxTotal   float64   `db:"max_total"`
	Percentage float64   `db:"percentage"`
	Grade      string    `db:"grade"`
	Status     string    `db:"status"`
	Remarks    string    `db:"remarks"`
	UploadedBy string    `db:"uploaded_by"`
	UploadedAt time.Time `db:"uploaded_at"`
	CreatedAt  time.Time `db:"created_at"`
}

var resultColumns = []string{
	"id", "roll_number", "term", "subjects", "total_marks", "max_total",
	"percentage", "grade", "status", "remarks", "uploaded_by", "uploaded_at", "created_at",
}

func (r resultRow) toResult() (result.Result, error) {
	res := result.Result{
		ID:         r.ID,
		RollNumber: r.RollNumber,
		Term:       r.Term,
		TotalMarks: r.TotalMarks,
		MaxTotal:   r.MaxTotal,
		Percentage: r.Percentage,
		Grade:      r.Grade,
		Status:     result.Status(r.Status),
		Remarks:    r.Remarks,
		UploadedBy: r.UploadedBy,
		UploadedAt: r.UploadedAt,
		CreatedAt:  r.CreatedAt,
	}
	if len(r.Subjects) > 0 {
		if err := json.Unmarshal(r.Subjects, &res.Subjects); err != nil {
			return result.Result{}, errors.Wrap(err, "decoding result subjects")
		}
	}
	return res, nil
}

type resultRepository struct {
	exec core.DBExecutor
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(exec core.DBExecutor) *resultRepository {
	return &resultRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to result.ErrNotFound
func (repo resultRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return result.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// CreateResult relies on the (roll_number, term) unique index to reject
// duplicates, so concurrent uploads of the same pair cannot both succeed.
func (repo resultRepository) CreateResult(ctx context.Context, res result.Result) (result.Result, error) {
	res.ID = uuid.New().String()
	subjects, err := json.Marshal(res.Subjects)
	if err != nil {
		return result.Result{}, errors.Wrap(err, "encoding result subjects")
	}
	query, args, err := psql.Insert("result").Columns(resultColumns...).
		Values(res.ID, res.RollNumber, res.Term, subjects, res.TotalMarks, res.MaxTotal,
			res.Percentage, res.Grade, string(res.Status), res.Remarks, res.UploadedBy,
			res.UploadedAt.UTC(), res.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return result.Result{}, errors.Wrap(err, "building result insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		if pqConstraint(err) == "result_roll_number_term_key" {
			return result.Result{}, result.ErrExists
		}
		return result.Result{}, errors.Wrap(err, "inserting result")
	}
	return res, nil
}

func (repo resultRepository) GetResultByID(ctx context.Context, id string) (result.Result, error) {
	if _, err := uuid.Parse(id); err != nil {
		return result.Result{}, result.ErrNotFound
	}
	query, args, err := psql.Select(resultColumns...).From("result").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return result.Result{}, errors.Wrap(err, "building result select")
	}
	var row resultRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, query, args...); err != nil {
		return result.Result{}, repo.trapNoRowsErr(err, "finding result")
	}
	return row.toResult()
}

func (repo resultRepository) QueryResultsByRollNumber(ctx context.Context, rollNumber string) ([]result.Result, error) {
	query, args, err := psql.Select(resultColumns...).From("result").
		Where(sq.Eq{"roll_number": rollNumber}).OrderBy("term ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building result query")
	}
	var rows []resultRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying results")
	}
	results := make([]result.Result, 0, len(rows))
	for _, row := range rows {
		res, err := row.toResult()
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
