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
	"github.com/campushq/campus/core/payment"
)

type paymentRow struct {
	ID           string    `db:"id"`
	StudentID    string    `db:"student_id"`
	Amount       float64   `db:"amount"`
	Status       string    `db:"status"`
	Reference    string    `db:"reference"`
	CreatedAt    time.Time `db:"created_at"`
	StudentName  string    `db:"student_name"`
	StudentEmail string    `db:"student_email"`
}

func (r paymentRow) toPayment() payment.Payment {
	return payment.Payment{
		ID:           r.ID,
		StudentID:    r.StudentID,
		Amount:       r.Amount,
		Status:       payment.Status(r.Status),
		Reference:    r.Reference,
		CreatedAt:    r.CreatedAt,
		StudentName:  r.StudentName,
		StudentEmail: r.StudentEmail,
	}
}

var paymentSelect = []string{
	"p.id", "p.student_id", "p.amount", "p.status", "p.reference", "p.created_at",
	"s.name AS student_name", "s.email AS student_email",
}

type paymentRepository struct {
	exec core.DBExecutor
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(exec core.DBExecutor) *paymentRepository {
	return &paymentRepository{exec: exec}
}

func (repo paymentRepository) selectPayments() sq.SelectBuilder {
	return psql.Select(paymentSelect...).From("payment p").
		Join("student s ON s.id = p.student_id")
}

func (repo paymentRepository) GetPaymentByID(ctx context.Context, id string) (payment.Payment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return payment.Payment{}, payment.ErrNotFound
	}
	query, args, err := repo.selectPayments().Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return payment.Payment{}, errors.Wrap(err, "building payment select")
	}
	var row paymentRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, query, args...); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return payment.Payment{}, payment.ErrNotFound
		}
		return payment.Payment{}, errors.Wrap(err, "finding payment")
	}
	return row.toPayment(), nil
}

func (repo paymentRepository) QueryAllPayments(ctx context.Context) ([]payment.Payment, error) {
	query, args, err := repo.selectPayments().OrderBy("p.created_at DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building payment query")
	}
	var rows []paymentRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying payments")
	}
	payments := make([]payment.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, row.toPayment())
	}
	return payments, nil
}
