package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/campushq/campus/core/payment"
)

type paymentRepository struct {
	db *paymentTable
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *DB) *paymentRepository {
	return &paymentRepository{db: db.payment}
}

// SeedPayment inserts a payment directly; tests use it to arrange state.
func (repo *paymentRepository) SeedPayment(pmt payment.Payment) payment.Payment {
	repo.db.Lock()
	defer repo.db.Unlock()

	if pmt.ID == "" {
		pmt.ID = uuid.New().String()
	}
	repo.db.table[pmt.ID] = &pmt
	return pmt
}

func (repo *paymentRepository) GetPaymentByID(ctx context.Context, id string) (payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if pmt, ok := repo.db.table[id]; ok {
		return *pmt, nil
	}
	return payment.Payment{}, payment.ErrNotFound
}

func (repo *paymentRepository) QueryAllPayments(ctx context.Context) ([]payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	payments := make([]payment.Payment, 0, len(repo.db.table))
	for _, pmt := range repo.db.table {
		payments = append(payments, *pmt)
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].CreatedAt.After(payments[j].CreatedAt) })
	return payments, nil
}
