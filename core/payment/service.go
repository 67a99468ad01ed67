package payment

import "context"

type (
	Repository interface {
		GetPaymentByID(ctx context.Context, id string) (Payment, error)
		// QueryAllPayments returns payments with student name/email populated, newest first.
		QueryAllPayments(ctx context.Context) ([]Payment, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetByID(ctx context.Context, id string) (Payment, error) {
	return svc.repo.GetPaymentByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Payment, error) {
	return svc.repo.QueryAllPayments(ctx)
}
