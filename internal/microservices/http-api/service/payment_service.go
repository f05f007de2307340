package service

import (
	"context"
	"strings"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"

	"github.com/shopspring/decimal"
)

type RecordPaymentInput struct {
	MemberID      string
	Amount        decimal.Decimal
	PaymentMethod models.PaymentMethod
	FinePaid      bool
	Remarks       string
}

type PaymentService interface {
	RecordPayment(ctx context.Context, in RecordPaymentInput) (*models.Transaction, error)
	ListPayments(ctx context.Context) ([]models.Transaction, error)
	DeletePayment(ctx context.Context, id string) error
	TotalCollected(ctx context.Context) (decimal.Decimal, error)
}

type paymentService struct {
	store *repository.Store
}

func NewPaymentService(store *repository.Store) PaymentService {
	return &paymentService{store: store}
}

func (s *paymentService) RecordPayment(ctx context.Context, in RecordPaymentInput) (*models.Transaction, error) {
	if _, err := s.store.Members().GetByID(ctx, in.MemberID); err != nil {
		return nil, notFoundAs(err, ErrMemberNotFound)
	}
	return recordPayment(ctx, s.store, in)
}

func (s *paymentService) ListPayments(ctx context.Context) ([]models.Transaction, error) {
	return s.store.Payments().List(ctx)
}

// DeletePayment is an administrative correction; there is no refund flow.
func (s *paymentService) DeletePayment(ctx context.Context, id string) error {
	if err := s.store.Payments().Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrPaymentNotFound)
	}
	return nil
}

func (s *paymentService) TotalCollected(ctx context.Context) (decimal.Decimal, error) {
	return s.store.Payments().Total(ctx)
}

// recordPayment appends one entry to the ledger through whichever store it is given,
// so lending and returns can write it inside their own transaction.
func recordPayment(ctx context.Context, store *repository.Store, in RecordPaymentInput) (*models.Transaction, error) {
	if in.Amount.IsNegative() {
		return nil, FieldErrors{"amount": "Ensure this value is greater than or equal to 0."}.Err()
	}
	if !in.PaymentMethod.Valid() {
		return nil, ErrInvalidPayment
	}

	payment := &models.Transaction{
		MemberID:      in.MemberID,
		Amount:        in.Amount.Round(2),
		PaymentMethod: in.PaymentMethod,
		FinePaid:      in.FinePaid,
	}
	if remarks := strings.TrimSpace(in.Remarks); remarks != "" {
		payment.Remarks = &remarks
	}

	if err := store.Payments().Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}
