package service

import (
	"context"
	"strings"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"

	"github.com/shopspring/decimal"
)

type LendInput struct {
	MemberID      string
	BookIDs       []string
	PaymentMethod models.PaymentMethod
	Remarks       string
}

type LendingService interface {
	Lend(ctx context.Context, in LendInput, now time.Time) (*models.BorrowedBook, error)
}

type lendingService struct {
	store  *repository.Store
	policy LoanPolicy
}

func NewLendingService(store *repository.Store, policy LoanPolicy) LendingService {
	return &lendingService{store: store, policy: policy}
}

// Lend issues every requested book to the member and charges the summed borrowing
// fees as one payment. Books are processed in the order given. Either all loans and the
// payment are written or none are.
//
// Only the last loan created is returned; callers wanting the whole batch look the
// member's loans up by issue date.
func (s *lendingService) Lend(ctx context.Context, in LendInput, now time.Time) (*models.BorrowedBook, error) {
	if len(in.BookIDs) == 0 {
		return nil, ErrNoBooksSelected
	}
	if strings.TrimSpace(in.MemberID) == "" {
		return nil, FieldErrors{"member": "This field is required."}.Err()
	}
	if !in.PaymentMethod.Valid() {
		return nil, ErrInvalidPayment
	}

	var remarks *string
	if r := strings.TrimSpace(in.Remarks); r != "" {
		remarks = &r
	}

	var last *models.BorrowedBook
	err := s.store.WithinTransaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Members().GetByID(ctx, in.MemberID); err != nil {
			return notFoundAs(err, ErrMemberNotFound)
		}

		total := decimal.Zero
		for _, bookID := range in.BookIDs {
			loan, fee, err := issueLoan(ctx, tx, s.policy, in.MemberID, bookID, now, remarks)
			if err != nil {
				return err
			}
			total = total.Add(fee)
			last = loan
		}

		_, err := recordPayment(ctx, tx, RecordPaymentInput{
			MemberID:      in.MemberID,
			Amount:        total,
			PaymentMethod: in.PaymentMethod,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	loan, err := s.store.Loans().GetByID(ctx, last.ID)
	if err != nil {
		return nil, notFoundAs(err, ErrLoanNotFound)
	}
	return loan, nil
}
