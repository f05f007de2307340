package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"

	"github.com/shopspring/decimal"
)

// LoanPolicy holds the circulation rules every loan is issued and fined under.
type LoanPolicy struct {
	LoanPeriodDays int
	FinePerDay     decimal.Decimal
	MaxAmountDue   decimal.Decimal
}

func DefaultLoanPolicy() LoanPolicy {
	return LoanPolicy{
		LoanPeriodDays: models.DefaultLoanPeriodDays,
		FinePerDay:     decimal.NewFromInt(1),
		MaxAmountDue:   models.MaxAmountDue,
	}
}

// ReturnDate is the day a loan issued on issueDate falls due.
func (p LoanPolicy) ReturnDate(issueDate time.Time) time.Time {
	return models.DateOf(issueDate).AddDate(0, 0, p.LoanPeriodDays)
}

type ReturnInput struct {
	CollectFine   bool
	PaymentMethod models.PaymentMethod
	Remarks       string
}

type ReturnResult struct {
	Loan    *models.BorrowedBook
	Payment *models.Transaction // nil when no fine was collected
}

type LoanService interface {
	Issue(ctx context.Context, memberID, bookID string, issueDate time.Time) (*models.BorrowedBook, error)
	GetLoan(ctx context.Context, id string) (*models.BorrowedBook, error)
	ListLentBooks(ctx context.Context, query string) ([]models.BorrowedBook, error)
	SetFine(ctx context.Context, id string, fine decimal.Decimal, remarks *string, today time.Time) (*models.BorrowedBook, error)
	MarkReturned(ctx context.Context, id string, in ReturnInput) (*ReturnResult, error)
	DeleteLoan(ctx context.Context, id string) error
	AccrueFines(ctx context.Context, today time.Time) (int, error)
}

type loanService struct {
	store  *repository.Store
	policy LoanPolicy
}

func NewLoanService(store *repository.Store, policy LoanPolicy) LoanService {
	return &loanService{store: store, policy: policy}
}

// Issue lends a single copy: the shelf count drops and the loan is written in one transaction.
func (s *loanService) Issue(ctx context.Context, memberID, bookID string, issueDate time.Time) (*models.BorrowedBook, error) {
	var loan *models.BorrowedBook
	err := s.store.WithinTransaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Members().GetByID(ctx, memberID); err != nil {
			return notFoundAs(err, ErrMemberNotFound)
		}

		var err error
		loan, _, err = issueLoan(ctx, tx, s.policy, memberID, bookID, issueDate, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// issueLoan takes one copy of bookID off the shelf and records the loan. It returns the
// book's borrowing fee so callers can charge for it.
func issueLoan(ctx context.Context, tx *repository.Store, policy LoanPolicy, memberID, bookID string, issueDate time.Time, remarks *string) (*models.BorrowedBook, decimal.Decimal, error) {
	book, err := tx.Books().GetByID(ctx, bookID)
	if err != nil {
		return nil, decimal.Zero, notFoundAs(err, ErrBookNotFound)
	}

	if err := adjustQuantity(ctx, tx, book.ID, -1); err != nil {
		return nil, decimal.Zero, err
	}

	loan := &models.BorrowedBook{
		MemberID:   memberID,
		BookID:     book.ID,
		IssueDate:  models.DateOf(issueDate),
		ReturnDate: policy.ReturnDate(issueDate),
		Remarks:    remarks,
		Returned:   false,
		Fine:       decimal.Zero,
	}
	if err := tx.Loans().Create(ctx, loan); err != nil {
		return nil, decimal.Zero, err
	}
	return loan, book.BorrowingFee, nil
}

func (s *loanService) GetLoan(ctx context.Context, id string) (*models.BorrowedBook, error) {
	loan, err := s.store.Loans().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrLoanNotFound)
	}
	return loan, nil
}

// ListLentBooks lists every loan for an empty query, otherwise matches book title or author.
func (s *loanService) ListLentBooks(ctx context.Context, query string) ([]models.BorrowedBook, error) {
	if strings.TrimSpace(query) == "" {
		return s.store.Loans().List(ctx)
	}
	return s.store.Loans().SearchByBook(ctx, query)
}

// SetFine records the fine assessed on a loan that is still out.
func (s *loanService) SetFine(ctx context.Context, id string, fine decimal.Decimal, remarks *string, today time.Time) (*models.BorrowedBook, error) {
	if fine.IsNegative() {
		return nil, FieldErrors{"fine": "Ensure this value is greater than or equal to 0."}.Err()
	}
	fine = fine.Round(2)

	err := s.store.WithinTransaction(ctx, func(tx *repository.Store) error {
		loan, err := tx.Loans().GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrLoanNotFound)
		}
		if loan.Returned {
			return ErrAlreadyReturned
		}

		// Fines on loans not yet due count too: they all become owed eventually.
		due, err := tx.Loans().SumOutstandingFines(ctx, loan.MemberID)
		if err != nil {
			return err
		}
		if due.Sub(loan.Fine).Add(fine).GreaterThan(s.policy.MaxAmountDue) {
			return ErrAmountDueExceeded
		}

		return translateLoanErr(tx.Loans().UpdateFine(ctx, id, fine, remarks))
	})
	if err != nil {
		return nil, err
	}
	return s.GetLoan(ctx, id)
}

// MarkReturned closes an active loan. When asked to, it first collects the outstanding
// fine as a payment; the book goes back on the shelf in the same transaction.
func (s *loanService) MarkReturned(ctx context.Context, id string, in ReturnInput) (*ReturnResult, error) {
	result := &ReturnResult{}

	err := s.store.WithinTransaction(ctx, func(tx *repository.Store) error {
		loan, err := tx.Loans().GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrLoanNotFound)
		}
		if loan.Returned {
			return ErrAlreadyReturned
		}

		if in.CollectFine && loan.Fine.IsPositive() {
			result.Payment, err = recordPayment(ctx, tx, RecordPaymentInput{
				MemberID:      loan.MemberID,
				Amount:        loan.Fine,
				PaymentMethod: in.PaymentMethod,
				FinePaid:      true,
				Remarks:       in.Remarks,
			})
			if err != nil {
				return err
			}
		}

		if err := translateLoanErr(tx.Loans().MarkReturned(ctx, id)); err != nil {
			return err
		}
		return adjustQuantity(ctx, tx, loan.BookID, +1)
	})
	if err != nil {
		return nil, err
	}

	if result.Loan, err = s.GetLoan(ctx, id); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteLoan is the administrative escape hatch: the record goes away and an outstanding
// copy is put back on the shelf. Any fine on it is forgiven and no payment is written.
func (s *loanService) DeleteLoan(ctx context.Context, id string) error {
	return s.store.WithinTransaction(ctx, func(tx *repository.Store) error {
		loan, err := tx.Loans().GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrLoanNotFound)
		}
		if err := tx.Loans().Delete(ctx, id); err != nil {
			return notFoundAs(err, ErrLoanNotFound)
		}
		// a returned copy is already back on the shelf
		if loan.Returned {
			return nil
		}
		return adjustQuantity(ctx, tx, loan.BookID, +1)
	})
}

// AccrueFines raises the fine on each overdue loan to days overdue times the daily rate.
// Fines are never lowered, and a member's amount due is capped at the policy maximum.
// It returns how many loans changed.
func (s *loanService) AccrueFines(ctx context.Context, today time.Time) (int, error) {
	updated := 0

	err := s.store.WithinTransaction(ctx, func(tx *repository.Store) error {
		overdue, err := tx.Loans().ListOverdue(ctx, today)
		if err != nil {
			return err
		}

		due := make(map[string]decimal.Decimal)
		for _, loan := range overdue {
			if _, seen := due[loan.MemberID]; seen {
				continue
			}
			if due[loan.MemberID], err = tx.Loans().SumOutstandingFines(ctx, loan.MemberID); err != nil {
				return err
			}
		}

		for _, loan := range overdue {
			target := s.policy.FinePerDay.Mul(decimal.NewFromInt(int64(loan.OverdueDays(today))))
			if !target.GreaterThan(loan.Fine) {
				continue
			}

			headroom := s.policy.MaxAmountDue.Sub(due[loan.MemberID])
			if !headroom.IsPositive() {
				continue
			}
			increase := decimal.Min(target.Sub(loan.Fine), headroom)

			if err := tx.Loans().UpdateFine(ctx, loan.ID, loan.Fine.Add(increase), nil); err != nil {
				return err
			}
			due[loan.MemberID] = due[loan.MemberID].Add(increase)
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

func translateLoanErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrRecordNotFound):
		return ErrLoanNotFound
	case errors.Is(err, repository.ErrNotActive):
		return ErrAlreadyReturned
	default:
		return err
	}
}
