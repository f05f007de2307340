package service

import (
	"context"
	"strings"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MemberDetail is a member together with what they currently hold and have paid.
type MemberDetail struct {
	Member      *models.Member
	ActiveLoans []models.BorrowedBook
	Payments    []models.Transaction
}

var validate = validator.New()

type MemberService interface {
	AddMember(ctx context.Context, name, email string) (*models.Member, error)
	UpdateMember(ctx context.Context, id, name, email string, today time.Time) (*models.Member, error)
	GetMember(ctx context.Context, id string, today time.Time) (*MemberDetail, error)
	SearchMembers(ctx context.Context, query string, today time.Time) ([]models.Member, error)
	ComputeAmountDue(ctx context.Context, memberID string, today time.Time) (decimal.Decimal, error)
	DeleteMember(ctx context.Context, id string) error
}

type memberService struct {
	store *repository.Store
}

func NewMemberService(store *repository.Store) MemberService {
	return &memberService{store: store}
}

func (s *memberService) AddMember(ctx context.Context, name, email string) (*models.Member, error) {
	name, email, err := validateMember(name, email)
	if err != nil {
		return nil, err
	}

	member := &models.Member{Name: name, Email: email, AmountDue: decimal.Zero}
	if err := s.store.Members().Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *memberService) UpdateMember(ctx context.Context, id, name, email string, today time.Time) (*models.Member, error) {
	name, email, err := validateMember(name, email)
	if err != nil {
		return nil, err
	}

	if err := s.store.Members().Update(ctx, &models.Member{ID: id, Name: name, Email: email}); err != nil {
		return nil, notFoundAs(err, ErrMemberNotFound)
	}

	detail, err := s.GetMember(ctx, id, today)
	if err != nil {
		return nil, err
	}
	return detail.Member, nil
}

func (s *memberService) GetMember(ctx context.Context, id string, today time.Time) (*MemberDetail, error) {
	member, err := s.store.Members().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrMemberNotFound)
	}

	if member.AmountDue, err = s.store.Loans().SumOverdueFines(ctx, id, today); err != nil {
		return nil, err
	}

	loans, err := s.store.Loans().ListActiveByMember(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.Payments().ListByMember(ctx, id)
	if err != nil {
		return nil, err
	}

	return &MemberDetail{Member: member, ActiveLoans: loans, Payments: payments}, nil
}

// SearchMembers lists everyone for an empty query. Each result carries its amount due as of today.
func (s *memberService) SearchMembers(ctx context.Context, query string, today time.Time) ([]models.Member, error) {
	var (
		members []models.Member
		err     error
	)
	if strings.TrimSpace(query) == "" {
		members, err = s.store.Members().List(ctx)
	} else {
		members, err = s.store.Members().SearchByName(ctx, query)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	dues, err := s.store.Loans().OverdueFinesByMember(ctx, ids, today)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].AmountDue = dues[members[i].ID] // zero value when absent
	}
	return members, nil
}

// ComputeAmountDue sums the fines on the member's unreturned loans whose return date has passed.
func (s *memberService) ComputeAmountDue(ctx context.Context, memberID string, today time.Time) (decimal.Decimal, error) {
	if _, err := s.store.Members().GetByID(ctx, memberID); err != nil {
		return decimal.Zero, notFoundAs(err, ErrMemberNotFound)
	}
	return s.store.Loans().SumOverdueFines(ctx, memberID, today)
}

// DeleteMember removes the member with their loans and payments. Books still out on
// one of their loans go back on the shelf first.
func (s *memberService) DeleteMember(ctx context.Context, id string) error {
	return s.store.WithinTransaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Members().GetByID(ctx, id); err != nil {
			return notFoundAs(err, ErrMemberNotFound)
		}

		active, err := tx.Loans().ListActiveByMember(ctx, id)
		if err != nil {
			return err
		}
		for _, loan := range active {
			if err := adjustQuantity(ctx, tx, loan.BookID, +1); err != nil {
				return err
			}
		}

		if err := tx.Loans().DeleteByMember(ctx, id); err != nil {
			return err
		}
		if err := tx.Payments().DeleteByMember(ctx, id); err != nil {
			return err
		}
		return tx.Members().Delete(ctx, id)
	})
}

func validateMember(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	fields := FieldErrors{}
	if name == "" {
		fields.Add("name", "This field is required.")
	} else if len(name) > 100 {
		fields.Add("name", "Ensure this value has at most 100 characters.")
	}
	if email == "" {
		fields.Add("email", "This field is required.")
	} else if err := validate.Var(email, "email,max=254"); err != nil {
		fields.Add("email", "Enter a valid email address.")
	}
	return name, email, fields.Err()
}
