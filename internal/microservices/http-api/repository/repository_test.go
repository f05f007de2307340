package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var today = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

// RepositorySuite gives every test a fresh migrated database.
type RepositorySuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewStore(testutil.NewTestDB(s.T()))
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) book(serial string, qty int) *models.Book {
	book := &models.Book{
		Title:        "Book " + serial,
		Author:       "Author " + serial,
		SerialNo:     serial,
		Category:     "fiction",
		Quantity:     qty,
		BorrowingFee: decimal.NewFromInt(1),
	}
	s.Require().NoError(s.store.Books().Create(s.ctx, book))
	return book
}

func (s *RepositorySuite) member(name string) *models.Member {
	member := &models.Member{Name: name, Email: "member@example.com"}
	s.Require().NoError(s.store.Members().Create(s.ctx, member))
	return member
}

func (s *RepositorySuite) loan(member *models.Member, book *models.Book, due time.Time, fine string) *models.BorrowedBook {
	loan := &models.BorrowedBook{
		MemberID:   member.ID,
		BookID:     book.ID,
		IssueDate:  due.AddDate(0, 0, -15),
		ReturnDate: due,
		Fine:       decimal.RequireFromString(fine),
	}
	s.Require().NoError(s.store.Loans().Create(s.ctx, loan))
	return loan
}

func (s *RepositorySuite) TestBooks_AdjustQuantity() {
	book := s.book("SN-1", 1)

	s.Require().NoError(s.store.Books().AdjustQuantity(s.ctx, book.ID, -1))
	got, err := s.store.Books().GetByID(s.ctx, book.ID)
	s.Require().NoError(err)
	s.Equal(0, got.Quantity)
	s.Equal(models.BookNotAvailable, got.Status)

	s.ErrorIs(s.store.Books().AdjustQuantity(s.ctx, book.ID, -1), ErrNegativeStock)
	s.ErrorIs(s.store.Books().AdjustQuantity(s.ctx, "no-such-book", 1), ErrRecordNotFound)

	s.Require().NoError(s.store.Books().AdjustQuantity(s.ctx, book.ID, 3))
	got, err = s.store.Books().GetByID(s.ctx, book.ID)
	s.Require().NoError(err)
	s.Equal(3, got.Quantity)
	s.Equal(models.BookAvailable, got.Status)
}

func (s *RepositorySuite) TestBooks_DuplicateSerial() {
	s.book("SN-1", 1)

	err := s.store.Books().Create(s.ctx, &models.Book{
		Title: "Other", Author: "Other", SerialNo: "SN-1", Category: "other",
	})
	s.ErrorIs(err, ErrDuplicateKey)
}

func (s *RepositorySuite) TestLoans_MarkReturnedOnce() {
	loan := s.loan(s.member("Alice"), s.book("SN-1", 1), today, "0")

	s.Require().NoError(s.store.Loans().MarkReturned(s.ctx, loan.ID))
	s.ErrorIs(s.store.Loans().MarkReturned(s.ctx, loan.ID), ErrNotActive)
	s.ErrorIs(s.store.Loans().MarkReturned(s.ctx, "missing"), ErrRecordNotFound)
	s.ErrorIs(s.store.Loans().UpdateFine(s.ctx, loan.ID, decimal.NewFromInt(3), nil), ErrNotActive)
}

func (s *RepositorySuite) TestLoans_OverdueQueries() {
	alice := s.member("Alice")
	bob := s.member("Bob")
	book := s.book("SN-1", 5)

	s.loan(alice, book, today.AddDate(0, 0, -2), "4")
	s.loan(alice, book, today, "9") // due today, not overdue
	s.loan(bob, book, today.AddDate(0, 0, -1), "1.5")
	returned := s.loan(bob, book, today.AddDate(0, 0, -5), "20")
	s.Require().NoError(s.store.Loans().MarkReturned(s.ctx, returned.ID))

	overdue, err := s.store.Loans().ListOverdue(s.ctx, today)
	s.Require().NoError(err)
	s.Len(overdue, 2)

	sum, err := s.store.Loans().SumOverdueFines(s.ctx, alice.ID, today)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(4).Equal(sum), sum.String())

	totals, err := s.store.Loans().OverdueFinesByMember(s.ctx, []string{alice.ID, bob.ID}, today)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(4).Equal(totals[alice.ID]))
	s.True(decimal.RequireFromString("1.5").Equal(totals[bob.ID]))

	active, err := s.store.Loans().ListActiveByMember(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Len(active, 1)

	outstanding, err := s.store.Loans().SumOutstandingFines(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(13).Equal(outstanding), outstanding.String())
}

func (s *RepositorySuite) TestLoans_SearchByBook() {
	alice := s.member("Alice")
	s.loan(alice, s.book("Dune", 1), today, "0")
	s.loan(alice, s.book("Emma", 1), today, "0")

	loans, err := s.store.Loans().SearchByBook(s.ctx, "  DUNE ")
	s.Require().NoError(err)
	s.Require().Len(loans, 1)
	s.Require().NotNil(loans[0].Book)
	s.Equal("Book Dune", loans[0].Book.Title)
	s.Require().NotNil(loans[0].Member)
	s.Equal("Alice", loans[0].Member.Name)
}

func (s *RepositorySuite) TestPayments_Total() {
	alice := s.member("Alice")

	total, err := s.store.Payments().Total(s.ctx)
	s.Require().NoError(err)
	s.True(total.IsZero())

	for _, amount := range []string{"2.50", "4"} {
		s.Require().NoError(s.store.Payments().Create(s.ctx, &models.Transaction{
			MemberID:      alice.ID,
			Amount:        decimal.RequireFromString(amount),
			PaymentMethod: models.PaymentCash,
		}))
	}

	total, err = s.store.Payments().Total(s.ctx)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("6.5").Equal(total), total.String())
}

func (s *RepositorySuite) TestWithinTransaction_RollsBack() {
	book := s.book("SN-1", 2)
	boom := errors.New("boom")

	err := s.store.WithinTransaction(s.ctx, func(tx *Store) error {
		if err := tx.Books().AdjustQuantity(s.ctx, book.ID, -1); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.store.Books().GetByID(s.ctx, book.ID)
	s.Require().NoError(err)
	s.Equal(2, got.Quantity)
}

func (s *RepositorySuite) TestLibrarians() {
	librarian := &models.Librarian{Username: "desk", Email: "desk@example.com", Password: "hash"}
	s.Require().NoError(s.store.Librarians().Create(s.ctx, librarian))

	dup := &models.Librarian{Username: "desk", Email: "other@example.com", Password: "hash"}
	s.ErrorIs(s.store.Librarians().Create(s.ctx, dup), ErrDuplicateKey)

	_, err := s.store.Librarians().FindByUsername(s.ctx, "nobody")
	s.ErrorIs(err, ErrRecordNotFound)

	at := time.Date(2026, 3, 1, 5, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Librarians().TouchLastLogin(s.ctx, librarian.ID, at))
	got, err := s.store.Librarians().FindByID(s.ctx, librarian.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.LastLogin)
	s.True(at.Equal(*got.LastLogin))
}

func (s *RepositorySuite) TestSearch_WildcardsMatchLiterally() {
	s.member("Alice")
	s.member("Bob")
	s.member("100% Carl")

	tests := []struct {
		query string
		want  int
	}{
		{"%", 1},
		{"_", 0},
		{`\`, 0},
		{"0% c", 1},
		{"ALI", 1},
	}
	for _, tt := range tests {
		members, err := s.store.Members().SearchByName(s.ctx, tt.query)
		s.Require().NoError(err)
		s.Len(members, tt.want, "query %q", tt.query)
	}

	reader := s.member("Reader")
	s.loan(reader, s.book("Under_score", 1), today, "0")
	s.loan(reader, s.book("Plain", 1), today, "0")

	books, err := s.store.Books().Search(s.ctx, "_")
	s.Require().NoError(err)
	s.Len(books, 1)

	loans, err := s.store.Loans().SearchByBook(s.ctx, "b_o")
	s.Require().NoError(err)
	s.Empty(loans)
}
