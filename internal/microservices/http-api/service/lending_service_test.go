package service

import (
	"testing"

	"libraryhub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLend_ThreeBooksOnePayment(t *testing.T) {
	f := newFixture(t)
	member := f.member(t, "Alice")
	a := f.book(t, "SN-1", "1.00", 2)
	b := f.book(t, "SN-2", "2.50", 1)
	c := f.book(t, "SN-3", "3.00", 5)

	last, err := f.lending.Lend(f.ctx, LendInput{
		MemberID:      member.ID,
		BookIDs:       []string{a.ID, b.ID, c.ID},
		PaymentMethod: models.PaymentCard,
		Remarks:       "weekend reading",
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, c.ID, last.BookID)
	assert.Equal(t, int64(3), f.count(t, &models.BorrowedBook{}))

	payments, err := f.payments.ListPayments(f.ctx)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "6.50", payments[0].Amount.StringFixed(2))
	assert.False(t, payments[0].FinePaid)
	assert.Equal(t, models.PaymentCard, payments[0].PaymentMethod)

	assert.Equal(t, 1, f.reloadBook(t, a.ID).Quantity)
	assert.Equal(t, models.BookNotAvailable, f.reloadBook(t, b.ID).Status)
	assert.Equal(t, 4, f.reloadBook(t, c.ID).Quantity)
}

func TestLend_EmptySelection(t *testing.T) {
	f := newFixture(t)
	member := f.member(t, "Alice")

	_, err := f.lending.Lend(f.ctx, LendInput{MemberID: member.ID, PaymentMethod: models.PaymentCash}, testNow)

	assert.ErrorIs(t, err, ErrNoBooksSelected)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "Please select at least one book")
	assert.Zero(t, f.count(t, &models.BorrowedBook{}))
	assert.Zero(t, f.count(t, &models.Transaction{}))
}

func TestLend_RollsBackOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		wantErr error
		books   func(f *fixture, t *testing.T) []string
	}{
		{
			name:    "missing book",
			wantErr: ErrBookNotFound,
			books: func(f *fixture, t *testing.T) []string {
				return []string{f.book(t, "SN-1", "1.00", 1).ID, "00000000-0000-0000-0000-000000000000"}
			},
		},
		{
			name:    "out of stock",
			wantErr: ErrOutOfStock,
			books: func(f *fixture, t *testing.T) []string {
				return []string{f.book(t, "SN-1", "1.00", 1).ID, f.book(t, "SN-2", "1.00", 0).ID}
			},
		},
		{
			name:    "same copy twice",
			wantErr: ErrOutOfStock,
			books: func(f *fixture, t *testing.T) []string {
				id := f.book(t, "SN-1", "1.00", 1).ID
				return []string{id, id}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			member := f.member(t, "Alice")
			ids := tt.books(f, t)

			_, err := f.lending.Lend(f.ctx, LendInput{MemberID: member.ID, BookIDs: ids, PaymentMethod: models.PaymentCash}, testNow)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.count(t, &models.BorrowedBook{}))
			assert.Zero(t, f.count(t, &models.Transaction{}))
			assert.Equal(t, 1, f.reloadBook(t, ids[0]).Quantity)
		})
	}
}

func TestLend_InvalidInput(t *testing.T) {
	f := newFixture(t)
	member := f.member(t, "Alice")
	book := f.book(t, "SN-1", "1.00", 1)

	_, err := f.lending.Lend(f.ctx, LendInput{MemberID: member.ID, BookIDs: []string{book.ID}, PaymentMethod: "barter"}, testNow)
	assert.ErrorIs(t, err, ErrInvalidPayment)

	_, err = f.lending.Lend(f.ctx, LendInput{BookIDs: []string{book.ID}, PaymentMethod: models.PaymentCash}, testNow)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.lending.Lend(f.ctx, LendInput{MemberID: "00000000-0000-0000-0000-000000000000", BookIDs: []string{book.ID}, PaymentMethod: models.PaymentCash}, testNow)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	assert.Equal(t, 1, f.reloadBook(t, book.ID).Quantity)
}
