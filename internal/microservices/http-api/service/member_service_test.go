package service

import (
	"testing"

	"libraryhub/internal/microservices/http-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMember_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.members.AddMember(f.ctx, "  ", "nope")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "This field is required.", verr.Fields["name"])
	assert.Equal(t, "Enter a valid email address.", verr.Fields["email"])
}

func TestSearchMembers_CaseInsensitive(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"Alice", "ALISON", "Khalid", "Bob", "Natalia"} {
		f.member(t, name)
	}

	found, err := f.members.SearchMembers(f.ctx, "ali", testNow)
	require.NoError(t, err)

	names := make([]string, 0, len(found))
	for _, m := range found {
		names = append(names, m.Name)
	}
	assert.ElementsMatch(t, []string{"Alice", "ALISON", "Khalid", "Natalia"}, names)

	everyone, err := f.members.SearchMembers(f.ctx, "", testNow)
	require.NoError(t, err)
	assert.Len(t, everyone, 5)
}

func TestAmountDue_CountsOnlyOverdueFines(t *testing.T) {
	f := newFixture(t)
	member := f.member(t, "Alice")
	other := f.member(t, "Bob")
	books := []*models.Book{f.book(t, "SN-1", "1.00", 2), f.book(t, "SN-2", "1.00", 2), f.book(t, "SN-3", "1.00", 2)}

	overdue, err := f.loans.Issue(f.ctx, member.ID, books[0].ID, testNow)
	require.NoError(t, err)
	notYetDue, err := f.loans.Issue(f.ctx, member.ID, books[1].ID, testNow)
	require.NoError(t, err)
	returned, err := f.loans.Issue(f.ctx, member.ID, books[2].ID, testNow)
	require.NoError(t, err)
	othersLoan, err := f.loans.Issue(f.ctx, other.ID, books[0].ID, testNow)
	require.NoError(t, err)

	for _, id := range []string{overdue.ID, returned.ID, othersLoan.ID} {
		f.backdate(t, id, 2)
	}
	for id, fine := range map[string]int64{overdue.ID: 7, notYetDue.ID: 3, returned.ID: 11, othersLoan.ID: 13} {
		_, err := f.loans.SetFine(f.ctx, id, decimal.NewFromInt(fine), nil, testNow)
		require.NoError(t, err)
	}
	_, err = f.loans.MarkReturned(f.ctx, returned.ID, ReturnInput{})
	require.NoError(t, err)

	due, err := f.members.ComputeAmountDue(f.ctx, member.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, "7.00", due.StringFixed(2))

	found, err := f.members.SearchMembers(f.ctx, "", testNow)
	require.NoError(t, err)
	dues := map[string]string{}
	for _, m := range found {
		dues[m.Name] = m.AmountDue.StringFixed(2)
	}
	assert.Equal(t, map[string]string{"Alice": "7.00", "Bob": "13.00"}, dues)

	detail, err := f.members.GetMember(f.ctx, member.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, "7.00", detail.Member.AmountDue.StringFixed(2))
	assert.Len(t, detail.ActiveLoans, 2)
}

func TestUpdateMember(t *testing.T) {
	f := newFixture(t)
	member := f.member(t, "Alice")

	updated, err := f.members.UpdateMember(f.ctx, member.ID, "Alice Liddell", "alice@wonderland.org", testNow)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", updated.Name)
	assert.Equal(t, "alice@wonderland.org", updated.Email)

	_, err = f.members.UpdateMember(f.ctx, "00000000-0000-0000-0000-000000000000", "X", "x@example.com", testNow)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestDeleteMember_Cascades(t *testing.T) {
	f := newFixture(t)
	member := f.member(t, "Alice")
	keeper := f.member(t, "Bob")
	book := f.book(t, "SN-1", "2.00", 3)

	_, err := f.lending.Lend(f.ctx, LendInput{MemberID: member.ID, BookIDs: []string{book.ID, book.ID}, PaymentMethod: models.PaymentCash}, testNow)
	require.NoError(t, err)
	_, err = f.loans.Issue(f.ctx, keeper.ID, book.ID, testNow)
	require.NoError(t, err)
	require.Equal(t, 0, f.reloadBook(t, book.ID).Quantity)

	require.NoError(t, f.members.DeleteMember(f.ctx, member.ID))

	assert.Equal(t, 2, f.reloadBook(t, book.ID).Quantity)
	assert.Equal(t, int64(1), f.count(t, &models.Member{}))
	assert.Equal(t, int64(1), f.count(t, &models.BorrowedBook{}))
	assert.Zero(t, f.count(t, &models.Transaction{}))

	assert.ErrorIs(t, f.members.DeleteMember(f.ctx, member.ID), ErrMemberNotFound)
}
