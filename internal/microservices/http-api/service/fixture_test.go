package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

// testNow is mid morning at the desk on 1 March 2026.
var testNow = time.Date(2026, 3, 1, 10, 30, 0, 0, ist)

type fixture struct {
	ctx      context.Context
	db       *gorm.DB
	store    *repository.Store
	catalog  CatalogService
	members  MemberService
	loans    LoanService
	payments PaymentService
	lending  LendingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	store := repository.NewStore(db)
	policy := DefaultLoanPolicy()

	return &fixture{
		ctx:      context.Background(),
		db:       db,
		store:    store,
		catalog:  NewCatalogService(store),
		members:  NewMemberService(store),
		loans:    NewLoanService(store, policy),
		payments: NewPaymentService(store),
		lending:  NewLendingService(store, policy),
	}
}

func (f *fixture) book(t *testing.T, serial, fee string, quantity int) *models.Book {
	t.Helper()
	book, err := f.catalog.AddBook(f.ctx, AddBookInput{
		Title:        "Title " + serial,
		Author:       "Author " + serial,
		SerialNo:     serial,
		Category:     "fiction",
		Quantity:     quantity,
		BorrowingFee: decimal.RequireFromString(fee),
	})
	require.NoError(t, err)
	return book
}

func (f *fixture) member(t *testing.T, name string) *models.Member {
	t.Helper()
	member, err := f.members.AddMember(f.ctx, name, "member@example.com")
	require.NoError(t, err)
	return member
}

func (f *fixture) reloadBook(t *testing.T, id string) *models.Book {
	t.Helper()
	book, err := f.catalog.GetBook(f.ctx, id)
	require.NoError(t, err)
	return book
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

// backdate moves a loan's dates so it fell due daysAgo days before testNow.
func (f *fixture) backdate(t *testing.T, loanID string, daysAgo int) {
	t.Helper()
	due := models.DateOf(testNow).AddDate(0, 0, -daysAgo)
	require.NoError(t, f.db.Model(&models.BorrowedBook{}).Where("id = ?", loanID).
		Updates(map[string]interface{}{
			"return_date": due,
			"issue_date":  due.AddDate(0, 0, -models.DefaultLoanPeriodDays),
		}).Error)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
