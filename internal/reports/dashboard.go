// Package reports answers the read-only questions the front desk dashboard asks.
// Queries are built with goqu and run through sqlx on the pool gorm already holds.
package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	tableMembers      = "members"
	tableBooks        = "books"
	tableLoans        = "borrowed_books"
	tablePayments     = "transactions"
	colReturned       = "returned"
	colReturnDate     = "return_date"
	colCreatedAt      = "created_at"
	colAmount         = "amount"
	colFine           = "fine"
	recentBooksLimit  = 4
	dialectPostgres   = "postgres"
	dialectSQLite     = "sqlite3"
	driverPostgres    = "pgx"
	driverSQLite      = "sqlite3"
	gormNamePostgres  = "postgres"
	gormNameSQLite    = "sqlite"
	logMsgUnsupported = "unsupported database dialect"
)

var ErrUnsupportedDialect = errors.New(logMsgUnsupported)

// RecentBook is a shelf entry as the dashboard lists it.
type RecentBook struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Author    string    `db:"author" json:"author"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Dashboard is the front desk summary.
type Dashboard struct {
	TotalMembers      int64           `json:"total_members"`
	TotalBooks        int64           `json:"total_books"`
	ActiveLoans       int64           `json:"total_borrowed_books"`
	OverdueLoans      int64           `json:"total_overdue_books"`
	RecentBooks       []RecentBook    `json:"recently_added_books"`
	TotalCollected    decimal.Decimal `json:"total_amount"`
	TotalOverdueFines decimal.Decimal `json:"overdue_amount"`
}

type Reader struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

// NewReader wraps an open pool. dialect is a goqu dialect name ("postgres" or "sqlite3").
func NewReader(db *sql.DB, driverName, dialect string) *Reader {
	return &Reader{
		db:      sqlx.NewDb(db, driverName),
		dialect: goqu.Dialect(dialect),
	}
}

// FromGorm builds a Reader on the connection pool behind gdb.
func FromGorm(gdb *gorm.DB) (*Reader, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}

	switch gdb.Dialector.Name() {
	case gormNamePostgres:
		return NewReader(sqlDB, driverPostgres, dialectPostgres), nil
	case gormNameSQLite:
		return NewReader(sqlDB, driverSQLite, dialectSQLite), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, gdb.Dialector.Name())
	}
}

// Dashboard collects every dashboard figure. A loan is overdue when it is still out and
// its return date is before today.
func (r *Reader) Dashboard(ctx context.Context, today time.Time) (*Dashboard, error) {
	d := &Dashboard{RecentBooks: []RecentBook{}}
	active := goqu.Ex{colReturned: false}
	overdue := goqu.And(active, goqu.C(colReturnDate).Lt(today))

	counts := []struct {
		target *int64
		query  *goqu.SelectDataset
	}{
		{&d.TotalMembers, r.count(tableMembers)},
		{&d.TotalBooks, r.count(tableBooks)},
		{&d.ActiveLoans, r.count(tableLoans).Where(active)},
		{&d.OverdueLoans, r.count(tableLoans).Where(overdue)},
	}
	for _, c := range counts {
		if err := r.get(ctx, c.target, c.query); err != nil {
			return nil, err
		}
	}

	if err := r.get(ctx, &d.TotalCollected, r.sum(tablePayments, colAmount)); err != nil {
		return nil, err
	}
	if err := r.get(ctx, &d.TotalOverdueFines, r.sum(tableLoans, colFine).Where(overdue)); err != nil {
		return nil, err
	}

	recent := r.dialect.From(tableBooks).
		Select("id", "title", "author", "quantity", "status", colCreatedAt).
		Order(goqu.I(colCreatedAt).Desc()).
		Limit(recentBooksLimit)
	if err := r.selectRows(ctx, &d.RecentBooks, recent); err != nil {
		return nil, err
	}

	return d, nil
}

func (r *Reader) count(table string) *goqu.SelectDataset {
	return r.dialect.From(table).Select(goqu.COUNT(goqu.Star()))
}

func (r *Reader) sum(table, col string) *goqu.SelectDataset {
	return r.dialect.From(table).Select(goqu.COALESCE(goqu.SUM(col), goqu.L("0")))
}

func (r *Reader) get(ctx context.Context, dest interface{}, stmt *goqu.SelectDataset) error {
	query, args, err := stmt.Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build report query: %w", err)
	}
	if err := r.db.GetContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("run report query: %w", err)
	}
	return nil
}

func (r *Reader) selectRows(ctx context.Context, dest interface{}, stmt *goqu.SelectDataset) error {
	query, args, err := stmt.Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build report query: %w", err)
	}
	if err := r.db.SelectContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("run report query: %w", err)
	}
	return nil
}
