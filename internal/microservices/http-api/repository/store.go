package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrNegativeStock  = errors.New("quantity would drop below zero")
	ErrNotActive      = errors.New("loan is no longer active")
)

// Store hands out repositories bound to one gorm handle, either the pool or an open transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Books() BookRepository {
	return NewBookRepository(s.db)
}

func (s *Store) Members() MemberRepository {
	return NewMemberRepository(s.db)
}

func (s *Store) Loans() LoanRepository {
	return NewLoanRepository(s.db)
}

func (s *Store) Payments() PaymentRepository {
	return NewPaymentRepository(s.db)
}

func (s *Store) Librarians() LibrarianRepository {
	return NewLibrarianRepository(s.db)
}

// WithinTransaction runs fn against a Store bound to a single transaction.
// The transaction commits only when fn returns nil; any error or panic rolls every write back.
func (s *Store) WithinTransaction(ctx context.Context, fn func(tx *Store) error) (err error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&Store{db: tx}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// translate maps driver level failures onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}

// isUniqueViolation covers both the translated gorm error and a raw postgres 23505.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// likeEscaper protects the LIKE wildcards so a query only ever matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive substring pattern for LOWER(column) LIKE ? ESCAPE '\'.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"
}
