package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"

	"github.com/shopspring/decimal"
)

type AddBookInput struct {
	Title        string
	Author       string
	SerialNo     string
	Category     string
	Quantity     int
	BorrowingFee decimal.Decimal
}

type CatalogService interface {
	AddBook(ctx context.Context, in AddBookInput) (*models.Book, error)
	GetBook(ctx context.Context, id string) (*models.Book, error)
	SearchBooks(ctx context.Context, query string) ([]models.Book, error)
	AdjustQuantity(ctx context.Context, id string, delta int) (*models.Book, error)
	DeleteBook(ctx context.Context, id string) error
}

type catalogService struct {
	store *repository.Store
}

func NewCatalogService(store *repository.Store) CatalogService {
	return &catalogService{store: store}
}

func (s *catalogService) AddBook(ctx context.Context, in AddBookInput) (*models.Book, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.SerialNo = strings.TrimSpace(in.SerialNo)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))

	fields := FieldErrors{}
	requireText(fields, "title", in.Title, 100)
	requireText(fields, "author", in.Author, 100)
	requireText(fields, "serial_no", in.SerialNo, 50)
	if !models.IsCategory(in.Category) {
		fields.Add("category", "Select a valid choice.")
	}
	if in.Quantity < 0 {
		fields.Add("quantity", "Ensure this value is greater than or equal to 0.")
	}
	if in.BorrowingFee.LessThan(models.MinBorrowingFee) {
		fields.Add("borrowing_fee", "Ensure this value is greater than or equal to 1.00.")
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	// Check if serial number is already shelved
	exists, err := s.store.Books().ExistsBySerialNo(ctx, in.SerialNo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSerialNoTaken
	}

	book := &models.Book{
		Title:        in.Title,
		Author:       in.Author,
		SerialNo:     in.SerialNo,
		Category:     in.Category,
		Quantity:     in.Quantity,
		BorrowingFee: in.BorrowingFee.Round(2),
	}
	if err := s.store.Books().Create(ctx, book); err != nil {
		// a concurrent insert can still win the unique index
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSerialNoTaken
		}
		return nil, err
	}
	return book, nil
}

func (s *catalogService) GetBook(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.store.Books().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrBookNotFound)
	}
	return book, nil
}

// SearchBooks lists the whole catalog for an empty query.
func (s *catalogService) SearchBooks(ctx context.Context, query string) ([]models.Book, error) {
	if strings.TrimSpace(query) == "" {
		return s.store.Books().List(ctx)
	}
	return s.store.Books().Search(ctx, query)
}

func (s *catalogService) AdjustQuantity(ctx context.Context, id string, delta int) (*models.Book, error) {
	if err := adjustQuantity(ctx, s.store, id, delta); err != nil {
		return nil, err
	}
	return s.GetBook(ctx, id)
}

// DeleteBook removes the book together with every loan of it.
func (s *catalogService) DeleteBook(ctx context.Context, id string) error {
	return s.store.WithinTransaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Books().GetByID(ctx, id); err != nil {
			return notFoundAs(err, ErrBookNotFound)
		}
		if err := tx.Loans().DeleteByBook(ctx, id); err != nil {
			return err
		}
		return tx.Books().Delete(ctx, id)
	})
}

// adjustQuantity is shared by every workflow that moves stock, inside or outside a transaction.
func adjustQuantity(ctx context.Context, store *repository.Store, bookID string, delta int) error {
	err := store.Books().AdjustQuantity(ctx, bookID, delta)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrRecordNotFound):
		return ErrBookNotFound
	case errors.Is(err, repository.ErrNegativeStock):
		return ErrOutOfStock
	default:
		return err
	}
}

// requireText checks a mandatory text field against its column width.
func requireText(fields FieldErrors, field, value string, limit int) {
	switch {
	case value == "":
		fields.Add(field, "This field is required.")
	case utf8.RuneCountInString(value) > limit:
		fields.Add(field, fmt.Sprintf("Ensure this value has at most %d characters.", limit))
	}
}

// notFoundAs swaps a repository miss for the service level sentinel.
func notFoundAs(err error, notFound error) error {
	if errors.Is(err, repository.ErrRecordNotFound) {
		return notFound
	}
	return err
}
