package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id string) (*models.Book, error)
	ExistsBySerialNo(ctx context.Context, serialNo string) (bool, error)
	List(ctx context.Context) ([]models.Book, error)
	Search(ctx context.Context, query string) ([]models.Book, error)
	AdjustQuantity(ctx context.Context, id string, delta int) error
	Delete(ctx context.Context, id string) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", translate(err))
	}
	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get book: %w", translate(err))
	}
	return &book, nil
}

func (r *bookRepository) ExistsBySerialNo(ctx context.Context, serialNo string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("serial_no = ?", serialNo).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check serial number: %w", err)
	}
	return count > 0, nil
}

func (r *bookRepository) List(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Search matches the query anywhere in the title or the author, ignoring case.
func (r *bookRepository) Search(ctx context.Context, query string) ([]models.Book, error) {
	var books []models.Book
	p := likePattern(query)
	if err := r.db.WithContext(ctx).
		Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(author) LIKE ? ESCAPE '\'`, p, p).
		Order("created_at DESC").
		Find(&books).Error; err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}

// AdjustQuantity applies delta and re-derives the status in one conditional UPDATE,
// so two concurrent lends of the last copy cannot both succeed.
func (r *bookRepository) AdjustQuantity(ctx context.Context, id string, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", delta),
			"status": gorm.Expr("CASE WHEN quantity + ? > 0 THEN ? ELSE ? END",
				delta, string(models.BookAvailable), string(models.BookNotAvailable)),
		})
	if result.Error != nil {
		return fmt.Errorf("adjust quantity: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: tell a missing book apart from an empty shelf.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("adjust quantity by %d: %w", delta, ErrNegativeStock)
}

func (r *bookRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Book{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete book: %w", ErrRecordNotFound)
	}
	return nil
}
