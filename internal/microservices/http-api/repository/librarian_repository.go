package repository

import (
	"context"
	"fmt"
	"time"

	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// LibrarianRepository defines the data operations on staff accounts.
type LibrarianRepository interface {
	Create(ctx context.Context, librarian *models.Librarian) error
	FindByUsername(ctx context.Context, username string) (*models.Librarian, error)
	FindByID(ctx context.Context, id string) (*models.Librarian, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// librarianRepository is the GORM implementation of LibrarianRepository.
type librarianRepository struct {
	db *gorm.DB
}

func NewLibrarianRepository(db *gorm.DB) LibrarianRepository {
	return &librarianRepository{db: db}
}

func (r *librarianRepository) Create(ctx context.Context, librarian *models.Librarian) error {
	if err := r.db.WithContext(ctx).Create(librarian).Error; err != nil {
		return fmt.Errorf("create librarian: %w", translate(err))
	}
	return nil
}

func (r *librarianRepository) FindByUsername(ctx context.Context, username string) (*models.Librarian, error) {
	var librarian models.Librarian
	// return nil on a miss so callers never mistake a zero value for a found account
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&librarian).Error; err != nil {
		return nil, fmt.Errorf("find librarian: %w", translate(err))
	}
	return &librarian, nil
}

func (r *librarianRepository) FindByID(ctx context.Context, id string) (*models.Librarian, error) {
	var librarian models.Librarian
	if err := r.db.WithContext(ctx).First(&librarian, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("find librarian: %w", translate(err))
	}
	return &librarian, nil
}

func (r *librarianRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Librarian{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}
