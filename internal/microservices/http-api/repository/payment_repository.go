package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/microservices/http-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentRepository is the append-only ledger of money collected.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Transaction) error
	List(ctx context.Context) ([]models.Transaction, error)
	ListByMember(ctx context.Context, memberID string) ([]models.Transaction, error)
	Delete(ctx context.Context, id string) error
	DeleteByMember(ctx context.Context, memberID string) error
	Total(ctx context.Context) (decimal.Decimal, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Transaction) error {
	if err := r.db.WithContext(ctx).Omit("Member").Create(payment).Error; err != nil {
		return fmt.Errorf("record payment: %w", translate(err))
	}
	return nil
}

func (r *paymentRepository) List(ctx context.Context) ([]models.Transaction, error) {
	var payments []models.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Member").
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

func (r *paymentRepository) ListByMember(ctx context.Context, memberID string) ([]models.Transaction, error) {
	var payments []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list member payments: %w", err)
	}
	return payments, nil
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete payment: %w", ErrRecordNotFound)
	}
	return nil
}

func (r *paymentRepository) DeleteByMember(ctx context.Context, memberID string) error {
	if err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Delete(&models.Transaction{}).Error; err != nil {
		return fmt.Errorf("delete member payments: %w", err)
	}
	return nil
}

// Total sums every amount ever collected.
func (r *paymentRepository) Total(ctx context.Context) (decimal.Decimal, error) {
	var sum struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, fmt.Errorf("total payments: %w", err)
	}
	return sum.Total, nil
}
