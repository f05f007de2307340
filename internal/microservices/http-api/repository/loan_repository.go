package repository

import (
	"context"
	"fmt"
	"time"

	"libraryhub/internal/microservices/http-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LoanRepository interface {
	Create(ctx context.Context, loan *models.BorrowedBook) error
	GetByID(ctx context.Context, id string) (*models.BorrowedBook, error)
	List(ctx context.Context) ([]models.BorrowedBook, error)
	SearchByBook(ctx context.Context, query string) ([]models.BorrowedBook, error)
	ListActiveByMember(ctx context.Context, memberID string) ([]models.BorrowedBook, error)
	ListOverdue(ctx context.Context, today time.Time) ([]models.BorrowedBook, error)
	UpdateFine(ctx context.Context, id string, fine decimal.Decimal, remarks *string) error
	MarkReturned(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteByMember(ctx context.Context, memberID string) error
	DeleteByBook(ctx context.Context, bookID string) error
	SumOverdueFines(ctx context.Context, memberID string, today time.Time) (decimal.Decimal, error)
	SumOutstandingFines(ctx context.Context, memberID string) (decimal.Decimal, error)
	OverdueFinesByMember(ctx context.Context, memberIDs []string, today time.Time) (map[string]decimal.Decimal, error)
}

type loanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *models.BorrowedBook) error {
	if err := r.db.WithContext(ctx).Omit("Member", "Book").Create(loan).Error; err != nil {
		return fmt.Errorf("create loan: %w", translate(err))
	}
	return nil
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (*models.BorrowedBook, error) {
	var loan models.BorrowedBook
	if err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Book").
		First(&loan, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get loan: %w", translate(err))
	}
	return &loan, nil
}

func (r *loanRepository) List(ctx context.Context) ([]models.BorrowedBook, error) {
	var loans []models.BorrowedBook
	if err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Book").
		Order("issue_date DESC, created_at DESC").
		Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

// SearchByBook finds loans whose book title or author contains the query, ignoring case.
func (r *loanRepository) SearchByBook(ctx context.Context, query string) ([]models.BorrowedBook, error) {
	var loans []models.BorrowedBook
	p := likePattern(query)
	if err := r.db.WithContext(ctx).
		Joins("JOIN books ON books.id = borrowed_books.book_id").
		Where(`LOWER(books.title) LIKE ? ESCAPE '\' OR LOWER(books.author) LIKE ? ESCAPE '\'`, p, p).
		Preload("Member").
		Preload("Book").
		Order("borrowed_books.issue_date DESC, borrowed_books.created_at DESC").
		Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("search loans: %w", err)
	}
	return loans, nil
}

func (r *loanRepository) ListActiveByMember(ctx context.Context, memberID string) ([]models.BorrowedBook, error) {
	var loans []models.BorrowedBook
	if err := r.db.WithContext(ctx).
		Where("member_id = ? AND returned = ?", memberID, false).
		Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("list active loans: %w", err)
	}
	return loans, nil
}

// ListOverdue returns every unreturned loan due before today, grouped by member, oldest first.
func (r *loanRepository) ListOverdue(ctx context.Context, today time.Time) ([]models.BorrowedBook, error) {
	var loans []models.BorrowedBook
	if err := r.db.WithContext(ctx).
		Where("returned = ? AND return_date < ?", false, models.DateOf(today)).
		Order("member_id ASC, return_date ASC").
		Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("list overdue loans: %w", err)
	}
	return loans, nil
}

// UpdateFine sets the fine and remarks of a loan that is still out.
func (r *loanRepository) UpdateFine(ctx context.Context, id string, fine decimal.Decimal, remarks *string) error {
	updates := map[string]interface{}{"fine": fine}
	if remarks != nil {
		updates["remarks"] = *remarks
	}

	result := r.db.WithContext(ctx).
		Model(&models.BorrowedBook{}).
		Where("id = ? AND returned = ?", id, false).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update fine: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.inactiveOrMissing(ctx, id)
	}
	return nil
}

// MarkReturned flips an active loan to returned. It matches returned = false so a
// loan can only ever be closed once.
func (r *loanRepository) MarkReturned(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&models.BorrowedBook{}).
		Where("id = ? AND returned = ?", id, false).
		Update("returned", true)
	if result.Error != nil {
		return fmt.Errorf("mark returned: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.inactiveOrMissing(ctx, id)
	}
	return nil
}

func (r *loanRepository) inactiveOrMissing(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BorrowedBook{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check loan: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("loan %s: %w", id, ErrRecordNotFound)
	}
	return fmt.Errorf("loan %s: %w", id, ErrNotActive)
}

func (r *loanRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.BorrowedBook{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete loan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete loan: %w", ErrRecordNotFound)
	}
	return nil
}

func (r *loanRepository) DeleteByMember(ctx context.Context, memberID string) error {
	if err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Delete(&models.BorrowedBook{}).Error; err != nil {
		return fmt.Errorf("delete member loans: %w", err)
	}
	return nil
}

func (r *loanRepository) DeleteByBook(ctx context.Context, bookID string) error {
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&models.BorrowedBook{}).Error; err != nil {
		return fmt.Errorf("delete book loans: %w", err)
	}
	return nil
}

// SumOverdueFines adds up the fines on a member's unreturned loans that are past due.
func (r *loanRepository) SumOverdueFines(ctx context.Context, memberID string, today time.Time) (decimal.Decimal, error) {
	var sum struct {
		Total decimal.Decimal
	}

	err := r.db.WithContext(ctx).
		Model(&models.BorrowedBook{}).
		Select("COALESCE(SUM(fine), 0) AS total").
		Where("member_id = ? AND returned = ? AND return_date < ?", memberID, false, models.DateOf(today)).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum overdue fines: %w", err)
	}
	return sum.Total, nil
}

// SumOutstandingFines adds up the fines on every loan the member still holds, due or not.
// This is what the member's amount due will reach once all of them are overdue.
func (r *loanRepository) SumOutstandingFines(ctx context.Context, memberID string) (decimal.Decimal, error) {
	var sum struct {
		Total decimal.Decimal
	}

	err := r.db.WithContext(ctx).
		Model(&models.BorrowedBook{}).
		Select("COALESCE(SUM(fine), 0) AS total").
		Where("member_id = ? AND returned = ?", memberID, false).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum outstanding fines: %w", err)
	}
	return sum.Total, nil
}

// OverdueFinesByMember is SumOverdueFines for many members in one query.
// Members without overdue fines are absent from the map.
func (r *loanRepository) OverdueFinesByMember(ctx context.Context, memberIDs []string, today time.Time) (map[string]decimal.Decimal, error) {
	totals := make(map[string]decimal.Decimal, len(memberIDs))
	if len(memberIDs) == 0 {
		return totals, nil
	}

	var rows []struct {
		MemberID string
		Total    decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.BorrowedBook{}).
		Select("member_id, COALESCE(SUM(fine), 0) AS total").
		Where("member_id IN ? AND returned = ? AND return_date < ?", memberIDs, false, models.DateOf(today)).
		Group("member_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum overdue fines by member: %w", err)
	}

	for _, row := range rows {
		totals[row.MemberID] = row.Total
	}
	return totals, nil
}
