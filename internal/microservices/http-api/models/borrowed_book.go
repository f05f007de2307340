package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultLoanPeriodDays is how long a book may be kept before it becomes overdue.
const DefaultLoanPeriodDays = 15

type LoanState string

const (
	LoanActive   LoanState = "active"
	LoanReturned LoanState = "returned"
)

// BorrowedBook is one copy of a book lent to a member.
type BorrowedBook struct {
	ID         string          `gorm:"primaryKey;type:uuid" json:"id"`
	MemberID   string          `gorm:"type:uuid;not null;index" json:"member_id"`
	BookID     string          `gorm:"type:uuid;not null;index" json:"book_id"`
	IssueDate  time.Time       `gorm:"type:date;not null" json:"issue_date"`
	ReturnDate time.Time       `gorm:"type:date;not null;index" json:"return_date"`
	Remarks    *string         `gorm:"type:text" json:"remarks,omitempty"`
	Returned   bool            `gorm:"not null;default:false;index" json:"returned"`
	Fine       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"fine"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Associations
	Member *Member `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE;" json:"member,omitempty"`
	Book   *Book   `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;" json:"book,omitempty"`
}

func (b *BorrowedBook) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

func (BorrowedBook) TableName() string {
	return "borrowed_books"
}

func (b *BorrowedBook) State() LoanState {
	if b.Returned {
		return LoanReturned
	}
	return LoanActive
}

// IsOverdue reports whether the loan is still out past its return date.
// A book due today is not overdue yet.
func (b *BorrowedBook) IsOverdue(today time.Time) bool {
	return !b.Returned && b.ReturnDate.Before(DateOf(today))
}

// OverdueDays is the number of whole days past the return date, 0 when not overdue.
func (b *BorrowedBook) OverdueDays(today time.Time) int {
	if !b.IsOverdue(today) {
		return 0
	}
	return int(DateOf(today).Sub(b.ReturnDate).Hours() / 24)
}

// DateOf strips the clock from t, keeping the calendar date of t's own location.
// Dates are stored as UTC midnight so they compare the same way in every database.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
