package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookStatus string

const (
	BookAvailable    BookStatus = "available"
	BookNotAvailable BookStatus = "not-available"
)

// Categories lists every shelf category a book can be filed under.
var Categories = []string{
	"fiction",
	"non-fiction",
	"biography",
	"history",
	"science",
	"poetry",
	"drama",
	"religion",
	"children",
	"other",
}

// MinBorrowingFee is the lowest fee a book can be lent for.
var MinBorrowingFee = decimal.NewFromInt(1)

type Book struct {
	ID           string          `gorm:"primaryKey;type:uuid" json:"id"`
	Title        string          `gorm:"size:100;not null" json:"title"`
	Author       string          `gorm:"size:100;not null" json:"author"`
	SerialNo     string          `gorm:"size:50;uniqueIndex;not null" json:"serial_no"`
	Category     string          `gorm:"size:20;not null" json:"category"`
	Quantity     int             `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	BorrowingFee decimal.Decimal `gorm:"type:decimal(10,2);not null;default:1.00" json:"borrowing_fee"`
	Status       BookStatus      `gorm:"size:20;not null;default:'available'" json:"status"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BeforeCreate assigns the UUID and derives the status from the starting quantity.
func (b *Book) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.Status = StatusForQuantity(b.Quantity)
	return
}

// StatusForQuantity is the only place availability is derived from stock.
func StatusForQuantity(quantity int) BookStatus {
	if quantity > 0 {
		return BookAvailable
	}
	return BookNotAvailable
}

func IsCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func (Book) TableName() string {
	return "books"
}
