package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxAmountDue is the ceiling on what a single member may owe in fines.
var MaxAmountDue = decimal.NewFromInt(500)

type Member struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"size:100;not null;index" json:"name"`
	Email     string    `gorm:"size:254;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// AmountDue is computed from the member's overdue loans on every read, never stored.
	AmountDue decimal.Decimal `gorm:"-" json:"amount_due"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

func (Member) TableName() string {
	return "members"
}
