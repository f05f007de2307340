package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentUPI:
		return true
	}
	return false
}

// Transaction is money collected from a member, either a borrowing fee or a fine.
type Transaction struct {
	ID            string          `gorm:"primaryKey;type:uuid" json:"id"`
	MemberID      string          `gorm:"type:uuid;not null;index" json:"member_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"amount"`
	PaymentMethod PaymentMethod   `gorm:"size:20;not null" json:"payment_method"`
	FinePaid      bool            `gorm:"not null;default:false" json:"fine_paid"`
	Remarks       *string         `gorm:"type:text" json:"remarks,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`

	// Associations
	Member *Member `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE;" json:"member,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return
}

func (Transaction) TableName() string {
	return "transactions"
}
