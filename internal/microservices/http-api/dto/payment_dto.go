package dto

import (
	"time"

	"libraryhub/internal/microservices/http-api/models"
)

type PaymentResponse struct {
	ID            string          `json:"id"`
	MemberID      string          `json:"member_id"`
	Amount        string          `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	FinePaid      bool            `json:"fine_paid"`
	Remarks       string          `json:"remarks,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	Member        *MemberResponse `json:"member,omitempty"`
}

type PaymentListResponse struct {
	Payments       []PaymentResponse `json:"payments"`
	Total          int               `json:"total"`
	TotalCollected string            `json:"total_collected"`
}

func FromPayment(p models.Transaction) PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID,
		MemberID:      p.MemberID,
		Amount:        p.Amount.StringFixed(2),
		PaymentMethod: string(p.PaymentMethod),
		FinePaid:      p.FinePaid,
		CreatedAt:     p.CreatedAt,
	}
	if p.Remarks != nil {
		resp.Remarks = *p.Remarks
	}
	if p.Member != nil {
		m := FromMember(*p.Member)
		resp.Member = &m
	}
	return resp
}

func FromPayments(payments []models.Transaction) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return out
}
