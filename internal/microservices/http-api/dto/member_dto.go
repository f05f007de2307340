package dto

import (
	"time"

	"libraryhub/internal/microservices/http-api/models"
)

// MemberRequest: payload for adding or updating a member
type MemberRequest struct {
	Name  string `form:"name" json:"name" binding:"required,max=100"`
	Email string `form:"email" json:"email" binding:"required,email"`
}

type MemberResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AmountDue string    `json:"amount_due"`
	CreatedAt time.Time `json:"created_at"`
}

type MemberListResponse struct {
	Members []MemberResponse `json:"members"`
	Total   int              `json:"total"`
	Query   string           `json:"query,omitempty"`
}

// MemberDetailResponse: a member with the books they hold and what they have paid
type MemberDetailResponse struct {
	MemberResponse
	ActiveLoans []LoanResponse    `json:"active_loans"`
	Payments    []PaymentResponse `json:"payments"`
}

func FromMember(m models.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		AmountDue: m.AmountDue.StringFixed(2),
		CreatedAt: m.CreatedAt,
	}
}

func FromMembers(members []models.Member) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, FromMember(m))
	}
	return out
}
