package dto

import (
	"time"

	"libraryhub/internal/microservices/http-api/models"
)

// LendBookRequest: one visit to the desk, any number of books for one member.
// An empty book selection is reported by the lending workflow, not by binding.
type LendBookRequest struct {
	MemberID      string   `form:"member" json:"member_id" binding:"required"`
	BookIDs       []string `form:"book" json:"book_ids"`
	PaymentMethod string   `form:"payment_method" json:"payment_method" binding:"required,oneof=cash card upi"`
	Remarks       string   `form:"remarks" json:"remarks" binding:"max=500"`
}

// UpdateLoanRequest: fine assessed on a loan that is still out
type UpdateLoanRequest struct {
	Fine    string  `form:"fine" json:"fine" binding:"required,numeric"`
	Remarks *string `form:"remarks" json:"remarks" binding:"omitempty,max=500"`
}

// ReturnBookRequest: settles the fine, if any, and closes the loan
type ReturnBookRequest struct {
	PaymentMethod string `form:"payment_method" json:"payment_method" binding:"omitempty,oneof=cash card upi"`
	Remarks       string `form:"remarks" json:"remarks" binding:"max=500"`
	CollectFine   *bool  `form:"collect_fine" json:"collect_fine"`
}

type LoanResponse struct {
	ID          string          `json:"id"`
	MemberID    string          `json:"member_id"`
	BookID      string          `json:"book_id"`
	IssueDate   string          `json:"issue_date"`
	ReturnDate  string          `json:"return_date"`
	Status      string          `json:"status"`
	Overdue     bool            `json:"overdue"`
	OverdueDays int             `json:"overdue_days"`
	Fine        string          `json:"fine"`
	Remarks     string          `json:"remarks,omitempty"`
	Member      *MemberResponse `json:"member,omitempty"`
	Book        *BookResponse   `json:"book,omitempty"`
}

type LoanListResponse struct {
	Loans []LoanResponse `json:"loans"`
	Total int            `json:"total"`
	Query string         `json:"query,omitempty"`
}

// ReturnBookResponse: what the fine settlement page shows and returns
type ReturnBookResponse struct {
	Loan    LoanResponse     `json:"loan"`
	Payment *PaymentResponse `json:"payment,omitempty"`
}

type AccrueFinesResponse struct {
	Updated int `json:"updated"`
}

const dateLayout = "2006-01-02"

// FromLoan renders a loan as of today.
func FromLoan(l models.BorrowedBook, today time.Time) LoanResponse {
	resp := LoanResponse{
		ID:          l.ID,
		MemberID:    l.MemberID,
		BookID:      l.BookID,
		IssueDate:   l.IssueDate.Format(dateLayout),
		ReturnDate:  l.ReturnDate.Format(dateLayout),
		Status:      string(l.State()),
		Overdue:     l.IsOverdue(today),
		OverdueDays: l.OverdueDays(today),
		Fine:        l.Fine.StringFixed(2),
	}
	if l.Remarks != nil {
		resp.Remarks = *l.Remarks
	}
	if l.Member != nil {
		m := FromMember(*l.Member)
		resp.Member = &m
	}
	if l.Book != nil {
		b := FromBook(*l.Book)
		resp.Book = &b
	}
	return resp
}

func FromLoans(loans []models.BorrowedBook, today time.Time) []LoanResponse {
	out := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, FromLoan(l, today))
	}
	return out
}
