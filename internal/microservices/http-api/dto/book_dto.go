package dto

import (
	"time"

	"libraryhub/internal/microservices/http-api/models"
)

// AddBookRequest: payload to shelve a new title
type AddBookRequest struct {
	Title        string `form:"title" json:"title" binding:"required,max=100"`
	Author       string `form:"author" json:"author" binding:"required,max=100"`
	SerialNo     string `form:"serial_no" json:"serial_no" binding:"required,max=50"`
	Category     string `form:"category" json:"category" binding:"required"`
	Quantity     int    `form:"quantity" json:"quantity" binding:"gte=0"`
	BorrowingFee string `form:"borrowing_fee" json:"borrowing_fee" binding:"required,numeric"`
}

// AdjustQuantityRequest: stock correction, positive to add copies
type AdjustQuantityRequest struct {
	Delta int `form:"delta" json:"delta" binding:"required"`
}

// SearchRequest: free text search used by every list page
type SearchRequest struct {
	Query string `form:"query" json:"query"`
}

type BookResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	SerialNo     string    `json:"serial_no"`
	Category     string    `json:"category"`
	Quantity     int       `json:"quantity"`
	BorrowingFee string    `json:"borrowing_fee"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type BookListResponse struct {
	Books []BookResponse `json:"books"`
	Total int            `json:"total"`
	Query string         `json:"query,omitempty"`
}

func FromBook(b models.Book) BookResponse {
	return BookResponse{
		ID:           b.ID,
		Title:        b.Title,
		Author:       b.Author,
		SerialNo:     b.SerialNo,
		Category:     b.Category,
		Quantity:     b.Quantity,
		BorrowingFee: b.BorrowingFee.StringFixed(2),
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
	}
}

func FromBooks(books []models.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, FromBook(b))
	}
	return out
}
