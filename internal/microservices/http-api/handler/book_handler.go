package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BookHandler struct {
	svc service.CatalogService
}

func NewBookHandler(svc service.CatalogService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/add-book/", h.Add)
	rg.GET("/books/", h.List)
	rg.POST("/books/", h.List)
	rg.GET("/books/:id/", h.Get)
	rg.DELETE("/books/:id/", h.Delete)
	rg.POST("/books/:id/quantity/", h.AdjustQuantity)
}

func (h *BookHandler) Add(c *gin.Context) {
	var req dto.AddBookRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	fee, err := decimal.NewFromString(req.BorrowingFee)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": gin.H{"borrowing_fee": "Enter a number."}})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	book, err := h.svc.AddBook(ctx, service.AddBookInput{
		Title:        req.Title,
		Author:       req.Author,
		SerialNo:     req.SerialNo,
		Category:     req.Category,
		Quantity:     req.Quantity,
		BorrowingFee: fee,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromBook(*book))
}

// List serves both the catalog page and its search form.
func (h *BookHandler) List(c *gin.Context) {
	query, ok := bindSearch(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	books, err := h.svc.SearchBooks(ctx, query)
	if err != nil {
		respondError(c, err)
		return
	}

	items := dto.FromBooks(books)
	c.JSON(http.StatusOK, dto.BookListResponse{Books: items, Total: len(items), Query: query})
}

func (h *BookHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	book, err := h.svc.GetBook(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBook(*book))
}

func (h *BookHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	if err := h.svc.DeleteBook(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookHandler) AdjustQuantity(c *gin.Context) {
	var req dto.AdjustQuantityRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	book, err := h.svc.AdjustQuantity(ctx, c.Param("id"), req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBook(*book))
}

// bindSearch reads the search box from the query string or a posted form.
// A POST with no body is a search for everything.
func bindSearch(c *gin.Context) (string, bool) {
	var req dto.SearchRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return "", false
	}
	return req.Query, true
}
