package handler

import (
	"context"
	"net/http"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// LoanHandler serves the circulation desk: lending, the lent books list and returns.
type LoanHandler struct {
	loans   service.LoanService
	lending service.LendingService
	now     Clock
}

func NewLoanHandler(loans service.LoanService, lending service.LendingService, now Clock) *LoanHandler {
	return &LoanHandler{loans: loans, lending: lending, now: now}
}

func (h *LoanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/lend-book/", h.Lend)
	rg.GET("/lent-books/", h.List)
	rg.POST("/lent-books/", h.List)
	rg.PATCH("/lent-books/:id/", h.UpdateFine)
	rg.DELETE("/lent-books/:id/", h.Delete)
	rg.POST("/accrue-fines/", h.AccrueFines)
	rg.GET("/return-book/:id/", h.Return)
	rg.GET("/return-book-fine/:id/", h.ReturnFine)
	rg.POST("/return-book-fine/:id/", h.SettleReturn)
}

// Lend issues the selected books and sends the librarian on to settle the last one.
func (h *LoanHandler) Lend(c *gin.Context) {
	var req dto.LendBookRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	last, err := h.lending.Lend(ctx, service.LendInput{
		MemberID:      req.MemberID,
		BookIDs:       req.BookIDs,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Remarks:       req.Remarks,
	}, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/return-book-fine/"+last.ID+"/")
}

func (h *LoanHandler) List(c *gin.Context) {
	query, ok := bindSearch(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	loans, err := h.loans.ListLentBooks(ctx, query)
	if err != nil {
		respondError(c, err)
		return
	}

	items := dto.FromLoans(loans, h.now())
	c.JSON(http.StatusOK, dto.LoanListResponse{Loans: items, Total: len(items), Query: query})
}

func (h *LoanHandler) UpdateFine(c *gin.Context) {
	var req dto.UpdateLoanRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	fine, err := decimal.NewFromString(req.Fine)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": gin.H{"fine": "Enter a number."}})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	today := h.now()
	loan, err := h.loans.SetFine(ctx, c.Param("id"), fine, req.Remarks, today)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromLoan(*loan, today))
}

func (h *LoanHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	if err := h.loans.DeleteLoan(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LoanHandler) AccrueFines(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	updated, err := h.loans.AccrueFines(ctx, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AccrueFinesResponse{Updated: updated})
}

// Return starts the return of a loan at its fine settlement page.
func (h *LoanHandler) Return(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	loan, err := h.loans.GetLoan(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/return-book-fine/"+loan.ID+"/")
}

func (h *LoanHandler) ReturnFine(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	loan, err := h.loans.GetLoan(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReturnBookResponse{Loan: dto.FromLoan(*loan, h.now())})
}

// SettleReturn collects the fine, if there is one, and checks the book back in.
func (h *LoanHandler) SettleReturn(c *gin.Context) {
	var req dto.ReturnBookRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	collect := true
	if req.CollectFine != nil {
		collect = *req.CollectFine
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	if _, err := h.loans.MarkReturned(ctx, c.Param("id"), service.ReturnInput{
		CollectFine:   collect,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Remarks:       req.Remarks,
	}); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/lent-books/")
}
