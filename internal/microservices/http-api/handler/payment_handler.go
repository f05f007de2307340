package handler

import (
	"context"
	"net/http"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments/", h.List)
	rg.DELETE("/payments/:id/", h.Delete)
}

func (h *PaymentHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	payments, err := h.svc.ListPayments(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	total, err := h.svc.TotalCollected(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	items := dto.FromPayments(payments)
	c.JSON(http.StatusOK, dto.PaymentListResponse{
		Payments:       items,
		Total:          len(items),
		TotalCollected: total.StringFixed(2),
	})
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	if err := h.svc.DeletePayment(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
