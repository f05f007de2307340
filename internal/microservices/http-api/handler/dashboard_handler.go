package handler

import (
	"context"
	"net/http"

	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc service.DashboardService
	now Clock
}

func NewDashboardHandler(svc service.DashboardService, now Clock) *DashboardHandler {
	return &DashboardHandler{svc: svc, now: now}
}

func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Home)
}

func (h *DashboardHandler) Home(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	d, err := h.svc.Dashboard(ctx, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
