package handler

import (
	"context"
	"net/http"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	svc service.MemberService
	now Clock
}

func NewMemberHandler(svc service.MemberService, now Clock) *MemberHandler {
	return &MemberHandler{svc: svc, now: now}
}

func (h *MemberHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/add-member/", h.Add)
	rg.GET("/members/", h.List)
	rg.POST("/members/", h.List)
	rg.GET("/members/:id/", h.Get)
	rg.PUT("/members/:id/", h.Update)
	rg.DELETE("/members/:id/", h.Delete)
}

func (h *MemberHandler) Add(c *gin.Context) {
	var req dto.MemberRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	member, err := h.svc.AddMember(ctx, req.Name, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromMember(*member))
}

func (h *MemberHandler) List(c *gin.Context) {
	query, ok := bindSearch(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	members, err := h.svc.SearchMembers(ctx, query, h.now())
	if err != nil {
		respondError(c, err)
		return
	}

	items := dto.FromMembers(members)
	c.JSON(http.StatusOK, dto.MemberListResponse{Members: items, Total: len(items), Query: query})
}

func (h *MemberHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	today := h.now()
	detail, err := h.svc.GetMember(ctx, c.Param("id"), today)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MemberDetailResponse{
		MemberResponse: dto.FromMember(*detail.Member),
		ActiveLoans:    dto.FromLoans(detail.ActiveLoans, today),
		Payments:       dto.FromPayments(detail.Payments),
	})
}

func (h *MemberHandler) Update(c *gin.Context) {
	var req dto.MemberRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	member, err := h.svc.UpdateMember(ctx, c.Param("id"), req.Name, req.Email, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromMember(*member))
}

func (h *MemberHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	if err := h.svc.DeleteMember(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
