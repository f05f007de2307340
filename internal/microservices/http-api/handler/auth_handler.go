package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  service.AuthService
	sessionTTL   time.Duration
	secureCookie bool
}

func NewAuthHandler(authService service.AuthService, sessionTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, sessionTTL: sessionTTL, secureCookie: secureCookie}
}

// RegisterRoutes mounts the public session routes. throttle guards the login form.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, throttle gin.HandlerFunc) {
	rg.GET(middleware.LoginPath, h.LoginPage)
	rg.POST(middleware.LoginPath, throttle, h.Login)
	rg.GET("/logout/", h.Logout)
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "login required",
		"next":    c.Query("next"),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.Next == "" {
		req.Next = c.Query("next")
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	token, librarian, err := h.authService.Login(ctx, req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.sessionTTL.Seconds()), "/", "", h.secureCookie, true)

	if next, ok := middleware.SafeNext(req.Next); ok {
		c.Redirect(http.StatusSeeOther, next)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:       token,
		TokenType:   "Bearer",
		LibrarianID: librarian.ID,
		Username:    librarian.Username,
		ExpiresIn:   int64(h.sessionTTL.Seconds()),
	})
}

// Logout clears the session cookie. Bearer tokens simply run out.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
