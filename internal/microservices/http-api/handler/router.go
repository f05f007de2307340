package handler

import (
	"net/http"
	"time"

	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// Services is everything the HTTP surface dispatches to.
type Services struct {
	Auth      service.AuthService
	Catalog   service.CatalogService
	Members   service.MemberService
	Loans     service.LoanService
	Lending   service.LendingService
	Payments  service.PaymentService
	Dashboard service.DashboardService
}

type RouterConfig struct {
	SessionTTL   time.Duration
	SecureCookie bool
	LoginLimiter *middleware.IPRateLimiter
	Clock        Clock
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(svc Services, cfg RouterConfig) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := r.Group("")
	NewAuthHandler(svc.Auth, cfg.SessionTTL, cfg.SecureCookie).
		RegisterRoutes(public, middleware.RateLimit(cfg.LoginLimiter))

	desk := r.Group("")
	desk.Use(middleware.SessionAuth(svc.Auth))
	desk.Use(middleware.InvalidateOnWrite(svc.Dashboard))

	NewDashboardHandler(svc.Dashboard, cfg.Clock).RegisterRoutes(desk)
	NewBookHandler(svc.Catalog).RegisterRoutes(desk)
	NewMemberHandler(svc.Members, cfg.Clock).RegisterRoutes(desk)
	NewLoanHandler(svc.Loans, svc.Lending, cfg.Clock).RegisterRoutes(desk)
	NewPaymentHandler(svc.Payments).RegisterRoutes(desk)

	return r
}
