package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie carries the librarian's session token for browser clients.
	SessionCookie = "session"
	LoginPath     = "/login/"

	ContextClaims      = "claims"
	ContextLibrarianID = "librarianID"
	ContextUsername    = "username"
)

// SessionAuth guards the desk. A token is read from the session cookie, or from an
// "Authorization: Bearer <token>" header for API clients. Requests without a valid
// session are sent to the login page with the original path in ?next=.
func SessionAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := sessionToken(c)
		if tokenString == "" {
			redirectToLogin(c)
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			redirectToLogin(c)
			return
		}

		// Set librarian info in context for handlers to use
		c.Set(ContextClaims, claims)
		c.Set(ContextLibrarianID, claims.LibrarianID)
		c.Set(ContextUsername, claims.Username)

		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	// Extract token (format: "Bearer <token>")
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

func redirectToLogin(c *gin.Context) {
	target := LoginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

// SafeNext accepts only same-site absolute paths as a post-login destination.
func SafeNext(next string) (string, bool) {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "", false
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	return next, true
}
