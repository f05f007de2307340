package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"libraryhub/internal/middleware/auth"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"

	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "libraryhub"

// Claims is the payload of a librarian session token.
type Claims struct {
	LibrarianID string `json:"librarian_id"`
	Username    string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService interface {
	CreateLibrarian(ctx context.Context, username, email, password string) (*models.Librarian, error)
	Login(ctx context.Context, username, password string) (token string, librarian *models.Librarian, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	librarians repository.LibrarianRepository
	jwtSecret  []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewAuthService(librarians repository.LibrarianRepository, jwtSecret string, sessionTTL time.Duration) AuthService {
	return &authService{
		librarians: librarians,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// CreateLibrarian registers a staff account. Accounts are only made from the admin CLI.
func (s *authService) CreateLibrarian(ctx context.Context, username, email, password string) (*models.Librarian, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	fields := FieldErrors{}
	if username == "" {
		fields.Add("username", "This field is required.")
	}
	if err := validate.Var(email, "required,email"); err != nil {
		fields.Add("email", "Enter a valid email address.")
	}
	if len(password) < 8 {
		fields.Add("password", "Ensure this value has at least 8 characters.")
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	// Check if username exists
	if _, err := s.librarians.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameInUse
	} else if !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	librarian := &models.Librarian{
		Username: username,
		Email:    email,
		Password: hashed,
	}
	if err := s.librarians.Create(ctx, librarian); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUsernameInUse
		}
		return nil, err
	}
	return librarian, nil
}

// Login authenticates a librarian and issues a signed session token.
func (s *authService) Login(ctx context.Context, username, password string) (string, *models.Librarian, error) {
	librarian, err := s.librarians.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, repository.ErrRecordNotFound) {
			return "", nil, err
		}
		// unknown user still pays for a bcrypt round
		auth.BurnCompare(password)
		return "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(librarian.Password, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := s.now()
	token, err := s.generateSessionToken(librarian, now)
	if err != nil {
		return "", nil, err
	}

	if err := s.librarians.TouchLastLogin(ctx, librarian.ID, now.UTC()); err != nil {
		return "", nil, err
	}
	return token, librarian, nil
}

func (s *authService) generateSessionToken(librarian *models.Librarian, now time.Time) (string, error) {
	claims := Claims{
		LibrarianID: librarian.ID,
		Username:    librarian.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   librarian.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.jwtSecret, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
