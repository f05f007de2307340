package handler

import (
	"context"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"
	"libraryhub/internal/reports"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	useJSONFieldNames()
	return gin.New()
}

// MockCatalogService mocks the CatalogService interface
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) AddBook(ctx context.Context, in service.AddBookInput) (*models.Book, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockCatalogService) GetBook(ctx context.Context, id string) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockCatalogService) SearchBooks(ctx context.Context, query string) ([]models.Book, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockCatalogService) AdjustQuantity(ctx context.Context, id string, delta int) (*models.Book, error) {
	args := m.Called(ctx, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockCatalogService) DeleteBook(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMemberService mocks the MemberService interface
type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) AddMember(ctx context.Context, name, email string) (*models.Member, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberService) UpdateMember(ctx context.Context, id, name, email string, today time.Time) (*models.Member, error) {
	args := m.Called(ctx, id, name, email, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberService) GetMember(ctx context.Context, id string, today time.Time) (*service.MemberDetail, error) {
	args := m.Called(ctx, id, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MemberDetail), args.Error(1)
}

func (m *MockMemberService) SearchMembers(ctx context.Context, query string, today time.Time) ([]models.Member, error) {
	args := m.Called(ctx, query, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Member), args.Error(1)
}

func (m *MockMemberService) ComputeAmountDue(ctx context.Context, memberID string, today time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, memberID, today)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockMemberService) DeleteMember(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLoanService mocks the LoanService interface
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) Issue(ctx context.Context, memberID, bookID string, issueDate time.Time) (*models.BorrowedBook, error) {
	args := m.Called(ctx, memberID, bookID, issueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BorrowedBook), args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, id string) (*models.BorrowedBook, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BorrowedBook), args.Error(1)
}

func (m *MockLoanService) ListLentBooks(ctx context.Context, query string) ([]models.BorrowedBook, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BorrowedBook), args.Error(1)
}

func (m *MockLoanService) SetFine(ctx context.Context, id string, fine decimal.Decimal, remarks *string, today time.Time) (*models.BorrowedBook, error) {
	args := m.Called(ctx, id, fine, remarks, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BorrowedBook), args.Error(1)
}

func (m *MockLoanService) MarkReturned(ctx context.Context, id string, in service.ReturnInput) (*service.ReturnResult, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReturnResult), args.Error(1)
}

func (m *MockLoanService) DeleteLoan(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLoanService) AccrueFines(ctx context.Context, today time.Time) (int, error) {
	args := m.Called(ctx, today)
	return args.Int(0), args.Error(1)
}

// MockLendingService mocks the LendingService interface
type MockLendingService struct {
	mock.Mock
}

func (m *MockLendingService) Lend(ctx context.Context, in service.LendInput, now time.Time) (*models.BorrowedBook, error) {
	args := m.Called(ctx, in, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BorrowedBook), args.Error(1)
}

// MockPaymentService mocks the PaymentService interface
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, in service.RecordPaymentInput) (*models.Transaction, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context) ([]models.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockPaymentService) DeletePayment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentService) TotalCollected(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockDashboardService mocks the DashboardService interface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Dashboard(ctx context.Context, today time.Time) (*reports.Dashboard, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reports.Dashboard), args.Error(1)
}

func (m *MockDashboardService) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) CreateLibrarian(ctx context.Context, username, email, password string) (*models.Librarian, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Librarian), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, *models.Librarian, error) {
	args := m.Called(ctx, username, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.Librarian), args.Error(2)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}
