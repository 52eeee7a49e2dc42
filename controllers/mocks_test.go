package controllers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"academy-service/middleware"
	"academy-service/models"
	"academy-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
}

// --- Mocks ---

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, userID uuid.UUID) (*models.PublicProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublicProfile), args.Error(1)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) Create(ctx context.Context, req *models.CreateOrderRequest, userID *uuid.UUID) (*models.CreatedOrder, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreatedOrder), args.Error(1)
}

func (m *MockOrderService) UploadReceipt(ctx context.Context, orderID uuid.UUID, file services.ReceiptFile) (*models.ReceiptUploadResponse, error) {
	// Drain the reader so tests can assert on the uploaded bytes.
	body, _ := io.ReadAll(file.Reader)
	file.Reader = nil
	args := m.Called(ctx, orderID, file, string(body))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReceiptUploadResponse), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

type stubCourseService struct {
	courses []models.Course
	err     error
}

func (s *stubCourseService) ListActive(context.Context) ([]models.Course, error) {
	return s.courses, s.err
}

type stubAccountService struct {
	stats *models.AccountStats
	err   error
	got   uuid.UUID
}

func (s *stubAccountService) Stats(_ context.Context, userID uuid.UUID) (*models.AccountStats, error) {
	s.got = userID
	return s.stats, s.err
}

type stubCRMService struct {
	students []models.StudentSummary
	revenue  []models.RevenueEntry
	err      error
}

func (s *stubCRMService) Students(context.Context) ([]models.StudentSummary, error) {
	return s.students, s.err
}

func (s *stubCRMService) Revenue(context.Context) ([]models.RevenueEntry, error) {
	return s.revenue, s.err
}

// --- Helpers ---

var testTokens = func() *services.TokenService {
	t, err := services.NewTokenService("controller-secret", time.Hour)
	if err != nil {
		panic(err)
	}
	return t
}()

func bearer(role models.Role) (string, uuid.UUID) {
	user := &models.User{ID: uuid.New(), Email: "user@example.com", Role: role}
	token, err := testTokens.Generate(user)
	if err != nil {
		panic(err)
	}
	return "Bearer " + token, user.ID
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
