package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"academy-service/controllers"
	"academy-service/middleware"
	"academy-service/models"
	"academy-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
}

type stubServices struct {
	statusCalls int
}

func (s *stubServices) Register(context.Context, *models.RegisterRequest) (string, error) {
	return "tok", nil
}
func (s *stubServices) Login(context.Context, string, string) (string, error) { return "tok", nil }
func (s *stubServices) ForgotPassword(context.Context, string) error         { return nil }
func (s *stubServices) ResetPassword(context.Context, string, string) error  { return nil }
func (s *stubServices) Me(_ context.Context, id uuid.UUID) (*models.PublicProfile, error) {
	return &models.PublicProfile{ID: id}, nil
}
func (s *stubServices) ListActive(context.Context) ([]models.Course, error) {
	return []models.Course{}, nil
}
func (s *stubServices) Create(context.Context, *models.CreateOrderRequest, *uuid.UUID) (*models.CreatedOrder, error) {
	return &models.CreatedOrder{ID: uuid.New(), Status: models.OrderStatusPending}, nil
}
func (s *stubServices) UploadReceipt(context.Context, uuid.UUID, services.ReceiptFile) (*models.ReceiptUploadResponse, error) {
	return &models.ReceiptUploadResponse{}, nil
}
func (s *stubServices) UpdateStatus(_ context.Context, id uuid.UUID, st models.OrderStatus) (*models.Order, error) {
	s.statusCalls++
	return &models.Order{ID: id, Status: st}, nil
}
func (s *stubServices) ListMine(context.Context, uuid.UUID) ([]models.Order, error) {
	return []models.Order{}, nil
}
func (s *stubServices) ListAll(context.Context) ([]models.Order, error) { return []models.Order{}, nil }
func (s *stubServices) Stats(context.Context, uuid.UUID) (*models.AccountStats, error) {
	return &models.AccountStats{}, nil
}
func (s *stubServices) Students(context.Context) ([]models.StudentSummary, error) {
	return []models.StudentSummary{}, nil
}
func (s *stubServices) Revenue(context.Context) ([]models.RevenueEntry, error) {
	return []models.RevenueEntry{}, nil
}

func setup(t *testing.T, receiptDir string) (*gin.Engine, *stubServices, *services.TokenService) {
	t.Helper()
	tokens, err := services.NewTokenService("routes-secret", time.Hour)
	require.NoError(t, err)

	s := &stubServices{}
	r := gin.New()
	Register(r, Controllers{
		Auth:    controllers.NewAuthController(s),
		Courses: controllers.NewCourseController(s),
		Orders:  controllers.NewOrderController(s),
		Account: controllers.NewAccountController(s),
		Admin:   controllers.NewAdminController(s),
	}, Options{Authenticator: middleware.NewAuthenticator(tokens), ReceiptDir: receiptDir})
	return r, s, tokens
}

func call(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, tokens *services.TokenService, role models.Role) string {
	t.Helper()
	tok, err := tokens.Generate(&models.User{ID: uuid.New(), Role: role})
	require.NoError(t, err)
	return tok
}

func TestHealthAndMetrics(t *testing.T) {
	r, _, _ := setup(t, "")

	w := call(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","service":"academy-service"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/metrics", "", "").Code)
}

func TestAPIPrefix(t *testing.T) {
	r, _, tokens := setup(t, "")
	student := token(t, tokens, models.RoleStudent)

	for _, prefix := range []string{"", "/api"} {
		assert.Equal(t, http.StatusOK, call(r, http.MethodGet, prefix+"/courses", "", "").Code, prefix)
		assert.Equal(t, http.StatusOK, call(r, http.MethodGet, prefix+"/account/stats", "", student).Code, prefix)
		assert.Equal(t, http.StatusCreated, call(r, http.MethodPost, prefix+"/orders",
			`{"buyerName":"Ana","buyerEmail":"ana@example.com","courseSlug":"fansly-master"}`, "").Code, prefix)
	}
}

func TestAdminGate(t *testing.T) {
	r, s, tokens := setup(t, "")
	student := token(t, tokens, models.RoleStudent)
	admin := token(t, tokens, models.RoleAdmin)
	path := "/api/orders/" + uuid.NewString() + "/status"

	w := call(r, http.MethodPut, path, `{"status":"PAID"}`, student)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, s.statusCalls)

	w = call(r, http.MethodPut, path, `{"status":"PAID"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(r, http.MethodPut, path, `{"status":"PAID"}`, admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, s.statusCalls)

	for _, p := range []string{"/admin/students", "/admin/revenue", "/orders/admin"} {
		assert.Equal(t, http.StatusForbidden, call(r, http.MethodGet, p, "", student).Code, p)
		assert.Equal(t, http.StatusOK, call(r, http.MethodGet, p, "", admin).Code, p)
	}
}

func TestLocalReceipts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "order-1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "order-1", "r.png"), []byte("png"), 0o644))

	r, _, _ := setup(t, dir)
	w := call(r, http.MethodGet, "/uploads/receipts/order-1/r.png", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}
