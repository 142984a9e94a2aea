package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dibyendu02/eMadhyam-backend/internal/domain"
	"github.com/dibyendu02/eMadhyam-backend/internal/middleware"
)

type MockOrderUseCase struct {
	mock.Mock
}

func (m *MockOrderUseCase) CreateOrder(ctx context.Context, userID string, items []domain.OrderItem, paymentMethod, addressID string) (*domain.OrderView, error) {
	args := m.Called(ctx, userID, items, paymentMethod, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderView), args.Error(1)
}

func (m *MockOrderUseCase) GetOrderByID(ctx context.Context, id string) (*domain.OrderView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderView), args.Error(1)
}

func (m *MockOrderUseCase) ListAllOrders(ctx context.Context) ([]domain.OrderView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderView), args.Error(1)
}

func (m *MockOrderUseCase) ListUserOrders(ctx context.Context, userID string) ([]domain.OrderView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderView), args.Error(1)
}

func (m *MockOrderUseCase) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus, deliveryDate *time.Time) (*domain.Order, error) {
	args := m.Called(ctx, id, status, deliveryDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderUseCase) DeleteOrder(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderUseCase) VerifyPayment(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (*domain.Order, error) {
	args := m.Called(ctx, gatewayOrderID, gatewayPaymentID, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderUseCase) HandleWebhook(ctx context.Context, body []byte, headerSignature string) error {
	args := m.Called(ctx, body, headerSignature)
	return args.Error(0)
}

const testJWTSecret = "test-jwt-secret"

func setupOrderRouter(t *testing.T) (*gin.Engine, *MockOrderUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	useCase := new(MockOrderUseCase)
	router := gin.New()
	NewOrderHandler(useCase, logger).RegisterRoutes(router, testJWTSecret)
	return router, useCase
}

func bearerToken(t *testing.T, userID string, isAdmin bool) string {
	t.Helper()
	token, err := middleware.IssueToken(testJWTSecret, userID, isAdmin)
	assert.NoError(t, err)
	return "Bearer " + token
}

func TestPaymentWebhook_ForwardsRawBodyAndHeader(t *testing.T) {
	router, useCase := setupOrderRouter(t)

	body := []byte(`{"event":"payment.captured","payload":{}}`)
	useCase.On("HandleWebhook", mock.Anything, body, "sig-from-header").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/order/payment/webhook", bytes.NewReader(body))
	req.Header.Set("x-razorpay-signature", "sig-from-header")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	useCase.AssertExpectations(t)
}

func TestPaymentWebhook_NoAuthRequired(t *testing.T) {
	router, useCase := setupOrderRouter(t)

	useCase.On("HandleWebhook", mock.Anything, mock.Anything, "sig").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/order/payment/webhook", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("x-razorpay-signature", "sig")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	// No Authorization header and still not a 401.
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestPaymentWebhook_MissingSignatureHeader(t *testing.T) {
	router, useCase := setupOrderRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/order/payment/webhook", bytes.NewReader([]byte(`{}`)))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	useCase.AssertNotCalled(t, "HandleWebhook", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentWebhook_InvalidSignature(t *testing.T) {
	router, useCase := setupOrderRouter(t)

	useCase.On("HandleWebhook", mock.Anything, mock.Anything, "forged").
		Return(domain.ErrInvalidSignature)

	req := httptest.NewRequest(http.MethodPost, "/api/order/payment/webhook", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("x-razorpay-signature", "forged")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCreateOrder_RequiresAuth(t *testing.T) {
	router, useCase := setupOrderRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/order", bytes.NewReader([]byte(`{}`)))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	useCase.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrder_UsesTokenIdentity(t *testing.T) {
	router, useCase := setupOrderRouter(t)

	view := &domain.OrderView{Order: domain.Order{ID: "order1", UserID: "user123"}}
	useCase.On("CreateOrder", mock.Anything, "user123",
		[]domain.OrderItem{{ProductID: "prod1", Quantity: 2}}, domain.PaymentMethodCOD, "addr1").
		Return(view, nil)

	payload, _ := json.Marshal(gin.H{
		"products":      []gin.H{{"productId": "prod1", "quantity": 2}},
		"paymentMethod": "cod",
		"addressId":     "addr1",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/order", bytes.NewReader(payload))
	req.Header.Set("Authorization", bearerToken(t, "user123", false))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusCreated, recorder.Code)

	var response Response
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "Success", response.Status)
	useCase.AssertExpectations(t)
}

func TestListAllOrders_AdminOnly(t *testing.T) {
	router, useCase := setupOrderRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/order", nil)
	req.Header.Set("Authorization", bearerToken(t, "user123", false))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	useCase.AssertNotCalled(t, "ListAllOrders", mock.Anything)

	useCase.On("ListAllOrders", mock.Anything).Return([]domain.OrderView{}, nil)

	adminReq := httptest.NewRequest(http.MethodGet, "/api/order", nil)
	adminReq.Header.Set("Authorization", bearerToken(t, "admin1", true))
	adminRecorder := httptest.NewRecorder()
	router.ServeHTTP(adminRecorder, adminReq)

	assert.Equal(t, http.StatusOK, adminRecorder.Code)
}

func TestGetOrderByID_ForbiddenForOtherUsers(t *testing.T) {
	router, useCase := setupOrderRouter(t)

	view := &domain.OrderView{Order: domain.Order{ID: "order1", UserID: "owner"}}
	useCase.On("GetOrderByID", mock.Anything, "order1").Return(view, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/order/order1", nil)
	req.Header.Set("Authorization", bearerToken(t, "intruder", false))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestVerifyPayment_RequiresAllFields(t *testing.T) {
	router, useCase := setupOrderRouter(t)

	payload, _ := json.Marshal(gin.H{
		"razorpay_order_id": "order_rzp1",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/order/payment/verify", bytes.NewReader(payload))
	req.Header.Set("Authorization", bearerToken(t, "user123", false))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	useCase.AssertNotCalled(t, "VerifyPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
