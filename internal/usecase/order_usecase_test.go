package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dibyendu02/eMadhyam-backend/internal/domain"
	"github.com/dibyendu02/eMadhyam-backend/internal/payment"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListCustomers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) MigrateLegacyCarts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateSession(ctx context.Context, amountMinorUnits int64, currency, receipt string) (*domain.GatewaySession, error) {
	args := m.Called(ctx, amountMinorUnits, currency, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewaySession), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPublisher) PublishOrderPaid(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPublisher) Close() {
	m.Called()
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

const (
	testKeySecret     = "key-secret"
	testWebhookSecret = "webhook-secret"
)

type orderFixture struct {
	orderRepo   *MockOrderRepository
	userRepo    *MockUserRepository
	productRepo *MockProductRepository
	gateway     *MockGateway
	publisher   *MockPublisher
	useCase     OrderUseCase
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orderRepo:   new(MockOrderRepository),
		userRepo:    new(MockUserRepository),
		productRepo: new(MockProductRepository),
		gateway:     new(MockGateway),
		publisher:   new(MockPublisher),
	}
	f.useCase = NewOrderUseCase(f.orderRepo, f.userRepo, f.productRepo, f.gateway, Secrets{
		KeySecret:     testKeySecret,
		WebhookSecret: testWebhookSecret,
	}, f.publisher, testLogger())
	return f
}

func testBuyer() *domain.User {
	return &domain.User{
		ID:          "user123",
		FirstName:   "Asha",
		PhoneNumber: "9999999999",
		Cart: []domain.CartItem{
			{ProductID: "prod1", Quantity: 2},
			{ProductID: "prod3", Quantity: 1},
		},
		Address: []domain.Address{
			{ID: "addr1", AddressLine: "12 MG Road", City: "Kolkata", State: "WB", PinCode: 700001},
		},
	}
}

func TestCreateOrder_CODTotalsAndCartClearing(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.userRepo.On("GetByID", mock.Anything, "user123").Return(testBuyer(), nil)
	f.productRepo.On("GetByID", mock.Anything, "prod1").
		Return(&domain.Product{ID: "prod1", Name: "Snake Plant", Price: 250, OriginalPrice: 300}, nil)
	f.productRepo.On("GetByID", mock.Anything, "prod2").
		Return(&domain.Product{ID: "prod2", Name: "Clay Pot", Price: 100}, nil)

	f.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(nil).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*domain.Order)
			assert.Equal(t, domain.StatusPending, order.Status)
			assert.False(t, order.IsPaid)
			assert.Equal(t, 600.0, order.PaymentInfo.BillingAmount)
			assert.Equal(t, 100.0, order.PaymentInfo.TotalSaved)
			assert.Equal(t, "12 MG Road", order.DeliveryAddress.AddressLine)
			assert.Nil(t, order.RazorpayOrder)
		})
	f.userRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).
		Return(nil).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*domain.User)
			// prod1 was purchased, prod3 stays.
			assert.Equal(t, []domain.CartItem{{ProductID: "prod3", Quantity: 1}}, user.Cart)
		})
	f.publisher.On("PublishOrderCreated", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	items := []domain.OrderItem{
		{ProductID: "prod1", Quantity: 2},
		{ProductID: "prod2", Quantity: 1},
	}
	view, err := f.useCase.CreateOrder(ctx, "user123", items, domain.PaymentMethodCOD, "addr1")

	assert.NoError(t, err)
	assert.NotNil(t, view)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "user123", view.UserID)
	assert.Len(t, view.Items, 2)

	f.orderRepo.AssertExpectations(t)
	f.userRepo.AssertExpectations(t)
	f.gateway.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrder_OnlineOpensGatewaySession(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.userRepo.On("GetByID", mock.Anything, "user123").Return(testBuyer(), nil)
	f.productRepo.On("GetByID", mock.Anything, "prod1").
		Return(&domain.Product{ID: "prod1", Name: "Snake Plant", Price: 249.50}, nil)

	session := &domain.GatewaySession{ID: "order_rzp1", Amount: 24950, Currency: "INR"}
	f.gateway.On("CreateSession", mock.Anything, int64(24950), "INR", mock.AnythingOfType("string")).
		Return(session, nil)

	f.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(nil).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*domain.Order)
			assert.Equal(t, session, order.RazorpayOrder)
		})
	f.userRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	f.publisher.On("PublishOrderCreated", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	view, err := f.useCase.CreateOrder(ctx, "user123",
		[]domain.OrderItem{{ProductID: "prod1", Quantity: 1}}, domain.PaymentMethodOnline, "addr1")

	assert.NoError(t, err)
	assert.Equal(t, "order_rzp1", view.RazorpayOrder.ID)

	f.gateway.AssertExpectations(t)
	f.orderRepo.AssertExpectations(t)
}

func TestCreateOrder_GatewayFailureAbortsIntake(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.userRepo.On("GetByID", mock.Anything, "user123").Return(testBuyer(), nil)
	f.productRepo.On("GetByID", mock.Anything, "prod1").
		Return(&domain.Product{ID: "prod1", Price: 100}, nil)
	f.gateway.On("CreateSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrUpstream)

	view, err := f.useCase.CreateOrder(ctx, "user123",
		[]domain.OrderItem{{ProductID: "prod1", Quantity: 1}}, domain.PaymentMethodOnline, "addr1")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
	assert.Nil(t, view)

	f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCreateOrder_MissingProductAbortsWholeIntake(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.userRepo.On("GetByID", mock.Anything, "user123").Return(testBuyer(), nil)
	f.productRepo.On("GetByID", mock.Anything, "prod1").
		Return(&domain.Product{ID: "prod1", Price: 100}, nil)
	f.productRepo.On("GetByID", mock.Anything, "gone").
		Return(nil, domain.ErrNotFound)

	items := []domain.OrderItem{
		{ProductID: "prod1", Quantity: 1},
		{ProductID: "gone", Quantity: 1},
	}
	view, err := f.useCase.CreateOrder(ctx, "user123", items, domain.PaymentMethodCOD, "addr1")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Nil(t, view)

	f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_InvalidInput(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	tests := []struct {
		name      string
		items     []domain.OrderItem
		method    string
		addressID string
	}{
		{
			name:   "empty items",
			items:  []domain.OrderItem{},
			method: domain.PaymentMethodCOD,
		},
		{
			name:   "unknown payment method",
			items:  []domain.OrderItem{{ProductID: "prod1", Quantity: 1}},
			method: "cheque",
		},
		{
			name:   "zero quantity",
			items:  []domain.OrderItem{{ProductID: "prod1", Quantity: 0}},
			method: domain.PaymentMethodCOD,
		},
		{
			name:   "missing product id",
			items:  []domain.OrderItem{{ProductID: "", Quantity: 1}},
			method: domain.PaymentMethodCOD,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := f.useCase.CreateOrder(ctx, "user123", tt.items, tt.method, tt.addressID)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.Nil(t, view)
		})
	}

	f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_AddressNotInBook(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.userRepo.On("GetByID", mock.Anything, "user123").Return(testBuyer(), nil)

	view, err := f.useCase.CreateOrder(ctx, "user123",
		[]domain.OrderItem{{ProductID: "prod1", Quantity: 1}}, domain.PaymentMethodCOD, "no-such-addr")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Nil(t, view)

	f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_AddressSnapshotSurvivesBookEdits(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	buyer := testBuyer()
	f.userRepo.On("GetByID", mock.Anything, "user123").Return(buyer, nil)
	f.productRepo.On("GetByID", mock.Anything, "prod1").
		Return(&domain.Product{ID: "prod1", Price: 100}, nil)

	var captured *domain.Order
	f.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(nil).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.Order)
		})
	f.userRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	f.publisher.On("PublishOrderCreated", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	_, err := f.useCase.CreateOrder(ctx, "user123",
		[]domain.OrderItem{{ProductID: "prod1", Quantity: 1}}, domain.PaymentMethodCOD, "addr1")
	assert.NoError(t, err)

	// Editing the address book after the fact must not reach into the order.
	buyer.Address[0].City = "Mumbai"
	assert.Equal(t, "Kolkata", captured.DeliveryAddress.City)
}

func TestVerifyPayment_ValidSignatureMarksPaid(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order := &domain.Order{
		ID:            "order1",
		UserID:        "user123",
		Status:        domain.StatusPending,
		RazorpayOrder: &domain.GatewaySession{ID: "order_rzp1", Amount: 10000, Currency: "INR"},
	}
	signature := payment.Sign(testKeySecret, payment.ConfirmationMessage("order_rzp1", "pay_abc"))

	f.orderRepo.On("GetByGatewayOrderID", mock.Anything, "order_rzp1").Return(order, nil)
	f.orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	f.publisher.On("PublishOrderPaid", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	result, err := f.useCase.VerifyPayment(ctx, "order_rzp1", "pay_abc", signature)

	assert.NoError(t, err)
	assert.True(t, result.IsPaid)
	assert.Equal(t, domain.StatusProcessing, result.Status)
	assert.Equal(t, "pay_abc", result.RazorpayPaymentID)
	assert.Equal(t, signature, result.RazorpaySignature)

	f.orderRepo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestVerifyPayment_BadSignatureMutatesNothing(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	result, err := f.useCase.VerifyPayment(ctx, "order_rzp1", "pay_abc", "forged")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidSignature))
	assert.Nil(t, result)

	f.orderRepo.AssertNotCalled(t, "GetByGatewayOrderID", mock.Anything, mock.Anything)
	f.orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishOrderPaid", mock.Anything, mock.Anything)
}

func TestVerifyPayment_UnknownGatewayOrder(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	signature := payment.Sign(testKeySecret, payment.ConfirmationMessage("order_rzp1", "pay_abc"))
	f.orderRepo.On("GetByGatewayOrderID", mock.Anything, "order_rzp1").Return(nil, domain.ErrNotFound)

	result, err := f.useCase.VerifyPayment(ctx, "order_rzp1", "pay_abc", signature)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Nil(t, result)
}

func TestVerifyPayment_DoubleConfirmationIsIdempotent(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order := &domain.Order{
		ID:                "order1",
		Status:            domain.StatusProcessing,
		IsPaid:            true,
		RazorpayPaymentID: "pay_abc",
		RazorpayOrder:     &domain.GatewaySession{ID: "order_rzp1"},
	}
	signature := payment.Sign(testKeySecret, payment.ConfirmationMessage("order_rzp1", "pay_abc"))

	f.orderRepo.On("GetByGatewayOrderID", mock.Anything, "order_rzp1").Return(order, nil)
	f.orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	result, err := f.useCase.VerifyPayment(ctx, "order_rzp1", "pay_abc", signature)

	assert.NoError(t, err)
	assert.True(t, result.IsPaid)
	assert.Equal(t, domain.StatusProcessing, result.Status)

	// The paid event fires on the first transition only.
	f.publisher.AssertNotCalled(t, "PublishOrderPaid", mock.Anything, mock.Anything)
}

func webhookBody(t *testing.T, event, paymentID, orderID string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"event": event,
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":       paymentID,
					"order_id": orderID,
				},
			},
		},
	})
	assert.NoError(t, err)
	return body
}

func TestHandleWebhook_CapturedPaymentMarksPaid(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order := &domain.Order{
		ID:            "order1",
		Status:        domain.StatusPending,
		RazorpayOrder: &domain.GatewaySession{ID: "order_rzp1"},
	}
	body := webhookBody(t, "payment.captured", "pay_abc", "order_rzp1")
	signature := payment.Sign(testWebhookSecret, body)

	f.orderRepo.On("GetByGatewayOrderID", mock.Anything, "order_rzp1").Return(order, nil)
	f.orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(nil).
		Run(func(args mock.Arguments) {
			updated := args.Get(1).(*domain.Order)
			assert.True(t, updated.IsPaid)
			assert.Equal(t, domain.StatusProcessing, updated.Status)
			assert.Equal(t, "pay_abc", updated.RazorpayPaymentID)
		})
	f.publisher.On("PublishOrderPaid", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	err := f.useCase.HandleWebhook(ctx, body, signature)
	assert.NoError(t, err)

	f.orderRepo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestHandleWebhook_BadSignatureRejected(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	body := webhookBody(t, "payment.captured", "pay_abc", "order_rzp1")

	err := f.useCase.HandleWebhook(ctx, body, "forged")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidSignature))
	f.orderRepo.AssertNotCalled(t, "GetByGatewayOrderID", mock.Anything, mock.Anything)
}

func TestHandleWebhook_SignatureCoversExactBytes(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	body := webhookBody(t, "payment.captured", "pay_abc", "order_rzp1")
	signature := payment.Sign(testWebhookSecret, body)

	// Any re-serialization of the body invalidates the signature.
	tampered := append([]byte(nil), body...)
	tampered = append(tampered, ' ')

	err := f.useCase.HandleWebhook(ctx, tampered, signature)
	assert.True(t, errors.Is(err, domain.ErrInvalidSignature))
}

func TestHandleWebhook_OtherEventsAcknowledged(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	body := webhookBody(t, "payment.failed", "pay_abc", "order_rzp1")
	signature := payment.Sign(testWebhookSecret, body)

	err := f.useCase.HandleWebhook(ctx, body, signature)

	assert.NoError(t, err)
	f.orderRepo.AssertNotCalled(t, "GetByGatewayOrderID", mock.Anything, mock.Anything)
	f.orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestHandleWebhook_UnknownOrderAcknowledged(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	body := webhookBody(t, "payment.captured", "pay_abc", "order_unknown")
	signature := payment.Sign(testWebhookSecret, body)

	f.orderRepo.On("GetByGatewayOrderID", mock.Anything, "order_unknown").Return(nil, domain.ErrNotFound)

	err := f.useCase.HandleWebhook(ctx, body, signature)

	assert.NoError(t, err)
	f.orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_ValidTransition(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order := &domain.Order{ID: "order1", Status: domain.StatusProcessing}
	f.orderRepo.On("GetByID", mock.Anything, "order1").Return(order, nil)
	f.orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	delivery := time.Now().Add(72 * time.Hour)
	updated, err := f.useCase.UpdateOrderStatus(ctx, "order1", domain.StatusShipped, &delivery)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)
	assert.Equal(t, &delivery, updated.DeliveryDate)
}

func TestUpdateOrderStatus_RejectsInvalidTransition(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order := &domain.Order{ID: "order1", Status: domain.StatusDelivered}
	f.orderRepo.On("GetByID", mock.Anything, "order1").Return(order, nil)

	_, err := f.useCase.UpdateOrderStatus(ctx, "order1", domain.StatusCancelled, nil)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	f.orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_RejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	_, err := f.useCase.UpdateOrderStatus(ctx, "order1", "misplaced", nil)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	f.orderRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestDeleteOrder_PendingOnly(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.orderRepo.On("GetByID", mock.Anything, "pending-order").
		Return(&domain.Order{ID: "pending-order", Status: domain.StatusPending}, nil)
	f.orderRepo.On("Delete", mock.Anything, "pending-order").Return(nil)

	assert.NoError(t, f.useCase.DeleteOrder(ctx, "pending-order"))
	f.orderRepo.AssertExpectations(t)
}

func TestDeleteOrder_RejectsNonPending(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.orderRepo.On("GetByID", mock.Anything, "shipped-order").
		Return(&domain.Order{ID: "shipped-order", Status: domain.StatusShipped}, nil)

	err := f.useCase.DeleteOrder(ctx, "shipped-order")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	f.orderRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
