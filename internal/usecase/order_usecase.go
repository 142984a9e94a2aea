package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dibyendu02/eMadhyam-backend/internal/domain"
	"github.com/dibyendu02/eMadhyam-backend/internal/events"
	"github.com/dibyendu02/eMadhyam-backend/internal/payment"
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, userID string, items []domain.OrderItem, paymentMethod, addressID string) (*domain.OrderView, error)
	GetOrderByID(ctx context.Context, id string) (*domain.OrderView, error)
	ListAllOrders(ctx context.Context) ([]domain.OrderView, error)
	ListUserOrders(ctx context.Context, userID string) ([]domain.OrderView, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus, deliveryDate *time.Time) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	VerifyPayment(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (*domain.Order, error)
	HandleWebhook(ctx context.Context, body []byte, headerSignature string) error
}

// Secrets carries the two distinct signing keys of the payment gateway: the
// key secret signs client confirmations, the webhook secret signs pushed
// events.
type Secrets struct {
	KeySecret     string
	WebhookSecret string
}

type orderUseCase struct {
	orderRepo   domain.OrderRepository
	userRepo    domain.UserRepository
	productRepo domain.ProductRepository
	gateway     payment.Gateway
	secrets     Secrets
	publisher   events.Publisher
	log         *logrus.Logger
}

func NewOrderUseCase(
	orderRepo domain.OrderRepository,
	userRepo domain.UserRepository,
	productRepo domain.ProductRepository,
	gateway payment.Gateway,
	secrets Secrets,
	publisher events.Publisher,
	logger *logrus.Logger,
) OrderUseCase {
	return &orderUseCase{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		gateway:     gateway,
		secrets:     secrets,
		publisher:   publisher,
		log:         logger,
	}
}

// CreateOrder runs the full intake: validate, resolve every product
// (all-or-nothing), capture totals, snapshot the delivery address, open a
// gateway session for online payment, persist, then clear the purchased
// products from the buyer's cart.
func (uc *orderUseCase) CreateOrder(ctx context.Context, userID string, items []domain.OrderItem, paymentMethod, addressID string) (*domain.OrderView, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("products are required: %w", domain.ErrValidation)
	}
	if paymentMethod != domain.PaymentMethodCOD && paymentMethod != domain.PaymentMethodOnline {
		return nil, fmt.Errorf("unknown payment method %q: %w", paymentMethod, domain.ErrValidation)
	}
	for i, item := range items {
		if item.ProductID == "" {
			return nil, fmt.Errorf("item %d: product id is required: %w", i, domain.ErrValidation)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("item %d (product %s): quantity must be at least 1: %w", i, item.ProductID, domain.ErrValidation)
		}
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	selected := user.AddressByID(addressID)
	if selected == nil {
		return nil, fmt.Errorf("delivery address %s not in address book: %w", addressID, domain.ErrValidation)
	}

	// Resolve every product before creating anything. One missing product
	// aborts the whole intake.
	var billed, saved float64
	resolved := make([]domain.Product, 0, len(items))
	for _, item := range items {
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			uc.log.Warnf("Order intake aborted for user %s: product %s did not resolve: %v", userID, item.ProductID, err)
			return nil, err
		}
		billed += product.Price * float64(item.Quantity)
		if product.OriginalPrice > product.Price {
			saved += (product.OriginalPrice - product.Price) * float64(item.Quantity)
		}
		resolved = append(resolved, *product)
	}

	order := &domain.Order{
		ID:            uuid.New().String(),
		UserID:        userID,
		Products:      items,
		Time:          time.Now(),
		PaymentMethod: paymentMethod,
		PaymentInfo: domain.PaymentInfo{
			BillingAmount: billed,
			TotalSaved:    saved,
		},
		Status:          domain.StatusPending,
		IsPaid:          false,
		DeliveryAddress: *selected,
		AddressID:       selected.ID,
	}

	// Online payment opens the gateway session before the order persists.
	// A gateway failure aborts intake: no order may claim online payment
	// without a session behind it.
	if paymentMethod == domain.PaymentMethodOnline {
		session, err := uc.gateway.CreateSession(ctx, payment.MinorUnits(billed), "INR", order.ID)
		if err != nil {
			return nil, err
		}
		order.RazorpayOrder = session
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	// Remove the purchased products from the cart. The order already
	// exists; a failure here leaves stale cart entries, which is logged
	// rather than failing the request.
	productIDs := make([]string, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}
	user.ClearCartProducts(productIDs)
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		uc.log.Errorf("Order %s created but cart cleanup failed for user %s: %v", order.ID, userID, err)
	}

	if err := uc.publisher.PublishOrderCreated(ctx, order); err != nil {
		uc.log.Warnf("Failed to publish order.created for order %s: %v", order.ID, err)
	}

	uc.log.Infof("Order %s created for user %s (billed %.2f, saved %.2f, method %s)",
		order.ID, userID, billed, saved, paymentMethod)
	return uc.view(order, resolved), nil
}

func (uc *orderUseCase) GetOrderByID(ctx context.Context, id string) (*domain.OrderView, error) {
	if id == "" {
		return nil, fmt.Errorf("order id is required: %w", domain.ErrValidation)
	}
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.expand(ctx, order)
}

func (uc *orderUseCase) ListAllOrders(ctx context.Context) ([]domain.OrderView, error) {
	orders, err := uc.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return uc.expandAll(ctx, orders)
}

func (uc *orderUseCase) ListUserOrders(ctx context.Context, userID string) ([]domain.OrderView, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", domain.ErrValidation)
	}
	orders, err := uc.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.expandAll(ctx, orders)
}

// UpdateOrderStatus applies an operator-driven lifecycle transition,
// validated against the transition table.
func (uc *orderUseCase) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus, deliveryDate *time.Time) (*domain.Order, error) {
	if !domain.IsValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrValidation)
	}
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("cannot move order %s from %s to %s: %w", id, order.Status, status, domain.ErrInvalidTransition)
	}

	order.Status = status
	if deliveryDate != nil {
		order.DeliveryDate = deliveryDate
	}
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Infof("Order %s status updated to %s", id, status)
	return order, nil
}

// DeleteOrder removes an order, permitted only while it is still pending.
func (uc *orderUseCase) DeleteOrder(ctx context.Context, id string) error {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != domain.StatusPending {
		return fmt.Errorf("can only delete pending orders (order %s is %s): %w", id, order.Status, domain.ErrValidation)
	}
	return uc.orderRepo.Delete(ctx, id)
}

// VerifyPayment is the client-submitted confirmation path of payment
// reconciliation. The signature covers gatewayOrderID + "|" +
// gatewayPaymentID under the key secret; nothing mutates unless it checks
// out.
func (uc *orderUseCase) VerifyPayment(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (*domain.Order, error) {
	if gatewayOrderID == "" || gatewayPaymentID == "" || signature == "" {
		return nil, fmt.Errorf("order id, payment id and signature are required: %w", domain.ErrValidation)
	}

	message := payment.ConfirmationMessage(gatewayOrderID, gatewayPaymentID)
	if !payment.VerifySignature(uc.secrets.KeySecret, message, signature) {
		uc.log.Warnf("Payment confirmation rejected for gateway order %s: signature mismatch", gatewayOrderID)
		return nil, fmt.Errorf("payment confirmation for %s: %w", gatewayOrderID, domain.ErrInvalidSignature)
	}

	order, err := uc.orderRepo.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if err := uc.markPaid(ctx, order, gatewayPaymentID, signature); err != nil {
		return nil, err
	}
	return order, nil
}

// razorpayWebhookEvent is the gateway's push notification envelope. The
// order reference lives at payload.payment.entity.order_id.
type razorpayWebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook is the asynchronous reconciliation path. The signature is
// computed over the raw body bytes exactly as received, under the webhook
// secret. Unmatched event types, and captured payments for unknown orders,
// are acknowledged without state change.
func (uc *orderUseCase) HandleWebhook(ctx context.Context, body []byte, headerSignature string) error {
	if !payment.VerifySignature(uc.secrets.WebhookSecret, body, headerSignature) {
		uc.log.Warn("Webhook rejected: signature mismatch")
		return fmt.Errorf("webhook: %w", domain.ErrInvalidSignature)
	}

	var event razorpayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("malformed webhook body: %w", domain.ErrValidation)
	}

	if event.Event != "payment.captured" {
		uc.log.Debugf("Webhook event %q acknowledged without action", event.Event)
		return nil
	}

	entity := event.Payload.Payment.Entity
	order, err := uc.orderRepo.GetByGatewayOrderID(ctx, entity.OrderID)
	if err != nil {
		// The gateway retries webhooks; an unknown order is acknowledged
		// so it does not retry forever.
		uc.log.Warnf("Webhook payment.captured for unknown gateway order %s: %v", entity.OrderID, err)
		return nil
	}
	return uc.markPaid(ctx, order, entity.ID, "")
}

// markPaid applies the unpaid->paid transition. The write is idempotent by
// construction: re-applying a captured-payment signal assigns the same
// values again.
func (uc *orderUseCase) markPaid(ctx context.Context, order *domain.Order, gatewayPaymentID, signature string) error {
	wasPaid := order.IsPaid

	order.IsPaid = true
	order.Status = domain.StatusProcessing
	order.RazorpayPaymentID = gatewayPaymentID
	if signature != "" {
		order.RazorpaySignature = signature
	}
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return err
	}

	if !wasPaid {
		if err := uc.publisher.PublishOrderPaid(ctx, order); err != nil {
			uc.log.Warnf("Failed to publish order.paid for order %s: %v", order.ID, err)
		}
		uc.log.Infof("Order %s reconciled as paid (gateway payment %s)", order.ID, gatewayPaymentID)
	} else {
		uc.log.Infof("Order %s already paid, reconciliation re-applied", order.ID)
	}
	return nil
}

// expand resolves the order's line items into products for display,
// mirroring the reference "population" the document store offers.
func (uc *orderUseCase) expand(ctx context.Context, order *domain.Order) (*domain.OrderView, error) {
	ids := make([]string, len(order.Products))
	for i, item := range order.Products {
		ids[i] = item.ProductID
	}
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return uc.view(order, products), nil
}

func (uc *orderUseCase) expandAll(ctx context.Context, orders []domain.Order) ([]domain.OrderView, error) {
	idSet := make(map[string]bool)
	ids := []string{}
	for _, order := range orders {
		for _, item := range order.Products {
			if !idSet[item.ProductID] {
				idSet[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}
	}
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]domain.OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, *uc.view(&orders[i], products))
	}
	return views, nil
}

// view pairs each line item with its product. Products the catalog no
// longer holds are skipped rather than failing the read.
func (uc *orderUseCase) view(order *domain.Order, products []domain.Product) *domain.OrderView {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	items := make([]domain.OrderViewItem, 0, len(order.Products))
	for _, line := range order.Products {
		if product, ok := byID[line.ProductID]; ok {
			items = append(items, domain.OrderViewItem{Product: product, Quantity: line.Quantity})
		}
	}
	return &domain.OrderView{Order: *order, Items: items}
}
