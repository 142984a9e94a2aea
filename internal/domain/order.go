package domain

import (
	"context"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

// statusTransitions is the full lifecycle table. Delivered and cancelled are
// terminal. The paid transition (pending -> processing) is also driven here,
// by payment reconciliation rather than an operator.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusShipped, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func IsValidStatus(status OrderStatus) bool {
	_, ok := statusTransitions[status]
	return ok
}

// CanTransitionTo reports whether the lifecycle table permits moving from s
// to next. Setting the same status again is allowed (idempotent update).
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is one (product, quantity) line of an order.
type OrderItem struct {
	ProductID string `json:"productId" bson:"productId"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// PaymentInfo holds the totals captured at order-creation time. They are
// never re-derived from the catalog afterwards.
type PaymentInfo struct {
	BillingAmount float64 `json:"billingAmount" bson:"billingAmount"`
	TotalSaved    float64 `json:"totalSaved" bson:"totalSaved"`
}

// GatewaySession mirrors the payment-gateway order created for an online
// payment. Amount is in the gateway's minor currency unit (paise).
type GatewaySession struct {
	ID       string `json:"id" bson:"id"`
	Amount   int64  `json:"amount" bson:"amount"`
	Currency string `json:"currency" bson:"currency"`
}

type Order struct {
	ID                string          `json:"_id" bson:"_id,omitempty"`
	UserID            string          `json:"userId" bson:"userId"`
	Products          []OrderItem     `json:"products" bson:"products"`
	Time              time.Time       `json:"time" bson:"time"`
	IsPaid            bool            `json:"isPaid" bson:"isPaid"`
	PaymentMethod     string          `json:"paymentMethod" bson:"paymentMethod"`
	PaymentInfo       PaymentInfo     `json:"paymentInfo" bson:"paymentInfo"`
	Status            OrderStatus     `json:"status" bson:"status"`
	DeliveryDate      *time.Time      `json:"deliveryDate,omitempty" bson:"deliveryDate,omitempty"`
	DeliveryAddress   Address         `json:"deliveryAddress" bson:"deliveryAddress"`
	AddressID         string          `json:"addressId,omitempty" bson:"addressId,omitempty"`
	RazorpayOrder     *GatewaySession `json:"razorpayOrder,omitempty" bson:"razorpayOrder,omitempty"`
	RazorpayPaymentID string          `json:"razorpayPaymentId,omitempty" bson:"razorpayPaymentId,omitempty"`
	RazorpaySignature string          `json:"razorpaySignature,omitempty" bson:"razorpaySignature,omitempty"`
}

// OrderViewItem is a resolved line item for display.
type OrderViewItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// OrderView is an order with its line-item products expanded, the response
// shape clients render.
type OrderView struct {
	Order
	Items []OrderViewItem `json:"items"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListByUserID(ctx context.Context, userID string) ([]Order, error)
	Update(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id string) error
}
