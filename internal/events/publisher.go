package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/dibyendu02/eMadhyam-backend/internal/domain"
)

// Publisher emits order lifecycle events. Publishing is best-effort: a
// failed publish is logged, never surfaced to the buyer.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
	PublishOrderPaid(ctx context.Context, order *domain.Order) error
	Close()
}

type OrderCreatedEvent struct {
	OrderID       string  `json:"order_id"`
	UserID        string  `json:"user_id"`
	PaymentMethod string  `json:"payment_method"`
	BillingAmount float64 `json:"billing_amount"`
	CreatedAt     string  `json:"created_at"`
}

type OrderPaidEvent struct {
	OrderID          string `json:"order_id"`
	UserID           string `json:"user_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	PaidAt           string `json:"paid_at"`
}

type NatsPublisher struct {
	nc  *nats.Conn
	log *logrus.Logger
}

func NewNatsPublisher(url string, logger *logrus.Logger) (*NatsPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("eMadhyam Backend"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warnf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Infof("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Infof("Connected to NATS at %s", url)
	return &NatsPublisher{nc: nc, log: logger}, nil
}

func (p *NatsPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	event := OrderCreatedEvent{
		OrderID:       order.ID,
		UserID:        order.UserID,
		PaymentMethod: order.PaymentMethod,
		BillingAmount: order.PaymentInfo.BillingAmount,
		CreatedAt:     order.Time.Format(time.RFC3339),
	}
	return p.publish(ctx, "order.created", event)
}

func (p *NatsPublisher) PublishOrderPaid(ctx context.Context, order *domain.Order) error {
	event := OrderPaidEvent{
		OrderID:          order.ID,
		UserID:           order.UserID,
		GatewayPaymentID: order.RazorpayPaymentID,
		PaidAt:           time.Now().Format(time.RFC3339),
	}
	return p.publish(ctx, "order.paid", event)
}

func (p *NatsPublisher) publish(ctx context.Context, subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", subject, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := p.nc.Publish(subject, data); err != nil {
		p.log.Warnf("Failed to publish %s event: %v", subject, err)
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	if err := p.nc.FlushTimeout(2 * time.Second); err != nil {
		p.log.Warnf("Failed to flush NATS connection: %v", err)
		return fmt.Errorf("failed to flush %s: %w", subject, err)
	}
	p.log.Debugf("Published %s event", subject)
	return nil
}

func (p *NatsPublisher) Close() {
	if p.nc != nil && p.nc.IsConnected() {
		p.nc.Close()
		p.log.Info("NATS connection closed")
	}
}

// NoopPublisher is used when no NATS URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error { return nil }
func (NoopPublisher) PublishOrderPaid(ctx context.Context, order *domain.Order) error    { return nil }
func (NoopPublisher) Close()                                                             {}
