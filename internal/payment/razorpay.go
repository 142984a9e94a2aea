package payment

import (
	"context"
	"fmt"
	"math"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/sirupsen/logrus"

	"github.com/dibyendu02/eMadhyam-backend/internal/domain"
)

// Gateway opens payment-gateway sessions. Constructed once at startup and
// passed by handle into the order use case.
type Gateway interface {
	CreateSession(ctx context.Context, amountMinorUnits int64, currency, receipt string) (*domain.GatewaySession, error)
}

type razorpayGateway struct {
	client  *razorpay.Client
	log     *logrus.Logger
	timeout time.Duration
}

func NewRazorpayGateway(keyID, keySecret string, logger *logrus.Logger) Gateway {
	return &razorpayGateway{
		client:  razorpay.NewClient(keyID, keySecret),
		log:     logger,
		timeout: 10 * time.Second,
	}
}

type sessionResult struct {
	session *domain.GatewaySession
	err     error
}

// CreateSession creates a gateway order for exactly amountMinorUnits, tagged
// with receipt. The SDK call carries no context, so it runs in a goroutine
// bounded by the gateway timeout.
func (g *razorpayGateway) CreateSession(ctx context.Context, amountMinorUnits int64, currency, receipt string) (*domain.GatewaySession, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	done := make(chan sessionResult, 1)
	go func() {
		body, err := g.client.Order.Create(map[string]interface{}{
			"amount":   amountMinorUnits,
			"currency": currency,
			"receipt":  receipt,
		}, nil)
		if err != nil {
			done <- sessionResult{err: err}
			return
		}
		session, err := sessionFromResponse(body)
		done <- sessionResult{session: session, err: err}
	}()

	select {
	case <-ctx.Done():
		g.log.Errorf("Razorpay order creation timed out for receipt %s: %v", receipt, ctx.Err())
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, ctx.Err())
	case res := <-done:
		if res.err != nil {
			g.log.Errorf("Razorpay order creation failed for receipt %s: %v", receipt, res.err)
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, res.err)
		}
		g.log.Infof("Razorpay order %s created for receipt %s (amount %d %s)",
			res.session.ID, receipt, res.session.Amount, res.session.Currency)
		return res.session, nil
	}
}

func sessionFromResponse(body map[string]interface{}) (*domain.GatewaySession, error) {
	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("gateway response missing order id")
	}
	amount, err := toInt64(body["amount"])
	if err != nil {
		return nil, fmt.Errorf("gateway response amount: %w", err)
	}
	currency, _ := body["currency"].(string)
	return &domain.GatewaySession{ID: id, Amount: amount, Currency: currency}, nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unexpected numeric type %T", v)
	}
}

// MinorUnits converts a rupee amount to paise, rounding to the nearest
// integer to avoid floating-point drift.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
