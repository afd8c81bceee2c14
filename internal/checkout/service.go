package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/pmdelacruz/artifact-market/internal/cart"
	kafkax "github.com/pmdelacruz/artifact-market/internal/kafka"
	"github.com/pmdelacruz/artifact-market/internal/orders"
	"github.com/pmdelacruz/artifact-market/internal/payment"
	"github.com/pmdelacruz/artifact-market/internal/shipping"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrIncompleteShipping = errors.New("shipping details are incomplete")
	ErrInvalidMethod      = errors.New("unknown payment method")
)

const deliveryOffset = 5 * 24 * time.Hour

// Service drives the checkout steps and commits orders into the ledger.
type Service struct {
	Cart     *cart.Service
	Shipping shipping.Repository
	Ledger   orders.Repository
	Payments payment.Processor
	Producer orders.EventPublisher // optional
	Name     string
	Now      func() time.Time
}

func NewService(c *cart.Service, ship shipping.Repository, ledger orders.Repository,
	proc payment.Processor, producer orders.EventPublisher, name string) *Service {
	return &Service{
		Cart:     c,
		Shipping: ship,
		Ledger:   ledger,
		Payments: proc,
		Producer: producer,
		Name:     name,
		Now:      time.Now,
	}
}

// State reports the derived step plus the session data behind it.
func (s *Service) State(ctx context.Context, sessionID string) (Step, []cart.Line, *shipping.Address, error) {
	lines, err := s.Cart.Lines(ctx, sessionID)
	if err != nil {
		return StepCart, nil, nil, err
	}
	addr, err := s.Shipping.Load(ctx, sessionID)
	if err != nil {
		return StepCart, nil, nil, err
	}
	return CurrentStep(lines, addr), lines, addr, nil
}

// SaveShipping persists the address for the session. Advancing out of
// the cart step needs a non-empty cart, and the address must be complete
// before payment becomes reachable.
func (s *Service) SaveShipping(ctx context.Context, sessionID string, addr shipping.Address) error {
	lines, err := s.Cart.Lines(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	addr = addr.Normalize()
	if !shipping.IsComplete(addr) {
		return ErrIncompleteShipping
	}
	return s.Shipping.Save(ctx, sessionID, addr)
}

// PlaceOrder is the payment -> confirmed transition. Validation happens
// before any snapshot; the ledger append must complete before the cart
// and shipping snapshots are cleared, so a mid-commit failure can lose
// at most the clearing, never the order and the cart both.
func (s *Service) PlaceOrder(ctx context.Context, sessionID, method string) (*orders.Order, error) {
	if !payment.ValidMethod(method) {
		return nil, ErrInvalidMethod
	}

	lines, err := s.Cart.Lines(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	addr, err := s.Shipping.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if addr == nil || !shipping.IsComplete(*addr) {
		return nil, ErrIncompleteShipping
	}

	total := cart.Total(lines)
	if _, err := s.Payments.Charge(ctx, payment.Method(method), total); err != nil {
		return nil, fmt.Errorf("charge: %w", err)
	}

	// Frozen snapshot: the ledger copy must be immune to later cart edits.
	items := make([]cart.Line, len(lines))
	copy(items, lines)

	now := s.Now().UTC()
	order := &orders.Order{
		OrderID:           "PH-" + uuid.NewString(),
		SessionID:         sessionID,
		Items:             items,
		Total:             total,
		Shipping:          addr.Normalize(),
		Timestamp:         now,
		PaymentMethod:     method,
		EstimatedDelivery: now.Add(deliveryOffset).Format("January 2, 2006"),
	}

	if err := s.Ledger.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("append order: %w", err)
	}

	// Clearing failures leave a stale session behind but never undo the
	// recorded order.
	if err := s.Cart.Clear(ctx, sessionID); err != nil {
		log.Printf("clear cart after order %s: %v", order.OrderID, err)
	}
	if err := s.Shipping.Clear(ctx, sessionID); err != nil {
		log.Printf("clear shipping after order %s: %v", order.OrderID, err)
	}

	if s.Producer != nil {
		ev := orders.Envelope{
			EventID:       uuid.NewString(),
			EventType:     orders.EventOrderPlaced,
			EventVersion:  1,
			OccurredAt:    now,
			Producer:      s.Name,
			CorrelationID: order.OrderID,
			Payload: kafkax.MustMarshal(orders.OrderPlacedPayload{
				OrderID:           order.OrderID,
				Total:             order.Total,
				PaymentMethod:     order.PaymentMethod,
				ItemCount:         len(order.Items),
				EstimatedDelivery: order.EstimatedDelivery,
				Email:             order.Shipping.Email,
			}),
		}
		s.Producer.Publish(orders.PartitionKey(order.OrderID), kafkax.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderPlaced)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}

	return order, nil
}
