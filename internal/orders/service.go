package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/pmdelacruz/artifact-market/internal/kafka"
)

// Service exposes the ledger read path and the two-phase cancellation.
type Service struct {
	Repo     Repository
	Producer EventPublisher // optional
	Name     string         // event producer name
	Now      func() time.Time
}

func NewService(repo Repository, producer EventPublisher, name string) *Service {
	return &Service{Repo: repo, Producer: producer, Name: name, Now: time.Now}
}

func (s *Service) List(ctx context.Context, sessionID string) ([]Order, error) {
	return s.Repo.List(ctx, sessionID)
}

// RequestCancellation surfaces the order summary and refund amount
// without committing anything. A missing id yields (nil, nil).
func (s *Service) RequestCancellation(ctx context.Context, orderID string) (*CancellationPreview, error) {
	o, err := s.Repo.Get(ctx, orderID)
	if err != nil || o == nil {
		return nil, err
	}
	return &CancellationPreview{
		OrderID:      o.OrderID,
		RefundAmount: o.Total, // refund is the frozen total, never recomputed
		PlacedAt:     o.Timestamp,
		Items:        o.Items,
	}, nil
}

// ConfirmCancellation removes the order terminally and returns the
// receipt. There is no restore. Confirming a missing id is a no-op that
// produces no receipt.
func (s *Service) ConfirmCancellation(ctx context.Context, orderID string) (*CancellationReceipt, error) {
	o, err := s.Repo.Get(ctx, orderID)
	if err != nil || o == nil {
		return nil, err
	}
	found, err := s.Repo.Delete(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	receipt := &CancellationReceipt{
		OrderID:      o.OrderID,
		RefundAmount: o.Total,
		CancelledAt:  s.Now().UTC(),
	}

	if s.Producer != nil {
		ev := Envelope{
			EventID:       uuid.NewString(),
			EventType:     EventOrderCancelled,
			EventVersion:  1,
			OccurredAt:    receipt.CancelledAt,
			Producer:      s.Name,
			CorrelationID: o.OrderID,
			Payload: kafkax.MustMarshal(OrderCancelledPayload{
				OrderID:      receipt.OrderID,
				RefundAmount: receipt.RefundAmount,
				CancelledAt:  receipt.CancelledAt,
				Email:        o.Shipping.Email,
			}),
		}
		s.Producer.Publish(PartitionKey(o.OrderID), kafkax.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderCancelled)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}
	return receipt, nil
}
