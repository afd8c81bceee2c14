package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/pmdelacruz/artifact-market/internal/config"
	kafkax "github.com/pmdelacruz/artifact-market/internal/kafka"
	"github.com/pmdelacruz/artifact-market/internal/orders"
)

// The notifier tails order lifecycle events and logs what a mailer would
// send. Actual delivery belongs to a separate system.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("shutting down...")
		cancel()
	}()

	consumer := kafkax.NewConsumer(cfg.KafkaBrokers, "order-notifier", orders.TopicOrderEvents, 2)
	log.Printf("notifier consuming %s", orders.TopicOrderEvents)

	err := consumer.Start(ctx, func(ctx context.Context, m kafkago.Message) error {
		var ev orders.Envelope
		if err := kafkax.UnmarshalEnvelope(m.Value, &ev); err != nil {
			log.Printf("skip malformed event: %v", err)
			return nil // poison message, commit and move on
		}

		switch ev.EventType {
		case orders.EventOrderPlaced:
			p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](ev.Payload)
			if err != nil {
				return err
			}
			log.Printf("notify %s: order %s confirmed, total %d, arriving %s",
				p.Email, p.OrderID, p.Total, p.EstimatedDelivery)
		case orders.EventOrderCancelled:
			p, err := kafkax.UnwrapPayload[orders.OrderCancelledPayload](ev.Payload)
			if err != nil {
				return err
			}
			log.Printf("notify %s: order %s cancelled, refund %d",
				p.Email, p.OrderID, p.RefundAmount)
		default:
			log.Printf("ignoring event type %q", ev.EventType)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("consumer: %v", err)
	}
}
