package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pmdelacruz/artifact-market/internal/cart"
	"github.com/pmdelacruz/artifact-market/internal/checkout"
	"github.com/pmdelacruz/artifact-market/internal/config"
	"github.com/pmdelacruz/artifact-market/internal/httpx"
	kafkax "github.com/pmdelacruz/artifact-market/internal/kafka"
	"github.com/pmdelacruz/artifact-market/internal/orders"
	"github.com/pmdelacruz/artifact-market/internal/payment"
	"github.com/pmdelacruz/artifact-market/internal/postgres"
	"github.com/pmdelacruz/artifact-market/internal/redisx"
	"github.com/pmdelacruz/artifact-market/internal/registry"
	"github.com/pmdelacruz/artifact-market/internal/shipping"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderEvents, 1024)
	prod.Start(ctx)

	// Upstream registry
	client := registry.NewClient(cfg.RegistryURL, cfg.RegistryAPIKey)
	gateway := registry.NewGateway(client, rdb)

	// Services
	cartSvc := cart.NewService(cart.NewRedisRepository(rdb))
	shipRepo := shipping.NewRedisRepository(rdb)
	ledger := &orders.Repo{DB: db}
	checkoutSvc := checkout.NewService(cartSvc, shipRepo, ledger,
		payment.Simulated{Delay: cfg.PaymentDelay}, prod, cfg.ServiceName)
	ordersSvc := orders.NewService(ledger, prod, cfg.ServiceName)

	// Handlers
	router := httpx.NewRouter()
	(&httpx.RegistryHandler{Gateway: gateway, Client: client}).Register(router)
	(&httpx.CartHandler{Cart: cartSvc}).Register(router)
	(&httpx.CheckoutHandler{Checkout: checkoutSvc}).Register(router)
	(&httpx.OrdersHandler{Orders: ordersSvc}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // stop accepting, flush buffered events
	prod.WaitClosed() // drain
}
