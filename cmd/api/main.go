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

	"github.com/shambadirect/shamba-market.git/internal/clock"
	"github.com/shambadirect/shamba-market.git/internal/config"
	"github.com/shambadirect/shamba-market.git/internal/httpx"
	"github.com/shambadirect/shamba-market.git/internal/inventory"
	kafkax "github.com/shambadirect/shamba-market.git/internal/kafka"
	"github.com/shambadirect/shamba-market.git/internal/orders"
	"github.com/shambadirect/shamba-market.git/internal/postgres"
	"github.com/shambadirect/shamba-market.git/internal/products"
	"github.com/shambadirect/shamba-market.git/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers (satu per topic)
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatus, 1024)
	pCancelled := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCancelled, 1024)
	pCreated.Start(ctx)
	pStatus.Start(ctx)
	pCancelled.Start(ctx)

	// Services
	clk := clock.System()
	orderSvc := &orders.Service{
		Store:  &orders.PostgresStore{DB: db},
		Ledger: &inventory.PostgresLedger{DB: db},
		Clock:  clk,
	}
	productSvc := &products.Service{
		Repo:  &products.PostgresRepo{DB: db},
		Clock: clk,
	}

	// Router & handlers
	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Orders:    orderSvc,
		Created:   pCreated,
		Status:    pStatus,
		Cancelled: pCancelled,
		Redis:     rdb,
		Cache:     &redisx.OrderStatusCache{R: rdb},
		Service:   cfg.ServiceName,
	}
	oh.Register(router)
	ph := &httpx.ProductsHandler{Products: productSvc}
	ph.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)

	for _, p := range []*kafkax.Producer{pCreated, pStatus, pCancelled} {
		p.Close() // tutup inbox -> flush & close writer
	}
	cancel()
	for _, p := range []*kafkax.Producer{pCreated, pStatus, pCancelled} {
		p.WaitClosed()
	}
}
