package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/shambadirect/shamba-market.git/internal/config"
	kafkax "github.com/shambadirect/shamba-market.git/internal/kafka"
	"github.com/shambadirect/shamba-market.git/internal/notifier"
	"github.com/shambadirect/shamba-market.git/internal/orders"
	"github.com/shambadirect/shamba-market.git/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Redis:       rdb,
		Cache:       &redisx.OrderStatusCache{R: rdb},
		ServiceName: cfg.ServiceName + "-notifier",
	}

	topics := []string{orders.TopicOrderCreated, orders.TopicOrderStatus, orders.TopicOrderCancelled}

	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range topics {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, topic, cfg.NotifierWorkers)
		topic := topic
		g.Go(func() error {
			log.Printf("notifier consumer started: group=%s topic=%s workers=%d", cfg.NotifierGroup, topic, cfg.NotifierWorkers)
			return cons.Start(gctx, svc.HandleOrderEvent)
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("notifier exit: %v", err)
	}
}
