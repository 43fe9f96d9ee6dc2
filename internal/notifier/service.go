package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/shambadirect/shamba-market.git/internal/kafka"
	"github.com/shambadirect/shamba-market.git/internal/orders"
	"github.com/shambadirect/shamba-market.git/internal/redisx"
)

// Service meng-konsumsi event order dan menjaga cache status di Redis tetap
// hangat; GET /orders/{id}/status di API dilayani cache-first dari sini.
type Service struct {
	Redis       *redis.Client
	Cache       *redisx.OrderStatusCache
	ServiceName string
}

// HandleOrderEvent dipasang sebagai handler consumer untuk ketiga topic.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	// dedup per event_id; event ulang cukup di-skip
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		s.cacheStatus(ctx, p.OrderID, string(p.Status), p.CustomerID, p.FarmerID, env.OccurredAt)
		log.Printf("notifier: order created order=%s farmer=%s total_cents=%d", p.OrderID, p.FarmerID, p.TotalCents)

	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.StatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		s.cacheStatus(ctx, p.OrderID, string(p.NewStatus), p.CustomerID, p.FarmerID, env.OccurredAt)
		log.Printf("notifier: order %s status %s -> %s", p.OrderID, p.OldStatus, p.NewStatus)

	case orders.EventOrderCancelled:
		p, err := kafkax.UnwrapPayload[orders.OrderCancelledPayload](env.Payload)
		if err != nil {
			return err
		}
		s.cacheStatus(ctx, p.OrderID, "cancelled", p.CustomerID, p.FarmerID, env.OccurredAt)
		log.Printf("notifier: order %s cancelled, %d item released", p.OrderID, len(p.Released))

	default:
		// event tak dikenal: commit saja, jangan macetkan partition
	}
	return nil
}

// Entry cache ikut menyimpan participant id supaya API bisa otorisasi
// cache hit tanpa ke store.
func (s *Service) cacheStatus(ctx context.Context, orderID, status, customerID, farmerID string, at time.Time) {
	if s.Cache == nil {
		return
	}
	s.Cache.Set(ctx, orderID, redisx.StatusEntry{
		Status:     status,
		UpdatedAt:  at,
		CustomerID: customerID,
		FarmerID:   farmerID,
	})
}
