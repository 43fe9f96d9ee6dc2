package kafka

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Handler return nil hanya kalau proses sukses dan offset boleh di-commit.
type Handler func(ctx context.Context, m kafka.Message) error

type Consumer struct {
	r       *kafka.Reader
	workers int
}

func NewConsumer(brokers []string, group, topic string, workers int) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			GroupID:        group,
			Topic:          topic,
			MinBytes:       1,
			MaxBytes:       10e6,
			CommitInterval: 0, // commit manual per pesan
		}),
		workers: workers,
	}
}

var workerBackoff = 200 * time.Millisecond

// Start membaca pesan lalu membagikannya ke pool worker; tiap worker
// commit sendiri setelah handler sukses.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	jobs := make(chan kafka.Message, 256)
	var wg sync.WaitGroup

	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runWorker(ctx, jobs, h, c.r.CommitMessages)
		}()
	}

	for {
		m, err := c.r.ReadMessage(ctx)
		if err != nil {
			close(jobs)
			wg.Wait()
			// jangan berisik saat shutdown
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		select {
		case jobs <- m:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil
		}
	}
}

// runWorker memproses pesan sampai jobs ditutup. Error dicatat langsung
// di sini, tanpa channel error yang bisa penuh lalu bikin worker macet.
func runWorker(ctx context.Context, jobs <-chan kafka.Message, h Handler, commit func(context.Context, ...kafka.Message) error) {
	for m := range jobs {
		if err := h(ctx, m); err != nil {
			log.Printf("kafka: worker topic=%s partition=%d offset=%d: %v", m.Topic, m.Partition, m.Offset, err)
			time.Sleep(workerBackoff) // backoff ringan
			continue
		}
		if err := commit(ctx, m); err != nil {
			log.Printf("kafka: commit topic=%s partition=%d offset=%d: %v", m.Topic, m.Partition, m.Offset, err)
		}
	}
}
