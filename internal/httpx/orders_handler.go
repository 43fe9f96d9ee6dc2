package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/shambadirect/shamba-market.git/internal/domain"
	kafkax "github.com/shambadirect/shamba-market.git/internal/kafka"
	"github.com/shambadirect/shamba-market.git/internal/orders"
	"github.com/shambadirect/shamba-market.git/internal/redisx"
)

// Publisher supaya handler bisa dites tanpa broker beneran.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// StatusCache supaya jalur cache hit juga bisa dites tanpa Redis beneran.
type StatusCache interface {
	Get(ctx context.Context, orderID string) (redisx.StatusEntry, bool)
	Set(ctx context.Context, orderID string, e redisx.StatusEntry)
}

type OrdersHandler struct {
	Orders    *orders.Service
	Created   Publisher
	Status    Publisher
	Cancelled Publisher
	Redis     *redis.Client
	Cache     StatusCache
	Service   string
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequirePrincipal)
		r.Post("/orders", h.create)
		r.Get("/orders", h.list)
		r.Get("/orders/{id}", h.get)
		r.Get("/orders/{id}/status", h.getStatus)
		r.Put("/orders/{id}/status", h.setStatus)
		r.Put("/orders/{id}/payment", h.setPaymentStatus)
		r.Put("/orders/{id}/cancel", h.cancel)
	})
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in orders.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	actor := principalFrom(r)

	// Fast path idempotency via Redis kalau klien kirim Idempotency-Key;
	// store tetap sumber kebenaran.
	idemKey := ""
	if k := r.Header.Get("Idempotency-Key"); k != "" && h.Redis != nil {
		idemKey = fmt.Sprintf(redisx.KeyIdemOrderCreate, actor.ID, k)
		if orderID, err := h.Redis.Get(ctx, idemKey).Result(); err == nil && orderID != "" {
			if o, err := h.Orders.Get(ctx, actor, orderID); err == nil {
				writeData(w, http.StatusOK, o)
				return
			}
		}
	}

	o, err := h.Orders.Create(ctx, actor, in)
	if err != nil {
		writeErr(w, err)
		return
	}

	if idemKey != "" {
		_ = h.Redis.Set(ctx, idemKey, o.ID, redisx.TTLIdempotency).Err()
	}
	h.cacheStatus(ctx, o)
	h.publish(r, h.Created, orders.EventOrderCreated, o.ID, orders.OrderCreatedPayload{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		FarmerID:   o.FarmerID,
		Items:      orders.ToItemQtys(o.Items),
		TotalCents: o.TotalCents,
		Status:     o.Status,
	})

	writeData(w, http.StatusCreated, o)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Orders.List(ctx, principalFrom(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, out)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Orders.Get(ctx, principalFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, o)
}

// getStatus: coba cache dulu (diisi notifier), fallback ke store.
// Cache hit tetap dicek otorisasinya lewat participant id yang ikut
// tersimpan di entry; jangan sampai cache jadi jalan pintas lewat akses.
func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	actor := principalFrom(r)
	orderID := chi.URLParam(r, "id")

	if h.Cache != nil {
		if e, ok := h.Cache.Get(ctx, orderID); ok {
			if !actor.IsAdmin() && actor.ID != e.CustomerID && actor.ID != e.FarmerID {
				writeErr(w, domain.ErrForbidden)
				return
			}
			writeData(w, http.StatusOK, map[string]any{"status": e.Status, "updated_at": e.UpdatedAt})
			return
		}
	}

	o, err := h.Orders.Get(ctx, actor, orderID)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeData(w, http.StatusOK, map[string]any{"status": o.Status, "updated_at": o.UpdatedAt})
}

func (h *OrdersHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	actor := principalFrom(r)
	orderID := chi.URLParam(r, "id")

	before, err := h.Orders.Get(ctx, actor, orderID)
	if err != nil {
		writeErr(w, err)
		return
	}
	o, err := h.Orders.SetStatus(ctx, actor, orderID, body.Status)
	if err != nil {
		writeErr(w, err)
		return
	}

	h.cacheStatus(ctx, o)
	h.publish(r, h.Status, orders.EventOrderStatusChanged, o.ID, orders.StatusChangedPayload{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		FarmerID:   o.FarmerID,
		OldStatus:  before.Status,
		NewStatus:  o.Status,
		ActorID:    actor.ID,
	})
	writeData(w, http.StatusOK, o)
}

func (h *OrdersHandler) setPaymentStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PaymentStatus domain.PaymentStatus `json:"payment_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.SetPaymentStatus(ctx, principalFrom(r), chi.URLParam(r, "id"), body.PaymentStatus)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, o)
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	actor := principalFrom(r)

	o, err := h.Orders.Cancel(ctx, actor, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}

	h.cacheStatus(ctx, o)
	h.publish(r, h.Cancelled, orders.EventOrderCancelled, o.ID, orders.OrderCancelledPayload{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		FarmerID:   o.FarmerID,
		ActorID:    actor.ID,
		Released:   orders.ToItemQtys(o.Items),
	})
	writeData(w, http.StatusOK, o)
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, o domain.Order) {
	if h.Cache == nil {
		return
	}
	h.Cache.Set(ctx, o.ID, redisx.StatusEntry{
		Status:     string(o.Status),
		UpdatedAt:  o.UpdatedAt,
		CustomerID: o.CustomerID,
		FarmerID:   o.FarmerID,
	})
}

func (h *OrdersHandler) publish(r *http.Request, p Publisher, eventType, orderID string, payload any) {
	if p == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
