package orders

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shambadirect/shamba-market.git/internal/domain"
)

// MemoryStore: implementasi Store di memori untuk test dan dev.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]domain.Order)}
}

func (m *MemoryStore) Create(ctx context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	m.orders[o.ID] = cp
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o, nil
}

func (m *MemoryStore) ListFor(ctx context.Context, p domain.Principal) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Order
	for _, o := range m.orders {
		switch p.Role {
		case domain.RoleCustomer:
			if o.CustomerID != p.ID {
				continue
			}
		case domain.RoleFarmer:
			if o.FarmerID != p.ID {
				continue
			}
		}
		o.Items = append([]domain.OrderItem(nil), o.Items...)
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) UpdateStatus(ctx context.Context, id string, st domain.Status, deliveredAt *time.Time, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = st
	o.ActualDeliveryAt = deliveredAt
	o.UpdatedAt = updatedAt
	m.orders[id] = o
	return nil
}

func (m *MemoryStore) UpdatePaymentStatus(ctx context.Context, id string, ps domain.PaymentStatus, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.PaymentStatus = ps
	o.UpdatedAt = updatedAt
	m.orders[id] = o
	return nil
}
