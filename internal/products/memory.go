package products

import (
	"context"
	"sort"
	"sync"

	"github.com/shambadirect/shamba-market.git/internal/domain"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewMemoryRepo(seed ...domain.Product) *MemoryRepo {
	m := &MemoryRepo{products: make(map[string]domain.Product, len(seed))}
	for _, p := range seed {
		m.products[p.ID] = p
	}
	return m
}

func (m *MemoryRepo) Create(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (m *MemoryRepo) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Product
	for _, p := range m.products {
		if f.FarmerID != "" && p.FarmerID != f.FarmerID {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.OnlyAvailable && !p.IsAvailable {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Update memakai quantity yang tersimpan, bukan dari caller; stok cuma
// bergerak lewat ledger.
func (m *MemoryRepo) Update(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.products[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	next := *p
	next.Quantity = cur.Quantity
	next.IsAvailable = cur.IsAvailable
	m.products[p.ID] = next
	return nil
}

func (m *MemoryRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.IsAvailable = available
	m.products[id] = p
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}
