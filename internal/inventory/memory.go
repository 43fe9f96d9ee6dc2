package inventory

import (
	"context"
	"sync"

	"github.com/shambadirect/shamba-market.git/internal/domain"
)

// MemoryLedger menyimpan produk di map dengan mutex; semantik sama persis
// dengan PostgresLedger. Dipakai di test dan dev tanpa database.
type MemoryLedger struct {
	mu       sync.Mutex
	products map[string]*domain.Product
}

func NewMemoryLedger(products ...domain.Product) *MemoryLedger {
	m := &MemoryLedger{products: make(map[string]*domain.Product, len(products))}
	for _, p := range products {
		cp := p
		m.products[p.ID] = &cp
	}
	return m
}

func (m *MemoryLedger) Reserve(ctx context.Context, productID string, qty int) (Reservation, error) {
	if qty < 1 {
		return Reservation{}, domain.ErrInvalidQuantity
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok {
		return Reservation{}, domain.ErrProductNotFound
	}
	if !p.IsAvailable {
		return Reservation{}, domain.ErrProductUnavailable
	}
	if p.Quantity < qty {
		return Reservation{}, domain.ErrInsufficientStock
	}
	p.Quantity -= qty
	return Reservation{
		ProductID:   p.ID,
		ProductName: p.Name,
		FarmerID:    p.FarmerID,
		Qty:         qty,
		PriceCents:  p.PriceCents,
	}, nil
}

func (m *MemoryLedger) Release(ctx context.Context, productID string, qty int) error {
	if qty < 1 {
		return domain.ErrInvalidQuantity
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Quantity += qty
	return nil
}

// Quantity membaca stok saat ini (helper untuk test/assertion).
func (m *MemoryLedger) Quantity(productID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[productID]; ok {
		return p.Quantity
	}
	return 0
}
