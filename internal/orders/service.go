package orders

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/shambadirect/shamba-market.git/internal/clock"
	"github.com/shambadirect/shamba-market.git/internal/domain"
	"github.com/shambadirect/shamba-market.git/internal/inventory"
)

type ItemInput struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type CreateInput struct {
	Items                []ItemInput            `json:"items"`
	DeliveryAddress      domain.DeliveryAddress `json:"delivery_address"`
	PaymentMethod        string                 `json:"payment_method"`
	DeliveryInstructions string                 `json:"delivery_instructions,omitempty"`
}

type Service struct {
	Store  Store
	Ledger inventory.Ledger
	Clock  clock.Clock
}

// Create memvalidasi cart, me-reserve stok item per item lewat ledger, lalu
// menyimpan order pending. Kalau ada item yang gagal (atau insert-nya gagal),
// semua reservasi yang sudah jadi dilepas lagi — tidak boleh ada order
// setengah jadi atau stok bocor.
func (s *Service) Create(ctx context.Context, actor domain.Principal, in CreateInput) (domain.Order, error) {
	if actor.Role != domain.RoleCustomer {
		return domain.Order{}, domain.ErrForbidden
	}
	if len(in.Items) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}
	for _, it := range in.Items {
		if it.Qty < 1 {
			return domain.Order{}, domain.ErrInvalidQuantity
		}
	}

	// Reservasi diakumulasi di memori dulu; commit = insert order,
	// rollback = release semuanya.
	reserved := make([]inventory.Reservation, 0, len(in.Items))
	rollback := func() {
		for _, r := range reserved {
			if err := s.Ledger.Release(ctx, r.ProductID, r.Qty); err != nil {
				log.Printf("orders: rollback release product=%s qty=%d: %v", r.ProductID, r.Qty, err)
			}
		}
	}

	var farmerID string
	items := make([]domain.OrderItem, 0, len(in.Items))
	total := 0

	for _, it := range in.Items {
		res, err := s.Ledger.Reserve(ctx, it.ProductID, it.Qty)
		if err != nil {
			rollback()
			return domain.Order{}, err
		}
		reserved = append(reserved, res)

		// Satu order = satu farmer; farmer item pertama jadi patokan.
		if farmerID == "" {
			farmerID = res.FarmerID
		} else if farmerID != res.FarmerID {
			rollback()
			return domain.Order{}, domain.ErrMultiFarmerCart
		}

		subtotal := res.PriceCents * res.Qty
		total += subtotal
		items = append(items, domain.OrderItem{
			ProductID:     res.ProductID,
			ProductName:   res.ProductName,
			Qty:           res.Qty,
			PriceCents:    res.PriceCents,
			SubtotalCents: subtotal,
		})
	}

	addr := in.DeliveryAddress
	if addr.Country == "" {
		addr.Country = domain.DefaultCountry
	}

	now := s.Clock.Now()
	order := domain.Order{
		ID:                   uuid.NewString(),
		CustomerID:           actor.ID,
		FarmerID:             farmerID,
		Items:                items,
		TotalCents:           total,
		Status:               domain.StatusPending,
		PaymentStatus:        domain.PaymentPending,
		PaymentMethod:        in.PaymentMethod,
		DeliveryAddress:      addr,
		DeliveryInstructions: in.DeliveryInstructions,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.Store.Create(ctx, &order); err != nil {
		rollback()
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// Get: hanya peserta order (customer/farmer) atau admin.
func (s *Service) Get(ctx context.Context, actor domain.Principal, orderID string) (domain.Order, error) {
	o, err := s.Store.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !actor.IsAdmin() && !o.IsParticipant(actor.ID) {
		return domain.Order{}, domain.ErrForbidden
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, actor domain.Principal) ([]domain.Order, error) {
	return s.Store.ListFor(ctx, actor)
}

// SetStatus: farmer pemilik order atau admin. Transisi dicek lewat satu
// fungsi (domain.CanTransition) supaya gampang diketatkan nanti. Status
// delivered sekalian menstempel actual delivery time.
func (s *Service) SetStatus(ctx context.Context, actor domain.Principal, orderID string, to domain.Status) (domain.Order, error) {
	if !to.Valid() {
		return domain.Order{}, domain.ErrInvalidStatus
	}

	o, err := s.Store.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !actor.IsAdmin() && actor.ID != o.FarmerID {
		return domain.Order{}, domain.ErrForbidden
	}
	if !domain.CanTransition(o.Status, to) {
		return domain.Order{}, domain.ErrInvalidTransition
	}

	now := s.Clock.Now()
	deliveredAt := o.ActualDeliveryAt
	if to == domain.StatusDelivered {
		deliveredAt = &now
	}
	if err := s.Store.UpdateStatus(ctx, o.ID, to, deliveredAt, now); err != nil {
		return domain.Order{}, fmt.Errorf("update status: %w", err)
	}

	o.Status = to
	o.ActualDeliveryAt = deliveredAt
	o.UpdatedAt = now
	return o, nil
}

// Cancel: customer pemilik order atau admin, dan hanya order pending.
// Setelah status jadi cancelled, stok tiap item dikembalikan best-effort:
// kegagalan release dicatat di log tapi cancel-nya tidak dibatalkan
// (rekonsiliasi ditangani proses terpisah).
func (s *Service) Cancel(ctx context.Context, actor domain.Principal, orderID string) (domain.Order, error) {
	o, err := s.Store.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !actor.IsAdmin() && actor.ID != o.CustomerID {
		return domain.Order{}, domain.ErrForbidden
	}
	if o.Status != domain.StatusPending {
		return domain.Order{}, domain.ErrInvalidTransition
	}

	now := s.Clock.Now()
	if err := s.Store.UpdateStatus(ctx, o.ID, domain.StatusCancelled, o.ActualDeliveryAt, now); err != nil {
		return domain.Order{}, fmt.Errorf("cancel order: %w", err)
	}

	for _, it := range o.Items {
		if err := s.Ledger.Release(ctx, it.ProductID, it.Qty); err != nil {
			log.Printf("orders: cancel release order=%s product=%s qty=%d: %v", o.ID, it.ProductID, it.Qty, err)
		}
	}

	o.Status = domain.StatusCancelled
	o.UpdatedAt = now
	return o, nil
}

// SetPaymentStatus: label dari admin (integrasi gateway di luar scope),
// independen dari status order.
func (s *Service) SetPaymentStatus(ctx context.Context, actor domain.Principal, orderID string, ps domain.PaymentStatus) (domain.Order, error) {
	if !actor.IsAdmin() {
		return domain.Order{}, domain.ErrForbidden
	}
	if !ps.Valid() {
		return domain.Order{}, domain.ErrInvalidPaymentStatus
	}

	o, err := s.Store.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	now := s.Clock.Now()
	if err := s.Store.UpdatePaymentStatus(ctx, o.ID, ps, now); err != nil {
		return domain.Order{}, fmt.Errorf("update payment status: %w", err)
	}
	o.PaymentStatus = ps
	o.UpdatedAt = now
	return o, nil
}
