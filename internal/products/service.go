package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shambadirect/shamba-market.git/internal/clock"
	"github.com/shambadirect/shamba-market.git/internal/domain"
)

// Repo sengaja tidak punya operasi ubah-quantity: stok cuma boleh lewat
// inventory ledger.
type Repo interface {
	Create(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, f Filter) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}

type Filter struct {
	FarmerID      string
	Category      string
	OnlyAvailable bool
}

type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Unit        string `json:"unit"`
	PriceCents  int    `json:"price_cents"`
	Quantity    int    `json:"quantity"`
	Location    string `json:"location"`
}

// UpdateInput: partial update, field nil artinya tidak diubah. Quantity
// sengaja tidak ada di sini, stok cuma bergerak lewat ledger.
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Unit        *string `json:"unit"`
	PriceCents  *int    `json:"price_cents"`
	Location    *string `json:"location"`
}

type Service struct {
	Repo  Repo
	Clock clock.Clock
}

// Create: hanya farmer; farmer pembuat otomatis jadi pemilik.
func (s *Service) Create(ctx context.Context, actor domain.Principal, in CreateInput) (domain.Product, error) {
	if actor.Role != domain.RoleFarmer {
		return domain.Product{}, domain.ErrForbidden
	}
	if in.Name == "" || in.PriceCents < 0 || in.Quantity < 0 {
		return domain.Product{}, fmt.Errorf("%w: name required, price and quantity must not be negative", domain.ErrInvalidProduct)
	}

	now := s.Clock.Now()
	p := domain.Product{
		ID:          uuid.NewString(),
		FarmerID:    actor.ID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Unit:        in.Unit,
		PriceCents:  in.PriceCents,
		Quantity:    in.Quantity,
		IsAvailable: true,
		Location:    in.Location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, &p); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.Repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	return s.Repo.List(ctx, f)
}

// Update: pemilik produk atau admin.
func (s *Service) Update(ctx context.Context, actor domain.Principal, id string, in UpdateInput) (domain.Product, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if !actor.IsAdmin() && actor.ID != p.FarmerID {
		return domain.Product{}, domain.ErrForbidden
	}

	if in.Name != nil {
		if *in.Name == "" {
			return domain.Product{}, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidProduct)
		}
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return domain.Product{}, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidProduct)
		}
		p.PriceCents = *in.PriceCents
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	p.UpdatedAt = s.Clock.Now()

	if err := s.Repo.Update(ctx, &p); err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// Delete: pemilik produk atau admin.
func (s *Service) Delete(ctx context.Context, actor domain.Principal, id string) error {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && actor.ID != p.FarmerID {
		return domain.ErrForbidden
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// ToggleAvailability: pemilik produk atau admin.
func (s *Service) ToggleAvailability(ctx context.Context, actor domain.Principal, id string) (domain.Product, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if !actor.IsAdmin() && actor.ID != p.FarmerID {
		return domain.Product{}, domain.ErrForbidden
	}
	if err := s.Repo.SetAvailability(ctx, id, !p.IsAvailable); err != nil {
		return domain.Product{}, fmt.Errorf("set availability: %w", err)
	}
	p.IsAvailable = !p.IsAvailable
	return p, nil
}
