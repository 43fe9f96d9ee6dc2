package products

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shambadirect/shamba-market.git/internal/clock"
	"github.com/shambadirect/shamba-market.git/internal/domain"
)

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestService(seed ...domain.Product) *Service {
	return &Service{Repo: NewMemoryRepo(seed...), Clock: clock.Fixed(fixedNow)}
}

func TestService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	farmer := domain.Principal{ID: "farmer-1", Role: domain.RoleFarmer}

	t.Run("farmer becomes owner", func(t *testing.T) {
		svc := newTestService()

		p, err := svc.Create(ctx, farmer, CreateInput{
			Name: "Managu", Category: "vegetables", Unit: "bunch",
			PriceCents: 3000, Quantity: 40, Location: "Kisii",
		})
		require.NoError(t, err)
		assert.Equal(t, "farmer-1", p.FarmerID)
		assert.True(t, p.IsAvailable)
		assert.Equal(t, fixedNow, p.CreatedAt)
		assert.NotEmpty(t, p.ID)
	})

	t.Run("non-farmer rejected", func(t *testing.T) {
		svc := newTestService()
		for _, r := range []domain.Role{domain.RoleCustomer, domain.RoleAdmin} {
			_, err := svc.Create(ctx, domain.Principal{ID: "x", Role: r}, CreateInput{Name: "Mboga", PriceCents: 1})
			assert.ErrorIs(t, err, domain.ErrForbidden, "role %s", r)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Create(ctx, farmer, CreateInput{Name: "", PriceCents: 100})
		assert.ErrorIs(t, err, domain.ErrInvalidProduct)
		_, err = svc.Create(ctx, farmer, CreateInput{Name: "Mboga", PriceCents: -1})
		assert.ErrorIs(t, err, domain.ErrInvalidProduct)
	})
}

func strptr(s string) *string { return &s }
func intptr(n int) *int       { return &n }

func TestService_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	seed := domain.Product{
		ID: "p1", FarmerID: "farmer-1", Name: "Ndizi", Category: "fruits",
		Unit: "bunch", PriceCents: 5000, Quantity: 30, IsAvailable: true, Location: "Meru",
	}
	owner := domain.Principal{ID: "farmer-1", Role: domain.RoleFarmer}

	t.Run("owner updates fields", func(t *testing.T) {
		svc := newTestService(seed)

		p, err := svc.Update(ctx, owner, "p1", UpdateInput{
			Name:       strptr("Ndizi Mzuri"),
			PriceCents: intptr(5500),
			Location:   strptr("Embu"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Ndizi Mzuri", p.Name)
		assert.Equal(t, 5500, p.PriceCents)
		assert.Equal(t, "Embu", p.Location)
		assert.Equal(t, fixedNow, p.UpdatedAt)
		// field tanpa input tidak berubah
		assert.Equal(t, "fruits", p.Category)
		assert.Equal(t, "bunch", p.Unit)
	})

	t.Run("quantity untouched by update", func(t *testing.T) {
		svc := newTestService(seed)

		_, err := svc.Update(ctx, owner, "p1", UpdateInput{Name: strptr("Ndizi Tamu")})
		require.NoError(t, err)

		got, err := svc.Get(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, 30, got.Quantity)
	})

	t.Run("admin updates", func(t *testing.T) {
		svc := newTestService(seed)
		admin := domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}

		p, err := svc.Update(ctx, admin, "p1", UpdateInput{Description: strptr("sweet bananas")})
		require.NoError(t, err)
		assert.Equal(t, "sweet bananas", p.Description)
	})

	t.Run("other farmer forbidden", func(t *testing.T) {
		svc := newTestService(seed)
		other := domain.Principal{ID: "farmer-2", Role: domain.RoleFarmer}

		_, err := svc.Update(ctx, other, "p1", UpdateInput{Name: strptr("Hijacked")})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("invalid input", func(t *testing.T) {
		svc := newTestService(seed)

		_, err := svc.Update(ctx, owner, "p1", UpdateInput{Name: strptr("")})
		assert.ErrorIs(t, err, domain.ErrInvalidProduct)
		_, err = svc.Update(ctx, owner, "p1", UpdateInput{PriceCents: intptr(-1)})
		assert.ErrorIs(t, err, domain.ErrInvalidProduct)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.Update(ctx, owner, "ghost", UpdateInput{Name: strptr("X")})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	seed := domain.Product{ID: "p1", FarmerID: "farmer-1", Name: "Ndizi"}

	t.Run("owner deletes", func(t *testing.T) {
		svc := newTestService(seed)
		owner := domain.Principal{ID: "farmer-1", Role: domain.RoleFarmer}

		require.NoError(t, svc.Delete(ctx, owner, "p1"))
		_, err := svc.Get(ctx, "p1")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("admin deletes", func(t *testing.T) {
		svc := newTestService(seed)
		admin := domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}

		require.NoError(t, svc.Delete(ctx, admin, "p1"))
	})

	t.Run("other farmer forbidden", func(t *testing.T) {
		svc := newTestService(seed)
		other := domain.Principal{ID: "farmer-2", Role: domain.RoleFarmer}

		err := svc.Delete(ctx, other, "p1")
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = svc.Get(ctx, "p1")
		require.NoError(t, err)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc := newTestService()
		err := svc.Delete(ctx, domain.Principal{ID: "a", Role: domain.RoleAdmin}, "ghost")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestService_ToggleAvailability(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	seed := domain.Product{ID: "p1", FarmerID: "farmer-1", Name: "Ndizi", IsAvailable: true}

	t.Run("owner toggles", func(t *testing.T) {
		svc := newTestService(seed)
		owner := domain.Principal{ID: "farmer-1", Role: domain.RoleFarmer}

		p, err := svc.ToggleAvailability(ctx, owner, "p1")
		require.NoError(t, err)
		assert.False(t, p.IsAvailable)

		p, err = svc.ToggleAvailability(ctx, owner, "p1")
		require.NoError(t, err)
		assert.True(t, p.IsAvailable)
	})

	t.Run("admin toggles", func(t *testing.T) {
		svc := newTestService(seed)
		admin := domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}

		p, err := svc.ToggleAvailability(ctx, admin, "p1")
		require.NoError(t, err)
		assert.False(t, p.IsAvailable)
	})

	t.Run("other farmer forbidden", func(t *testing.T) {
		svc := newTestService(seed)
		other := domain.Principal{ID: "farmer-2", Role: domain.RoleFarmer}

		_, err := svc.ToggleAvailability(ctx, other, "p1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.ToggleAvailability(ctx, domain.Principal{ID: "a", Role: domain.RoleAdmin}, "ghost")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestMemoryRepo_List(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := NewMemoryRepo(
		domain.Product{ID: "p1", FarmerID: "f1", Category: "vegetables", IsAvailable: true},
		domain.Product{ID: "p2", FarmerID: "f1", Category: "fruits", IsAvailable: false},
		domain.Product{ID: "p3", FarmerID: "f2", Category: "vegetables", IsAvailable: true},
	)

	got, err := repo.List(ctx, Filter{FarmerID: "f1"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.List(ctx, Filter{Category: "vegetables"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.List(ctx, Filter{OnlyAvailable: true})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.List(ctx, Filter{FarmerID: "f1", OnlyAvailable: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
}
