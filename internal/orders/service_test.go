package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shambadirect/shamba-market.git/internal/clock"
	"github.com/shambadirect/shamba-market.git/internal/domain"
	"github.com/shambadirect/shamba-market.git/internal/inventory"
)

var (
	now      = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	customer = domain.Principal{ID: "cust-1", Role: domain.RoleCustomer}
	farmer   = domain.Principal{ID: "farmer-1", Role: domain.RoleFarmer}
	admin    = domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}
)

func product(id, farmerID string, priceCents, qty int) domain.Product {
	return domain.Product{
		ID:          id,
		FarmerID:    farmerID,
		Name:        "Produk " + id,
		PriceCents:  priceCents,
		Quantity:    qty,
		IsAvailable: true,
	}
}

func newService(products ...domain.Product) (*Service, *inventory.MemoryLedger, *MemoryStore) {
	led := inventory.NewMemoryLedger(products...)
	store := NewMemoryStore()
	svc := &Service{Store: store, Ledger: led, Clock: clock.Fixed(now)}
	return svc, led, store
}

func TestService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("computes totals from snapshotted prices", func(t *testing.T) {
		svc, led, _ := newService(product("p1", "farmer-1", 10000, 5))

		o, err := svc.Create(ctx, customer, CreateInput{
			Items:         []ItemInput{{ProductID: "p1", Qty: 2}},
			PaymentMethod: "mpesa",
			DeliveryAddress: domain.DeliveryAddress{
				Street: "Moi Ave", City: "Nairobi", State: "Nairobi", PostalCode: "00100",
			},
		})
		require.NoError(t, err)

		assert.Equal(t, domain.StatusPending, o.Status)
		assert.Equal(t, domain.PaymentPending, o.PaymentStatus)
		assert.Equal(t, "cust-1", o.CustomerID)
		assert.Equal(t, "farmer-1", o.FarmerID)
		assert.Equal(t, 20000, o.TotalCents)
		require.Len(t, o.Items, 1)
		assert.Equal(t, 10000, o.Items[0].PriceCents)
		assert.Equal(t, 20000, o.Items[0].SubtotalCents)
		assert.Equal(t, domain.DefaultCountry, o.DeliveryAddress.Country)
		assert.Equal(t, now, o.CreatedAt)
		assert.Equal(t, 3, led.Quantity("p1"))
	})

	t.Run("only customers can order", func(t *testing.T) {
		svc, _, _ := newService(product("p1", "farmer-1", 100, 5))
		_, err := svc.Create(ctx, farmer, CreateInput{Items: []ItemInput{{ProductID: "p1", Qty: 1}}})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("empty cart", func(t *testing.T) {
		svc, _, _ := newService()
		_, err := svc.Create(ctx, customer, CreateInput{})
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
	})

	t.Run("zero quantity item", func(t *testing.T) {
		svc, _, _ := newService(product("p1", "farmer-1", 100, 5))
		_, err := svc.Create(ctx, customer, CreateInput{Items: []ItemInput{{ProductID: "p1", Qty: 0}}})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, _, _ := newService()
		_, err := svc.Create(ctx, customer, CreateInput{Items: []ItemInput{{ProductID: "ghost", Qty: 1}}})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("unavailable product", func(t *testing.T) {
		p := product("p1", "farmer-1", 100, 5)
		p.IsAvailable = false
		svc, _, _ := newService(p)
		_, err := svc.Create(ctx, customer, CreateInput{Items: []ItemInput{{ProductID: "p1", Qty: 1}}})
		assert.ErrorIs(t, err, domain.ErrProductUnavailable)
	})

	t.Run("multi farmer cart rejected without leaking stock", func(t *testing.T) {
		svc, led, store := newService(
			product("p1", "farmer-1", 100, 5),
			product("p2", "farmer-2", 200, 5),
		)

		_, err := svc.Create(ctx, customer, CreateInput{
			Items: []ItemInput{{ProductID: "p1", Qty: 2}, {ProductID: "p2", Qty: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrMultiFarmerCart)

		// rollback penuh: stok dua-duanya utuh, order tidak tersimpan
		assert.Equal(t, 5, led.Quantity("p1"))
		assert.Equal(t, 5, led.Quantity("p2"))
		got, err := store.ListFor(ctx, admin)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("insufficient stock mid-cart releases earlier reservations", func(t *testing.T) {
		svc, led, _ := newService(
			product("p1", "farmer-1", 100, 5),
			product("p2", "farmer-1", 200, 1),
		)

		_, err := svc.Create(ctx, customer, CreateInput{
			Items: []ItemInput{{ProductID: "p1", Qty: 3}, {ProductID: "p2", Qty: 2}},
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, 5, led.Quantity("p1"))
		assert.Equal(t, 1, led.Quantity("p2"))
	})
}

func TestService_Cancel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	create := func(t *testing.T, svc *Service) domain.Order {
		o, err := svc.Create(ctx, customer, CreateInput{
			Items: []ItemInput{{ProductID: "p1", Qty: 3}, {ProductID: "p2", Qty: 2}},
		})
		require.NoError(t, err)
		return o
	}

	t.Run("restores every item quantity", func(t *testing.T) {
		svc, led, _ := newService(
			product("p1", "farmer-1", 100, 10),
			product("p2", "farmer-1", 200, 10),
		)
		o := create(t, svc)
		require.Equal(t, 7, led.Quantity("p1"))
		require.Equal(t, 8, led.Quantity("p2"))

		got, err := svc.Cancel(ctx, customer, o.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, got.Status)
		assert.Equal(t, 10, led.Quantity("p1"))
		assert.Equal(t, 10, led.Quantity("p2"))
	})

	t.Run("admin may cancel on behalf of customer", func(t *testing.T) {
		svc, _, _ := newService(product("p1", "farmer-1", 100, 10), product("p2", "farmer-1", 100, 10))
		o := create(t, svc)

		got, err := svc.Cancel(ctx, admin, o.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, got.Status)
	})

	t.Run("farmer may not cancel", func(t *testing.T) {
		svc, led, _ := newService(product("p1", "farmer-1", 100, 10), product("p2", "farmer-1", 100, 10))
		o := create(t, svc)

		_, err := svc.Cancel(ctx, farmer, o.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, 7, led.Quantity("p1"))
	})

	t.Run("other customer may not cancel", func(t *testing.T) {
		svc, _, _ := newService(product("p1", "farmer-1", 100, 10), product("p2", "farmer-1", 100, 10))
		o := create(t, svc)

		stranger := domain.Principal{ID: "cust-2", Role: domain.RoleCustomer}
		_, err := svc.Cancel(ctx, stranger, o.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("only pending orders cancellable", func(t *testing.T) {
		svc, led, _ := newService(product("p1", "farmer-1", 100, 10), product("p2", "farmer-1", 100, 10))
		o := create(t, svc)

		_, err := svc.SetStatus(ctx, farmer, o.ID, domain.StatusProcessing)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, customer, o.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, 7, led.Quantity("p1"))
		assert.Equal(t, 8, led.Quantity("p2"))
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, _, _ := newService()
		_, err := svc.Cancel(ctx, customer, "ghost")
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

func TestService_SetStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	create := func(t *testing.T, svc *Service) domain.Order {
		o, err := svc.Create(ctx, customer, CreateInput{
			Items: []ItemInput{{ProductID: "p1", Qty: 1}},
		})
		require.NoError(t, err)
		return o
	}

	t.Run("farmer progresses status", func(t *testing.T) {
		svc, _, _ := newService(product("p1", "farmer-1", 100, 5))
		o := create(t, svc)

		got, err := svc.SetStatus(ctx, farmer, o.ID, domain.StatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, got.Status)
		assert.Nil(t, got.ActualDeliveryAt)
	})

	t.Run("delivered stamps actual delivery time once", func(t *testing.T) {
		svc, _, store := newService(product("p1", "farmer-1", 100, 5))
		o := create(t, svc)

		got, err := svc.SetStatus(ctx, farmer, o.ID, domain.StatusDelivered)
		require.NoError(t, err)
		require.NotNil(t, got.ActualDeliveryAt)
		assert.Equal(t, now, *got.ActualDeliveryAt)

		// delivered itu terminal; percobaan ulang gagal dan stempel tidak berubah
		_, err = svc.SetStatus(ctx, farmer, o.ID, domain.StatusDelivered)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		stored, err := store.Get(ctx, o.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.ActualDeliveryAt)
		assert.Equal(t, now, *stored.ActualDeliveryAt)
	})

	t.Run("unrecognized status", func(t *testing.T) {
		svc, _, _ := newService(product("p1", "farmer-1", 100, 5))
		o := create(t, svc)

		_, err := svc.SetStatus(ctx, farmer, o.ID, domain.Status("shipped"))
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("cancelled not reachable via status update", func(t *testing.T) {
		svc, led, _ := newService(product("p1", "farmer-1", 100, 5))
		o := create(t, svc)

		_, err := svc.SetStatus(ctx, farmer, o.ID, domain.StatusCancelled)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		// stok tetap ter-reserve karena ini bukan cancel betulan
		assert.Equal(t, 4, led.Quantity("p1"))
	})

	t.Run("customer may not set status", func(t *testing.T) {
		svc, _, _ := newService(product("p1", "farmer-1", 100, 5))
		o := create(t, svc)

		_, err := svc.SetStatus(ctx, customer, o.ID, domain.StatusAccepted)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("other farmer may not set status", func(t *testing.T) {
		svc, _, _ := newService(product("p1", "farmer-1", 100, 5))
		o := create(t, svc)

		other := domain.Principal{ID: "farmer-2", Role: domain.RoleFarmer}
		_, err := svc.SetStatus(ctx, other, o.ID, domain.StatusAccepted)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin may set status", func(t *testing.T) {
		svc, _, _ := newService(product("p1", "farmer-1", 100, 5))
		o := create(t, svc)

		got, err := svc.SetStatus(ctx, admin, o.ID, domain.StatusInTransit)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInTransit, got.Status)
	})
}

func TestService_SetPaymentStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	create := func(t *testing.T, svc *Service) domain.Order {
		o, err := svc.Create(ctx, customer, CreateInput{Items: []ItemInput{{ProductID: "p1", Qty: 1}}})
		require.NoError(t, err)
		return o
	}

	t.Run("admin only", func(t *testing.T) {
		svc, _, _ := newService(product("p1", "farmer-1", 100, 5))
		o := create(t, svc)

		_, err := svc.SetPaymentStatus(ctx, farmer, o.ID, domain.PaymentCompleted)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		_, err = svc.SetPaymentStatus(ctx, customer, o.ID, domain.PaymentCompleted)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		got, err := svc.SetPaymentStatus(ctx, admin, o.ID, domain.PaymentCompleted)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentCompleted, got.PaymentStatus)
	})

	t.Run("independent of order status", func(t *testing.T) {
		svc, _, _ := newService(product("p1", "farmer-1", 100, 5))
		o := create(t, svc)

		_, err := svc.SetStatus(ctx, farmer, o.ID, domain.StatusDelivered)
		require.NoError(t, err)

		got, err := svc.SetPaymentStatus(ctx, admin, o.ID, domain.PaymentFailed)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentFailed, got.PaymentStatus)
		assert.Equal(t, domain.StatusDelivered, got.Status)
	})

	t.Run("invalid value", func(t *testing.T) {
		svc, _, _ := newService(product("p1", "farmer-1", 100, 5))
		o := create(t, svc)

		_, err := svc.SetPaymentStatus(ctx, admin, o.ID, domain.PaymentStatus("refunded"))
		assert.ErrorIs(t, err, domain.ErrInvalidPaymentStatus)
	})
}

func TestService_GetAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _ := newService(
		product("p1", "farmer-1", 100, 50),
		product("p2", "farmer-2", 100, 50),
	)

	cust2 := domain.Principal{ID: "cust-2", Role: domain.RoleCustomer}
	o1, err := svc.Create(ctx, customer, CreateInput{Items: []ItemInput{{ProductID: "p1", Qty: 1}}})
	require.NoError(t, err)
	o2, err := svc.Create(ctx, cust2, CreateInput{Items: []ItemInput{{ProductID: "p2", Qty: 1}}})
	require.NoError(t, err)

	t.Run("participant or admin can read", func(t *testing.T) {
		_, err := svc.Get(ctx, customer, o1.ID)
		assert.NoError(t, err)
		_, err = svc.Get(ctx, farmer, o1.ID)
		assert.NoError(t, err)
		_, err = svc.Get(ctx, admin, o1.ID)
		assert.NoError(t, err)

		_, err = svc.Get(ctx, cust2, o1.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("customer sees only own orders", func(t *testing.T) {
		got, err := svc.List(ctx, customer)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, o1.ID, got[0].ID)
	})

	t.Run("farmer sees only incoming orders", func(t *testing.T) {
		farmer2 := domain.Principal{ID: "farmer-2", Role: domain.RoleFarmer}
		got, err := svc.List(ctx, farmer2)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, o2.ID, got[0].ID)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		got, err := svc.List(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}
