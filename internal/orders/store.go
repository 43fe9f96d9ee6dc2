package orders

import (
	"context"
	"time"

	"github.com/shambadirect/shamba-market.git/internal/domain"
)

// Store: satu-satunya penulis status/payment_status order. Order tidak
// pernah dihapus, hanya ditransisikan.
type Store interface {
	Create(ctx context.Context, o *domain.Order) error

	// Get gagal dengan domain.ErrOrderNotFound.
	Get(ctx context.Context, id string) (domain.Order, error)

	// ListFor memfilter sesuai role: customer cuma lihat ordernya sendiri,
	// farmer cuma order yang masuk ke dia, admin lihat semua.
	ListFor(ctx context.Context, p domain.Principal) ([]domain.Order, error)

	UpdateStatus(ctx context.Context, id string, st domain.Status, deliveredAt *time.Time, updatedAt time.Time) error
	UpdatePaymentStatus(ctx context.Context, id string, ps domain.PaymentStatus, updatedAt time.Time) error
}
