package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shambadirect/shamba-market.git/internal/domain"
)

// PostgresLedger: decrement bersyarat dalam satu statement UPDATE, jadi
// race antar order paralel diputus di database, bukan di aplikasi.
type PostgresLedger struct{ DB *pgxpool.Pool }

func (l *PostgresLedger) Reserve(ctx context.Context, productID string, qty int) (Reservation, error) {
	if qty < 1 {
		return Reservation{}, domain.ErrInvalidQuantity
	}

	row := l.DB.QueryRow(ctx, `
		UPDATE products
		SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND is_available AND quantity >= $2
		RETURNING farmer_id, name, price_cents`,
		productID, qty)

	res := Reservation{ProductID: productID, Qty: qty}
	err := row.Scan(&res.FarmerID, &res.ProductName, &res.PriceCents)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, fmt.Errorf("reserve %s: %w", productID, err)
	}

	// Tidak ada row ter-update: baca sekali lagi cuma untuk membedakan
	// not-found / unavailable / kurang stok (error path, di luar jalur atomik).
	var available bool
	var stock int
	err = l.DB.QueryRow(ctx, `SELECT is_available, quantity FROM products WHERE id=$1`, productID).
		Scan(&available, &stock)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return Reservation{}, domain.ErrProductNotFound
	case err != nil:
		return Reservation{}, fmt.Errorf("reserve %s: %w", productID, err)
	case !available:
		return Reservation{}, domain.ErrProductUnavailable
	default:
		return Reservation{}, domain.ErrInsufficientStock
	}
}

func (l *PostgresLedger) Release(ctx context.Context, productID string, qty int) error {
	if qty < 1 {
		return domain.ErrInvalidQuantity
	}
	ct, err := l.DB.Exec(ctx, `
		UPDATE products SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1`,
		productID, qty)
	if err != nil {
		return fmt.Errorf("release %s: %w", productID, err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
