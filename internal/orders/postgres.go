package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shambadirect/shamba-market.git/internal/domain"
)

type PostgresStore struct{ DB *pgxpool.Pool }

// Create menulis order + seluruh item dalam satu transaksi.
func (s *PostgresStore) Create(ctx context.Context, o *domain.Order) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(
			id, customer_id, farmer_id, total_cents, status, payment_status,
			payment_method, street, city, state, postal_code, country,
			delivery_instructions, expected_delivery_at, actual_delivery_at,
			created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		o.ID, o.CustomerID, o.FarmerID, o.TotalCents, o.Status, o.PaymentStatus,
		o.PaymentMethod, o.DeliveryAddress.Street, o.DeliveryAddress.City,
		o.DeliveryAddress.State, o.DeliveryAddress.PostalCode, o.DeliveryAddress.Country,
		o.DeliveryInstructions, o.ExpectedDeliveryAt, o.ActualDeliveryAt,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, product_name, qty, price_cents, subtotal_cents)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID, it.ProductID, it.ProductName, it.Qty, it.PriceCents, it.SubtotalCents,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return tx.Commit(ctx)
}

const orderColumns = `
	id, customer_id, farmer_id, total_cents, status, payment_status,
	payment_method, street, city, state, postal_code, country,
	delivery_instructions, expected_delivery_at, actual_delivery_at,
	created_at, updated_at`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.FarmerID, &o.TotalCents, &o.Status, &o.PaymentStatus,
		&o.PaymentMethod, &o.DeliveryAddress.Street, &o.DeliveryAddress.City,
		&o.DeliveryAddress.State, &o.DeliveryAddress.PostalCode, &o.DeliveryAddress.Country,
		&o.DeliveryInstructions, &o.ExpectedDeliveryAt, &o.ActualDeliveryAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (domain.Order, error) {
	o, err := scanOrder(s.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	items, err := s.itemsFor(ctx, []string{o.ID})
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (s *PostgresStore) ListFor(ctx context.Context, p domain.Principal) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	switch p.Role {
	case domain.RoleCustomer:
		q += ` WHERE customer_id=$1`
		args = append(args, p.ID)
	case domain.RoleFarmer:
		q += ` WHERE farmer_id=$1`
		args = append(args, p.ID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	items, err := s.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func (s *PostgresStore) itemsFor(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT order_id, product_id, product_name, qty, price_cents, subtotal_cents
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.OrderItem)
	for rows.Next() {
		var orderID string
		var it domain.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.ProductName, &it.Qty, &it.PriceCents, &it.SubtotalCents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, st domain.Status, deliveredAt *time.Time, updatedAt time.Time) error {
	ct, err := s.DB.Exec(ctx, `
		UPDATE orders SET status=$2, actual_delivery_at=$3, updated_at=$4 WHERE id=$1`,
		id, st, deliveredAt, updatedAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (s *PostgresStore) UpdatePaymentStatus(ctx context.Context, id string, ps domain.PaymentStatus, updatedAt time.Time) error {
	ct, err := s.DB.Exec(ctx, `
		UPDATE orders SET payment_status=$2, updated_at=$3 WHERE id=$1`,
		id, ps, updatedAt)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
