package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shambadirect/shamba-market.git/internal/domain"
)

type PostgresRepo struct{ DB *pgxpool.Pool }

const productColumns = `
	id, farmer_id, name, description, category, unit, price_cents,
	quantity, is_available, location, created_at, updated_at`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.FarmerID, &p.Name, &p.Description, &p.Category, &p.Unit,
		&p.PriceCents, &p.Quantity, &p.IsAvailable, &p.Location,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *PostgresRepo) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products(
			id, farmer_id, name, description, category, unit, price_cents,
			quantity, is_available, location, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		p.ID, p.FarmerID, p.Name, p.Description, p.Category, p.Unit,
		p.PriceCents, p.Quantity, p.IsAvailable, p.Location,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	if f.FarmerID != "" {
		args = append(args, f.FarmerID)
		q += fmt.Sprintf(" AND farmer_id=$%d", len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		q += fmt.Sprintf(" AND category=$%d", len(args))
	}
	if f.OnlyAvailable {
		q += ` AND is_available`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update tidak menyentuh kolom quantity; kolom itu milik ledger dan bisa
// bergerak paralel dengan request ini.
func (r *PostgresRepo) Update(ctx context.Context, p *domain.Product) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET
			name=$2, description=$3, category=$4, unit=$5,
			price_cents=$6, location=$7, updated_at=$8
		WHERE id=$1`,
		p.ID, p.Name, p.Description, p.Category, p.Unit,
		p.PriceCents, p.Location, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *PostgresRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET is_available=$2, updated_at=now() WHERE id=$1`, id, available)
	if err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
