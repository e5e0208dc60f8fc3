package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
)

// PostgresProductRepository implements ProductRepository using PostgreSQL
type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProductRepository creates a new PostgresProductRepository
func NewPostgresProductRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

// ListByDomain lists a domain's products by name
func (r *PostgresProductRepository) ListByDomain(ctx context.Context, domainID string) ([]*domain.Product, error) {
	if !validID(domainID) {
		return []*domain.Product{}, nil
	}
	query := `
		SELECT id, domain_id, name, price::text, COALESCE(image, '') AS image, created_at
		FROM products
		WHERE domain_id = $1
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query, domainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p := &domain.Product{}
		var price string
		if err := rows.Scan(&p.ID, &p.DomainID, &p.Name, &price, &p.Image, &p.CreatedAt); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("product %s has invalid price %q: %w", p.ID, price, err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
