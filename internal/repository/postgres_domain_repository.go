package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
)

// PostgresDomainRepository implements DomainRepository using PostgreSQL
type PostgresDomainRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresDomainRepository creates a new PostgresDomainRepository
func NewPostgresDomainRepository(pool *pgxpool.Pool) *PostgresDomainRepository {
	return &PostgresDomainRepository{pool: pool}
}

// GetByID retrieves a domain by ID
func (r *PostgresDomainRepository) GetByID(ctx context.Context, id string) (*domain.Domain, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `
		SELECT id, company_id, name, COALESCE(icon, '') AS icon, created_at
		FROM domains
		WHERE id = $1
	`
	d := &domain.Domain{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.CompanyID,
		&d.Name,
		&d.Icon,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// FindForOwner lists the owner's domains whose name contains name
func (r *PostgresDomainRepository) FindForOwner(ctx context.Context, userID, name string) ([]*domain.Domain, error) {
	query := `
		SELECT d.id, d.company_id, d.name, COALESCE(d.icon, '') AS icon, d.created_at
		FROM domains d
		JOIN companies c ON c.id = d.company_id
		WHERE c.owner_user_id = $1 AND strpos(d.name, $2) > 0
		ORDER BY (d.name = $2) DESC, d.created_at
	`
	return r.list(ctx, query, userID, name)
}

// ListByOwner lists every domain of the user's company
func (r *PostgresDomainRepository) ListByOwner(ctx context.Context, userID string) ([]*domain.Domain, error) {
	query := `
		SELECT d.id, d.company_id, d.name, COALESCE(d.icon, '') AS icon, d.created_at
		FROM domains d
		JOIN companies c ON c.id = d.company_id
		WHERE c.owner_user_id = $1
		ORDER BY d.name
	`
	return r.list(ctx, query, userID)
}

func (r *PostgresDomainRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Domain, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	domains := make([]*domain.Domain, 0)
	for rows.Next() {
		d := &domain.Domain{}
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name, &d.Icon, &d.CreatedAt); err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}
