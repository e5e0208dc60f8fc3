package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
)

// PostgresCompanyRepository implements CompanyRepository using PostgreSQL
type PostgresCompanyRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCompanyRepository creates a new PostgresCompanyRepository
func NewPostgresCompanyRepository(pool *pgxpool.Pool) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{pool: pool}
}

const companyColumns = `id, owner_user_id, name, COALESCE(icon, '') AS icon, created_at`

// GetByID retrieves a company by ID
func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByOwner retrieves the company owned by a user
func (r *PostgresCompanyRepository) GetByOwner(ctx context.Context, userID string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE owner_user_id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, userID))
}

func (r *PostgresCompanyRepository) scanOne(row pgx.Row) (*domain.Company, error) {
	company := &domain.Company{}
	err := row.Scan(
		&company.ID,
		&company.OwnerUserID,
		&company.Name,
		&company.Icon,
		&company.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return company, nil
}
