package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
)

// PostgresPaymentConnectionRepository implements PaymentConnectionRepository using PostgreSQL
type PostgresPaymentConnectionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPaymentConnectionRepository creates a new PostgresPaymentConnectionRepository
func NewPostgresPaymentConnectionRepository(pool *pgxpool.Pool) *PostgresPaymentConnectionRepository {
	return &PostgresPaymentConnectionRepository{pool: pool}
}

// Get retrieves a company's connection for one provider
func (r *PostgresPaymentConnectionRepository) Get(ctx context.Context, companyID string, provider domain.PaymentProvider) (*domain.PaymentConnection, error) {
	if !validID(companyID) {
		return nil, nil
	}
	query := `
		SELECT company_id, provider, account_id, connected, updated_at
		FROM payment_connections
		WHERE company_id = $1 AND provider = $2
	`
	conn := &domain.PaymentConnection{}
	err := r.pool.QueryRow(ctx, query, companyID, string(provider)).Scan(
		&conn.CompanyID,
		&conn.Provider,
		&conn.AccountID,
		&conn.Connected,
		&conn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return conn, nil
}

// ListByCompany lists all connections of a company
func (r *PostgresPaymentConnectionRepository) ListByCompany(ctx context.Context, companyID string) ([]*domain.PaymentConnection, error) {
	if !validID(companyID) {
		return []*domain.PaymentConnection{}, nil
	}
	query := `
		SELECT company_id, provider, account_id, connected, updated_at
		FROM payment_connections
		WHERE company_id = $1
		ORDER BY provider
	`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conns := make([]*domain.PaymentConnection, 0)
	for rows.Next() {
		conn := &domain.PaymentConnection{}
		if err := rows.Scan(&conn.CompanyID, &conn.Provider, &conn.AccountID, &conn.Connected, &conn.UpdatedAt); err != nil {
			return nil, err
		}
		conns = append(conns, conn)
	}
	return conns, rows.Err()
}

// Upsert creates or replaces a connection
func (r *PostgresPaymentConnectionRepository) Upsert(ctx context.Context, conn *domain.PaymentConnection) error {
	query := `
		INSERT INTO payment_connections (company_id, provider, account_id, connected, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id, provider)
		DO UPDATE SET account_id = EXCLUDED.account_id, connected = EXCLUDED.connected, updated_at = EXCLUDED.updated_at
	`
	conn.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query,
		conn.CompanyID,
		string(conn.Provider),
		conn.AccountID,
		conn.Connected,
		conn.UpdatedAt,
	)
	return err
}
