package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
)

// PostgresCustomerRepository implements CustomerRepository using PostgreSQL
type PostgresCustomerRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCustomerRepository creates a new PostgresCustomerRepository
func NewPostgresCustomerRepository(pool *pgxpool.Pool) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{pool: pool}
}

// GetByID retrieves a customer by ID
func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `
		SELECT id, COALESCE(domain_id::text, '') AS domain_id, COALESCE(company_id::text, '') AS company_id,
		       email, created_at
		FROM customers
		WHERE id = $1
	`
	customer := &domain.Customer{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&customer.ID,
		&customer.DomainID,
		&customer.CompanyID,
		&customer.Email,
		&customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return customer, nil
}

// ListResponses lists the customer's intake questions in display order
func (r *PostgresCustomerRepository) ListResponses(ctx context.Context, customerID string) ([]*domain.CustomerResponse, error) {
	if !validID(customerID) {
		return []*domain.CustomerResponse{}, nil
	}
	query := `
		SELECT id, question, COALESCE(answered, '') AS answered
		FROM customer_responses
		WHERE customer_id = $1
		ORDER BY position, id
	`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := make([]*domain.CustomerResponse, 0)
	for rows.Next() {
		resp := &domain.CustomerResponse{}
		if err := rows.Scan(&resp.ID, &resp.Question, &resp.Answered); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}
