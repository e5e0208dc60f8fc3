package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
)

const uniqueViolation = "23505"

// PostgresBookingRepository implements BookingRepository using PostgreSQL
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

// Create stores a booking, returning ErrDuplicateSlot on collision
func (r *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, customer_id, domain_id, company_id, email, date, slot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		booking.ID,
		booking.CustomerID,
		nullStringOrValue(booking.DomainID),
		nullStringOrValue(booking.CompanyID),
		booking.Email,
		booking.Date,
		booking.Slot,
		booking.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateSlot
		}
		return err
	}
	return nil
}

// SlotTaken reports whether a slot is already booked on the same calendar.
// A domain calendar only sees its own bookings, a company calendar only the
// bookings made without a domain.
func (r *PostgresBookingRepository) SlotTaken(ctx context.Context, domainID, companyID string, date time.Time, slot string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE date = $3 AND slot = $4
			  AND (($1::uuid IS NOT NULL AND domain_id = $1::uuid)
			    OR ($1::uuid IS NULL AND domain_id IS NULL AND company_id = $2::uuid))
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query,
		nullStringOrValue(domainID),
		nullStringOrValue(companyID),
		date,
		slot,
	).Scan(&exists)
	return exists, err
}

// ListByCompany lists bookings of a company, newest date first
func (r *PostgresBookingRepository) ListByCompany(ctx context.Context, companyID string) ([]*domain.Booking, error) {
	return r.list(ctx, `company_id = $1`, companyID)
}

// ListByDomain lists bookings of a domain, newest date first
func (r *PostgresBookingRepository) ListByDomain(ctx context.Context, domainID string) ([]*domain.Booking, error) {
	return r.list(ctx, `domain_id = $1`, domainID)
}

func (r *PostgresBookingRepository) list(ctx context.Context, where string, id string) ([]*domain.Booking, error) {
	if !validID(id) {
		return []*domain.Booking{}, nil
	}
	query := `
		SELECT id, customer_id, COALESCE(domain_id::text, '') AS domain_id,
		       COALESCE(company_id::text, '') AS company_id, email, date, slot, created_at
		FROM bookings
		WHERE ` + where + `
		ORDER BY date DESC, slot
	`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b := &domain.Booking{}
		err := rows.Scan(
			&b.ID,
			&b.CustomerID,
			&b.DomainID,
			&b.CompanyID,
			&b.Email,
			&b.Date,
			&b.Slot,
			&b.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// nullStringOrValue returns nil for empty strings, otherwise returns the value
func nullStringOrValue(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
