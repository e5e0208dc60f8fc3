package database

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func integrationConfig(t *testing.T) *PostgresConfig {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	cfg := DefaultPostgresConfig()
	if host := os.Getenv("TEST_POSTGRES_HOST"); host != "" {
		cfg.Host = host
	}
	if user := os.Getenv("TEST_POSTGRES_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("TEST_POSTGRES_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if dbname := os.Getenv("TEST_POSTGRES_DATABASE"); dbname != "" {
		cfg.Database = dbname
	}
	return cfg
}

func TestDefaultPostgresConfig(t *testing.T) {
	cfg := DefaultPostgresConfig()

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "lunari", cfg.Database)
	assert.Equal(t, int32(25), cfg.MaxConns)
	assert.Equal(t, int32(5), cfg.MinConns)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := &PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "testpass",
		Database: "testdb",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, cfg.DSN())
}

func TestNewPostgres_InvalidConfig(t *testing.T) {
	cfg := &PostgresConfig{
		Host:           "invalid-host-that-does-not-exist",
		Port:           9999,
		User:           "invalid",
		Password:       "invalid",
		Database:       "invalid",
		SSLMode:        "disable",
		MaxRetries:     0,
		RetryInterval:  100 * time.Millisecond,
		ConnectTimeout: time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewPostgres(ctx, cfg)
	assert.Error(t, err)
}

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"companies", "domains", "customers", "customer_responses", "bookings", "products", "payment_connections"} {
		assert.True(t, strings.Contains(schemaSQL, "CREATE TABLE IF NOT EXISTS "+table), "missing table %s", table)
	}
	assert.Contains(t, schemaSQL, "bookings_company_slot_idx ON bookings (company_id, date, slot)\n    WHERE domain_id IS NULL")
}

func TestPostgresDB_Integration(t *testing.T) {
	cfg := integrationConfig(t)
	ctx := context.Background()

	db, err := NewPostgres(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Ping(ctx))

	require.NoError(t, db.ApplySchema(ctx))
	// applying twice is a no-op
	require.NoError(t, db.ApplySchema(ctx))

	var indexes int
	require.NoError(t, db.Pool().QueryRow(ctx,
		`SELECT count(*) FROM pg_indexes WHERE tablename = 'bookings' AND indexname LIKE 'bookings_%_slot_idx'`,
	).Scan(&indexes))
	assert.Equal(t, 2, indexes)
}

func TestPostgresDB_Close(t *testing.T) {
	cfg := integrationConfig(t)
	ctx := context.Background()

	db, err := NewPostgres(ctx, cfg)
	require.NoError(t, err)

	db.Close()
	assert.Error(t, db.Ping(ctx))
}
