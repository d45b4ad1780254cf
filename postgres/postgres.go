// Package postgres provides PostgreSQL implementations of domain service interfaces.
package postgres

import (
	"github.com/connectpalestine/conecta"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the database connection pool and exposes domain services.
type DB struct {
	pool *pgxpool.Pool

	// Domain services (initialized in NewDB)
	SubscriberService conecta.SubscriberService
}

// NewDB creates a new database wrapper with all services initialized.
func NewDB(pool *pgxpool.Pool) *DB {
	db := &DB{pool: pool}
	db.SubscriberService = &SubscriberService{db: db}
	return db
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer using service methods.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}
