package repository

import (
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/quickcart-io/quickcart/internal/config"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	_ "github.com/lib/pq"
)

type Repositories struct {
	DB      *sql.DB
	Product ProductRepository
	Cart    CartRepository
	Order   OrderRepository
	Seller  SellerRepository
	Payment PaymentRepository
}

// New opens the shared connection pool. Opening is effectively idempotent for
// callers: the pool is created once here and reused everywhere.
func New(cfg *config.Config) (*Repositories, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Test the connection to make sure DB is reachable
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repositories{
		DB:      db,
		Product: NewProductRepo(db),
		Cart:    NewCartRepo(db),
		Order:   NewOrderRepo(db),
		Seller:  NewSellerRepo(db),
		Payment: NewPaymentRepo(db),
	}, nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
