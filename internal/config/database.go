package config

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(15) UNIQUE NOT NULL,
			email VARCHAR(255) NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL DEFAULT '',
			state VARCHAR(100) NOT NULL DEFAULT '',
			pincode VARCHAR(6) NOT NULL DEFAULT '',
			password VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS businesses (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL DEFAULT '',
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category VARCHAR(100) NOT NULL DEFAULT '',
			phone VARCHAR(15) NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL DEFAULT '',
			state VARCHAR(100) NOT NULL DEFAULT '',
			gstin VARCHAR(15) NOT NULL DEFAULT '',
			access_pin VARCHAR(6) UNIQUE NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customer_businesses (
			customer_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			business_id VARCHAR(36) NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			connected_at TIMESTAMP NOT NULL,
			PRIMARY KEY (customer_id, business_id)
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id VARCHAR(36) PRIMARY KEY,
			business_id VARCHAR(36) NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			customer_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			amount NUMERIC(14, 2) NOT NULL,
			transaction_type VARCHAR(10) NOT NULL,
			created_by VARCHAR(10) NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			receipt_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(36) PRIMARY KEY,
			business_id VARCHAR(36) NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(14, 2) NOT NULL,
			unit VARCHAR(20) NOT NULL DEFAULT '',
			hsn_code VARCHAR(10) NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS offers (
			id VARCHAR(36) PRIMARY KEY,
			business_id VARCHAR(36) NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			discount_percent NUMERIC(5, 2) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			valid_until TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		)`,
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return err
		}
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_transactions_customer ON transactions(customer_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_business ON transactions(business_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_business ON products(business_id)",
		"CREATE INDEX IF NOT EXISTS idx_offers_business ON offers(business_id)",
	}

	for _, idx := range indexes {
		_, err := db.Exec(idx)
		if err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
