package database

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		price_per_kg DOUBLE PRECISION NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		estimated_time_hours INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		service_id BIGINT NOT NULL REFERENCES services(id),
		order_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		pickup_date TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		weight DOUBLE PRECISION NOT NULL,
		total_price DOUBLE PRECISION NOT NULL,
		payment_method TEXT,
		payment_status TEXT NOT NULL DEFAULT 'Pending',
		receipt BYTEA
	)`,
}

// Bootstrap creates the schema on first run, seeds the default service
// catalog and ensures an admin account exists. It is idempotent.
func Bootstrap(ctx context.Context, db *sql.DB, adminPassword string) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM services").Scan(&count); err != nil {
		return fmt.Errorf("count services: %w", err)
	}
	if count == 0 {
		defaults := []struct {
			name        string
			pricePerKg  float64
			description string
			hours       int
		}{
			{"Regular Wash", 5.0, "Basic washing and drying", 24},
			{"Express Wash", 8.0, "Fast washing and drying (priority)", 12},
			{"Dry Cleaning", 10.0, "Professional dry cleaning", 48},
			{"Ironing Only", 3.0, "Ironing service without washing", 6},
		}
		for _, s := range defaults {
			_, err := db.ExecContext(ctx,
				`INSERT INTO services (name, price_per_kg, description, estimated_time_hours)
				 VALUES ($1, $2, $3, $4)`,
				s.name, s.pricePerKg, s.description, s.hours,
			)
			if err != nil {
				return fmt.Errorf("seed services: %w", err)
			}
		}
	}

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE is_admin").Scan(&count); err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO users (username, password_hash, email, is_admin)
			 VALUES ($1, $2, $3, TRUE)
			 ON CONFLICT (username) DO NOTHING`,
			"admin", string(hash), "admin@laundry.com",
		)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	return nil
}
