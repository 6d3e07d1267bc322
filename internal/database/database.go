package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type DB struct {
	*sql.DB
	log zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	var dbLogger zerolog.Logger
	if logger != nil {
		dbLogger = logger.With().Str("component", "database").Logger()
	}
	dbLogger.Info().Str("path", path).Msg("database initialized")

	return &DB{DB: db, log: dbLogger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            open_id TEXT UNIQUE NOT NULL,
            email TEXT,
            name TEXT,
            login_method TEXT,
            role TEXT NOT NULL DEFAULT 'user',
            last_signed_in DATETIME NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            owner_user_id INTEGER NOT NULL,
            destination_slug TEXT NOT NULL,
            destination_name TEXT NOT NULL,
            trip_start_date DATETIME,
            trip_end_date DATETIME,
            number_of_travellers INTEGER NOT NULL,
            total_price INTEGER NOT NULL,
            pricing_tier TEXT NOT NULL,
            special_requests TEXT,
            status TEXT NOT NULL DEFAULT 'pending',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS audit_log (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            event_type TEXT NOT NULL,
            booking_id INTEGER NOT NULL,
            actor_user_id INTEGER NOT NULL,
            detail TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE INDEX IF NOT EXISTS idx_users_open_id ON users(open_id)`,
		`CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_owner ON bookings(owner_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,

		`CREATE INDEX IF NOT EXISTS idx_audit_booking ON audit_log(booking_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}
