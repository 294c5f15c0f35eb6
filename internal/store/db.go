package store

import (
	"database/sql"
	"errors"
	"log/slog"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound reports that a requested record does not exist,
// distinguishable from driver and connection failures.
var ErrNotFound = errors.New("record not found")

type Store struct {
	DB *sql.DB
}

func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	// SQLite requires this per connection for ON DELETE CASCADE.
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return nil, err
	}

	return &Store{DB: db}, nil
}

// InitSchema creates the full schema directly. The server runs the
// migrations directory instead; this covers the CLI and tests.
func (s *Store) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		price TEXT NOT NULL DEFAULT '0',
		image_url TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_name TEXT,
		customer_email TEXT,
		address TEXT,
		total TEXT NOT NULL DEFAULT '0',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_name TEXT,
		unit_price TEXT NOT NULL DEFAULT '0',
		quantity INTEGER NOT NULL DEFAULT 1
	);
	`
	_, err := s.DB.Exec(query)
	if err != nil {
		slog.Error("Error creating schema", "error", err)
		return err
	}
	return nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
