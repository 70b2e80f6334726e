// ABOUTME: Local read cache connection management and schema
// ABOUTME: Handles opening the SQLite cache with WAL mode at an XDG path
package cache

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"
)

// The cache holds the last successfully fetched customer directory and
// per-month appointment lists. It exists so listings can fall back to
// last-known data when the backend is unreachable; it is refreshed on every
// successful fetch and never consulted to skip one. The backend stays
// authoritative.

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	phone TEXT,
	avatar TEXT,
	nas_link TEXT
);

CREATE TABLE IF NOT EXISTS treatments (
	id INTEGER NOT NULL,
	customer_id INTEGER NOT NULL,
	service TEXT,
	treatment_date TEXT,
	note TEXT,
	seq INTEGER NOT NULL,
	FOREIGN KEY (customer_id) REFERENCES customers(id)
);

CREATE INDEX IF NOT EXISTS idx_treatments_customer_id ON treatments(customer_id);

CREATE TABLE IF NOT EXISTS appointments (
	id INTEGER NOT NULL,
	month TEXT NOT NULL,
	customer_id INTEGER,
	customer_name TEXT NOT NULL,
	customer_phone TEXT,
	customer_birthday TEXT,
	service TEXT,
	staff TEXT,
	date TEXT NOT NULL,
	time TEXT NOT NULL,
	seq INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_appointments_month ON appointments(month);
`

// DefaultPath returns the XDG-compliant cache database path.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "dentdesk", "cache.db")
}

// Open opens (creating if needed) the cache database.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	// Single connection avoids database locked errors
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
