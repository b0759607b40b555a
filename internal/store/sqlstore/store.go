package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"           // Postgres driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLStore struct {
	db         *sql.DB
	driverName string
}

func New(driverName, dataSourceName string) (*SQLStore, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLStore{db: db, driverName: driverName}
	if err := s.createTables(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) createTables() error {
	// Simplified for brevity, ideally use migrations.
	// pair_key holds "min(a,b):max(a,b)"; its UNIQUE constraint is what makes
	// concurrent duplicate requests for the same pair race safely in SQL
	// instead of check-then-insert in Go.
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		avatar TEXT,
		encryption_secret TEXT
	);

	CREATE TABLE IF NOT EXISTS connections (
		pair_key TEXT UNIQUE NOT NULL,
		sender_id TEXT NOT NULL REFERENCES users(id),
		receiver_id TEXT NOT NULL REFERENCES users(id),
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		sender_id TEXT NOT NULL REFERENCES users(id),
		receiver_id TEXT NOT NULL REFERENCES users(id),
		cipher_for_sender TEXT NOT NULL,
		cipher_for_receiver TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	`

	if s.driverName == "postgres" {
		// Adjust for Postgres syntax
		query = strings.ReplaceAll(query, "DATETIME", "TIMESTAMP")
	}

	_, err := s.db.Exec(query)
	return err
}

// Helper to handle placeholders
func (s *SQLStore) rebind(query string) string {
	if s.driverName == "postgres" {
		// Replace ? with $1, $2, etc.
		n := strings.Count(query, "?")
		for i := 1; i <= n; i++ {
			query = strings.Replace(query, "?", fmt.Sprintf("$%d", i), 1)
		}
	}
	return query
}

// pairKey canonicalizes an unordered user pair so both directions map to the
// same connections row.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}
