package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteInventoryStore implements InventoryStore on SQLite. Service existence
// lives in a services table so a cleared service stays known with zero rows
// in accounts.
type SQLiteInventoryStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteInventoryStore opens (or creates) the database at dbPath.
func NewSQLiteInventoryStore(dbPath string) (*SQLiteInventoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", ErrPersistence, err)
	}

	// WAL mode and a busy timeout keep the single writer responsive
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open SQLite: %v", ErrPersistence, err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createStockTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create tables: %v", ErrPersistence, err)
	}

	log.Printf("[SQLiteInventoryStore] Initialized with database: %s", dbPath)
	return &SQLiteInventoryStore{db: db}, nil
}

func createStockTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS services (
		name TEXT PRIMARY KEY
	);
	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		service TEXT NOT NULL,
		account TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_accounts_service ON accounts(service);
	`
	_, err := db.Exec(query)
	return err
}

// serviceKnown reports whether the service row exists.
func (s *SQLiteInventoryStore) serviceKnown(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}, service string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM services WHERE name = ?`, service).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: query service: %v", ErrPersistence, err)
	}
	return true, nil
}

// Create creates an empty sequence for the service.
func (s *SQLiteInventoryStore) Create(ctx context.Context, service string) error {
	service = NormalizeService(service)

	s.mu.Lock()
	defer s.mu.Unlock()

	known, err := s.serviceKnown(ctx, s.db, service)
	if err != nil {
		return err
	}
	if known {
		return ErrAlreadyExists
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO services (name) VALUES (?)`, service); err != nil {
		return fmt.Errorf("%w: insert service: %v", ErrPersistence, err)
	}
	return nil
}

// Count returns the number of items in stock, 0 for an unknown service.
func (s *SQLiteInventoryStore) Count(ctx context.Context, service string) (int, error) {
	service = NormalizeService(service)

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE service = ?`, service).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count accounts: %v", ErrPersistence, err)
	}
	return count, nil
}

// ListServices returns all known service names, sorted.
func (s *SQLiteInventoryStore) ListServices(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM services ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: list services: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var services []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: scan service: %v", ErrPersistence, err)
		}
		services = append(services, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list services: %v", ErrPersistence, err)
	}
	return services, nil
}

// Append adds items in order, creating the service implicitly.
func (s *SQLiteInventoryStore) Append(ctx context.Context, service string, items []string) (int, error) {
	service = NormalizeService(service)

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin transaction: %v", ErrPersistence, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO services (name) VALUES (?)`, service); err != nil {
		return 0, fmt.Errorf("%w: insert service: %v", ErrPersistence, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO accounts (service, account) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%w: prepare insert: %v", ErrPersistence, err)
	}
	defer stmt.Close()

	for _, item := range items {
		if item == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, service, item); err != nil {
			return 0, fmt.Errorf("%w: insert account: %v", ErrPersistence, err)
		}
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE service = ?`, service).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count accounts: %v", ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit transaction: %v", ErrPersistence, err)
	}
	return count, nil
}

// PopRandom removes and returns one uniformly drawn item. Selection and
// deletion share one transaction so a concurrent draw can never hand out the
// same row.
func (s *SQLiteInventoryStore) PopRandom(ctx context.Context, service string) (string, error) {
	service = NormalizeService(service)

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: begin transaction: %v", ErrPersistence, err)
	}
	defer tx.Rollback()

	known, err := s.serviceKnown(ctx, tx, service)
	if err != nil {
		return "", err
	}
	if !known {
		return "", ErrNotFound
	}

	var id int64
	var account string
	err = tx.QueryRowContext(ctx,
		`SELECT id, account FROM accounts WHERE service = ? ORDER BY RANDOM() LIMIT 1`,
		service).Scan(&id, &account)
	if err == sql.ErrNoRows {
		return "", ErrOutOfStock
	}
	if err != nil {
		return "", fmt.Errorf("%w: draw account: %v", ErrPersistence, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return "", fmt.Errorf("%w: delete account: %v", ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%w: commit transaction: %v", ErrPersistence, err)
	}
	return account, nil
}

// PeekMany returns the first n items in insertion order without removing them.
func (s *SQLiteInventoryStore) PeekMany(ctx context.Context, service string, n int) ([]string, error) {
	service = NormalizeService(service)

	known, err := s.serviceKnown(ctx, s.db, service)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, ErrNotFound
	}
	if n < 0 {
		n = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT account FROM accounts WHERE service = ? ORDER BY id LIMIT ?`, service, n)
	if err != nil {
		return nil, fmt.Errorf("%w: peek accounts: %v", ErrPersistence, err)
	}
	defer rows.Close()

	items := make([]string, 0, n)
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, fmt.Errorf("%w: scan account: %v", ErrPersistence, err)
		}
		items = append(items, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: peek accounts: %v", ErrPersistence, err)
	}
	return items, nil
}

// Clear removes every item; the service stays known.
func (s *SQLiteInventoryStore) Clear(ctx context.Context, service string) (int, error) {
	service = NormalizeService(service)

	s.mu.Lock()
	defer s.mu.Unlock()

	known, err := s.serviceKnown(ctx, s.db, service)
	if err != nil {
		return 0, err
	}
	if !known {
		return 0, ErrNotFound
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE service = ?`, service)
	if err != nil {
		return 0, fmt.Errorf("%w: clear accounts: %v", ErrPersistence, err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected: %v", ErrPersistence, err)
	}
	return int(removed), nil
}

// Stats returns store statistics for the admin surface.
func (s *SQLiteInventoryStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{"backend": "sqlite"}

	var services, accounts int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM services`).Scan(&services); err != nil {
		return nil, fmt.Errorf("%w: count services: %v", ErrPersistence, err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&accounts); err != nil {
		return nil, fmt.Errorf("%w: count accounts: %v", ErrPersistence, err)
	}
	stats["total_services"] = services
	stats["total_accounts"] = accounts

	// Database file size (approximate from page count)
	var pageCount, pageSize int64
	s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
	stats["db_size_bytes"] = pageCount * pageSize

	return stats, nil
}

// Close closes the database connection.
func (s *SQLiteInventoryStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteInventoryStore implements InventoryStore
var _ InventoryStore = (*SQLiteInventoryStore)(nil)
