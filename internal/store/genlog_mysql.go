package store

import (
	"context"
	"database/sql"
	"fmt"

	"semicloud-gen-bot/internal/model"
)

// MySQLGenLog mirrors the generation audit trail into MySQL so operators can
// page through it from the dashboard. The flat file stays the primary trail;
// this is the queryable copy.
type MySQLGenLog struct {
	db *sql.DB
}

// NewMySQLGenLog creates the gen_logs table if needed.
func NewMySQLGenLog(db *sql.DB) (*MySQLGenLog, error) {
	query := `
	CREATE TABLE IF NOT EXISTS gen_logs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		service VARCHAR(128) NOT NULL,
		account TEXT NOT NULL,
		undelivered TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		INDEX idx_gen_logs_created (created_at)
	)`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("%w: create gen_logs table: %v", ErrPersistence, err)
	}
	return &MySQLGenLog{db: db}, nil
}

// Record inserts one audit row.
func (l *MySQLGenLog) Record(ctx context.Context, rec model.GenRecord) error {
	query := `INSERT INTO gen_logs (user_id, service, account, undelivered, created_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := l.db.ExecContext(ctx, query,
		rec.UserID, rec.Service, rec.Account, rec.Undelivered, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert gen log: %v", ErrPersistence, err)
	}
	return nil
}

// List returns audit rows newest first, with the total row count for
// pagination.
func (l *MySQLGenLog) List(ctx context.Context, limit, offset int) ([]model.GenRecord, int64, error) {
	query := `SELECT id, user_id, service, account, undelivered, created_at
		FROM gen_logs ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := l.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: query gen logs: %v", ErrPersistence, err)
	}
	defer rows.Close()

	records := []model.GenRecord{}
	for rows.Next() {
		var rec model.GenRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Service, &rec.Account,
			&rec.Undelivered, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("%w: scan gen log: %v", ErrPersistence, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: query gen logs: %v", ErrPersistence, err)
	}

	var total int64
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gen_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: count gen logs: %v", ErrPersistence, err)
	}

	return records, total, nil
}

// Ensure MySQLGenLog implements GenLog
var _ GenLog = (*MySQLGenLog)(nil)
