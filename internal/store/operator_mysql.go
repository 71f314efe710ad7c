package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"semicloud-gen-bot/internal/model"
)

// MySQLOperatorStore validates operator keys against the operators table for
// session token issue.
type MySQLOperatorStore struct {
	db *sql.DB
}

// NewMySQLOperatorStore creates a new MySQL operator store.
func NewMySQLOperatorStore(db *sql.DB) *MySQLOperatorStore {
	return &MySQLOperatorStore{db: db}
}

// ValidateKey returns the operator owning an active key, or an error for an
// unknown/disabled key.
func (s *MySQLOperatorStore) ValidateKey(ctx context.Context, key string) (*model.Operator, error) {
	log.Printf("[OperatorStore] Validating operator key")

	query := "SELECT id, name, role FROM operators WHERE `key` = ? AND is_active = 1 LIMIT 1"

	var op model.Operator
	err := s.db.QueryRowContext(ctx, query, key).Scan(&op.ID, &op.Name, &op.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("invalid operator key")
		}
		return nil, fmt.Errorf("%w: validate operator key: %v", ErrPersistence, err)
	}

	return &op, nil
}
