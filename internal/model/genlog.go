package model

import "time"

// GenRecord is one immutable generation audit entry.
// Undelivered marks credentials that were drawn from stock but could not be
// delivered to the requester; they are never re-inserted, the audit line is
// the recovery trail.
type GenRecord struct {
	ID          int64     `json:"id,omitempty"`
	UserID      string    `json:"user_id"`
	Service     string    `json:"service"`
	Account     string    `json:"account"`
	Undelivered bool      `json:"undelivered"`
	CreatedAt   time.Time `json:"created_at"`
}
