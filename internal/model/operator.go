package model

import "time"

// Operator is a privileged dashboard user validated against MySQL.
type Operator struct {
	ID   int64
	Name string
	Role string
}

// SessionData is the payload stored with an operator session token.
type SessionData struct {
	OperatorID int64     `json:"operator_id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}
