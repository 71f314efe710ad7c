package store

import (
	"context"
	"strings"

	"semicloud-gen-bot/internal/model"
)

// InventoryStore defines access to the per-service credential sequences.
//
// Service names are normalized (lower-cased, trimmed) before use as storage
// keys. All mutating operations on the same service are mutually exclusive;
// operations on different services proceed independently.
type InventoryStore interface {
	// Create creates an empty sequence for the service.
	// Returns ErrAlreadyExists if the service is already known.
	Create(ctx context.Context, service string) error

	// Count returns the number of items in stock. An unknown service and an
	// empty service both report 0; PopRandom and Clear distinguish the two.
	Count(ctx context.Context, service string) (int, error)

	// ListServices returns all known service names, sorted, regardless of
	// item count.
	ListServices(ctx context.Context) ([]string, error)

	// Append adds items in order, creating the service if it does not exist.
	// No deduplication. Returns the new total count.
	Append(ctx context.Context, service string, items []string) (int, error)

	// PopRandom removes and returns one uniformly drawn item. Returns
	// ErrNotFound for an unknown service, ErrOutOfStock for an empty one.
	PopRandom(ctx context.Context, service string) (string, error)

	// PeekMany returns the first n items in stored order without removing
	// them, clamped to the available count. Returns ErrNotFound for an
	// unknown service.
	PeekMany(ctx context.Context, service string, n int) ([]string, error)

	// Clear removes every item but keeps the service known. Returns the
	// number removed, or ErrNotFound for an unknown service.
	Clear(ctx context.Context, service string) (int, error)

	// Stats returns store statistics for the admin surface.
	Stats(ctx context.Context) (map[string]interface{}, error)

	// Close releases the backing resources.
	Close() error
}

// VouchStore defines access to the per-user vouch counters.
type VouchStore interface {
	// Get returns the stored count, or 0 for an unknown user.
	Get(ctx context.Context, userID string) (int, error)

	// Increment adds delta and returns the new count.
	Increment(ctx context.Context, userID string, delta int) (int, error)

	// Decrement subtracts delta, clamping at zero, and returns the new
	// count. Returns ErrNoBalance when the current count is already zero.
	Decrement(ctx context.Context, userID string, delta int) (int, error)
}

// GenLog is the append-only generation audit trail. Record failures must
// propagate to the caller even when the credential was already delivered.
type GenLog interface {
	Record(ctx context.Context, rec model.GenRecord) error
}

// NormalizeService lower-cases and trims a service argument for use as a
// storage key.
func NormalizeService(service string) string {
	return strings.ToLower(strings.TrimSpace(service))
}
