package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed keys so redelivered events and
// repeated requests are handled once. Implementations must make
// MarkProcessed atomic: exactly one caller wins for a given key.
type IdempotencyStore interface {
	// MarkProcessed records the key with a TTL. It reports true when the
	// key was newly recorded, false when it had already been seen.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the key has been recorded.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls dedupe behaviour for a consumer.
type IdempotencyConfig struct {
	// TTL bounds how long a processed key blocks redelivery.
	TTL time.Duration

	// Enabled turns the check off entirely when false.
	Enabled bool
}

// DefaultIdempotencyConfig keeps keys for a day.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
