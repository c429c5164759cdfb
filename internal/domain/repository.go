package domain

import (
	"context"
	"time"
)

// TextStore is the only shared mutable state of the service.
//
// GetAndDelete must be a single atomic primitive of the backend: two
// concurrent calls for the same key never both observe the value. A missing
// key yields ErrNotFound; any transport failure yields a *StoreError.
type TextStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	GetAndDelete(ctx context.Context, key string) (string, error)
}
