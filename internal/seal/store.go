package seal

import (
	"context"
	"time"

	"github.com/smallwat3r/textdrop/internal/domain"
)

// Store wraps a TextStore and encrypts values at rest. Decryption happens
// after the inner GetAndDelete, so consumption stays single-shot.
type Store struct {
	next   domain.TextStore
	sealer *Sealer
}

// NewStore derives the sealing key from secret once, up front.
func NewStore(next domain.TextStore, secret string) *Store {
	return &Store{next: next, sealer: NewSealer(secret)}
}

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	blob, err := s.sealer.Seal(value)
	if err != nil {
		return &domain.StoreError{Op: "seal", Err: err}
	}
	return s.next.Set(ctx, key, blob, ttl)
}

func (s *Store) GetAndDelete(ctx context.Context, key string) (string, error) {
	blob, err := s.next.GetAndDelete(ctx, key)
	if err != nil {
		return "", err
	}
	text, err := s.sealer.Open(blob)
	if err != nil {
		return "", &domain.StoreError{Op: "open", Err: err}
	}
	return text, nil
}
