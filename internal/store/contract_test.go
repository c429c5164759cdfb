package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smallwat3r/textdrop/internal/domain"
)

// fakeClock is a manually advanced time source shared by the backend tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// runStoreContract exercises the behaviour every TextStore must share.
// advance moves the backend's notion of time forward.
func runStoreContract(t *testing.T, s domain.TextStore, advance func(time.Duration)) {
	t.Helper()
	ctx := context.Background()

	t.Run("read exactly once", func(t *testing.T) {
		if err := s.Set(ctx, "once", "hello", time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := s.GetAndDelete(ctx, "once")
		if err != nil {
			t.Fatalf("GetAndDelete() error = %v", err)
		}
		if got != "hello" {
			t.Errorf("expected %q, got %q", "hello", got)
		}
		if _, err := s.GetAndDelete(ctx, "once"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second read, got %v", err)
		}
	})

	t.Run("never issued", func(t *testing.T) {
		if _, err := s.GetAndDelete(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		if err := s.Set(ctx, "stale", "old news", 10*time.Second); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		advance(11 * time.Second)
		if _, err := s.GetAndDelete(ctx, "stale"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound after expiry, got %v", err)
		}
	})

	t.Run("overwrite keeps latest", func(t *testing.T) {
		if err := s.Set(ctx, "dup", "first", time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := s.Set(ctx, "dup", "second", time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := s.GetAndDelete(ctx, "dup")
		if err != nil {
			t.Fatalf("GetAndDelete() error = %v", err)
		}
		if got != "second" {
			t.Errorf("expected %q, got %q", "second", got)
		}
	})

	t.Run("concurrent readers", func(t *testing.T) {
		if err := s.Set(ctx, "race", "only one", time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		const readers = 16
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			hits     int
			notFound int
		)
		start := make(chan struct{})
		for i := 0; i < readers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, err := s.GetAndDelete(ctx, "race")
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					hits++
				case errors.Is(err, domain.ErrNotFound):
					notFound++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		close(start)
		wg.Wait()

		if hits != 1 {
			t.Errorf("expected exactly one reader to get the text, got %d", hits)
		}
		if notFound != readers-1 {
			t.Errorf("expected %d not found, got %d", readers-1, notFound)
		}
	})
}
