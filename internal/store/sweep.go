package store

import (
	"context"
	"log"
	"time"
)

// Purger is implemented by backends without native key expiry.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// RunSweeper calls PurgeExpired every interval until ctx is done.
func RunSweeper(ctx context.Context, p Purger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				log.Printf("sweep: purge failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("sweep: removed %d expired texts", n)
			}
		}
	}
}
