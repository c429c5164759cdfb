package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/smallwat3r/textdrop/internal/codegen"
	"github.com/smallwat3r/textdrop/internal/config"
	"github.com/smallwat3r/textdrop/internal/domain"
	"github.com/smallwat3r/textdrop/internal/seal"
	"github.com/smallwat3r/textdrop/internal/store"
)

// Deps is the assembled service: the HTTP handler plus whatever must be
// released on shutdown.
type Deps struct {
	Router  http.Handler
	Store   domain.TextStore
	closers []func() error
}

// Close releases backend connections in reverse order of creation.
func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			log.Printf("close: %v", err)
		}
	}
}

// Build wires the configured store backend, code generator and middleware
// into a router. Background sweeping, where the backend needs it, stops
// when ctx is done.
func Build(ctx context.Context, cfg config.Config) (*Deps, error) {
	deps := &Deps{}

	var (
		textStore domain.TextStore
		limiter   *RateLimiterMiddleware
	)

	switch cfg.StoreBackend {
	case config.BackendRedis:
		rdb, err := newRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, rdb.Close)
		textStore = store.NewRedisStore(rdb)
		rl := DefaultRateLimitConfig()
		rl.PostLimit = cfg.RateLimitPost
		rl.GetLimit = cfg.RateLimitGet
		limiter = NewRateLimiter(rdb, rl)

	case config.BackendDynamoDB:
		client, err := store.NewDynamoClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		textStore = store.NewDynamoStore(client, cfg.DynamoDBTable)

	case config.BackendSQLite:
		s, err := store.OpenSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, s.Close)
		go store.RunSweeper(ctx, s, cfg.SweepInterval)
		textStore = s

	case config.BackendMemory:
		s := store.NewMemoryStore()
		go store.RunSweeper(ctx, s, cfg.SweepInterval)
		textStore = s

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if cfg.SealKey != "" {
		textStore = seal.NewStore(textStore, cfg.SealKey)
	}

	codes, err := codegen.New(cfg.CodeAlphabet, cfg.CodeLength)
	if err != nil {
		return nil, fmt.Errorf("code generator: %w", err)
	}

	h := NewHandler(textStore, codes, Options{
		TTL:         cfg.ShareTTL,
		MaxTextSize: cfg.MaxTextSize,
	})

	deps.Store = textStore
	deps.Router = NewRouter(h, RouterConfig{
		RequireHTTPS:   cfg.RequireHTTPS,
		MaxRequestBody: int64(cfg.MaxTextSize) + 1024,
		RateLimiter:    limiter,
		AccessLog:      true,
		TrustProxy:     cfg.TrustProxy,
	})
	return deps, nil
}

func newRedisClient(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	opt.PoolSize = cfg.RedisPoolSize
	opt.MinIdleConns = cfg.RedisMinIdle
	opt.DialTimeout = cfg.RedisDialTimeout
	opt.ReadTimeout = cfg.RedisReadTimeout
	opt.WriteTimeout = cfg.RedisWriteTimeout
	opt.PoolTimeout = cfg.RedisPoolTimeout

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}
