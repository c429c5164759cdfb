package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/smallwat3r/textdrop/internal/domain"
)

// RouterConfig carries the cross-cutting settings of the HTTP surface.
type RouterConfig struct {
	RequireHTTPS   bool
	MaxRequestBody int64
	RateLimiter    *RateLimiterMiddleware
	AccessLog      bool
	// TrustProxy takes the client address from X-Real-IP / X-Forwarded-For.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool
}

func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	if cfg.MaxRequestBody <= 0 {
		cfg.MaxRequestBody = domain.MaxRequestBodySize
	}

	r := chi.NewRouter()

	r.Use(RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	if cfg.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(SecurityHeaders(SecurityHeadersConfig{RequireHTTPS: cfg.RequireHTTPS}))

	r.Get("/health", h.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(cfg.RateLimiter.Handler)
		r.Use(ContentLengthValidator(cfg.MaxRequestBody))
		r.Post("/share", h.HandleShare)
		r.Get("/get", h.HandleGet)
	})

	return r
}
