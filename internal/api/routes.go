package api

import (
	"log/slog"
	"net/http"
	"time"

	"secure.links/config"
	"secure.links/internal/ws"
	"secure.links/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(d Deps, hub *ws.Hub, cfg *config.Config) *chi.Mux {
	h := NewHandler(d, cfg)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(Logger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(Metrics)

	// CORS
	r.Use(CORS(CORSConfig{
		AllowedOrigins: []string{cfg.Server.BaseURL},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID", "X-Session-ID"},
		MaxAge:         86400,
	}))

	r.Use(Session(d.Sessions))

	// Health
	r.Get("/health", h.Health)
	r.Method("GET", "/metrics", promhttp.Handler())

	// Live link list; long-lived, so no request timeout
	r.Get("/ws/links", hub.Handler(d.Registry.List))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		// API routes
		r.Route("/api", func(r chi.Router) {
			if cfg.RateLimit.Enabled {
				apiLimiter := NewRateLimiter(cfg.RateLimit.RequestsPerMin, time.Minute)
				r.Use(apiLimiter.Middleware)
			}
			r.Use(JSONOnly)

			r.Post("/session", h.Login)
			r.Delete("/session", h.Logout)

			r.Get("/members", h.ListMembers)

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", h.ListDocuments)
				r.Post("/{id}/links", h.GenerateLink)

				r.Get("/{id}/access", h.ListAccess)
				r.Post("/{id}/access", h.ShareDocument)
				r.Patch("/{id}/access/{memberID}", h.UpdateAccess)
				r.Delete("/{id}/access/{memberID}", h.RemoveAccess)
			})

			r.Route("/links", func(r chi.Router) {
				r.Get("/", h.ListLinks)
				r.Get("/{id}", h.GetLink)
				r.Post("/{id}/revoke", h.RevokeLink)
			})

			r.Get("/downloads", h.ListDownloads)
		})

		// Download links
		if cfg.RateLimit.Enabled {
			resolveLimiter := NewRateLimiter(cfg.RateLimit.ResolvePerMin, time.Minute)
			r.With(resolveLimiter.Middleware).Get("/dl/{token}", h.ResolveLink)
		} else {
			r.Get("/dl/{token}", h.ResolveLink)
		}

		// Frontend
		r.Get("/", h.Index)
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(web.StaticFS())))
	})

	h.logger.Debug("router ready", slog.Bool("rate_limit", cfg.RateLimit.Enabled))
	return r
}
