package router

import (
	"net/http"

	"semicloud-gen-bot/internal/handler"
	"semicloud-gen-bot/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler        *handler.Handler
	StockHandler   *handler.StockHandler
	VouchHandler   *handler.VouchHandler
	AdminHandler   *handler.AdminHandler
	AuthHandler    *handler.AuthHandler
	WebhookHandler *handler.WebhookHandler
	BotAuth        func(http.Handler) http.Handler
	OperatorAuth   func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Token", "X-Admin-Key", "X-Bot-Token"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// PUBLIC routes (no auth required)
	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		// Public stock/vouch reads
		if cfg.StockHandler != nil {
			r.Get("/stock", cfg.StockHandler.ListStock)
			r.Get("/stock/{service}", cfg.StockHandler.GetStock)
		}
		if cfg.VouchHandler != nil {
			r.Get("/vouches/{user_id}", cfg.VouchHandler.GetVouches)
		}

		// Operator auth endpoints
		if cfg.AuthHandler != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/token", cfg.AuthHandler.GenerateToken)
				r.Post("/revoke", cfg.AuthHandler.RevokeToken)
				r.Post("/refresh", cfg.AuthHandler.RefreshToken)
			})
		}

		// Chat platform webhook (bot token required)
		if cfg.WebhookHandler != nil {
			r.Group(func(r chi.Router) {
				if cfg.BotAuth != nil {
					r.Use(cfg.BotAuth)
				}
				r.Post("/webhook/message", cfg.WebhookHandler.HandleMessage)
			})
		}

		// Admin endpoints (operator token or admin key required)
		r.Group(func(r chi.Router) {
			if cfg.OperatorAuth != nil {
				r.Use(cfg.OperatorAuth)
			}

			if cfg.StockHandler != nil {
				r.Post("/gen", cfg.StockHandler.Generate)
			}

			if cfg.AdminHandler != nil {
				r.Route("/admin", func(r chi.Router) {
					r.Get("/stats", cfg.AdminHandler.GetStats)
					r.Get("/logs", cfg.AdminHandler.GetLogs)
					r.Post("/services", cfg.AdminHandler.CreateService)
					r.Post("/services/{service}/stock", cfg.AdminHandler.UploadStock)
					r.Delete("/services/{service}/stock", cfg.AdminHandler.ClearStock)
					r.Get("/services/{service}/drop", cfg.AdminHandler.DropStock)

					if cfg.VouchHandler != nil {
						r.Post("/vouches/{user_id}/remove", cfg.VouchHandler.RemoveVouches)
					}
				})
			}
		})
	})

	return r
}
