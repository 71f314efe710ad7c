package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"semicloud-gen-bot/internal/model"
	"semicloud-gen-bot/internal/service"
	"semicloud-gen-bot/pkg/apierror"
)

// SessionKey is the key for storing operator session data in request context.
const SessionKey contextKey = "operator_session"

// AuthConfig holds configuration for the auth middlewares.
type AuthConfig struct {
	TokenService *service.TokenService // nil when Redis is not wired
	AdminKey     string                // static fallback for the admin API
	BotToken     string                // shared secret for the message webhook
}

// NewBotAuth returns a middleware protecting the message webhook: only the
// chat platform, holding the bot token, may post inbound messages.
func NewBotAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Bot-Token")
			if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(cfg.BotToken)) != 1 {
				writeError(w, apierror.Unauthorized("Invalid bot token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewOperatorAuth returns a middleware protecting admin routes. It accepts
// an operator session token (X-Token, Redis-backed) or the static admin key
// (X-Admin-Key) when one is configured.
func NewOperatorAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Token")
			if token != "" && cfg.TokenService != nil {
				session, err := cfg.TokenService.ValidateToken(r.Context(), token)
				if err != nil {
					writeError(w, apierror.Unauthorized("Invalid or expired token"))
					return
				}

				ctx := context.WithValue(r.Context(), SessionKey, session)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			adminKey := r.Header.Get("X-Admin-Key")
			if adminKey != "" && cfg.AdminKey != "" &&
				subtle.ConstantTimeCompare([]byte(adminKey), []byte(cfg.AdminKey)) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			writeError(w, apierror.Unauthorized("Authentication required. Use X-Token or X-Admin-Key header."))
		})
	}
}

// writeError writes an API error response.
func writeError(w http.ResponseWriter, err *apierror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write(err.ToJSON())
}

// GetSessionFromContext retrieves operator session data from request context.
func GetSessionFromContext(ctx context.Context) *model.SessionData {
	if data, ok := ctx.Value(SessionKey).(*model.SessionData); ok {
		return data
	}
	return nil
}
