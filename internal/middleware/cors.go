package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"inn-backend/internal/config"
)

// NewCORS builds the CORS handler for browser-based front-desk clients.
// The ledger surface is GET and form POST only, and no endpoint uses
// cookies or auth headers, so credentialed requests stay disallowed.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	methods := cfg.Server.CorsAllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CorsAllowedOrigins,
		AllowedMethods: methods,
		AllowedHeaders: cfg.Server.CorsAllowedHeaders,
		MaxAge:         600,
	})

	return c.Handler
}
