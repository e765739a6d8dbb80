package api

import (
	"net/http"
	"strconv"
	"time"
)

// CORSConfig holds the origin allow-list. Requests from origins outside the
// list get no Access-Control-Allow-Origin header at all, so the browser
// blocks them; there is deliberately no wildcard fallback.
type CORSConfig struct {
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	MaxAge         time.Duration `env:"CORS_MAX_AGE" envDefault:"24h"`
}

func (c CORSConfig) originAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}

// CORSMiddleware echoes allow-listed origins and answers preflights with
// 204 and no body.
func CORSMiddleware(cfg CORSConfig) func(http.Handler) http.Handler {
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The response varies by origin whether or not this request's
			// origin is allowed; caches must know that.
			w.Header().Add("Vary", "Origin")

			origin := r.Header.Get("Origin")
			if origin != "" && cfg.originAllowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
