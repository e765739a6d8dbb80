package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mehdibp/site-api/contact"
	"github.com/mehdibp/site-api/newsletter"
	"github.com/mehdibp/site-api/pkg/clientip"
	"github.com/mehdibp/site-api/pkg/ratelimit"
	"github.com/mehdibp/site-api/pkg/requestid"
)

// RouterDeps carries everything the HTTP surface needs. Limiter may be nil,
// in which case the contact route runs unthrottled.
type RouterDeps struct {
	Contact    *contact.Service
	Newsletter *newsletter.Service
	Limiter    ratelimit.Limiter
	RateLimit  ratelimit.Config
	CORS       CORSConfig
	Logger     *slog.Logger
}

// NewRouter assembles the API routes with their middleware chain.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ch := &contactHandler{svc: deps.Contact, logger: logger}
	nh := &newsletterHandler{svc: deps.Newsletter, logger: logger}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Use(CORSMiddleware(deps.CORS))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ratelimit.Middleware(deps.Limiter, clientKey,
				ratelimit.WithFailOpen(deps.RateLimit.FailOpen),
				ratelimit.WithOnLimitReached(onLimitReached),
				ratelimit.WithOnStoreError(onStoreError),
			))
			r.Post("/contact", ch.submit)
		})

		r.Route("/newsletter", func(r chi.Router) {
			r.Post("/subscribe", nh.subscribe)
			r.Post("/unsubscribe", nh.unsubscribe)
			r.Post("/publish", nh.publish)
		})
	})

	return r
}

// clientKey keys the limiter by client IP, preferring the value the
// middleware already resolved.
func clientKey(r *http.Request) string {
	if ip := clientip.GetIPFromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.GetIP(r)
}

func onLimitReached(w http.ResponseWriter, _ *http.Request, _ *ratelimit.Result) {
	writeError(w, http.StatusTooManyRequests, "too many requests, please try again later")
}

func onStoreError(w http.ResponseWriter, _ *http.Request, _ error) {
	writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
}
