// Package httpserver wires the gateway's HTTP surface: the presentation API,
// the session endpoints and the operational probes.
package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/petfurme/petcal/internal/config"
	"github.com/petfurme/petcal/internal/http/ratelimit"
	"github.com/petfurme/petcal/internal/metrics"
	"github.com/petfurme/petcal/internal/session"
	"github.com/petfurme/petcal/internal/store"
	"github.com/petfurme/petcal/internal/ui"
)

// Pinger reports backend reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter wires all HTTP routes.
func NewRouter(cfg *config.Config, st *store.Store, sync ui.Syncer, backend Pinger, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Mutating endpoints: 5 requests per second, burst of 10.
	writeRateLimiter := ratelimit.NewIPRateLimiter(rate.Limit(5), 10, 5*time.Minute)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := backend.Ping(ctx); err != nil {
			http.Error(w, "unready", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.MetricsEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}

	codec := session.NewCookieCodec(cfg.Session.Secret, cfg.CookieSecure)

	r.Route("/auth", func(r chi.Router) {
		r.Use(writeRateLimiter.Middleware)
		r.Post("/session", issueSession(codec))
		r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
			codec.Clear(w)
			w.WriteHeader(http.StatusNoContent)
		})
	})

	uiHandler := ui.NewHandler(st, sync, nil)

	r.Route("/api", func(r chi.Router) {
		r.Use(session.Middleware(codec, cfg.LoginURL))

		r.Get("/appointments", uiHandler.Appointments)
		r.Get("/appointments/next", uiHandler.Next)
		r.Get("/appointments/{id}/reschedule-context", uiHandler.RescheduleContext)
		r.Get("/calendar", uiHandler.Calendar)
		r.Get("/notifications", uiHandler.Notifications)

		r.Group(func(r chi.Router) {
			r.Use(writeRateLimiter.Middleware)
			r.Post("/appointments/{id}/cancel", uiHandler.Cancel)
			r.Post("/sync/refresh", uiHandler.Refresh)
		})
	})

	return r
}

// issueSession mints the signed session cookie for a user id posted by the
// login flow. The gateway trusts the caller here; real credential checks live
// in the clinic backend.
func issueSession(codec *session.CookieCodec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID int64 `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID <= 0 {
			http.Error(w, "user_id required", http.StatusBadRequest)
			return
		}
		if err := codec.Issue(w, req.UserID); err != nil {
			http.Error(w, "could not issue session", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
