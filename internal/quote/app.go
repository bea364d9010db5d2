package quote

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ClimaStore/internal/visitor"
	"ClimaStore/pkg/kit"
)

// NewHandler mounts the quote routes. A nil limiter disables rate limiting
// of submissions.
func NewHandler(s *Server, deps kit.HTTPDeps, limiter *kit.IPRateLimiter) http.Handler {
	r := kit.NewRouter(deps)

	r.Get("/healthz", kit.Healthz)

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Group(func(vr chi.Router) {
		vr.Use(visitor.RequireHeader)

		vr.Get("/quotes/{id}", s.getQuote)

		vr.Group(func(sr chi.Router) {
			if limiter != nil {
				sr.Use(limiter.Middleware)
			}
			sr.Post("/quotes", s.createQuote)
			sr.Post("/consultations", s.createConsultation)
		})
	})

	return r
}
