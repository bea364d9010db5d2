package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ClimaStore/pkg/kit"
)

const readyTimeout = 1 * time.Second

// ReadyCheck reports whether a dependency of the catalog service can serve
// requests.
type ReadyCheck func(ctx context.Context) error

type Server struct {
	Store Store
	Log   *zap.Logger

	// Checks run after the store ping on /readyz.
	Checks []ReadyCheck
}

type productResponse struct {
	Product
	Meta Meta `json:"meta"`
}

func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", kit.Healthz)
	r.Get("/readyz", s.readyz)

	r.Get("/products", s.list)
	r.Get("/products/{id}", s.get)
	r.Get("/categories", s.categories)
	r.Get("/brands", s.brands)
	r.Get("/search/suggest", s.suggest)
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := append([]ReadyCheck{s.Store.Ping}, s.Checks...)
	for _, check := range checks {
		if err := check(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad filter", map[string]any{"cause": err.Error()})
		return
	}

	products, ok := s.allProducts(w, r)
	if !ok {
		return
	}
	kit.WriteJSONCached(w, r, http.StatusOK, Apply(products, f))
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get product failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSONCached(w, r, http.StatusOK, productResponse{Product: p, Meta: BuildMeta(p)})
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.Store.Categories(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list categories failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, cats)
}

func (s *Server) brands(w http.ResponseWriter, r *http.Request) {
	products, ok := s.allProducts(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, Brands(products))
}

func (s *Server) suggest(w http.ResponseWriter, r *http.Request) {
	limit := DefaultSuggestLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 20 {
			kit.WriteError(w, r, http.StatusBadRequest, "bad limit", nil)
			return
		}
		limit = n
	}

	products, ok := s.allProducts(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, Suggest(products, r.URL.Query().Get("q"), limit))
}

func (s *Server) allProducts(w http.ResponseWriter, r *http.Request) ([]Product, bool) {
	products, err := s.Store.ListSortedByID(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err))
		}
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		kit.WriteError(w, r, status, "server error", nil)
		return nil, false
	}
	return products, true
}
