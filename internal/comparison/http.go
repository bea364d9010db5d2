package comparison

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ClimaStore/internal/catalog"
	"ClimaStore/internal/visitor"
	"ClimaStore/pkg/kit"
)

type ProductSource interface {
	Get(ctx context.Context, id string) (catalog.Product, bool, error)
}

type Server struct {
	Manager  *Manager
	Products ProductSource
	Log      *zap.Logger
}

type view struct {
	Items      []Product `json:"items"`
	Count      int       `json:"count"`
	MaxItems   int       `json:"max_items"`
	CanAddMore bool      `json:"can_add_more"`
	Table      Table     `json:"table"`
}

type addReq struct {
	ProductID string `json:"product_id"`
}

type addResp struct {
	view
	Added   bool   `json:"added"`
	Evicted string `json:"evicted,omitempty"`
}

type quickView struct {
	Product         catalog.Product `json:"product"`
	InComparison    bool            `json:"in_comparison"`
	CanAddMore      bool            `json:"can_add_more"`
	ComparisonCount int             `json:"comparison_count"`
}

func (s *Server) Register(r chi.Router) {
	r.Group(func(vr chi.Router) {
		vr.Use(visitor.RequireHeader)

		vr.Get("/comparison", s.list)
		vr.Post("/comparison", s.add)
		vr.Delete("/comparison", s.clear)
		vr.Get("/comparison/{id}", s.status)
		vr.Delete("/comparison/{id}", s.remove)

		vr.Get("/products/{id}/quick-view", s.quickView)
	})
}

func newView(st *Store) view {
	items := st.Items()
	return view{
		Items:      items,
		Count:      len(items),
		MaxItems:   MaxItems,
		CanAddMore: len(items) < MaxItems,
		Table:      BuildTable(items),
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	vid, _ := visitor.FromContext(r.Context())

	var out view
	err := s.Manager.With(r.Context(), vid, func(st *Store) error {
		out = newView(st)
		return nil
	})
	if err != nil {
		s.storageError(w, r, "load comparison failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	vid, _ := visitor.FromContext(r.Context())

	var req addReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "product_id required", nil)
		return
	}

	p, ok, err := s.Products.Get(r.Context(), req.ProductID)
	if err != nil {
		s.storageError(w, r, "catalog lookup failed", err)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": req.ProductID})
		return
	}

	var out addResp
	err = s.Manager.With(r.Context(), vid, func(st *Store) error {
		res, err := st.Add(r.Context(), Snapshot(p))
		if err != nil {
			return err
		}
		out.Added = res.Added
		if res.Evicted != nil {
			out.Evicted = res.Evicted.ID
		}
		out.view = newView(st)
		return nil
	})
	if err != nil {
		s.storageError(w, r, "add to comparison failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	vid, _ := visitor.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	var out view
	err := s.Manager.With(r.Context(), vid, func(st *Store) error {
		if _, err := st.Remove(r.Context(), id); err != nil {
			return err
		}
		out = newView(st)
		return nil
	})
	if err != nil {
		s.storageError(w, r, "remove from comparison failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	vid, _ := visitor.FromContext(r.Context())

	err := s.Manager.With(r.Context(), vid, func(st *Store) error {
		return st.Clear(r.Context())
	})
	if err != nil {
		s.storageError(w, r, "clear comparison failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	vid, _ := visitor.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	var present bool
	var count int
	err := s.Manager.With(r.Context(), vid, func(st *Store) error {
		present = st.Contains(id)
		count = st.Count()
		return nil
	})
	if err != nil {
		s.storageError(w, r, "load comparison failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"id":           id,
		"present":      present,
		"count":        count,
		"can_add_more": count < MaxItems,
	})
}

func (s *Server) quickView(w http.ResponseWriter, r *http.Request) {
	vid, _ := visitor.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	p, ok, err := s.Products.Get(r.Context(), id)
	if err != nil {
		s.storageError(w, r, "catalog lookup failed", err)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	out := quickView{Product: p}
	err = s.Manager.With(r.Context(), vid, func(st *Store) error {
		out.InComparison = st.Contains(p.ID)
		out.ComparisonCount = st.Count()
		out.CanAddMore = out.ComparisonCount < MaxItems
		return nil
	})
	if err != nil {
		s.storageError(w, r, "load comparison failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) storageError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err))
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
		return
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}
