package quote

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ClimaStore/internal/visitor"
	"ClimaStore/pkg/kit"
)

// maxEstimate caps a quote estimate well below float64 precision loss.
const maxEstimate = 1e12

type Server struct {
	Store           Store
	Catalog         *CatalogClient
	Log             *zap.Logger
	InstallationFee float64

	Now func() time.Time
}

var (
	errDuplicateItem   = errors.New("duplicate product_id")
	errInvalidProduct  = errors.New("invalid product_id")
	errCatalogDown     = errors.New("catalog unavailable")
	errCatalogUpstream = errors.New("catalog error")
	errTotalOverflow   = errors.New("total overflow")
)

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Server) createQuote(w http.ResponseWriter, r *http.Request) {
	vid, _ := visitor.FromContext(r.Context())

	var req quoteReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	req.normalize()
	if err := req.validate(); err != nil {
		if errors.Is(err, errContactRequired) {
			kit.WriteError(w, r, http.StatusBadRequest, "phone or email required", nil)
			return
		}
		kit.WriteError(w, r, http.StatusBadRequest, "validation failed", fieldErrors(err))
		return
	}

	lines, estimate, err := s.price(r.Context(), req.Items, req.Installation)
	if err != nil {
		s.writeCreateError(w, r, err)
		return
	}

	q := Quote{
		ID:           "q_" + uuid.NewString(),
		VisitorID:    vid,
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Message:      req.Message,
		Installation: req.Installation,
		Lines:        lines,
		Estimate:     estimate,
		Status:       StatusNew,
		CreatedAt:    s.now(),
	}

	if err := s.Store.CreateQuote(r.Context(), q); err != nil {
		s.storeError(w, r, "store create quote failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, q)
}

func (s *Server) getQuote(w http.ResponseWriter, r *http.Request) {
	vid, _ := visitor.FromContext(r.Context())

	id := chi.URLParam(r, "id")
	q, found, err := s.Store.GetQuote(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "store get quote failed", err)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	if q.VisitorID != vid {
		kit.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, q)
}

func (s *Server) createConsultation(w http.ResponseWriter, r *http.Request) {
	vid, _ := visitor.FromContext(r.Context())

	var req consultationReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	req.normalize()
	if err := req.validate(); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "validation failed", fieldErrors(err))
		return
	}

	c := Consultation{
		ID:            "c_" + uuid.NewString(),
		VisitorID:     vid,
		Name:          req.Name,
		Phone:         req.Phone,
		PreferredTime: req.PreferredTime,
		Topic:         req.Topic,
		Message:       req.Message,
		Status:        StatusNew,
		CreatedAt:     s.now(),
	}

	if err := s.Store.CreateConsultation(r.Context(), c); err != nil {
		s.storeError(w, r, "store create consultation failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, c)
}

// price looks every item up in the catalog and sums the estimate. The
// installation fee is charged per unit.
func (s *Server) price(ctx context.Context, items []Item, installation bool) ([]Line, float64, error) {
	seen := make(map[string]struct{}, len(items))
	lines := make([]Line, 0, len(items))
	var total float64

	for _, it := range items {
		if _, dup := seen[it.ProductID]; dup {
			return nil, 0, errDuplicateItem
		}
		seen[it.ProductID] = struct{}{}

		p, err := s.Catalog.GetProduct(ctx, it.ProductID)
		if err != nil {
			switch {
			case errors.Is(err, ErrCatalogNotFound):
				return nil, 0, errInvalidProduct
			case errors.Is(err, ErrCatalogUnavailable):
				return nil, 0, errCatalogDown
			default:
				if s.Log != nil {
					s.Log.Warn("catalog error", zap.Error(err), zap.String("product_id", it.ProductID))
				}
				return nil, 0, errCatalogUpstream
			}
		}
		if p.Price < 0 {
			return nil, 0, errCatalogUpstream
		}

		unit := p.Price
		if installation {
			unit += s.InstallationFee
		}
		line := unit * float64(it.Qty)
		if line > maxEstimate || total > maxEstimate-line {
			return nil, 0, errTotalOverflow
		}
		total += line

		lines = append(lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			Qty:       it.Qty,
			UnitPrice: p.Price,
			Total:     p.Price * float64(it.Qty),
		})
	}
	return lines, total, nil
}

func (s *Server) writeCreateError(w http.ResponseWriter, r *http.Request, err error) {
	switch err {
	case errDuplicateItem:
		kit.WriteError(w, r, http.StatusBadRequest, "duplicate product_id", nil)
	case errInvalidProduct:
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product_id", nil)
	case errCatalogDown:
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
	case errCatalogUpstream:
		kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
	case errTotalOverflow:
		kit.WriteError(w, r, http.StatusBadRequest, "total overflow", nil)
	default:
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if isTimeoutErr(err) {
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
		return
	}
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func isTimeoutErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
