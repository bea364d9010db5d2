package calc

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ClimaStore/internal/catalog"
	"ClimaStore/pkg/kit"
)

type Server struct {
	Products catalog.Store
	Log      *zap.Logger
}

func (s *Server) Register(r chi.Router) {
	r.Post("/calculators/cooling", s.cooling)
}

func (s *Server) cooling(w http.ResponseWriter, r *http.Request) {
	var in CoolingInput
	if err := kit.DecodeJSON(w, r, &in); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	res, err := Cooling(in)
	if errors.Is(err, ErrBadInput) {
		kit.WriteError(w, r, http.StatusBadRequest, "bad input", map[string]any{"cause": err.Error()})
		return
	}
	if err != nil {
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	products, err := s.Products.ListSortedByID(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Warn("calculator suggestions unavailable", zap.Error(err))
		}
	} else {
		res.Suggestions = SuggestUnits(products, res.RecommendedKW)
	}

	kit.WriteJSON(w, http.StatusOK, res)
}
