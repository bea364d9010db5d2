package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ClimaStore/pkg/kit"
)

// Registrar attaches a feature's routes to the catalog service router.
type Registrar interface {
	Register(r chi.Router)
}

func NewHandler(s *Server, deps kit.HTTPDeps, extra ...Registrar) http.Handler {
	r := kit.NewRouter(deps)

	s.Register(r)
	for _, x := range extra {
		x.Register(r)
	}
	return r
}
