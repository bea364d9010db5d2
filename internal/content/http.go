package content

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ClimaStore/pkg/kit"
)

type Server struct {
	Library *Library
}

func (s *Server) Register(r chi.Router) {
	r.Get("/blog", s.posts)
	r.Get("/blog/{slug}", s.post)
	r.Get("/faq", s.faq)
	r.Get("/contacts", s.contacts)
}

func (s *Server) posts(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSONCached(w, r, http.StatusOK, s.Library.Posts(r.URL.Query().Get("tag")))
}

func (s *Server) post(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p, ok := s.Library.Post(slug)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"slug": slug})
		return
	}
	kit.WriteJSONCached(w, r, http.StatusOK, p)
}

func (s *Server) faq(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSONCached(w, r, http.StatusOK, s.Library.FAQ(r.URL.Query().Get("topic")))
}

func (s *Server) contacts(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSONCached(w, r, http.StatusOK, s.Library.Contacts())
}
