package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scorecard/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Get("/", s.getIndex)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/datasets", func(r chi.Router) {
			r.Post("/", handler(s.postV1Dataset))
			r.Get("/{id}", handler(s.getV1Dataset))
			r.Get("/{id}/records", handler(s.getV1DatasetRecords))
			r.Get("/{id}/export", handler(s.getV1DatasetExport))
		})

		r.Post("/score", handler(s.postV1Score))
		r.Get("/scorecard", handler(s.getV1Scorecard))
		r.Get("/theme", s.getV1Theme)
		r.Get("/runs", handler(s.getV1Runs))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
