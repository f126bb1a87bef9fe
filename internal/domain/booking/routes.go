package booking

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns booking router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Patch("/{id}", h.Update)
	r.Patch("/{id}/status", h.ChangeStatus)
	r.Delete("/{id}", h.Delete)

	return r
}
