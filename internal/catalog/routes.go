package catalog

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers catalog endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/items", h.List)
	r.Get("/items/{id}", h.Show)
	r.Post("/items", h.Create)
	r.Patch("/items/{id}", h.Update)
	r.Post("/items/{id}/availability", h.SetAvailability)
}
