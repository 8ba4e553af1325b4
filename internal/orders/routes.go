package orders

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers order endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/orders", h.List)
	r.Get("/orders/{id}", h.Show)
}
