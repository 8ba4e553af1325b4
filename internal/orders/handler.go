package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/feastline/feastline-admin/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the order listing views.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

type orderResponse struct {
	Order
	Revenue float64 `json:"revenue"`
}

type listResponse struct {
	Orders []orderResponse `json:"orders"`
	Count  int             `json:"count"`
}

// List responds with the most recent orders, optionally filtered by status.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Limit: DefaultListLimit}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status := Status(raw)
		filter.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	fetched, err := h.service.Recent(r.Context(), filter)
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrUnavailable)
		return
	}

	resp := listResponse{Orders: make([]orderResponse, 0, len(fetched)), Count: len(fetched)}
	for _, o := range fetched {
		resp.Orders = append(resp.Orders, orderResponse{Order: o, Revenue: o.Revenue()})
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// Show responds with a single order by id.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("get order", slog.String("id", id), slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrUnavailable)
		return
	}
	httpx.JSON(w, http.StatusOK, orderResponse{Order: *order, Revenue: order.Revenue()})
}
