package dashhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/feastline/feastline-admin/internal/dashboard"
	"github.com/feastline/feastline-admin/internal/dashboard/export"
	"github.com/feastline/feastline-admin/internal/platform/httpx"
)

const requestTimeout = 5 * time.Second

// DashboardService defines the dashboard data contract used by the handler.
type DashboardService interface {
	Load(ctx context.Context, window dashboard.Window) (dashboard.Views, error)
}

// Handler coordinates HTTP requests for the order analytics dashboard.
type Handler struct {
	logger  *slog.Logger
	service DashboardService
	csvPool sync.Pool
	now     func() time.Time
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, service DashboardService) *Handler {
	h := &Handler{
		logger:  logger,
		service: service,
		now:     time.Now,
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

type dashboardResponse struct {
	Window      dashboard.Window `json:"window"`
	GeneratedAt time.Time        `json:"generated_at"`
	dashboard.Views
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	window, err := h.parseWindow(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	views, err := h.service.Load(ctx, window)
	if err != nil {
		h.logError("load dashboard", err)
		httpx.RespondError(w, httpx.ErrUnavailable)
		return
	}

	httpx.JSON(w, http.StatusOK, dashboardResponse{
		Window:      window,
		GeneratedAt: h.now().UTC(),
		Views:       views,
	})
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	window, err := h.parseWindow(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	views, err := h.service.Load(ctx, window)
	if err != nil {
		h.logError("load dashboard", err)
		httpx.RespondError(w, httpx.ErrUnavailable)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := export.WriteViewsCSV(buf, views, window); err != nil {
		h.logError("write csv", err)
		httpx.RespondError(w, err)
		return
	}

	filename := fmt.Sprintf("order-analytics-%s.csv", window)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

// parseWindow resolves the window selector; a missing parameter means the
// all-time view, anything unrecognised is rejected outright.
func (h *Handler) parseWindow(r *http.Request) (dashboard.Window, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("window"))
	if raw == "" {
		return dashboard.WindowAll, nil
	}
	window, err := dashboard.ParseWindow(raw)
	if err != nil {
		if errors.Is(err, dashboard.ErrInvalidWindow) {
			return "", err
		}
		return "", fmt.Errorf("%w: %q", dashboard.ErrInvalidWindow, raw)
	}
	return window, nil
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}
