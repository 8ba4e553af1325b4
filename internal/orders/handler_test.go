package orders

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type mockRepository struct {
	orders     []Order
	getOrder   *Order
	getErr     error
	listErr    error
	lastFilter ListFilter
}

func (m *mockRepository) Snapshot(ctx context.Context, cutoff *time.Time) (Snapshot, error) {
	return Snapshot{Orders: m.orders}, nil
}

func (m *mockRepository) List(ctx context.Context, filter ListFilter) ([]Order, error) {
	m.lastFilter = filter
	return m.orders, m.listErr
}

func (m *mockRepository) Get(ctx context.Context, id string) (*Order, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getOrder, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleOrder() Order {
	return Order{
		ID:        "ord-1",
		ItemName:  "Masala Dosa",
		ItemCount: 2,
		ItemPrice: 6.5,
		Address:   "Jayanagar",
		Status:    StatusDelivered,
		Timestamp: time.Date(2024, 6, 10, 9, 15, 0, 0, time.UTC),
	}
}

func TestListOrders(t *testing.T) {
	repo := &mockRepository{orders: []Order{sampleOrder()}}
	handler := NewHandler(discardLogger(), NewService(repo))

	req := httptest.NewRequest(http.MethodGet, "/orders?status=delivered&limit=5", nil)
	rr := httptest.NewRecorder()
	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if repo.lastFilter.Status == nil || *repo.lastFilter.Status != StatusDelivered {
		t.Fatalf("status filter not forwarded: %#v", repo.lastFilter)
	}
	if repo.lastFilter.Limit != 5 {
		t.Fatalf("limit %d, want 5", repo.lastFilter.Limit)
	}

	var body struct {
		Orders []struct {
			ID      string  `json:"id"`
			Revenue float64 `json:"revenue"`
		} `json:"orders"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Count != 1 || len(body.Orders) != 1 {
		t.Fatalf("unexpected listing %+v", body)
	}
	if body.Orders[0].Revenue != 13 {
		t.Fatalf("revenue %.2f, want 13", body.Orders[0].Revenue)
	}
}

func TestListOrdersRejectsBadLimit(t *testing.T) {
	handler := NewHandler(discardLogger(), NewService(&mockRepository{}))

	for _, raw := range []string{"zero", "-1", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/orders?limit="+raw, nil)
		rr := httptest.NewRecorder()
		handler.List(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("limit %q: expected 400, got %d", raw, rr.Code)
		}
	}
}

func TestShowOrder(t *testing.T) {
	order := sampleOrder()
	repo := &mockRepository{getOrder: &order}
	handler := NewHandler(discardLogger(), NewService(repo))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "ord-1")
	req := httptest.NewRequest(http.MethodGet, "/orders/ord-1", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()
	handler.Show(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestShowOrderNotFound(t *testing.T) {
	repo := &mockRepository{getErr: ErrNotFound}
	handler := NewHandler(discardLogger(), NewService(repo))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "missing")
	req := httptest.NewRequest(http.MethodGet, "/orders/missing", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()
	handler.Show(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
