package dashhttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/feastline/feastline-admin/internal/dashboard"
)

type stubService struct {
	views      dashboard.Views
	err        error
	lastWindow dashboard.Window
}

func (s *stubService) Load(ctx context.Context, window dashboard.Window) (dashboard.Views, error) {
	s.lastWindow = window
	return s.views, s.err
}

func sampleViews() dashboard.Views {
	hours := make([]dashboard.HourCount, 24)
	for i := range hours {
		hours[i].Hour = i
	}
	hours[9].Count = 2
	return dashboard.Views{
		Totals:     dashboard.Totals{TotalOrders: 2, TotalRevenue: 25},
		Categories: []dashboard.CategoryCount{{Name: "Masala Dosa", Count: 2}, {Name: "Butter Chicken", Count: 1}},
		TopAreas:   []dashboard.AreaCount{{Area: "Koramangala", Count: 2}},
		Hours:      hours,
		PriceBuckets: []dashboard.PriceBucket{
			{Label: "0-10", Count: 1}, {Label: "10-20", Count: 1}, {Label: "20-30"},
			{Label: "30-40"}, {Label: "40-50"}, {Label: "50+"},
		},
		TopItems: []dashboard.ItemCount{{Name: "Masala Dosa", Count: 2}, {Name: "Butter Chicken", Count: 1}},
	}
}

func newTestHandler(t *testing.T, service DashboardService) *Handler {
	t.Helper()
	handler := NewHandler(nil, service)
	handler.WithNow(func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) })
	return handler
}

func TestDashboardSuccess(t *testing.T) {
	service := &stubService{views: sampleViews()}
	handler := newTestHandler(t, service)

	req := httptest.NewRequest(http.MethodGet, "/dashboard?window=week", nil)
	rr := httptest.NewRecorder()
	handler.handleDashboard(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if service.lastWindow != dashboard.WindowWeek {
		t.Fatalf("service loaded window %q, want week", service.lastWindow)
	}

	var body struct {
		Window      string                  `json:"window"`
		GeneratedAt time.Time               `json:"generated_at"`
		Totals      dashboard.Totals        `json:"totals"`
		Hours       []dashboard.HourCount   `json:"hours"`
		PriceBands  []dashboard.PriceBucket `json:"price_buckets"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Window != "week" {
		t.Fatalf("window %q, want week", body.Window)
	}
	if body.Totals.TotalOrders != 2 || body.Totals.TotalRevenue != 25 {
		t.Fatalf("unexpected totals %#v", body.Totals)
	}
	if len(body.Hours) != 24 || body.Hours[9].Count != 2 {
		t.Fatalf("unexpected histogram %#v", body.Hours)
	}
	if body.GeneratedAt.IsZero() {
		t.Fatalf("expected generated_at to be set")
	}
}

func TestDashboardDefaultsToAllTime(t *testing.T) {
	service := &stubService{views: sampleViews()}
	handler := newTestHandler(t, service)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rr := httptest.NewRecorder()
	handler.handleDashboard(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if service.lastWindow != dashboard.WindowAll {
		t.Fatalf("missing window must default to all, got %q", service.lastWindow)
	}
}

func TestDashboardRejectsUnknownWindow(t *testing.T) {
	service := &stubService{views: sampleViews()}
	handler := newTestHandler(t, service)

	req := httptest.NewRequest(http.MethodGet, "/dashboard?window=fortnight", nil)
	rr := httptest.NewRecorder()
	handler.handleDashboard(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown window, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %s", ct)
	}
	if service.lastWindow != "" {
		t.Fatalf("service must not be consulted for invalid windows")
	}
}

func TestDashboardServiceFailure(t *testing.T) {
	service := &stubService{err: errors.New("store down")}
	handler := newTestHandler(t, service)

	req := httptest.NewRequest(http.MethodGet, "/dashboard?window=day", nil)
	rr := httptest.NewRecorder()
	handler.handleDashboard(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
}

func TestCSVExport(t *testing.T) {
	service := &stubService{views: sampleViews()}
	handler := newTestHandler(t, service)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/export.csv?window=month", nil)
	rr := httptest.NewRecorder()
	handler.handleCSV(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %s", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "order-analytics-month.csv") {
		t.Fatalf("unexpected disposition %s", cd)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Metric,Value") {
		t.Fatalf("expected totals section in CSV")
	}
	if !strings.Contains(body, "Price Band,Orders") {
		t.Fatalf("expected price band section in CSV")
	}
}

func TestCSVExportRejectsUnknownWindow(t *testing.T) {
	service := &stubService{views: sampleViews()}
	handler := newTestHandler(t, service)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/export.csv?window=bogus", nil)
	rr := httptest.NewRecorder()
	handler.handleCSV(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
