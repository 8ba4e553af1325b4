package dashboard

import (
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/feastline/feastline-admin/internal/orders"
)

// Totals carries the headline dashboard cards.
type Totals struct {
	TotalOrders  int     `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
}

// CategoryCount is one slice of the category distribution, keyed by item
// name and accumulating units sold.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AreaCount is one entry of the top delivery areas ranking, counting
// orders per free-text address.
type AreaCount struct {
	Area  string `json:"area"`
	Count int    `json:"count"`
}

// HourCount is one bucket of the hour-of-day histogram.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// PriceBucket is one band of the unit-price histogram.
type PriceBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ItemCount is one entry of the top-selling items ranking, accumulating
// units sold.
type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Views is the full derived result of one aggregation cycle. Every view
// is a pure projection of the same record snapshot.
type Views struct {
	Totals       Totals          `json:"totals"`
	Categories   []CategoryCount `json:"categories"`
	TopAreas     []AreaCount     `json:"top_areas"`
	Hours        []HourCount     `json:"hours"`
	PriceBuckets []PriceBucket   `json:"price_buckets"`
	TopItems     []ItemCount     `json:"top_items"`
	Skipped      int             `json:"skipped_records"`
}

// topN caps the area and item rankings.
const topN = 5

// priceBands are the fixed unit-price histogram bands, half-open on the
// left and inclusive on the right; the final band is unbounded above.
var priceBands = []struct {
	label string
	upper float64
}{
	{"0-10", 10},
	{"10-20", 20},
	{"20-30", 30},
	{"30-40", 40},
	{"40-50", 50},
	{"50+", 0},
}

// ComputeViews derives all dashboard views from one record snapshot.
//
// Every view honours the cutoff: a record participates only when its
// timestamp is at or after it. Records violating the field invariants are
// skipped entirely from every view and tallied in Skipped. The input is
// never mutated, and identical inputs always produce identical views.
//
// Grouping policy: item-keyed views (categories, top items) accumulate
// units via ItemCount; the area ranking counts orders.
func ComputeViews(records []orders.Order, cutoff *time.Time) Views {
	included := make([]orders.Order, 0, len(records))
	skipped := 0
	for _, o := range records {
		if !o.Valid() {
			skipped++
			continue
		}
		if cutoff != nil && o.Timestamp.Before(*cutoff) {
			continue
		}
		included = append(included, o)
	}

	// The views are independent projections of the same immutable slice,
	// so they can be computed concurrently; none of them can fail.
	var views Views
	views.Skipped = skipped

	var g errgroup.Group
	g.Go(func() error { views.Totals = computeTotals(included); return nil })
	g.Go(func() error { views.Categories = computeCategories(included); return nil })
	g.Go(func() error { views.TopAreas = computeTopAreas(included); return nil })
	g.Go(func() error { views.Hours = computeHours(included); return nil })
	g.Go(func() error { views.PriceBuckets = computePriceBuckets(included); return nil })
	g.Go(func() error { views.TopItems = computeTopItems(included); return nil })
	_ = g.Wait()

	return views
}

func computeTotals(records []orders.Order) Totals {
	totals := Totals{TotalOrders: len(records)}
	for _, o := range records {
		totals.TotalRevenue += o.Revenue()
	}
	return totals
}

// computeCategories groups units sold by item name, preserving first-seen
// order of the categories.
func computeCategories(records []orders.Order) []CategoryCount {
	index := make(map[string]int, len(records))
	categories := make([]CategoryCount, 0, len(records))
	for _, o := range records {
		pos, ok := index[o.ItemName]
		if !ok {
			pos = len(categories)
			index[o.ItemName] = pos
			categories = append(categories, CategoryCount{Name: o.ItemName})
		}
		categories[pos].Count += o.ItemCount
	}
	return categories
}

func computeTopAreas(records []orders.Order) []AreaCount {
	index := make(map[string]int, len(records))
	areas := make([]AreaCount, 0, len(records))
	for _, o := range records {
		pos, ok := index[o.Address]
		if !ok {
			pos = len(areas)
			index[o.Address] = pos
			areas = append(areas, AreaCount{Area: o.Address})
		}
		areas[pos].Count++
	}
	// Stable sort keeps first-encountered areas ahead on ties.
	sort.SliceStable(areas, func(i, j int) bool { return areas[i].Count > areas[j].Count })
	if len(areas) > topN {
		areas = areas[:topN]
	}
	return areas
}

// computeHours buckets records into hour-of-day slots. All 24 slots are
// always present, zero-filled when empty. The hour is taken from the
// timestamp in the offset it was recorded with, not the host timezone:
// a record placed at 14:45 local time counts toward hour 14 wherever
// the service happens to run.
func computeHours(records []orders.Order) []HourCount {
	hours := make([]HourCount, 24)
	for i := range hours {
		hours[i].Hour = i
	}
	for _, o := range records {
		hours[o.Timestamp.Hour()].Count++
	}
	return hours
}

// computePriceBuckets histograms unit prices into the fixed bands. The
// bands apply to the unit price, not line revenue, and each record lands
// in exactly one band.
func computePriceBuckets(records []orders.Order) []PriceBucket {
	buckets := make([]PriceBucket, len(priceBands))
	for i, band := range priceBands {
		buckets[i].Label = band.label
	}
	for _, o := range records {
		buckets[bandIndex(o.ItemPrice)].Count++
	}
	return buckets
}

func bandIndex(price float64) int {
	for i, band := range priceBands[:len(priceBands)-1] {
		if price <= band.upper {
			return i
		}
	}
	return len(priceBands) - 1
}

func computeTopItems(records []orders.Order) []ItemCount {
	index := make(map[string]int, len(records))
	items := make([]ItemCount, 0, len(records))
	for _, o := range records {
		pos, ok := index[o.ItemName]
		if !ok {
			pos = len(items)
			index[o.ItemName] = pos
			items = append(items, ItemCount{Name: o.ItemName})
		}
		items[pos].Count += o.ItemCount
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Count > items[j].Count })
	if len(items) > topN {
		items = items[:topN]
	}
	return items
}
