package dashboard

import (
	"reflect"
	"testing"
	"time"

	"github.com/feastline/feastline-admin/internal/orders"
)

func order(name string, count int, price float64, address string, ts time.Time) orders.Order {
	return orders.Order{
		ID:        name + ts.Format("150405"),
		ItemName:  name,
		ItemCount: count,
		ItemPrice: price,
		Address:   address,
		Status:    orders.StatusDelivered,
		Timestamp: ts,
	}
}

func TestComputeViewsWorkedExample(t *testing.T) {
	records := []orders.Order{
		order("Masala Dosa", 2, 6, "A", time.Date(2024, 6, 10, 9, 15, 0, 0, time.UTC)),
		order("Butter Chicken", 1, 13, "A", time.Date(2024, 6, 10, 9, 45, 0, 0, time.UTC)),
	}

	views := ComputeViews(records, nil)

	if views.Totals.TotalOrders != 2 {
		t.Fatalf("total orders %d, want 2", views.Totals.TotalOrders)
	}
	if views.Totals.TotalRevenue != 25 {
		t.Fatalf("total revenue %.2f, want 25", views.Totals.TotalRevenue)
	}
	if got := bucketCount(t, views.PriceBuckets, "0-10"); got != 1 {
		t.Fatalf("bucket 0-10 = %d, want 1", got)
	}
	if got := bucketCount(t, views.PriceBuckets, "10-20"); got != 1 {
		t.Fatalf("bucket 10-20 = %d, want 1", got)
	}
	if views.Hours[9].Count != 2 {
		t.Fatalf("hour 9 count %d, want 2", views.Hours[9].Count)
	}
	wantAreas := []AreaCount{{Area: "A", Count: 2}}
	if !reflect.DeepEqual(views.TopAreas, wantAreas) {
		t.Fatalf("top areas %#v, want %#v", views.TopAreas, wantAreas)
	}
	if views.Skipped != 0 {
		t.Fatalf("skipped %d, want 0", views.Skipped)
	}
}

func TestComputeViewsHonoursCutoff(t *testing.T) {
	cutoff := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	records := []orders.Order{
		order("Veg Burger", 1, 7.25, "Jayanagar", cutoff.Add(-time.Minute)),
		order("Veg Burger", 1, 7.25, "Jayanagar", cutoff),
		order("Mango Lassi", 3, 2.75, "Whitefield", cutoff.Add(2*time.Hour)),
	}

	views := ComputeViews(records, &cutoff)

	// The record exactly at the cutoff is included, the earlier one is not.
	if views.Totals.TotalOrders != 2 {
		t.Fatalf("total orders %d, want 2", views.Totals.TotalOrders)
	}
	// Filtered-out records are absent from every view, not just the totals.
	if got := bucketCount(t, views.PriceBuckets, "0-10"); got != 2 {
		t.Fatalf("bucket 0-10 = %d, want 2", got)
	}
	if len(views.TopAreas) != 2 {
		t.Fatalf("areas %#v, want two entries", views.TopAreas)
	}
	if views.Skipped != 0 {
		t.Fatalf("cutoff-filtered records must not count as skipped, got %d", views.Skipped)
	}
}

func TestComputeViewsSkipsMalformedEverywhere(t *testing.T) {
	good := order("Idli Sambar", 2, 4.75, "HSR Layout", time.Date(2024, 6, 10, 13, 0, 0, 0, time.UTC))
	zeroCount := good
	zeroCount.ItemCount = 0
	negativePrice := good
	negativePrice.ItemPrice = -1
	noTimestamp := good
	noTimestamp.Timestamp = time.Time{}

	views := ComputeViews([]orders.Order{good, zeroCount, negativePrice, noTimestamp}, nil)

	if views.Skipped != 3 {
		t.Fatalf("skipped %d, want 3", views.Skipped)
	}
	if views.Totals.TotalOrders != 1 {
		t.Fatalf("total orders %d, want 1", views.Totals.TotalOrders)
	}
	if total := sumBuckets(views.PriceBuckets); total != 1 {
		t.Fatalf("price buckets hold %d records, want 1", total)
	}
	if views.TopItems[0].Count != 2 {
		t.Fatalf("top item count %d, want 2", views.TopItems[0].Count)
	}
}

func TestComputeViewsHourHistogramShape(t *testing.T) {
	records := []orders.Order{
		order("Dal Makhani", 1, 9.5, "BTM Layout", time.Date(2024, 6, 10, 0, 5, 0, 0, time.UTC)),
		order("Dal Makhani", 1, 9.5, "BTM Layout", time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)),
	}

	views := ComputeViews(records, nil)

	if len(views.Hours) != 24 {
		t.Fatalf("histogram has %d buckets, want 24", len(views.Hours))
	}
	total := 0
	for i, h := range views.Hours {
		if h.Hour != i {
			t.Fatalf("bucket %d labelled hour %d", i, h.Hour)
		}
		total += h.Count
	}
	if total != 2 {
		t.Fatalf("histogram sums to %d, want 2", total)
	}
	if views.Hours[0].Count != 1 || views.Hours[23].Count != 1 {
		t.Fatalf("expected counts at hours 0 and 23: %#v", views.Hours)
	}
}

func TestComputeViewsHoursUseRecordedOffset(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	records := []orders.Order{
		// 14:45 at +05:30 is 09:15 UTC; the bucket follows the offset the
		// order was placed in, not the host timezone.
		order("Masala Dosa", 1, 6.5, "Jayanagar", time.Date(2024, 6, 10, 14, 45, 0, 0, ist)),
	}

	views := ComputeViews(records, nil)

	if views.Hours[14].Count != 1 {
		t.Fatalf("expected count at hour 14, got %#v", views.Hours)
	}
	if views.Hours[9].Count != 0 {
		t.Fatalf("UTC hour must stay empty, got %#v", views.Hours)
	}
}

func TestComputeViewsRankingsCappedAndSorted(t *testing.T) {
	base := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	var records []orders.Order
	names := []string{"a", "b", "c", "d", "e", "f", "g"}
	for i, name := range names {
		// Item "a" gets 7 orders, "b" 6, down to "g" with 1.
		for j := 0; j < len(names)-i; j++ {
			records = append(records, order(name, 1, 5, "area-"+name, base.Add(time.Duration(j)*time.Minute)))
		}
	}

	views := ComputeViews(records, nil)

	if len(views.TopAreas) != 5 {
		t.Fatalf("top areas length %d, want 5", len(views.TopAreas))
	}
	if len(views.TopItems) != 5 {
		t.Fatalf("top items length %d, want 5", len(views.TopItems))
	}
	for i := 1; i < len(views.TopItems); i++ {
		if views.TopItems[i].Count > views.TopItems[i-1].Count {
			t.Fatalf("top items not sorted: %#v", views.TopItems)
		}
	}
	if views.TopItems[0].Name != "a" || views.TopItems[0].Count != 7 {
		t.Fatalf("unexpected leader %#v", views.TopItems[0])
	}
	if views.TopAreas[4].Area != "area-e" {
		t.Fatalf("unexpected fifth area %#v", views.TopAreas[4])
	}
}

func TestComputeViewsTieBreakKeepsFirstSeen(t *testing.T) {
	base := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	records := []orders.Order{
		order("first", 1, 5, "one", base),
		order("second", 1, 5, "two", base.Add(time.Minute)),
	}

	views := ComputeViews(records, nil)

	if views.TopItems[0].Name != "first" || views.TopItems[1].Name != "second" {
		t.Fatalf("tie order not stable: %#v", views.TopItems)
	}
	if views.TopAreas[0].Area != "one" {
		t.Fatalf("tie order not stable: %#v", views.TopAreas)
	}
}

func TestComputeViewsDeterministic(t *testing.T) {
	base := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	records := []orders.Order{
		order("Margherita Pizza", 2, 12.5, "Indiranagar", base),
		order("Veg Burger", 1, 7.25, "Koramangala", base.Add(time.Hour)),
		order("Margherita Pizza", 1, 12.5, "Indiranagar", base.Add(2*time.Hour)),
	}

	first := ComputeViews(records, nil)
	second := ComputeViews(records, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated computation diverged:\n%#v\n%#v", first, second)
	}
}

func TestComputeViewsEmptySnapshot(t *testing.T) {
	views := ComputeViews(nil, nil)

	if views.Totals.TotalOrders != 0 || views.Totals.TotalRevenue != 0 {
		t.Fatalf("unexpected totals %#v", views.Totals)
	}
	if len(views.Hours) != 24 {
		t.Fatalf("histogram has %d buckets, want 24", len(views.Hours))
	}
	if len(views.Categories) != 0 || len(views.TopAreas) != 0 || len(views.TopItems) != 0 {
		t.Fatalf("expected empty groupings: %#v", views)
	}
	if sumBuckets(views.PriceBuckets) != 0 {
		t.Fatalf("expected empty price buckets: %#v", views.PriceBuckets)
	}
}

func TestBandIndexEdges(t *testing.T) {
	cases := []struct {
		price float64
		label string
	}{
		{0, "0-10"},
		{10, "0-10"},
		{10.01, "10-20"},
		{50, "40-50"},
		{50.01, "50+"},
		{250, "50+"},
	}
	for _, tc := range cases {
		if got := priceBands[bandIndex(tc.price)].label; got != tc.label {
			t.Fatalf("price %.2f landed in %q, want %q", tc.price, got, tc.label)
		}
	}
}

func bucketCount(t *testing.T, buckets []PriceBucket, label string) int {
	t.Helper()
	for _, b := range buckets {
		if b.Label == label {
			return b.Count
		}
	}
	t.Fatalf("no bucket labelled %q", label)
	return 0
}

func sumBuckets(buckets []PriceBucket) int {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	return total
}
