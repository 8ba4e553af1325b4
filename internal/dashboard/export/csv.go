// Package export serialises dashboard views for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/feastline/feastline-admin/internal/dashboard"
)

// Monetary values are rounded to two decimals here, at display time only;
// the engine accumulates without rounding.
var printer = message.NewPrinter(language.English)

// WriteTotalsCSV serialises the headline totals to CSV.
func WriteTotalsCSV(w io.Writer, totals dashboard.Totals, window dashboard.Window) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Window", string(window)},
		{"Total Orders", strconv.Itoa(totals.TotalOrders)},
		{"Total Revenue", formatAmount(totals.TotalRevenue)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCategoriesCSV emits the category distribution as CSV.
func WriteCategoriesCSV(w io.Writer, categories []dashboard.CategoryCount) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Category", "Units"}); err != nil {
		return err
	}
	for _, c := range categories {
		if err := writer.Write([]string{c.Name, strconv.Itoa(c.Count)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTopAreasCSV emits the delivery-area ranking as CSV.
func WriteTopAreasCSV(w io.Writer, areas []dashboard.AreaCount) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Area", "Orders"}); err != nil {
		return err
	}
	for _, a := range areas {
		if err := writer.Write([]string{a.Area, strconv.Itoa(a.Count)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteHoursCSV emits the hour-of-day histogram as CSV.
func WriteHoursCSV(w io.Writer, hours []dashboard.HourCount) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Hour", "Orders"}); err != nil {
		return err
	}
	for _, h := range hours {
		if err := writer.Write([]string{strconv.Itoa(h.Hour), strconv.Itoa(h.Count)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WritePriceBucketsCSV emits the unit-price histogram as CSV.
func WritePriceBucketsCSV(w io.Writer, buckets []dashboard.PriceBucket) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Price Band", "Orders"}); err != nil {
		return err
	}
	for _, b := range buckets {
		if err := writer.Write([]string{b.Label, strconv.Itoa(b.Count)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTopItemsCSV emits the top-selling items ranking as CSV.
func WriteTopItemsCSV(w io.Writer, items []dashboard.ItemCount) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Item", "Units"}); err != nil {
		return err
	}
	for _, i := range items {
		if err := writer.Write([]string{i.Name, strconv.Itoa(i.Count)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteViewsCSV concatenates every view into a single download, blank-line
// separated in the order the dashboard renders them.
func WriteViewsCSV(w io.Writer, views dashboard.Views, window dashboard.Window) error {
	sections := []func() error{
		func() error { return WriteTotalsCSV(w, views.Totals, window) },
		func() error { return WriteCategoriesCSV(w, views.Categories) },
		func() error { return WriteTopAreasCSV(w, views.TopAreas) },
		func() error { return WriteHoursCSV(w, views.Hours) },
		func() error { return WritePriceBucketsCSV(w, views.PriceBuckets) },
		func() error { return WriteTopItemsCSV(w, views.TopItems) },
	}
	for i, section := range sections {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := section(); err != nil {
			return err
		}
	}
	return nil
}

func formatAmount(v float64) string {
	return printer.Sprintf("%.2f", v)
}
