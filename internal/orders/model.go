package orders

import "time"

// Status is the delivery state reported by the upstream ordering system.
// The set is open: unrecognised values are preserved and rendered with a
// fallback style by the frontend.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusCompleted Status = "completed"
)

// Known reports whether the status is one of the documented values.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusCompleted:
		return true
	}
	return false
}

// Order is one placed order as recorded by the upstream ordering system.
// This service only ever reads orders; it never creates or mutates them.
type Order struct {
	ID        string    `json:"id"`
	ItemName  string    `json:"item_name"`
	ItemCount int       `json:"item_count"`
	ItemPrice float64   `json:"item_price"`
	Address   string    `json:"address"`
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Revenue is the line revenue for the order.
func (o Order) Revenue() float64 {
	return o.ItemPrice * float64(o.ItemCount)
}

// Valid reports whether the order satisfies the record invariants:
// a positive quantity, a non-negative unit price and a parseable timestamp.
func (o Order) Valid() bool {
	return o.ItemCount >= 1 && o.ItemPrice >= 0 && !o.Timestamp.IsZero()
}

// Snapshot is a read-only pull of order records for one aggregation cycle.
// Skipped counts rows dropped during boundary validation so the dashboard
// can surface data-quality issues.
type Snapshot struct {
	Orders  []Order
	Skipped int
}
