package report

import (
	"fmt"
	"slices"

	"github.com/levy1403/quanlychuoi-sub000/internal/domain/inventory"
)

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 100
)

// MergeActivities combines feeds newest first and keeps at most limit
// events in total. Events with equal timestamps keep their feed order.
func MergeActivities(limit int, feeds ...[]ActivityEvent) []ActivityEvent {
	size := 0
	for _, feed := range feeds {
		size += len(feed)
	}

	merged := make([]ActivityEvent, 0, size)
	for _, feed := range feeds {
		merged = append(merged, feed...)
	}

	slices.SortStableFunc(merged, func(a, b ActivityEvent) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	if limit >= 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

func normalizeActivityLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultActivityLimit
	case limit > maxActivityLimit:
		return maxActivityLimit
	}
	return limit
}

func bookingActivities(bookings []RecentBooking) []ActivityEvent {
	events := make([]ActivityEvent, 0, len(bookings))
	for _, b := range bookings {
		events = append(events, ActivityEvent{
			ID:        fmt.Sprintf("booking-%d", b.ID),
			Message:   fmt.Sprintf("%s booked %s (booking #%d, %s)", b.CustomerName, plural(b.ServiceCount, "service"), b.ID, b.Status),
			Timestamp: b.CreatedAt,
			Kind:      KindBooking,
		})
	}
	return events
}

func inventoryActivities(txs []inventory.Transaction) []ActivityEvent {
	events := make([]ActivityEvent, 0, len(txs))
	for _, tx := range txs {
		var msg string
		switch tx.Type {
		case inventory.TypeImport:
			msg = fmt.Sprintf("Imported %d × %s", tx.Quantity, tx.ProductName)
		case inventory.TypeExport:
			msg = fmt.Sprintf("Exported %d × %s", tx.Quantity, tx.ProductName)
		default:
			msg = fmt.Sprintf("Adjusted stock of %s by %+d", tx.ProductName, tx.Quantity)
		}
		if tx.EmployeeName != nil && *tx.EmployeeName != "" {
			msg += " by " + *tx.EmployeeName
		}

		events = append(events, ActivityEvent{
			ID:        fmt.Sprintf("inventory-%d", tx.ID),
			Message:   msg,
			Timestamp: tx.CreatedAt,
			Kind:      KindInventory,
		})
	}
	return events
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
