package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Routing keys for booking lifecycle events.
const (
	EventCreated       = "booking.created"
	EventUpdated       = "booking.updated"
	EventStatusChanged = "booking.status_changed"
	EventDeleted       = "booking.deleted"
)

// Event is the message body published for every committed booking write.
type Event struct {
	Type           string          `json:"type"`
	BookingID      int64           `json:"booking_id"`
	CustomerID     int64           `json:"customer_id"`
	BranchID       int64           `json:"branch_id"`
	EmployeeID     *int64          `json:"employee_id,omitempty"`
	Status         Status          `json:"status"`
	PreviousStatus Status          `json:"previous_status,omitempty"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	ServiceIDs     []int64         `json:"service_ids,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

func NewEvent(eventType string, b *Booking, previous Status, at time.Time) Event {
	ids := make([]int64, 0, len(b.Lines))
	for _, l := range b.Lines {
		ids = append(ids, l.ServiceID)
	}

	return Event{
		Type:           eventType,
		BookingID:      b.ID,
		CustomerID:     b.CustomerID,
		BranchID:       b.BranchID,
		EmployeeID:     b.EmployeeID,
		Status:         b.Status,
		PreviousStatus: previous,
		TotalPrice:     b.TotalPrice,
		ServiceIDs:     ids,
		OccurredAt:     at.UTC(),
	}
}
