package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents booking status (matches bookings_status_check)
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSuccess    Status = "success"
	StatusCancelled  Status = "cancelled"
)

// transitions lists the statuses reachable from each status.
// success and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusSuccess},
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusSuccess, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// IsRealized reports whether a booking in s counts toward revenue.
func (s Status) IsRealized() bool {
	return s == StatusCompleted || s == StatusSuccess
}

// ValidateTransition returns ErrInvalidStatusTransition unless next is
// directly reachable from current. Staying in the same status is not a transition.
func ValidateTransition(current, next Status) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	for _, allowed := range transitions[current] {
		if allowed == next {
			return nil
		}
	}
	return ErrInvalidStatusTransition
}

// Booking represents an appointment covering one or more services.
// TotalPrice always equals the sum of the attached lines' prices.
type Booking struct {
	ID                int64           `db:"id"`
	CustomerID        int64           `db:"customer_id"`
	EmployeeID        *int64          `db:"employee_id"`
	BranchID          int64           `db:"branch_id"`
	AppointmentDate   time.Time       `db:"appointment_date"`
	Status            Status          `db:"status"`
	TotalPrice        decimal.Decimal `db:"total_price"`
	EstimatedDuration int             `db:"estimated_duration"`
	Notes             *string         `db:"notes"`
	CheckInTime       *time.Time      `db:"check_in_time"`
	CheckOutTime      *time.Time      `db:"check_out_time"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`

	Lines []Line `db:"-"`
}

// Line attaches a service to a booking. ServicePrice is the catalog price at
// the moment the line was written and is never updated afterwards.
type Line struct {
	ID           int64           `db:"id"`
	BookingID    int64           `db:"booking_id"`
	ServiceID    int64           `db:"service_id"`
	ServiceName  string          `db:"service_name"`
	ServicePrice decimal.Decimal `db:"service_price"`
	CreatedAt    time.Time       `db:"created_at"`
}

// applyStatus moves b to next and stamps the service timestamps the first
// time the booking enters in_progress or completed.
func (b *Booking) applyStatus(next Status, now time.Time) {
	b.Status = next
	switch next {
	case StatusInProgress:
		if b.CheckInTime == nil {
			b.CheckInTime = &now
		}
	case StatusCompleted:
		if b.CheckOutTime == nil {
			b.CheckOutTime = &now
		}
	}
}
