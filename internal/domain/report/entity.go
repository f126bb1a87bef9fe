package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyRevenueRow is realized revenue for one calendar month (YYYY-MM).
type MonthlyRevenueRow struct {
	Month string          `db:"month" json:"month"`
	Count int             `db:"count" json:"count"`
	Total decimal.Decimal `db:"total" json:"total"`
}

// ServiceRevenueRow is the equal-split revenue attributed to one service.
// Count is the number of realized bookings that included the service.
type ServiceRevenueRow struct {
	ServiceID   int64           `json:"service_id"`
	ServiceName string          `json:"service_name"`
	Count       int             `json:"count"`
	Total       decimal.Decimal `json:"total"`
}

// DashboardStats compares today with yesterday and this week with the last.
type DashboardStats struct {
	TodayBookings       int   `json:"today_bookings"`
	YesterdayBookings   int   `json:"yesterday_bookings"`
	TodayBookingsGrowth int64 `json:"today_bookings_growth"`

	TodayRevenue       decimal.Decimal `json:"today_revenue"`
	YesterdayRevenue   decimal.Decimal `json:"yesterday_revenue"`
	TodayRevenueGrowth int64           `json:"today_revenue_growth"`

	NewCustomersThisWeek int   `json:"new_customers_this_week"`
	NewCustomersLastWeek int   `json:"new_customers_last_week"`
	NewCustomersGrowth   int64 `json:"new_customers_growth"`

	// Minutes from check-in to check-out. Growth is a difference in minutes.
	AvgServiceTime       int64 `json:"avg_service_time"`
	AvgServiceTimeGrowth int64 `json:"avg_service_time_growth"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Activity kinds
const (
	KindBooking   = "booking"
	KindInventory = "inventory"
)

// ActivityEvent is one entry of the recent activity feed.
type ActivityEvent struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
}

// bookingLine is one service line of a realized booking.
type bookingLine struct {
	BookingID   int64           `db:"booking_id"`
	TotalPrice  decimal.Decimal `db:"total_price"`
	ServiceID   int64           `db:"service_id"`
	ServiceName string          `db:"service_name"`
}

// RecentBooking is a booking as shown in the activity feed.
type RecentBooking struct {
	ID           int64     `db:"id"`
	CustomerName string    `db:"customer_name"`
	Status       string    `db:"status"`
	ServiceCount int       `db:"service_count"`
	CreatedAt    time.Time `db:"created_at"`
}

// serviceTime is the average check-in to check-out duration over N bookings.
type serviceTime struct {
	AvgMinutes float64 `db:"avg_minutes"`
	N          int     `db:"n"`
}
