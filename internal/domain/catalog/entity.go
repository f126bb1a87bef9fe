package catalog

import "github.com/shopspring/decimal"

// Service is a bookable catalog entry. Its price may change at any time;
// bookings keep their own snapshot of it.
type Service struct {
	ID            int64           `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	Price         decimal.Decimal `db:"price" json:"price"`
	EstimatedTime int             `db:"estimated_time" json:"estimated_time"`
	IsActive      bool            `db:"is_active" json:"is_active"`
}
