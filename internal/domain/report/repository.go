package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const queryTimeout = 10 * time.Second

// Repository runs the read-only report queries.
type Repository interface {
	MonthlyRevenue(ctx context.Context, f RealizedFilter, loc *time.Location) ([]MonthlyRevenueRow, error)
	RealizedLines(ctx context.Context, f RealizedFilter, loc *time.Location) ([]bookingLine, error)
	RealizedRevenue(ctx context.Context, f RealizedFilter, loc *time.Location) (decimal.Decimal, error)
	CountBookings(ctx context.Context, from, to time.Time) (int, error)
	CountNewCustomers(ctx context.Context, from, to time.Time) (int, error)
	AvgServiceTime(ctx context.Context, from, to time.Time) (serviceTime, error)
	RecentBookings(ctx context.Context, limit int) ([]RecentBooking, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates report repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) MonthlyRevenue(ctx context.Context, f RealizedFilter, loc *time.Location) ([]MonthlyRevenueRow, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := f.Where(loc)
	args = append(args, loc.String())

	query := fmt.Sprintf(`
		SELECT to_char(b.appointment_date AT TIME ZONE $%d::text, 'YYYY-MM') AS month,
		       COUNT(*) AS count,
		       COALESCE(SUM(b.total_price), 0) AS total
		FROM bookings b
		WHERE %s
		GROUP BY month
		ORDER BY month
	`, len(args), where)

	rows := []MonthlyRevenueRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	return rows, nil
}

func (r *repository) RealizedLines(ctx context.Context, f RealizedFilter, loc *time.Location) ([]bookingLine, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := f.Where(loc)
	query := `
		SELECT b.id AS booking_id, b.total_price, bs.service_id, s.name AS service_name
		FROM bookings b
		JOIN booking_services bs ON bs.booking_id = b.id
		JOIN services s ON s.id = bs.service_id
		WHERE ` + where + `
		ORDER BY b.id, bs.id
	`

	var lines []bookingLine
	if err := r.db.SelectContext(ctx, &lines, query, args...); err != nil {
		return nil, fmt.Errorf("realized booking lines: %w", err)
	}
	return lines, nil
}

func (r *repository) RealizedRevenue(ctx context.Context, f RealizedFilter, loc *time.Location) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := f.Where(loc)

	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(b.total_price), 0) FROM bookings b WHERE `+where, args...)
	if err != nil {
		return decimal.Zero, fmt.Errorf("realized revenue: %w", err)
	}
	return total, nil
}

func (r *repository) CountBookings(ctx context.Context, from, to time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM bookings WHERE appointment_date >= $1 AND appointment_date < $2`,
		from, to)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (r *repository) CountNewCustomers(ctx context.Context, from, to time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM users WHERE role = 'customer' AND created_at >= $1 AND created_at < $2`,
		from, to)
	if err != nil {
		return 0, fmt.Errorf("count new customers: %w", err)
	}
	return n, nil
}

func (r *repository) AvgServiceTime(ctx context.Context, from, to time.Time) (serviceTime, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var st serviceTime
	err := r.db.GetContext(ctx, &st, `
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (check_out_time - check_in_time)) / 60), 0) AS avg_minutes,
		       COUNT(*) AS n
		FROM bookings
		WHERE appointment_date >= $1 AND appointment_date < $2
		  AND check_in_time IS NOT NULL
		  AND check_out_time IS NOT NULL
	`, from, to)
	if err != nil {
		return serviceTime{}, fmt.Errorf("average service time: %w", err)
	}
	return st, nil
}

func (r *repository) RecentBookings(ctx context.Context, limit int) ([]RecentBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var bookings []RecentBooking
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT b.id, u.full_name AS customer_name, b.status,
		       (SELECT COUNT(*) FROM booking_services bs WHERE bs.booking_id = b.id) AS service_count,
		       b.created_at
		FROM bookings b
		JOIN users u ON u.id = b.customer_id
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}
	return bookings, nil
}
