package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/database"
)

const queryTimeout = 5 * time.Second

const bookingColumns = `
	id, customer_id, employee_id, branch_id, appointment_date, status,
	total_price, estimated_duration, notes, check_in_time, check_out_time,
	created_at, updated_at
`

// Repository defines booking persistence. Methods suffixed Tx run inside a
// transaction owned by the caller; they never commit or roll back.
type Repository interface {
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, b *Booking) error
	InsertLinesTx(ctx context.Context, tx *sqlx.Tx, bookingID int64, lines []Line) error
	DeleteLinesTx(ctx context.Context, tx *sqlx.Tx, bookingID int64) error
	LinesTx(ctx context.Context, q sqlx.QueryerContext, bookingID int64) ([]Line, error)
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id int64) (*Booking, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, b *Booking) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	List(ctx context.Context, filter ListFilter) ([]Booking, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return database.BeginTx(ctx, r.db)
}

func (r *repository) InsertTx(ctx context.Context, tx *sqlx.Tx, b *Booking) error {
	query := `
		INSERT INTO bookings (
			customer_id, employee_id, branch_id, appointment_date, status,
			total_price, estimated_duration, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRowxContext(ctx, query,
		b.CustomerID, b.EmployeeID, b.BranchID, b.AppointmentDate, b.Status,
		b.TotalPrice, b.EstimatedDuration, b.Notes,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return mapWriteError("insert booking", err)
	}
	return nil
}

func (r *repository) InsertLinesTx(ctx context.Context, tx *sqlx.Tx, bookingID int64, lines []Line) error {
	query := `
		INSERT INTO booking_services (booking_id, service_id, service_price)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	for i := range lines {
		l := &lines[i]
		l.BookingID = bookingID
		if err := tx.QueryRowxContext(ctx, query, bookingID, l.ServiceID, l.ServicePrice).Scan(&l.ID, &l.CreatedAt); err != nil {
			return mapWriteError("insert booking line", err)
		}
	}
	return nil
}

func (r *repository) DeleteLinesTx(ctx context.Context, tx *sqlx.Tx, bookingID int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM booking_services WHERE booking_id = $1`, bookingID); err != nil {
		return fmt.Errorf("delete booking lines: %w", err)
	}
	return nil
}

func (r *repository) LinesTx(ctx context.Context, q sqlx.QueryerContext, bookingID int64) ([]Line, error) {
	query := `
		SELECT bs.id, bs.booking_id, bs.service_id, s.name AS service_name,
		       bs.service_price, bs.created_at
		FROM booking_services bs
		JOIN services s ON s.id = bs.service_id
		WHERE bs.booking_id = $1
		ORDER BY bs.id
	`

	var lines []Line
	if err := sqlx.SelectContext(ctx, q, &lines, query, bookingID); err != nil {
		return nil, fmt.Errorf("select booking lines: %w", err)
	}
	return lines, nil
}

func (r *repository) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id int64) (*Booking, error) {
	var b Booking
	err := tx.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock booking: %w", err)
	}
	return &b, nil
}

func (r *repository) UpdateTx(ctx context.Context, tx *sqlx.Tx, b *Booking) error {
	query := `
		UPDATE bookings SET
			employee_id = $2,
			branch_id = $3,
			appointment_date = $4,
			status = $5,
			total_price = $6,
			notes = $7,
			check_in_time = $8,
			check_out_time = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := tx.QueryRowxContext(ctx, query,
		b.ID, b.EmployeeID, b.BranchID, b.AppointmentDate, b.Status,
		b.TotalPrice, b.Notes, b.CheckInTime, b.CheckOutTime,
	).Scan(&b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return mapWriteError("update booking", err)
	}
	return nil
}

func (r *repository) DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete booking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	if b.Lines, err = r.LinesTx(ctx, r.db, id); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Booking, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := filter.where()

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM bookings`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings` + where +
		fmt.Sprintf(" ORDER BY appointment_date DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	var bookings []Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, total, nil
}

// ListFilter narrows ListBookings. Page and Limit are 1-based and required.
type ListFilter struct {
	BranchID   *int64
	EmployeeID *int64
	CustomerID *int64
	Status     *Status
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
}

func (f ListFilter) where() (string, []interface{}) {
	conds := []string{"1=1"}
	args := []interface{}{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.BranchID != nil {
		add("branch_id = $%d", *f.BranchID)
	}
	if f.EmployeeID != nil {
		add("employee_id = $%d", *f.EmployeeID)
	}
	if f.CustomerID != nil {
		add("customer_id = $%d", *f.CustomerID)
	}
	if f.Status != nil {
		add("status = $%d", string(*f.Status))
	}
	if f.DateFrom != nil {
		add("appointment_date >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("appointment_date < $%d", *f.DateTo)
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

// mapWriteError turns constraint violations into domain errors.
func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			switch {
			case strings.Contains(pqErr.Constraint, "service_id"):
				return fmt.Errorf("%w: %s", ErrServiceNotFound, pqErr.Detail)
			case strings.Contains(pqErr.Constraint, "branch_id"):
				return ErrBranchNotFound
			case strings.Contains(pqErr.Constraint, "employee_id"):
				return ErrInvalidEmployee
			}
		case "23514": // check_violation
			if strings.Contains(pqErr.Constraint, "status") {
				return ErrInvalidStatus
			}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
