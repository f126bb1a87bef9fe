package report

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/levy1403/quanlychuoi-sub000/internal/domain/booking"
)

const (
	minYear = 2000
	maxYear = 2100
)

// RealizedFilter selects bookings whose revenue is realized: status completed
// or success, appointment within the window, optionally for one employee.
// Every revenue figure is computed through it so reports reconcile.
type RealizedFilter struct {
	DateFrom   *time.Time // inclusive
	DateTo     *time.Time // exclusive
	Year       *int       // takes precedence over DateFrom/DateTo
	EmployeeID *int64
}

// Window resolves the appointment window in loc. Nil bounds are open.
func (f RealizedFilter) Window(loc *time.Location) (from, to *time.Time) {
	if f.Year != nil {
		start := time.Date(*f.Year, time.January, 1, 0, 0, 0, 0, loc)
		end := start.AddDate(1, 0, 0)
		return &start, &end
	}
	return f.DateFrom, f.DateTo
}

// Where renders the predicate over the bookings alias b. Placeholders start
// at $1; callers append their own arguments after the returned ones.
func (f RealizedFilter) Where(loc *time.Location) (string, []interface{}) {
	conds := []string{fmt.Sprintf("b.status IN ('%s', '%s')", booking.StatusCompleted, booking.StatusSuccess)}
	args := []interface{}{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	from, to := f.Window(loc)
	if from != nil {
		add("b.appointment_date >= $%d", *from)
	}
	if to != nil {
		add("b.appointment_date < $%d", *to)
	}
	if f.EmployeeID != nil {
		add("b.employee_id = $%d", *f.EmployeeID)
	}

	return strings.Join(conds, " AND "), args
}

// ParseFilter reads date_from, date_to, year and employee_id.
// Dates are YYYY-MM-DD in loc (date_to covers the whole day) or RFC3339.
func ParseFilter(q url.Values, loc *time.Location) (RealizedFilter, error) {
	var f RealizedFilter

	if v := q.Get("date_from"); v != "" {
		from, _, err := parseDate(v, loc)
		if err != nil {
			return f, fmt.Errorf("%w: date_from %q", ErrInvalidFilter, v)
		}
		f.DateFrom = &from
	}

	if v := q.Get("date_to"); v != "" {
		to, dateOnly, err := parseDate(v, loc)
		if err != nil {
			return f, fmt.Errorf("%w: date_to %q", ErrInvalidFilter, v)
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1)
		} else {
			// timestamptz has microsecond precision
			to = to.Add(time.Microsecond)
		}
		f.DateTo = &to
	}

	if f.DateFrom != nil && f.DateTo != nil && !f.DateFrom.Before(*f.DateTo) {
		return f, fmt.Errorf("%w: date_from is after date_to", ErrInvalidFilter)
	}

	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < minYear || year > maxYear {
			return f, fmt.Errorf("%w: year %q", ErrInvalidFilter, v)
		}
		f.Year = &year
	}

	if v := q.Get("employee_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return f, fmt.Errorf("%w: employee_id %q", ErrInvalidFilter, v)
		}
		f.EmployeeID = &id
	}

	return f, nil
}

// ParseServiceID reads the optional service_id of the per-service report.
func ParseServiceID(q url.Values) (*int64, error) {
	v := q.Get("service_id")
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: service_id %q", ErrInvalidFilter, v)
	}
	return &id, nil
}

func parseDate(v string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, v, loc)
	return t, true, err
}
