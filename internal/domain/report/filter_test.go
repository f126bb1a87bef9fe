package report

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"
)

var ict = time.FixedZone("ICT", 7*3600)

func TestRealizedFilter_OnlyRealizedStatuses(t *testing.T) {
	where, args := RealizedFilter{}.Where(time.UTC)

	if !strings.Contains(where, "b.status IN ('completed', 'success')") {
		t.Fatalf("predicate must restrict to realized statuses: %s", where)
	}
	if strings.Contains(where, "pending") {
		t.Fatalf("pending must never qualify: %s", where)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestRealizedFilter_YearTakesPrecedence(t *testing.T) {
	from := time.Date(2023, 5, 1, 0, 0, 0, 0, ict)
	to := time.Date(2023, 6, 1, 0, 0, 0, 0, ict)
	year := 2024
	employee := int64(9)

	where, args := RealizedFilter{DateFrom: &from, DateTo: &to, Year: &year, EmployeeID: &employee}.Where(ict)

	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %v", args)
	}
	if got := args[0].(time.Time); !got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, ict)) {
		t.Fatalf("unexpected window start %v", got)
	}
	if got := args[1].(time.Time); !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, ict)) {
		t.Fatalf("unexpected window end %v", got)
	}
	if args[2] != employee {
		t.Fatalf("expected employee arg, got %v", args[2])
	}
	if !strings.Contains(where, "b.employee_id = $3") {
		t.Fatalf("unexpected predicate: %s", where)
	}
}

func TestParseFilter(t *testing.T) {
	q := url.Values{}
	q.Set("date_from", "2025-03-01")
	q.Set("date_to", "2025-03-31")
	q.Set("employee_id", "4")

	f, err := ParseFilter(q, ict)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !f.DateFrom.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, ict)) {
		t.Fatalf("unexpected date_from %v", f.DateFrom)
	}
	if !f.DateTo.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, ict)) {
		t.Fatalf("date_to must include the whole day, got %v", f.DateTo)
	}
	if f.EmployeeID == nil || *f.EmployeeID != 4 {
		t.Fatalf("unexpected employee %v", f.EmployeeID)
	}
}

func TestParseFilter_Malformed(t *testing.T) {
	tests := map[string]url.Values{
		"bad date":     {"date_from": {"01/03/2025"}},
		"reversed":     {"date_from": {"2025-04-01"}, "date_to": {"2025-03-01"}},
		"bad year":     {"year": {"20x5"}},
		"year range":   {"year": {"1850"}},
		"bad employee": {"employee_id": {"-1"}},
	}

	for name, q := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseFilter(q, time.UTC); !errors.Is(err, ErrInvalidFilter) {
				t.Fatalf("expected ErrInvalidFilter, got %v", err)
			}
		})
	}

	if _, err := ParseServiceID(url.Values{"service_id": {"abc"}}); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter for service_id, got %v", err)
	}
}
