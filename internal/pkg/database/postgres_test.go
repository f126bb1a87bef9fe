package database

import (
	"testing"
	"time"
)

func TestWithStatementTimeout(t *testing.T) {
	tests := []struct {
		dsn  string
		d    time.Duration
		want string
	}{
		{
			dsn:  "postgres://salon:pw@localhost:5432/salon?sslmode=disable",
			d:    5 * time.Second,
			want: "postgres://salon:pw@localhost:5432/salon?sslmode=disable&statement_timeout=5000",
		},
		{
			dsn:  "host=localhost dbname=salon",
			d:    time.Second,
			want: "host=localhost dbname=salon statement_timeout=1000",
		},
		{
			dsn:  "postgres://localhost/salon",
			d:    0,
			want: "postgres://localhost/salon",
		},
	}

	for _, tc := range tests {
		if got := withStatementTimeout(tc.dsn, tc.d); got != tc.want {
			t.Errorf("withStatementTimeout(%q, %s) = %q, want %q", tc.dsn, tc.d, got, tc.want)
		}
	}
}
