package report

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSplitEqual(t *testing.T) {
	tests := []struct {
		name  string
		total string
		n     int
		want  []string
	}{
		{"two services", "150000", 2, []string{"75000", "75000"}},
		{"single", "99000", 1, []string{"99000"}},
		{"leftover cents", "100", 3, []string{"33.34", "33.33", "33.33"}},
		{"odd cents", "0.05", 2, []string{"0.03", "0.02"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			total := decimal.RequireFromString(tc.total)
			shares := SplitEqual(total, tc.n)

			if len(shares) != len(tc.want) {
				t.Fatalf("expected %d shares, got %d", len(tc.want), len(shares))
			}
			sum := decimal.Zero
			for i, s := range shares {
				if !s.Equal(decimal.RequireFromString(tc.want[i])) {
					t.Fatalf("share %d: expected %s, got %s", i, tc.want[i], s)
				}
				sum = sum.Add(s)
			}
			if !sum.Equal(total) {
				t.Fatalf("shares sum to %s, expected %s", sum, total)
			}
		})
	}

	if SplitEqual(decimal.NewFromInt(10), 0) != nil {
		t.Fatal("expected nil for zero services")
	}
}

func TestGrowth(t *testing.T) {
	tests := []struct {
		curr, prev int
		want       int64
	}{
		{0, 0, 100},
		{7, 0, 100},
		{15, 10, 50},
		{5, 10, -50},
		{4, 3, 33},
		{9, 8, 13}, // 12.5 rounds up
		{10, 10, 0},
	}

	for _, tc := range tests {
		if got := CountGrowth(tc.curr, tc.prev); got != tc.want {
			t.Errorf("CountGrowth(%d, %d) = %d, want %d", tc.curr, tc.prev, got, tc.want)
		}
	}

	if got := Growth(decimal.NewFromInt(150000), decimal.NewFromInt(100000)); got != 50 {
		t.Fatalf("expected revenue growth 50, got %d", got)
	}
}
