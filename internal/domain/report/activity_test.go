package report

import (
	"testing"
	"time"
)

func TestMergeActivities(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	bookings := []ActivityEvent{
		{ID: "booking-2", Timestamp: t0.Add(2 * time.Hour)},
		{ID: "booking-1", Timestamp: t0},
	}
	stock := []ActivityEvent{
		{ID: "inventory-5", Timestamp: t0.Add(3 * time.Hour)},
		{ID: "inventory-4", Timestamp: t0.Add(2 * time.Hour)},
	}

	got := MergeActivities(3, bookings, stock)

	want := []string{"inventory-5", "booking-2", "inventory-4"}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], got[i].ID)
		}
	}
}

func TestMergeActivities_FewerThanLimit(t *testing.T) {
	got := MergeActivities(10, []ActivityEvent{{ID: "booking-1"}}, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
}

func TestNormalizeActivityLimit(t *testing.T) {
	cases := map[int]int{0: 10, -4: 10, 25: 25, 500: 100}
	for in, want := range cases {
		if got := normalizeActivityLimit(in); got != want {
			t.Errorf("normalizeActivityLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
