package booking

import (
	"errors"
	"testing"
	"time"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		wantErr  error
	}{
		{StatusPending, StatusConfirmed, nil},
		{StatusPending, StatusCancelled, nil},
		{StatusConfirmed, StatusInProgress, nil},
		{StatusConfirmed, StatusCancelled, nil},
		{StatusInProgress, StatusCompleted, nil},
		{StatusInProgress, StatusCancelled, nil},
		{StatusCompleted, StatusSuccess, nil},

		{StatusSuccess, StatusPending, ErrInvalidStatusTransition},
		{StatusCancelled, StatusConfirmed, ErrInvalidStatusTransition},
		{StatusPending, StatusCompleted, ErrInvalidStatusTransition},
		{StatusCompleted, StatusCancelled, ErrInvalidStatusTransition},
		{StatusPending, StatusPending, ErrInvalidStatusTransition},
		{StatusPending, Status("archived"), ErrInvalidStatus},
	}

	for _, tc := range tests {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			err := ValidateTransition(tc.from, tc.to)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []Status{StatusSuccess, StatusCancelled} {
		if !s.IsTerminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted} {
		if s.IsTerminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
}

func TestApplyStatusStampsServiceTimes(t *testing.T) {
	b := &Booking{Status: StatusConfirmed}
	checkIn := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(45 * time.Minute)

	b.applyStatus(StatusInProgress, checkIn)
	if b.CheckInTime == nil || !b.CheckInTime.Equal(checkIn) {
		t.Fatalf("expected check-in stamped, got %v", b.CheckInTime)
	}

	b.applyStatus(StatusCompleted, checkOut)
	if b.CheckOutTime == nil || !b.CheckOutTime.Equal(checkOut) {
		t.Fatalf("expected check-out stamped, got %v", b.CheckOutTime)
	}
	if !b.CheckInTime.Equal(checkIn) {
		t.Fatal("check-in must not move once set")
	}
}
