package booking

import (
	"context"
	"errors"
	"testing"
	"time"
)

// Validation runs before any transaction is opened, so a Service without
// a repository is enough here.
func TestService_CreateValidation(t *testing.T) {
	svc := NewService(nil, nil, nil, nil)
	when := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      CreateInput
		wantErr error
	}{
		{
			name:    "no services",
			in:      CreateInput{Phone: "0901234567", AppointmentDate: when, BranchID: 1},
			wantErr: ErrServicesRequired,
		},
		{
			name:    "no branch",
			in:      CreateInput{Phone: "0901234567", AppointmentDate: when, ServiceIDs: []int64{1}},
			wantErr: ErrBranchRequired,
		},
		{
			name:    "no phone",
			in:      CreateInput{AppointmentDate: when, ServiceIDs: []int64{1}, BranchID: 1},
			wantErr: ErrPhoneRequired,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestService_UpdateValidation(t *testing.T) {
	svc := NewService(nil, nil, nil, nil)

	empty := []int64{}
	if _, err := svc.Update(context.Background(), 1, UpdateInput{ServiceIDs: &empty}); !errors.Is(err, ErrServicesRequired) {
		t.Fatalf("expected ErrServicesRequired, got %v", err)
	}

	zero := int64(0)
	if _, err := svc.Update(context.Background(), 1, UpdateInput{BranchID: &zero}); !errors.Is(err, ErrBranchRequired) {
		t.Fatalf("expected ErrBranchRequired, got %v", err)
	}
}

func TestService_ChangeStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewService(nil, nil, nil, nil)

	if _, err := svc.ChangeStatus(context.Background(), 1, Status("done")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	b := &Booking{
		ID:         7,
		CustomerID: 3,
		BranchID:   1,
		Status:     StatusConfirmed,
		Lines:      []Line{{ServiceID: 4}, {ServiceID: 9}},
	}

	ev := NewEvent(EventStatusChanged, b, StatusPending, at)
	if ev.Type != EventStatusChanged || ev.PreviousStatus != StatusPending || ev.Status != StatusConfirmed {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if len(ev.ServiceIDs) != 2 || ev.ServiceIDs[1] != 9 {
		t.Fatalf("unexpected service ids: %v", ev.ServiceIDs)
	}
	if ev.OccurredAt.Location() != time.UTC {
		t.Fatal("expected UTC timestamp")
	}
}
