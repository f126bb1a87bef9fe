package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBookingRequest for POST /bookings
type CreateBookingRequest struct {
	Phone           string    `json:"phone" validate:"omitempty,phone"`
	AppointmentDate time.Time `json:"appointment_date" validate:"required"`
	ServiceIDs      []int64   `json:"service_ids" validate:"omitempty,max=50,dive,gt=0"`
	BranchID        int64     `json:"branch_id" validate:"gte=0"`
	EmployeeID      *int64    `json:"employee_id" validate:"omitempty,gt=0"`
	Notes           *string   `json:"notes" validate:"omitempty,max=2000"`
}

func (r *CreateBookingRequest) toInput() CreateInput {
	return CreateInput{
		Phone:           r.Phone,
		AppointmentDate: r.AppointmentDate,
		ServiceIDs:      r.ServiceIDs,
		BranchID:        r.BranchID,
		EmployeeID:      r.EmployeeID,
		Notes:           r.Notes,
	}
}

// UpdateBookingRequest for PATCH /bookings/{id}. Omitted fields are unchanged.
type UpdateBookingRequest struct {
	AppointmentDate *time.Time `json:"appointment_date"`
	EmployeeID      *int64     `json:"employee_id" validate:"omitempty,gt=0"`
	BranchID        *int64     `json:"branch_id" validate:"omitempty,gt=0"`
	Notes           *string    `json:"notes" validate:"omitempty,max=2000"`
	Status          *string    `json:"status" validate:"omitempty,booking_status"`
	ServiceIDs      *[]int64   `json:"service_ids" validate:"omitempty,max=50,dive,gt=0"`
}

func (r *UpdateBookingRequest) toInput() UpdateInput {
	in := UpdateInput{
		AppointmentDate: r.AppointmentDate,
		EmployeeID:      r.EmployeeID,
		BranchID:        r.BranchID,
		Notes:           r.Notes,
		ServiceIDs:      r.ServiceIDs,
	}
	if r.Status != nil {
		status := Status(*r.Status)
		in.Status = &status
	}
	return in
}

// ChangeStatusRequest for PATCH /bookings/{id}/status
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,booking_status"`
}

// LineResponse is a booked service with its frozen price.
type LineResponse struct {
	ServiceID    int64           `json:"service_id"`
	ServiceName  string          `json:"service_name,omitempty"`
	ServicePrice decimal.Decimal `json:"service_price"`
}

// BookingResponse represents booking in API response
type BookingResponse struct {
	ID                int64           `json:"id"`
	CustomerID        int64           `json:"customer_id"`
	EmployeeID        *int64          `json:"employee_id,omitempty"`
	BranchID          int64           `json:"branch_id"`
	AppointmentDate   time.Time       `json:"appointment_date"`
	Status            Status          `json:"status"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	EstimatedDuration int             `json:"estimated_duration"`
	Notes             *string         `json:"notes,omitempty"`
	CheckInTime       *time.Time      `json:"check_in_time,omitempty"`
	CheckOutTime      *time.Time      `json:"check_out_time,omitempty"`
	Services          []LineResponse  `json:"services"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// BookingResponseFromEntity converts entity to response
func BookingResponseFromEntity(b *Booking) *BookingResponse {
	services := make([]LineResponse, 0, len(b.Lines))
	for _, l := range b.Lines {
		services = append(services, LineResponse{
			ServiceID:    l.ServiceID,
			ServiceName:  l.ServiceName,
			ServicePrice: l.ServicePrice,
		})
	}

	return &BookingResponse{
		ID:                b.ID,
		CustomerID:        b.CustomerID,
		EmployeeID:        b.EmployeeID,
		BranchID:          b.BranchID,
		AppointmentDate:   b.AppointmentDate,
		Status:            b.Status,
		TotalPrice:        b.TotalPrice,
		EstimatedDuration: b.EstimatedDuration,
		Notes:             b.Notes,
		CheckInTime:       b.CheckInTime,
		CheckOutTime:      b.CheckOutTime,
		Services:          services,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}
