package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/errorhandler"
	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/response"
	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/validator"
)

// BookingService is the set of booking operations the HTTP layer needs.
type BookingService interface {
	Create(ctx context.Context, in CreateInput) (*Booking, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*Booking, error)
	ChangeStatus(ctx context.Context, id int64, next Status) (*Booking, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	List(ctx context.Context, filter ListFilter) ([]Booking, int, error)
}

// Handler handles booking HTTP requests
type Handler struct {
	service BookingService
}

// NewHandler creates booking handler
func NewHandler(service BookingService) *Handler {
	return &Handler{service: service}
}

// Create handles POST /bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		h.writeError(w, r, "create booking", err)
		return
	}

	response.Created(w, BookingResponseFromEntity(b))
}

// GetByID handles GET /bookings/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "get booking", err)
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get booking", err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// List handles GET /bookings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	bookings, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, "list bookings", err)
		return
	}

	items := make([]*BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, BookingResponseFromEntity(&bookings[i]))
	}

	response.WithMeta(w, items, response.NewMeta(total, filter.Page, filter.Limit))
}

// Update handles PATCH /bookings/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "update booking", err)
		return
	}

	var req UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.Update(r.Context(), id, req.toInput())
	if err != nil {
		h.writeError(w, r, "update booking", err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// ChangeStatus handles PATCH /bookings/{id}/status
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "change booking status", err)
		return
	}

	var req ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.ChangeStatus(r.Context(), id, Status(req.Status))
	if err != nil {
		h.writeError(w, r, "change booking status", err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// Delete handles DELETE /bookings/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "delete booking", err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, "delete booking", err)
		return
	}

	response.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, ErrInvalidID):
		response.BadRequest(w, "Invalid booking ID")
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrBranchRequired),
		errors.Is(err, ErrServicesRequired),
		errors.Is(err, ErrPhoneRequired),
		errors.Is(err, ErrInvalidPhone),
		errors.Is(err, ErrInvalidStatus):
		response.Unprocessable(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrServiceNotFound):
		response.Unprocessable(w, "SERVICE_NOT_FOUND", err.Error())
	case errors.Is(err, ErrBranchNotFound):
		response.Unprocessable(w, "BRANCH_NOT_FOUND", err.Error())
	case errors.Is(err, ErrInvalidEmployee):
		response.Unprocessable(w, "EMPLOYEE_NOT_FOUND", err.Error())
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Conflict(w, "INVALID_STATUS_TRANSITION", "Status change is not allowed")
	case errors.Is(err, ErrBookingNotCancelled):
		response.Conflict(w, "BOOKING_NOT_CANCELLED", "Only cancelled bookings can be deleted")
	case errors.Is(err, ErrCustomerResolutionConflict):
		response.Conflict(w, "CUSTOMER_RESOLUTION_CONFLICT", "Customer could not be resolved for this phone")
	default:
		errorhandler.Internal(r.Context(), w, operation, err)
	}
}

// ParseID parses a positive booking id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{Page: 1, Limit: 20}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return filter, errors.New("invalid page")
		}
		filter.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return filter, errors.New("invalid limit")
		}
		if limit > 100 {
			limit = 100
		}
		filter.Limit = limit
	}

	for name, dst := range map[string]**int64{
		"branch_id":   &filter.BranchID,
		"employee_id": &filter.EmployeeID,
		"customer_id": &filter.CustomerID,
	} {
		if v := q.Get(name); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id <= 0 {
				return filter, errors.New("invalid " + name)
			}
			*dst = &id
		}
	}

	if v := q.Get("status"); v != "" {
		status := Status(v)
		if !status.IsValid() {
			return filter, errors.New("invalid status")
		}
		filter.Status = &status
	}

	if v := q.Get("date_from"); v != "" {
		from, _, err := parseDate(v)
		if err != nil {
			return filter, errors.New("invalid date_from")
		}
		filter.DateFrom = &from
	}
	if v := q.Get("date_to"); v != "" {
		to, dateOnly, err := parseDate(v)
		if err != nil {
			return filter, errors.New("invalid date_to")
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1)
		}
		filter.DateTo = &to
	}

	return filter, nil
}

// parseDate accepts RFC3339 or YYYY-MM-DD (UTC midnight).
func parseDate(v string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	return t, true, err
}
