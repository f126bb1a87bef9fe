package report

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/errorhandler"
	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/response"
)

// ReportService is the set of report operations the HTTP layer needs.
type ReportService interface {
	Location() *time.Location
	MonthlyRevenue(ctx context.Context, f RealizedFilter) ([]MonthlyRevenueRow, error)
	RevenueByService(ctx context.Context, f RealizedFilter, serviceID *int64) ([]ServiceRevenueRow, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	RecentActivities(ctx context.Context, limit int) ([]ActivityEvent, error)
}

// Handler handles report HTTP requests
type Handler struct {
	service ReportService
}

// NewHandler creates report handler
func NewHandler(service ReportService) *Handler {
	return &Handler{service: service}
}

// MonthlyRevenue handles GET /reports/revenue/monthly
func (h *Handler) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilter(r.URL.Query(), h.service.Location())
	if err != nil {
		h.writeError(w, r, "monthly revenue", err)
		return
	}

	rows, err := h.service.MonthlyRevenue(r.Context(), f)
	if err != nil {
		h.writeError(w, r, "monthly revenue", err)
		return
	}

	response.OK(w, rows)
}

// RevenueByService handles GET /reports/revenue/services
func (h *Handler) RevenueByService(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f, err := ParseFilter(q, h.service.Location())
	if err != nil {
		h.writeError(w, r, "revenue by service", err)
		return
	}
	serviceID, err := ParseServiceID(q)
	if err != nil {
		h.writeError(w, r, "revenue by service", err)
		return
	}

	rows, err := h.service.RevenueByService(r.Context(), f, serviceID)
	if err != nil {
		h.writeError(w, r, "revenue by service", err)
		return
	}

	response.OK(w, rows)
}

// Dashboard handles GET /reports/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DashboardStats(r.Context())
	if err != nil {
		h.writeError(w, r, "dashboard stats", err)
		return
	}

	response.OK(w, stats)
}

// Activities handles GET /reports/activities
func (h *Handler) Activities(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			h.writeError(w, r, "recent activities", ErrInvalidFilter)
			return
		}
		limit = n
	}

	events, err := h.service.RecentActivities(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, "recent activities", err)
		return
	}

	response.OK(w, events)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, ErrInvalidFilter):
		response.Unprocessable(w, "INVALID_FILTER", err.Error())
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to write
		errorhandler.LogDatabaseError(r.Context(), operation, err)
	default:
		errorhandler.Internal(r.Context(), w, operation, err)
	}
}
