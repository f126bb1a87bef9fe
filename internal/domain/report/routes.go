package report

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns report router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/revenue/monthly", h.MonthlyRevenue)
	r.Get("/revenue/services", h.RevenueByService)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/activities", h.Activities)

	return r
}
