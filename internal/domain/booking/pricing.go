package booking

import (
	"github.com/shopspring/decimal"

	"github.com/levy1403/quanlychuoi-sub000/internal/domain/catalog"
)

// priceLines snapshots the current price of each service into a new line and
// returns the lines with their total price and total estimated minutes.
func priceLines(services []catalog.Service) ([]Line, decimal.Decimal, int) {
	lines := make([]Line, 0, len(services))
	total := decimal.Zero
	duration := 0

	for _, s := range services {
		lines = append(lines, Line{
			ServiceID:    s.ID,
			ServiceName:  s.Name,
			ServicePrice: s.Price,
		})
		total = total.Add(s.Price)
		duration += s.EstimatedTime
	}

	return lines, total, duration
}

// sumLines is the invariant total_price of a booking.
func sumLines(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.ServicePrice)
	}
	return total
}

// uniqueIDs drops repeated ids, keeping first occurrence order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
