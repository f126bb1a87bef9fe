package report

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/levy1403/quanlychuoi-sub000/internal/domain/inventory"
	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/logger"
)

const dashboardCacheKey = "report:dashboard:"

// InventoryReader exposes recent inventory transactions with names joined.
type InventoryReader interface {
	Recent(ctx context.Context, limit int) ([]inventory.Transaction, error)
}

// Service is the revenue aggregation engine. It never writes.
type Service struct {
	repo      Repository
	inventory InventoryReader
	loc       *time.Location
	now       func() time.Time

	cache    StatsCache
	cacheTTL time.Duration
}

// NewService creates report service. Calendar days and months are taken in loc.
func NewService(repo Repository, inv InventoryReader, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:      repo,
		inventory: inv,
		loc:       loc,
		now:       time.Now,
	}
}

// SetCache enables caching of dashboard stats for ttl.
func (s *Service) SetCache(cache StatsCache, ttl time.Duration) {
	s.cache = cache
	s.cacheTTL = ttl
}

// Location is the time zone the reports are bucketed in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// MonthlyRevenue returns realized revenue per month, ascending by month.
func (s *Service) MonthlyRevenue(ctx context.Context, f RealizedFilter) ([]MonthlyRevenueRow, error) {
	return s.repo.MonthlyRevenue(ctx, f, s.loc)
}

// RevenueByService splits each realized booking's total equally across its
// services and sums the shares per service, descending by total. When
// serviceID is set only that service's row is returned.
func (s *Service) RevenueByService(ctx context.Context, f RealizedFilter, serviceID *int64) ([]ServiceRevenueRow, error) {
	lines, err := s.repo.RealizedLines(ctx, f, s.loc)
	if err != nil {
		return nil, err
	}

	rows := aggregateByService(lines)
	if serviceID != nil {
		filtered := []ServiceRevenueRow{}
		for _, row := range rows {
			if row.ServiceID == *serviceID {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}
	return rows, nil
}

// aggregateByService expects lines grouped by booking, as RealizedLines returns them.
func aggregateByService(lines []bookingLine) []ServiceRevenueRow {
	byService := map[int64]*ServiceRevenueRow{}

	for start := 0; start < len(lines); {
		end := start
		for end < len(lines) && lines[end].BookingID == lines[start].BookingID {
			end++
		}
		group := lines[start:end]
		shares := SplitEqual(group[0].TotalPrice, len(group))

		counted := map[int64]bool{}
		for i, l := range group {
			row, ok := byService[l.ServiceID]
			if !ok {
				row = &ServiceRevenueRow{ServiceID: l.ServiceID, ServiceName: l.ServiceName}
				byService[l.ServiceID] = row
			}
			row.Total = row.Total.Add(shares[i])
			if !counted[l.ServiceID] {
				row.Count++
				counted[l.ServiceID] = true
			}
		}
		start = end
	}

	rows := make([]ServiceRevenueRow, 0, len(byService))
	for _, row := range byService {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].ServiceID < rows[j].ServiceID
	})
	return rows
}

// DashboardStats compares today with yesterday (bookings, realized revenue),
// the last 7 days with the 7 before (new customers) and today's average
// service time with the same weekday last week.
func (s *Service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	key := dashboardCacheKey + s.loc.String()
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("Dashboard cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)
	lastWeekDay := today.AddDate(0, 0, -7)

	stats := &DashboardStats{GeneratedAt: now}
	var todayTime, lastWeekTime serviceTime

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TodayBookings, err = s.repo.CountBookings(gctx, today, tomorrow)
		return err
	})
	g.Go(func() (err error) {
		stats.YesterdayBookings, err = s.repo.CountBookings(gctx, yesterday, today)
		return err
	})
	g.Go(func() (err error) {
		stats.TodayRevenue, err = s.repo.RealizedRevenue(gctx, RealizedFilter{DateFrom: &today, DateTo: &tomorrow}, s.loc)
		return err
	})
	g.Go(func() (err error) {
		stats.YesterdayRevenue, err = s.repo.RealizedRevenue(gctx, RealizedFilter{DateFrom: &yesterday, DateTo: &today}, s.loc)
		return err
	})
	g.Go(func() (err error) {
		stats.NewCustomersThisWeek, err = s.repo.CountNewCustomers(gctx, weekAgo, now)
		return err
	})
	g.Go(func() (err error) {
		stats.NewCustomersLastWeek, err = s.repo.CountNewCustomers(gctx, twoWeeksAgo, weekAgo)
		return err
	})
	g.Go(func() (err error) {
		todayTime, err = s.repo.AvgServiceTime(gctx, today, tomorrow)
		return err
	})
	g.Go(func() (err error) {
		lastWeekTime, err = s.repo.AvgServiceTime(gctx, lastWeekDay, lastWeekDay.AddDate(0, 0, 1))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.TodayBookingsGrowth = CountGrowth(stats.TodayBookings, stats.YesterdayBookings)
	stats.TodayRevenueGrowth = Growth(stats.TodayRevenue, stats.YesterdayRevenue)
	stats.NewCustomersGrowth = CountGrowth(stats.NewCustomersThisWeek, stats.NewCustomersLastWeek)
	stats.AvgServiceTime, stats.AvgServiceTimeGrowth = serviceTimeStats(todayTime, lastWeekTime)

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, key, stats, s.cacheTTL); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("Dashboard cache write failed")
		}
	}
	return stats, nil
}

// serviceTimeStats rounds today's average to whole minutes. Its growth is
// the difference from last week, or 0 when last week had no data.
func serviceTimeStats(today, lastWeek serviceTime) (avg, growth int64) {
	avg = roundMinutes(today)
	if lastWeek.N == 0 {
		return avg, 0
	}
	return avg, avg - roundMinutes(lastWeek)
}

func roundMinutes(st serviceTime) int64 {
	if st.N == 0 {
		return 0
	}
	return int64(math.Floor(st.AvgMinutes + 0.5))
}

// RecentActivities merges the latest bookings and inventory movements and
// returns at most limit events overall.
func (s *Service) RecentActivities(ctx context.Context, limit int) ([]ActivityEvent, error) {
	limit = normalizeActivityLimit(limit)

	var bookings []RecentBooking
	var txs []inventory.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bookings, err = s.repo.RecentBookings(gctx, limit)
		return err
	})
	g.Go(func() (err error) {
		txs, err = s.inventory.Recent(gctx, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return MergeActivities(limit, bookingActivities(bookings), inventoryActivities(txs)), nil
}
