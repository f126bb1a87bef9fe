package report

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/levy1403/quanlychuoi-sub000/internal/domain/inventory"
)

type fakeRepo struct {
	lines          []bookingLine
	bookingCounts  map[int64]int // keyed by window start, unix seconds
	revenue        map[int64]decimal.Decimal
	newCustomers   map[int64]int
	serviceTimes   map[int64]serviceTime
	recentBookings []RecentBooking
	calls          atomic.Int32
}

func (f *fakeRepo) MonthlyRevenue(ctx context.Context, flt RealizedFilter, loc *time.Location) ([]MonthlyRevenueRow, error) {
	return nil, nil
}

func (f *fakeRepo) RealizedLines(ctx context.Context, flt RealizedFilter, loc *time.Location) ([]bookingLine, error) {
	return f.lines, nil
}

func (f *fakeRepo) RealizedRevenue(ctx context.Context, flt RealizedFilter, loc *time.Location) (decimal.Decimal, error) {
	return f.revenue[flt.DateFrom.Unix()], nil
}

func (f *fakeRepo) CountBookings(ctx context.Context, from, to time.Time) (int, error) {
	f.calls.Add(1)
	return f.bookingCounts[from.Unix()], nil
}

func (f *fakeRepo) CountNewCustomers(ctx context.Context, from, to time.Time) (int, error) {
	return f.newCustomers[from.Unix()], nil
}

func (f *fakeRepo) AvgServiceTime(ctx context.Context, from, to time.Time) (serviceTime, error) {
	return f.serviceTimes[from.Unix()], nil
}

func (f *fakeRepo) RecentBookings(ctx context.Context, limit int) ([]RecentBooking, error) {
	if len(f.recentBookings) > limit {
		return f.recentBookings[:limit], nil
	}
	return f.recentBookings, nil
}

type fakeInventory struct {
	txs []inventory.Transaction
	err error
}

func (f *fakeInventory) Recent(ctx context.Context, limit int) ([]inventory.Transaction, error) {
	if len(f.txs) > limit {
		return f.txs[:limit], f.err
	}
	return f.txs, f.err
}

type memCache struct {
	stats map[string]*DashboardStats
}

func (m *memCache) Get(ctx context.Context, key string) (*DashboardStats, error) {
	return m.stats[key], nil
}

func (m *memCache) Set(ctx context.Context, key string, stats *DashboardStats, ttl time.Duration) error {
	m.stats[key] = stats
	return nil
}

func money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestRevenueByService_EqualSplit(t *testing.T) {
	repo := &fakeRepo{lines: []bookingLine{
		{BookingID: 1, TotalPrice: money(150000), ServiceID: 10, ServiceName: "Cắt tóc"},
		{BookingID: 1, TotalPrice: money(150000), ServiceID: 20, ServiceName: "Gội đầu"},
	}}
	svc := NewService(repo, nil, time.UTC)

	rows, err := svc.RevenueByService(context.Background(), RealizedFilter{}, nil)
	if err != nil {
		t.Fatalf("revenue by service: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", rows)
	}

	sum := decimal.Zero
	for _, row := range rows {
		if !row.Total.Equal(money(75000)) || row.Count != 1 {
			t.Fatalf("expected 75000 over 1 booking, got %+v", row)
		}
		sum = sum.Add(row.Total)
	}
	if !sum.Equal(money(150000)) {
		t.Fatalf("shares must reconstruct the booking total, got %s", sum)
	}
}

func TestRevenueByService_OrderingAndServiceFilter(t *testing.T) {
	repo := &fakeRepo{lines: []bookingLine{
		{BookingID: 1, TotalPrice: money(150000), ServiceID: 10},
		{BookingID: 1, TotalPrice: money(150000), ServiceID: 20},
		{BookingID: 2, TotalPrice: money(90000), ServiceID: 20},
		{BookingID: 3, TotalPrice: money(300000), ServiceID: 30},
	}}
	svc := NewService(repo, nil, time.UTC)

	rows, err := svc.RevenueByService(context.Background(), RealizedFilter{}, nil)
	if err != nil {
		t.Fatalf("revenue by service: %v", err)
	}
	want := []struct {
		id    int64
		total int64
		count int
	}{{30, 300000, 1}, {20, 165000, 2}, {10, 75000, 1}}
	for i, w := range want {
		if rows[i].ServiceID != w.id || !rows[i].Total.Equal(money(w.total)) || rows[i].Count != w.count {
			t.Fatalf("row %d: expected %+v, got %+v", i, w, rows[i])
		}
	}

	only := int64(20)
	rows, _ = svc.RevenueByService(context.Background(), RealizedFilter{}, &only)
	if len(rows) != 1 || !rows[0].Total.Equal(money(165000)) {
		t.Fatalf("expected only service 20 with its split share, got %+v", rows)
	}
}

func TestDashboardStats_ZeroBaselineSentinel(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 30, 0, 0, ict)
	today := time.Date(2025, 3, 12, 0, 0, 0, 0, ict)

	repo := &fakeRepo{
		bookingCounts: map[int64]int{},
		revenue: map[int64]decimal.Decimal{
			today.Unix(): money(200000),
		},
		newCustomers: map[int64]int{
			now.AddDate(0, 0, -7).Unix():  6,
			now.AddDate(0, 0, -14).Unix(): 4,
		},
		serviceTimes: map[int64]serviceTime{
			today.Unix():                   {AvgMinutes: 47.5, N: 2},
			today.AddDate(0, 0, -7).Unix(): {AvgMinutes: 40, N: 3},
		},
	}
	svc := NewService(repo, nil, ict)
	svc.now = func() time.Time { return now }

	stats, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if stats.TodayBookings != 0 || stats.YesterdayBookings != 0 || stats.TodayBookingsGrowth != 100 {
		t.Fatalf("0 -> 0 bookings must report 100, got %+v", stats)
	}
	if stats.TodayRevenueGrowth != 100 {
		t.Fatalf("zero revenue baseline must report 100, got %d", stats.TodayRevenueGrowth)
	}
	if stats.NewCustomersThisWeek != 6 || stats.NewCustomersLastWeek != 4 || stats.NewCustomersGrowth != 50 {
		t.Fatalf("unexpected customer stats: %+v", stats)
	}
	if stats.AvgServiceTime != 48 || stats.AvgServiceTimeGrowth != 8 {
		t.Fatalf("unexpected service time: %d (%d)", stats.AvgServiceTime, stats.AvgServiceTimeGrowth)
	}
}

func TestDashboardStats_ServiceTimeGrowthWithoutLastWeek(t *testing.T) {
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	repo := &fakeRepo{serviceTimes: map[int64]serviceTime{today.Unix(): {AvgMinutes: 30, N: 1}}}
	svc := NewService(repo, nil, time.UTC)
	svc.now = func() time.Time { return now }

	stats, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.AvgServiceTime != 30 || stats.AvgServiceTimeGrowth != 0 {
		t.Fatalf("expected 30 min with growth 0, got %d (%d)", stats.AvgServiceTime, stats.AvgServiceTimeGrowth)
	}
}

func TestDashboardStats_UsesCache(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil, time.UTC)
	svc.SetCache(&memCache{stats: map[string]*DashboardStats{}}, time.Minute)

	if _, err := svc.DashboardStats(context.Background()); err != nil {
		t.Fatalf("first call: %v", err)
	}
	calls := repo.calls.Load()
	if _, err := svc.DashboardStats(context.Background()); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if got := repo.calls.Load(); got != calls {
		t.Fatalf("expected cached stats, repository queried again (%d -> %d)", calls, got)
	}
}

func TestRecentActivities_MergesAndTruncates(t *testing.T) {
	base := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	employee := "Lan"

	repo := &fakeRepo{recentBookings: []RecentBooking{
		{ID: 3, CustomerName: "An", Status: "pending", ServiceCount: 2, CreatedAt: base.Add(5 * time.Minute)},
		{ID: 2, CustomerName: "Bình", Status: "confirmed", ServiceCount: 1, CreatedAt: base.Add(1 * time.Minute)},
	}}
	inv := &fakeInventory{txs: []inventory.Transaction{
		{ID: 8, ProductName: "Dầu gội", Type: inventory.TypeImport, Quantity: 20, EmployeeName: &employee, CreatedAt: base.Add(3 * time.Minute)},
		{ID: 7, ProductName: "Sáp", Type: inventory.TypeExport, Quantity: 2, CreatedAt: base},
	}}
	svc := NewService(repo, inv, time.UTC)

	events, err := svc.RecentActivities(context.Background(), 3)
	if err != nil {
		t.Fatalf("recent activities: %v", err)
	}

	wantIDs := []string{"booking-3", "inventory-8", "booking-2"}
	if len(events) != len(wantIDs) {
		t.Fatalf("expected %d events in total, got %d", len(wantIDs), len(events))
	}
	for i, id := range wantIDs {
		if events[i].ID != id {
			t.Fatalf("event %d: expected %s, got %s", i, id, events[i].ID)
		}
	}
	if events[1].Kind != KindInventory || events[1].Message != "Imported 20 × Dầu gội by Lan" {
		t.Fatalf("unexpected inventory event: %+v", events[1])
	}
	if events[0].Message != "An booked 2 services (booking #3, pending)" {
		t.Fatalf("unexpected booking message: %q", events[0].Message)
	}
}

func TestRecentActivities_SourceFailure(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeInventory{err: errors.New("inventory down")}, time.UTC)

	if _, err := svc.RecentActivities(context.Background(), 5); err == nil {
		t.Fatal("expected error from failing source")
	}
}
