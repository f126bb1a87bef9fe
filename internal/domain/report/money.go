package report

import (
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.New(5, -1)
)

// SplitEqual divides total into n equal shares at cent scale. Leftover cents
// go one each to the first shares, so the shares always sum to total.
func SplitEqual(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}

	cents := total.Shift(2)
	q, r := cents.QuoRem(decimal.NewFromInt(int64(n)), 0)
	extra := r.IntPart()

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		share := q
		if int64(i) < extra {
			share = share.Add(decimal.NewFromInt(1))
		}
		shares[i] = share.Shift(-2)
	}
	return shares
}

// Growth is the period-over-period change in percent, rounded half up.
// A zero baseline always reports 100, including 0 -> 0.
func Growth(curr, prev decimal.Decimal) int64 {
	if prev.IsZero() {
		return 100
	}
	pct := curr.Sub(prev).Div(prev).Mul(hundred)
	return pct.Add(half).Floor().IntPart()
}

// CountGrowth is Growth for counters.
func CountGrowth(curr, prev int) int64 {
	return Growth(decimal.NewFromInt(int64(curr)), decimal.NewFromInt(int64(prev)))
}
