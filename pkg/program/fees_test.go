package program

import (
	"math"
	"testing"
)

func TestSplitFee(t *testing.T) {
	cases := []struct {
		price, pct  uint64
		payout, fee uint64
	}{
		{0, 1, 0, 0},
		{99, 1, 99, 0},
		{100, 1, 99, 1},
		{1_000_000, 1, 990_000, 10_000},
		{2_000_000_000, 1, 1_980_000_000, 20_000_000},
		{500, 100, 0, 500},
		// An over-100 percentage clamps instead of underflowing the payout.
		{500, 250, 0, 500},
		{math.MaxUint64, 1, math.MaxUint64 - math.MaxUint64/100, math.MaxUint64 / 100},
	}
	for _, c := range cases {
		payout, fee := splitFee(c.price, c.pct)
		if payout != c.payout || fee != c.fee {
			t.Errorf("splitFee(%d, %d) = (%d, %d), want (%d, %d)", c.price, c.pct, payout, fee, c.payout, c.fee)
		}
		if payout+fee != c.price {
			t.Errorf("splitFee(%d, %d): payout+fee = %d", c.price, c.pct, payout+fee)
		}
	}
}
