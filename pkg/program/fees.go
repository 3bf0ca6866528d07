package program

import "math/bits"

// DefaultFeePct is the protocol's cut of each priced send, in percent.
const DefaultFeePct = 1

// splitFee divides a per-message price into the receiver payout and the
// protocol fee. The arithmetic is checked so a misconfigured percentage
// can never underflow the payout: the fee is clamped to the price and
// payout + fee == price always holds.
func splitFee(price, feePct uint64) (payout, fee uint64) {
	if feePct > 100 {
		feePct = 100
	}
	hi, lo := bits.Mul64(price, feePct)
	fee, _ = bits.Div64(hi, lo, 100)
	if fee > price {
		fee = price
	}
	return price - fee, fee
}
