package money

import "math"

// Amount is a monetary quantity expressed in the currency's minor unit
// (cents, kobo, sen). All payroll arithmetic happens on this type so that
// repeated recovery deductions never accumulate rounding drift.
type Amount int64

const (
	MaxAmount Amount = math.MaxInt64
	MinAmount Amount = math.MinInt64
)

// basis points per whole unit: a rate of 100% is 10_000 bps.
const bpsScale = 10_000

// AddSat returns a+b, saturating at MaxAmount/MinAmount instead of wrapping.
func AddSat(a, b Amount) Amount {
	if b > 0 && a > MaxAmount-b {
		return MaxAmount
	}
	if b < 0 && a < MinAmount-b {
		return MinAmount
	}
	return a + b
}

// SumSat folds AddSat over amounts.
func SumSat(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total = AddSat(total, a)
	}
	return total
}

// SubFloor returns a-b floored at zero. The second return value is the
// shortfall that was clamped away; zero when no clamping happened.
func SubFloor(a, b Amount) (Amount, Amount) {
	if b > a {
		return 0, b - a
	}
	return a - b, 0
}

// ApplyRate multiplies amount by a rate given in basis points, rounding
// half-up to the minor unit. Amount and rate must be non-negative.
func ApplyRate(amount Amount, rateBps int64) Amount {
	if amount <= 0 || rateBps <= 0 {
		return 0
	}
	return Amount((int64(amount)*rateBps + bpsScale/2) / bpsScale)
}

// CeilDiv divides amount by n, rounding up. n must be positive.
func CeilDiv(amount Amount, n int64) Amount {
	if amount <= 0 {
		return 0
	}
	return Amount((int64(amount) + n - 1) / n)
}

// Min returns the smaller of a and b.
func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}
