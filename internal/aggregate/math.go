package aggregate

import "github.com/shopspring/decimal"

// safeDiv returns 0 for a zero denominator.
func safeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// percentDec is num/den*100 clamped to [0, 100], 0 for a zero denominator.
func percentDec(num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return 0
	}
	return clamp(num.Mul(hundred).Div(den).InexactFloat64())
}

func percentOf(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return clamp(float64(n) * 100 / float64(d))
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
