package aggregate

import "github.com/shopspring/decimal"

// Bracket labels as published, smallest first.
const (
	BracketUnder1M    = "100万円未満"
	Bracket1MTo10M    = "100万円〜1000万円"
	Bracket10MTo100M  = "1000万円〜1億円"
	Bracket100MTo1B   = "1億円〜10億円"
	Bracket1BAndAbove = "10億円以上"
)

func newSizeBuckets() sizeBuckets {
	bounds := []int64{0, 1_000_000, 10_000_000, 100_000_000, 1_000_000_000}
	labels := []string{BracketUnder1M, Bracket1MTo10M, Bracket10MTo100M, Bracket100MTo1B, Bracket1BAndAbove}

	b := make(sizeBuckets, len(labels))
	for i := range labels {
		b[i] = SizeBucket{Label: labels[i], Lower: decimal.NewFromInt(bounds[i])}
		if i+1 < len(bounds) {
			b[i].Upper = decimal.NewFromInt(bounds[i+1])
		}
	}
	return b
}

type sizeBuckets []SizeBucket

// add counts a positive amount into exactly one bucket.
func (b sizeBuckets) add(amount decimal.Decimal) {
	for i := range b {
		if b[i].Upper.IsZero() || amount.LessThan(b[i].Upper) {
			b[i].Count++
			return
		}
	}
}
