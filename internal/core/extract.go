package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ExtractString returns the field as a trimmed string. Anything that is not
// a string (nil, numbers, missing keys) yields "".
func ExtractString(row Row, field string) string {
	switch v := row[field].(type) {
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	default:
		return ""
	}
}

// MaxAmount is the largest amount a single record may carry. Larger values
// are treated as malformed.
var MaxAmount = decimal.New(1, 18)

// maxExponent bounds the decimal exponent. It is checked before any
// comparison so that 1e50000000 is never rescaled.
const maxExponent = 20

// ParseAmountOrZero parses an upstream amount text.
//
// Surrounding whitespace, thousands separators and a trailing 円 are
// ignored. Empty, unparseable, negative and out of range inputs all yield
// zero, so a single bad row can never corrupt a sum.
func ParseAmountOrZero(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "円")
	s = strings.NewReplacer(",", "", "，", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return bounded(d)
}

// ExtractAmount reads a numeric field with the parse-or-zero policy.
// Native numbers are accepted as well as text.
func ExtractAmount(row Row, field string) decimal.Decimal {
	switch v := row[field].(type) {
	case string:
		return ParseAmountOrZero(v)
	case []byte:
		return ParseAmountOrZero(string(v))
	case json.Number:
		return ParseAmountOrZero(v.String())
	case decimal.Decimal:
		return bounded(v)
	case int:
		return bounded(decimal.NewFromInt(int64(v)))
	case int32:
		return bounded(decimal.NewFromInt32(v))
	case int64:
		return bounded(decimal.NewFromInt(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v > 1e18 {
			return decimal.Zero
		}
		return bounded(decimal.NewFromFloat(v))
	default:
		return decimal.Zero
	}
}

// ExtractAmountText returns the parsed amount together with the text to
// display for it: the upstream string when there was one, else the
// canonical decimal rendering.
func ExtractAmountText(row Row, field string) (decimal.Decimal, string) {
	amount := ExtractAmount(row, field)
	if raw := ExtractString(row, field); raw != "" {
		return amount, raw
	}
	return amount, amount.String()
}

// ExtractBidders reads a bidder count. Fractions are truncated and
// anything unparseable is 0, i.e. not applicable.
func ExtractBidders(row Row, field string) int {
	n := ExtractAmount(row, field)
	if n.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return math.MaxInt32
	}
	return int(n.IntPart())
}

// ExtractYear returns a year field as text, accepting integer columns.
func ExtractYear(row Row, field string) string {
	switch v := row[field].(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatInt(int64(v), 10)
		}
		return ""
	default:
		return ExtractString(row, field)
	}
}

// bounded applies the range part of the parse-or-zero policy: negative,
// extreme exponent and above MaxAmount values become zero.
func bounded(d decimal.Decimal) decimal.Decimal {
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return decimal.Zero
	}
	if d.IsNegative() || d.GreaterThan(MaxAmount) {
		return decimal.Zero
	}
	return d
}
