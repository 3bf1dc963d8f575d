package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmountOrZero(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain integer", "1000000", "1000000"},
		{"decimal", "1234.5", "1234.5"},
		{"thousands separators", "1,234,567", "1234567"},
		{"full width comma", "1，000", "1000"},
		{"yen suffix", "5000円", "5000"},
		{"surrounding spaces", "  42  ", "42"},
		{"scientific notation", "1e6", "1000000"},
		{"empty", "", "0"},
		{"whitespace only", "   ", "0"},
		{"garbage", "not-a-number", "0"},
		{"negative", "-500", "0"},
		{"nan text", "NaN", "0"},
		{"exponent overflowing float", "1e400", "0"},
		{"huge exponent", "1e50000000", "0"},
		{"huge negative exponent", "1e-50000000", "0"},
		{"above ceiling", "2000000000000000000", "0"},
		{"at ceiling", "1000000000000000000", "1000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmountOrZero(tt.input)
			want := decimal.RequireFromString(tt.want)
			assert.True(t, want.Equal(got), "ParseAmountOrZero(%q) = %s, want %s", tt.input, got, want)
		})
	}
}

func TestExtractString(t *testing.T) {
	row := Row{
		"ministry": " 総務省 ",
		"bytes":    []byte("国土交通省"),
		"number":   42,
		"null":     nil,
	}

	assert.Equal(t, "総務省", ExtractString(row, "ministry"))
	assert.Equal(t, "国土交通省", ExtractString(row, "bytes"))
	assert.Equal(t, "", ExtractString(row, "number"))
	assert.Equal(t, "", ExtractString(row, "null"))
	assert.Equal(t, "", ExtractString(row, "missing"))
}

func TestExtractAmount(t *testing.T) {
	row := Row{
		"text":     "1,500",
		"int":      2500,
		"int64":    int64(3500),
		"float":    12.5,
		"negative": -3,
		"nan":      math.NaN(),
		"number":   json.Number("700"),
		"decimal":  decimal.NewFromInt(9),
		"bool":     true,
		"hugeFlt":  1e300,
		"hugeDec":  decimal.New(1, 400),
	}

	cases := map[string]string{
		"text":     "1500",
		"int":      "2500",
		"int64":    "3500",
		"float":    "12.5",
		"negative": "0",
		"nan":      "0",
		"number":   "700",
		"decimal":  "9",
		"bool":     "0",
		"missing":  "0",
		"hugeFlt":  "0",
		"hugeDec":  "0",
	}
	for field, want := range cases {
		got := ExtractAmount(row, field)
		assert.True(t, decimal.RequireFromString(want).Equal(got), "field %s: got %s want %s", field, got, want)
	}
}

func TestExtractAmountText(t *testing.T) {
	amount, raw := ExtractAmountText(Row{"a": "1,000"}, "a")
	assert.True(t, amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "1,000", raw)

	amount, raw = ExtractAmountText(Row{"a": 250}, "a")
	assert.True(t, amount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, "250", raw)
}

func TestExtractBidders(t *testing.T) {
	row := Row{"one": "1", "frac": "2.9", "bad": "n/a", "neg": "-1", "int": 4,
		"big": "5000000000", "huge": "1e400"}
	assert.Equal(t, 1, ExtractBidders(row, "one"))
	assert.Equal(t, 2, ExtractBidders(row, "frac"))
	assert.Equal(t, 0, ExtractBidders(row, "bad"))
	assert.Equal(t, 0, ExtractBidders(row, "neg"))
	assert.Equal(t, 4, ExtractBidders(row, "int"))
	assert.Equal(t, 0, ExtractBidders(row, "missing"))
	assert.Equal(t, math.MaxInt32, ExtractBidders(row, "big"))
	assert.Equal(t, 0, ExtractBidders(row, "huge"))
}

func TestExtractYear(t *testing.T) {
	row := Row{"s": "2023", "i": 2024, "i64": int64(2022), "f": 2021.0, "frac": 2021.5}
	assert.Equal(t, "2023", ExtractYear(row, "s"))
	assert.Equal(t, "2024", ExtractYear(row, "i"))
	assert.Equal(t, "2022", ExtractYear(row, "i64"))
	assert.Equal(t, "2021", ExtractYear(row, "f"))
	assert.Equal(t, "", ExtractYear(row, "frac"))
}

func TestProjectKey(t *testing.T) {
	assert.True(t, ProjectKey{}.IsZero())
	assert.False(t, ProjectKey{Year: "2023"}.IsZero())
	assert.Equal(t, "2023/P-1", ProjectKey{Year: "2023", ID: "P-1"}.String())
}

func TestErrorTaxonomy(t *testing.T) {
	err := RejectQuery("statement must start with %s", "SELECT")
	assert.True(t, errors.Is(err, ErrQueryRejected))

	var rejected *QueryRejectedError
	assert.True(t, errors.As(err, &rejected))
	assert.Equal(t, "statement must start with SELECT", rejected.Reason)

	wrapped := Unavailable("fetch rows", errors.New("connection refused"))
	assert.True(t, errors.Is(wrapped, ErrDataSourceUnavailable))
	assert.Contains(t, wrapped.Error(), "connection refused")
	assert.Nil(t, Unavailable("noop", nil))
}
