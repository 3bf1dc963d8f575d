package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"

	"govis/internal/core"
)

func TestNormalizeValue(t *testing.T) {
	var numeric pgtype.Numeric
	assert.NoError(t, numeric.Scan("1234"))

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"string", "総務省", "総務省"},
		{"bytes", []byte("abc"), "abc"},
		{"int32", int32(2023), "2023"},
		{"int64", int64(17), "17"},
		{"float64", 0.25, "0.25"},
		{"bool", true, "true"},
		{"time", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "2024-03-01T00:00:00Z"},
		{"numeric", numeric, "1234"},
		{"null numeric", pgtype.Numeric{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeValue(tt.in))
		})
	}
}

func TestNormalizeRowFeedsExtractors(t *testing.T) {
	row := normalizeRow(map[string]any{"project_year": int32(2023), "amount": int64(5000000), "num_bidders": int16(3)})

	assert.Equal(t, "2023", core.ExtractYear(row, "project_year"))
	assert.Equal(t, int64(5000000), core.ExtractAmount(row, "amount").IntPart())
	assert.Equal(t, 3, core.ExtractBidders(row, "num_bidders"))
}
