package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govis/internal/core"
)

func TestStoreReturnsCopies(t *testing.T) {
	s := New([]core.Row{{"ministry": "総務省"}}, nil)

	rows, err := s.ExpenditureRows(context.Background())
	require.NoError(t, err)
	rows[0]["ministry"] = "changed"

	again, err := s.ExpenditureRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "総務省", again[0]["ministry"])

	expenses, err := s.ExpenseRows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestStoreHonoursCancellation(t *testing.T) {
	s := New(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ExpenditureRows(ctx)
	assert.True(t, errors.Is(err, core.ErrDataSourceUnavailable))
}

func TestStoreRejectsSQL(t *testing.T) {
	_, err := New(nil, nil).Query(context.Background(), "SELECT 1", 10)
	assert.ErrorIs(t, err, core.ErrQueryUnsupported)
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	seed := `{
  "expenditures": [{"column_06": "環境省", "column_26": "1200", "column_29": 2}],
  "expenses": [{"column_18": "委託費", "column_20": "300"}]
}`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	s, err := NewFromFile(path)
	require.NoError(t, err)

	rows, _ := s.ExpenditureRows(context.Background())
	require.Len(t, rows, 1)
	assert.Equal(t, "環境省", rows[0]["column_06"])
	assert.Equal(t, 2, core.ExtractBidders(rows[0], "column_29"), "numbers decode as json.Number")

	_, err = NewFromFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	empty, err := NewFromFile("")
	require.NoError(t, err)
	rows, _ = empty.ExpenditureRows(context.Background())
	assert.Empty(t, rows)
}
