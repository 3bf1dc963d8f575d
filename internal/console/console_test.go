package console

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govis/internal/core"
	"govis/internal/log"
	"govis/internal/sources"
	mock_sources "govis/internal/sources/mocks"
	"govis/internal/storage"
)

type fakeHistory struct {
	mu      sync.Mutex
	records []storage.QueryRecord
}

func (f *fakeHistory) RecordQuery(_ context.Context, q storage.QueryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, q)
	return nil
}

func (f *fakeHistory) RecentQueries(_ context.Context, limit int) ([]storage.QueryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.records) {
		limit = len(f.records)
	}
	return f.records[:limit], nil
}

var allowed = map[string]bool{"govis_table_03": true}

func TestRunExecutesValidatedQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mock_sources.NewMockQueryExecutor(ctrl)
	history := &fakeHistory{}

	exec.EXPECT().
		Query(gomock.Any(), "SELECT column_06 FROM govis_table_03", 50).
		DoAndReturn(func(ctx context.Context, _ string, _ int) (sources.QueryResult, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return sources.QueryResult{
				Columns:   []string{"column_06"},
				Rows:      []core.Row{{"column_06": "総務省"}},
				Truncated: true,
			}, nil
		})

	svc := New(exec, history, Config{Timeout: time.Second, MaxRows: 50, Allowed: allowed}, log.Discard())
	res, err := svc.Run(context.Background(), "SELECT column_06 FROM govis_table_03;", SourceConsole)
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, 1, res.RowCount)
	assert.True(t, res.Truncated)
	assert.Equal(t, []string{"column_06"}, res.Columns)

	require.Len(t, history.records, 1)
	assert.Equal(t, SourceConsole, history.records[0].Source)
	assert.Equal(t, "", history.records[0].Error)
}

func TestRunRejectsBeforeExecuting(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mock_sources.NewMockQueryExecutor(ctrl) // no calls expected
	history := &fakeHistory{}

	svc := New(exec, history, Config{Allowed: allowed}, log.Discard())
	_, err := svc.Run(context.Background(), "DELETE FROM govis_table_03", SourceAI)
	assert.True(t, errors.Is(err, core.ErrQueryRejected))

	require.Len(t, history.records, 1)
	assert.Contains(t, history.records[0].Error, "only SELECT")
	assert.Equal(t, SourceAI, history.records[0].Source)
}

func TestRunUnsupportedBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mock_sources.NewMockQueryExecutor(ctrl)
	exec.EXPECT().Query(gomock.Any(), gomock.Any(), gomock.Any()).Return(sources.QueryResult{}, core.ErrQueryUnsupported)
	history := &fakeHistory{}

	_, err := New(exec, history, Config{}, log.Discard()).Run(context.Background(), "SELECT 1", SourceConsole)
	assert.ErrorIs(t, err, core.ErrQueryUnsupported)
	assert.Empty(t, history.records)
}

func TestRunEmptyResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mock_sources.NewMockQueryExecutor(ctrl)
	exec.EXPECT().Query(gomock.Any(), gomock.Any(), gomock.Any()).Return(sources.QueryResult{Columns: []string{"n"}}, nil)

	res, err := New(exec, nil, Config{}, log.Discard()).Run(context.Background(), "SELECT 1 AS n", SourceConsole)
	require.NoError(t, err)
	assert.NotNil(t, res.Data)
	assert.Equal(t, 0, res.RowCount)
}

func TestHistoryWithoutStore(t *testing.T) {
	svc := New(nil, nil, Config{}, log.Discard())
	h, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, h)
}
