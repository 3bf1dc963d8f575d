package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govis/internal/aggregate"
	"govis/internal/cache"
	"govis/internal/core"
	"govis/internal/log"
	"govis/internal/schema"
	mock_sources "govis/internal/sources/mocks"
)

func columnRows() []core.Row {
	return []core.Row{
		{"column_02": "2023", "column_03": "001", "column_04": "事業A", "column_06": "総務省",
			"column_19": "株式会社A", "column_26": "5000000", "column_27": "一般競争契約", "column_29": "3"},
		{"column_02": "2024", "column_03": "002", "column_04": "事業B", "column_06": "環境省",
			"column_19": "株式会社B", "column_26": "200000000", "column_27": "随意契約", "column_29": "1"},
		{"column_02": "2024", "column_03": "002", "column_04": "事業B", "column_06": "環境省",
			"column_19": "株式会社A", "column_26": "500000", "column_27": "", "column_29": ""},
	}
}

func expenseRows() []core.Row {
	return []core.Row{
		{"column_18": "人件費", "column_20": "300"},
		{"column_18": "旅費", "column_20": "100"},
	}
}

func newTestService(t *testing.T, src *mock_sources.MockRowSource, c cache.Cache[Payload]) *Service {
	t.Helper()
	ext, err := schema.New(schema.Columns)
	require.NoError(t, err)
	return NewService(src, ext, aggregate.DefaultOptions(), c, log.Discard())
}

func TestBuildAssemblesPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mock_sources.NewMockRowSource(ctrl)
	src.EXPECT().ExpenditureRows(gomock.Any()).Return(columnRows(), nil)
	src.EXPECT().ExpenseRows(gomock.Any()).Return(expenseRows(), nil)

	p, err := newTestService(t, src, nil).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 205500000.0, p.Summary.TotalAmount)
	assert.Equal(t, 2, p.Summary.TotalProjects)
	assert.Equal(t, 2, p.Summary.UniqueContractors)
	assert.Equal(t, 102750000.0, p.Summary.AverageAmount)
	assert.Equal(t, 50.0, p.Summary.Competitiveness)
	require.NotNil(t, p.Summary.LastUpdated)
	assert.Equal(t, "2024", *p.Summary.LastUpdated)

	require.Len(t, p.MinistryBreakdown, 2)
	assert.Equal(t, "環境省", p.MinistryBreakdown[0].Ministry)
	assert.Equal(t, 200500000.0, p.MinistryBreakdown[0].Amount)
	assert.Equal(t, 1, p.MinistryBreakdown[0].Projects)

	require.Len(t, p.TopContractors, 2)
	assert.Equal(t, "株式会社B", p.TopContractors[0].Contractor)
	assert.Equal(t, ContractorRow{Contractor: "株式会社A", Amount: 5500000, Count: 2}, p.TopContractors[1])

	assert.Equal(t, 1, p.SizeDistribution.Count(aggregate.BracketUnder1M))
	assert.Equal(t, 1, p.SizeDistribution.Count(aggregate.Bracket1MTo10M))
	assert.Equal(t, 1, p.SizeDistribution.Count(aggregate.Bracket100MTo1B))

	require.NotEmpty(t, p.HighValueContracts)
	assert.Equal(t, HighValueRow{
		ContractName: "事業B",
		Amount:       "200000000",
		Ministry:     "環境省",
		ID:           "contract-0-事業B-200000000",
	}, p.HighValueContracts[0])

	require.Len(t, p.ExpenseAnalysis.ByType, 2)
	assert.Equal(t, ExpenseRow{Type: "人件費", Amount: 300, Percentage: 75}, p.ExpenseAnalysis.ByType[0])
	assert.Equal(t, 2, p.ExpenseAnalysis.TotalExpenseRecords)

	assert.Equal(t, TransparencyScores{
		CompetitiveContractRatio: 50,
		AverageBidders:           2,
		TransparencyScore:        50,
		SingleBidderRatio:        50,
		TotalBiddingContracts:    2,
	}, p.Transparency)
}

func TestBuildDataSourceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mock_sources.NewMockRowSource(ctrl)
	src.EXPECT().ExpenditureRows(gomock.Any()).Return(nil, errors.New("connection refused"))
	src.EXPECT().ExpenseRows(gomock.Any()).Return(nil, nil).AnyTimes()

	svc := newTestService(t, src, nil)
	_, err := svc.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDataSourceUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, int64(1), svc.Stats().Failures)
}

func TestBuildKeepsWrappedUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mock_sources.NewMockRowSource(ctrl)
	wrapped := core.Unavailable("query expenditures", errors.New("timeout"))
	src.EXPECT().ExpenditureRows(gomock.Any()).Return(nil, wrapped)
	src.EXPECT().ExpenseRows(gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := newTestService(t, src, nil).Build(context.Background())
	assert.Equal(t, wrapped, err)
}

func TestBuildWithoutExpenses(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mock_sources.NewMockRowSource(ctrl)
	src.EXPECT().ExpenditureRows(gomock.Any()).Return(columnRows(), nil)
	src.EXPECT().ExpenseRows(gomock.Any()).Return(nil, errors.New("no such table: govis_table_04"))

	p, err := newTestService(t, src, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 205500000.0, p.Summary.TotalAmount)
	assert.Empty(t, p.ExpenseAnalysis.ByType)
	assert.NotNil(t, p.ExpenseAnalysis.ByType)
}

func TestDashboardUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mock_sources.NewMockRowSource(ctrl)
	src.EXPECT().ExpenditureRows(gomock.Any()).Return(columnRows(), nil).Times(2)
	src.EXPECT().ExpenseRows(gomock.Any()).Return(expenseRows(), nil).Times(2)

	svc := newTestService(t, src, cache.NewLRUCache[Payload](4, time.Minute))
	ctx := context.Background()

	first, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	second, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = svc.Refresh(ctx)
	require.NoError(t, err)

	st := svc.Stats()
	assert.Equal(t, int64(2), st.Builds)
	assert.Equal(t, int64(1), st.Cache.Hits)
}

func TestDashboardDoesNotCacheFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mock_sources.NewMockRowSource(ctrl)
	gomock.InOrder(
		src.EXPECT().ExpenditureRows(gomock.Any()).Return(nil, errors.New("down")),
		src.EXPECT().ExpenditureRows(gomock.Any()).Return(columnRows(), nil),
	)
	src.EXPECT().ExpenseRows(gomock.Any()).Return(nil, nil).AnyTimes()

	svc := newTestService(t, src, cache.NewLRUCache[Payload](4, time.Minute))
	_, err := svc.Dashboard(context.Background())
	require.Error(t, err)

	p, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, p.Summary.TotalProjects)
}

func TestEmptyPayloadJSON(t *testing.T) {
	data, err := json.Marshal(Empty())
	require.NoError(t, err)
	body := string(data)

	assert.Contains(t, body, `"lastUpdated":null`)
	assert.Contains(t, body, `"ministryBreakdown":[]`)
	assert.Contains(t, body, `"contractTypes":[]`)
	assert.Contains(t, body, `"topContractors":[]`)
	assert.Contains(t, body, `"highValueContracts":[]`)
	assert.Contains(t, body, `"byType":[]`)
	assert.Contains(t, body, `"transparencyScore":0`)
	assert.NotContains(t, body, "NaN")
}

func TestSizeDistributionKeyOrder(t *testing.T) {
	data, err := json.Marshal(Empty().SizeDistribution)
	require.NoError(t, err)
	body := string(data)

	labels := []string{
		aggregate.BracketUnder1M,
		aggregate.Bracket1MTo10M,
		aggregate.Bracket10MTo100M,
		aggregate.Bracket100MTo1B,
		aggregate.Bracket1BAndAbove,
	}
	last := -1
	for _, l := range labels {
		idx := strings.Index(body, `"`+l+`":0`)
		require.GreaterOrEqual(t, idx, 0, l)
		assert.Greater(t, idx, last, l)
		last = idx
	}

	var decoded SizeDistribution
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Empty().SizeDistribution, decoded)
}

func TestAssembleRounding(t *testing.T) {
	res := aggregate.Result{
		Transparency: aggregate.Transparency{
			AverageBidders:    1.66666,
			SingleBidderRatio: 33.33333,
			Score:             73.36666,
		},
	}
	p := Assemble(res)
	assert.Equal(t, 1.7, p.Transparency.AverageBidders)
	assert.Equal(t, 33.3, p.Transparency.SingleBidderRatio)
	assert.Equal(t, 73.4, p.Transparency.TransparencyScore)
	assert.Nil(t, p.Summary.LastUpdated)
}

func TestBuildIgnoresOutOfRangeAmounts(t *testing.T) {
	rows := []core.Row{
		{"column_02": "2024", "column_03": "001", "column_06": "総務省", "column_26": "1000000"},
		{"column_02": "2024", "column_03": "002", "column_06": "総務省", "column_26": "1e400"},
		{"column_02": "2024", "column_03": "003", "column_06": "総務省", "column_26": "1e50000000"},
	}
	ctrl := gomock.NewController(t)
	src := mock_sources.NewMockRowSource(ctrl)
	src.EXPECT().ExpenditureRows(gomock.Any()).Return(rows, nil)
	src.EXPECT().ExpenseRows(gomock.Any()).Return(nil, nil)

	start := time.Now()
	p, err := newTestService(t, src, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.Equal(t, 1000000.0, p.Summary.TotalAmount)
	assert.Equal(t, 3, p.Summary.TotalProjects)
	_, err = json.Marshal(p)
	assert.NoError(t, err)
}
