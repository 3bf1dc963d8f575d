package schema

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govis/internal/core"
)

func TestNewRejectsUnknownVariant(t *testing.T) {
	_, err := New(Variant("spreadsheet"))
	assert.Error(t, err)
	assert.False(t, Variant("spreadsheet").IsValid())

	for _, v := range Variants() {
		ex, err := New(v)
		require.NoError(t, err)
		assert.Equal(t, v, ex.Variant())
		assert.NotEmpty(t, ex.Queries().Expenditures)
		assert.NotEmpty(t, ex.Queries().Expenses)
	}
}

func TestWideExtraction(t *testing.T) {
	ex, err := New(Wide)
	require.NoError(t, err)

	rec := ex.Expenditure(core.Row{
		"事業年度":    "2023",
		"事業名":     "地域振興事業",
		"政策所管府省庁": "総務省",
		"支出先名":    "株式会社A",
		"金額":      "1,200,000",
		"契約方式等":   "一般競争契約",
		"入札者数":    "3",
	})

	assert.Equal(t, "総務省", rec.Ministry)
	assert.Equal(t, core.ProjectKey{Year: "2023", ID: "地域振興事業"}, rec.Project)
	assert.Equal(t, "地域振興事業", rec.ContractName, "falls back to project name")
	assert.True(t, rec.Amount.Equal(decimal.NewFromInt(1200000)))
	assert.Equal(t, "1,200,000", rec.RawAmount)
	assert.Equal(t, "一般競争契約", rec.ContractMethod)
	assert.Equal(t, "株式会社A", rec.ContractorName)
	assert.Equal(t, 3, rec.BidderCount)
}

func TestColumnsExtraction(t *testing.T) {
	ex, err := New(Columns)
	require.NoError(t, err)

	rec := ex.Expenditure(core.Row{
		"column_02": "2024",
		"column_03": "0012",
		"column_04": "防災対策",
		"column_06": "国土交通省",
		"column_19": "B建設",
		"column_26": "not-a-number",
		"column_27": nil,
		"column_29": "",
	})

	assert.Equal(t, core.ProjectKey{Year: "2024", ID: "0012"}, rec.Project)
	assert.Equal(t, "防災対策", rec.ContractName)
	assert.True(t, rec.Amount.IsZero())
	assert.Equal(t, "", rec.ContractMethod)
	assert.Equal(t, 0, rec.BidderCount)

	exp := ex.Expense(core.Row{"column_18": "人件費", "column_20": "500"})
	assert.Equal(t, "人件費", exp.ExpenseType)
	assert.True(t, exp.Amount.Equal(decimal.NewFromInt(500)))
}

func TestNormalizedExtraction(t *testing.T) {
	ex, err := New(Normalized)
	require.NoError(t, err)

	rec := ex.Expenditure(core.Row{
		"project_year":     int64(2023),
		"project_id":       "17",
		"project_name":     "研究開発",
		"ministry":         "文部科学省",
		"contract_summary": "システム開発業務",
		"recipient_name":   "C研究所",
		"amount":           "250000000",
		"contract_method":  "随意契約（企画競争）",
		"num_bidders":      "1",
	})

	assert.Equal(t, core.ProjectKey{Year: "2023", ID: "17"}, rec.Project)
	assert.Equal(t, "システム開発業務", rec.ContractName)
	assert.Equal(t, 1, rec.BidderCount)

	empty := ex.Expenditure(core.Row{})
	assert.True(t, empty.Project.IsZero())
	assert.True(t, empty.Amount.IsZero())
}

func TestCatalog(t *testing.T) {
	cat, err := LoadCatalog()
	require.NoError(t, err)

	for _, v := range Variants() {
		assert.NotEmpty(t, cat.Tables(v), "variant %s has tables", v)
	}

	allowed := cat.AllowedTables(Normalized)
	assert.True(t, allowed["expenditures"])
	assert.True(t, allowed["projects_master"])
	assert.False(t, allowed["govis_main_data"])

	desc, err := cat.Describe(Columns)
	require.NoError(t, err)
	assert.True(t, strings.Contains(desc, "govis_table_03"))
	assert.True(t, strings.Contains(desc, "column_26"))
}

func TestParseCatalogRejectsUnknownVariant(t *testing.T) {
	_, err := ParseCatalog([]byte("bogus:\n  - name: t\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("::not yaml"))
	assert.Error(t, err)
}
