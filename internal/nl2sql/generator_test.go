package nl2sql

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govis/internal/core"
	mock_nl2sql "govis/internal/nl2sql/mocks"
)

func TestAssistantGenerate(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mock_nl2sql.NewMockGenerator(ctrl)

	gen.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, "環境省の件数")
			assert.Contains(t, prompt, "govis_table_03")
			return "```sql\nSELECT COUNT(*) AS cnt FROM govis_table_03 WHERE \"column_06\" LIKE '%環境省%';\n```", nil
		})

	a := NewAssistant(gen, "PostgreSQL", "- name: govis_table_03", testAllowed)
	ans, err := a.Generate(context.Background(), "環境省の件数")
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) AS cnt FROM govis_table_03 WHERE "column_06" LIKE '%環境省%'`, ans.SQL)
	assert.Contains(t, ans.RawResponse, "```sql")
	assert.Empty(t, ans.Explanation)
}

func TestAssistantRejectsGeneratedWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mock_nl2sql.NewMockGenerator(ctrl)
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("DROP TABLE govis_table_03", nil)

	ans, err := NewAssistant(gen, "", "", testAllowed).Generate(context.Background(), "消して")
	assert.True(t, errors.Is(err, core.ErrQueryRejected))
	assert.Equal(t, "DROP TABLE govis_table_03", ans.SQL, "rejected sql is still reported")
}

func TestAssistantErrors(t *testing.T) {
	_, err := NewAssistant(nil, "", "", nil).Generate(context.Background(), "q")
	assert.ErrorIs(t, err, core.ErrGeneratorUnavailable)

	ctrl := gomock.NewController(t)
	gen := mock_nl2sql.NewMockGenerator(ctrl)
	a := NewAssistant(gen, "", "", nil)

	_, err = a.Generate(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)

	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", core.ErrGeneratorQuota)
	_, err = a.Generate(context.Background(), "q")
	assert.ErrorIs(t, err, core.ErrGeneratorQuota)

	assert.True(t, a.Available())
	assert.False(t, NewAssistant(nil, "", "", nil).Available())
}
