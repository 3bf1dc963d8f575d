package nl2sql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govis/internal/core"
)

var testAllowed = map[string]bool{
	"govis_table_03":  true,
	"govis_table_04":  true,
	"projects_master": true,
	"expenditures":    true,
}

func TestValidateReadOnlyAccepts(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"simple select", `SELECT * FROM govis_table_03`, `SELECT * FROM govis_table_03`},
		{"lower case with semicolon", "select count(*) from govis_table_03;", "select count(*) from govis_table_03"},
		{"quoted identifiers", `SELECT "column_06", SUM(CASE WHEN "column_26" = '' OR "column_26" IS NULL THEN 0 ELSE CAST("column_26" AS numeric) END) AS total FROM "govis_table_03" GROUP BY "column_06"`, ""},
		{"join with aliases", `SELECT p.ministry FROM expenditures e JOIN projects_master p ON p.project_id = e.project_id`, ""},
		{"comma join", `SELECT 1 FROM govis_table_03 a, govis_table_04 b`, ""},
		{"subquery", `SELECT * FROM (SELECT column_06 FROM govis_table_03) t`, ""},
		{"cte", `WITH totals AS (SELECT column_06 FROM govis_table_03) SELECT * FROM totals`, ""},
		{"extract from is not a table", `SELECT EXTRACT(YEAR FROM created) FROM expenditures`, ""},
		{"keyword inside string", `SELECT * FROM govis_table_03 WHERE column_04 LIKE '%DELETE%; DROP'`, ""},
		{"comment stripped", "-- 府省庁別\nSELECT column_06 FROM govis_table_03 /* note */", ""},
		{"replace function", `SELECT REPLACE(column_26, ',', '') FROM govis_table_03`, ""},
		{"parenthesized table", `SELECT * FROM (govis_table_03)`, ""},
		{"parenthesized join", `SELECT * FROM (govis_table_03 a JOIN govis_table_04 b ON a.column_03 = b.column_03)`, ""},
		{"comma after join", `SELECT 1 FROM govis_table_03 a JOIN govis_table_04 b ON 1=1, govis_table_04 c`, ""},
		{"order and limit lists", `SELECT column_06 FROM govis_table_03 ORDER BY column_06, column_04 LIMIT 5, 10`, ""},
		{"backtick table", "SELECT * FROM `govis_table_03`", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateReadOnly(tt.query, testAllowed)
			require.NoError(t, err)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestValidateReadOnlyRejects(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		reason string
	}{
		{"empty", "   ", "empty statement"},
		{"only semicolon", ";", "empty statement"},
		{"delete", `DELETE FROM govis_table_03`, "only SELECT statements are allowed"},
		{"stacked statements", `SELECT 1 FROM govis_table_03; DROP TABLE govis_table_03`, "multiple statements are not allowed"},
		{"select into", `SELECT * INTO backup FROM govis_table_03`, "keyword INTO is not allowed"},
		{"mutating cte", `WITH x AS (DELETE FROM govis_table_03 RETURNING *) SELECT * FROM x`, "keyword DELETE is not allowed"},
		{"disallowed table", `SELECT * FROM sqlite_master`, `table "sqlite_master" is not allowed`},
		{"disallowed join", `SELECT * FROM govis_table_03 JOIN query_history h ON 1=1`, `table "query_history" is not allowed`},
		{"schema qualified", `SELECT * FROM pg_catalog.pg_user`, `table "pg_user" is not allowed`},
		{"pragma", `PRAGMA table_info(govis_table_03)`, "only SELECT statements are allowed"},
		{"parenthesized table", `SELECT * FROM (query_history)`, `table "query_history" is not allowed`},
		{"nested parentheses", `SELECT * FROM ((sqlite_master))`, `table "sqlite_master" is not allowed`},
		{"comma after join", `SELECT * FROM govis_table_03 a JOIN govis_table_04 b ON 1=1, (sqlite_master)`, `table "sqlite_master" is not allowed`},
		{"bare comma after join", `SELECT * FROM govis_table_03 a JOIN govis_table_04 b ON 1=1, query_history`, `table "query_history" is not allowed`},
		{"union into parenthesized table", `SELECT column_06 FROM govis_table_03 UNION SELECT name FROM (sqlite_master)`, `table "sqlite_master" is not allowed`},
		{"backtick table", "SELECT * FROM `query_history`", `table "query_history" is not allowed`},
		{"bracket table", `SELECT * FROM [query_history]`, `table "query_history" is not allowed`},
		{"string literal table", `SELECT * FROM 'query_history'`, `table "query_history" is not allowed`},
		{"unreadable reference", `SELECT * FROM , govis_table_03`, `unrecognized table reference near ","`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateReadOnly(tt.query, testAllowed)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrQueryRejected))

			var rejected *core.QueryRejectedError
			require.True(t, errors.As(err, &rejected))
			assert.Equal(t, tt.reason, rejected.Reason)
		})
	}
}

func TestValidateReadOnlyWithoutAllowlist(t *testing.T) {
	_, err := ValidateReadOnly(`SELECT * FROM anything`, nil)
	assert.NoError(t, err)

	_, err = ValidateReadOnly(`UPDATE anything SET a = 1`, nil)
	assert.Error(t, err)
}

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fenced", "以下がクエリです。\n```sql\nSELECT 1\nFROM t\n```\n説明", "SELECT 1\nFROM t"},
		{"first block wins", "```sql SELECT 1 ``` and ```sql SELECT 2 ```", "SELECT 1"},
		{"no fence", "  SELECT 2  \n", "SELECT 2"},
		{"empty fence falls back", "```sql\n```", "```sql\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSQL(tt.in))
		})
	}
}

func TestExplanation(t *testing.T) {
	assert.Equal(t, "件数を数えます。 省庁別です。",
		Explanation("件数を数えます。\n```sql\nSELECT 1\n```\n省庁別です。"))
	assert.Empty(t, Explanation("SELECT 1"))
	assert.Empty(t, Explanation("```sql\nSELECT 1\n```"))
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("", "- name: govis_table_03\n", "  国土交通省の支出合計は？ ")
	assert.Contains(t, p, "PostgreSQL")
	assert.Contains(t, p, "govis_table_03")
	assert.Contains(t, p, "国土交通省の支出合計は？")
	assert.Contains(t, p, "```sql")

	assert.Contains(t, BuildPrompt("SQLite", "", "q"), "SQLiteで実行可能")
}
