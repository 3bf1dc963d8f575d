package nl2sql

import (
	"fmt"
	"regexp"
	"strings"
)

const promptTemplate = `あなたは、%[1]sデータベースを操作する優秀なSQLデータアナリストです。
次のテーブル定義を分析し、以下のタスクを実行してください。

` + "```yaml" + `
%[2]s
` + "```" + `

# データ形式の注意点
- 金額系の列はTEXT型で保存されている場合があり、数値文字列（例："10070000"）または空文字（""）が入っています
- 金額を数値として使用する場合は、次の変換パターンを必ず使用してください：
  CASE WHEN "列名" = '' OR "列名" IS NULL THEN 0 ELSE CAST("列名" AS numeric) END
- テーブル名およびカラム名は物理名を使用し、論理名（説明）でクエリを生成しないでください
- カラムにデータが入っていないことも考慮し、無効データを除外する条件を加えてください

# あなたのタスク
ユーザーからの自然言語による質問を解釈し、その答えを導き出すための**%[1]sで実行可能なSELECT文を1つだけ**生成してください。

# 遵守すべきルール
1. SQL内の列名は、必ずダブルクォート " で囲んでください。
2. フィルタリングには WHERE "列名" != '' AND "列名" IS NOT NULL を使用してください。
3. ユーザーの入力の表記揺れを吸収するため、LIKE 演算子を使用してください。
4. 集計関数には AS を使って分かりやすい別名を付けてください。
5. 上記のテーブル以外を参照しないでください。データを変更する文は生成しないでください。
6. 回答には、SQLクエリ以外の説明を含めず、SQLクエリのみを出力してください。
7. SQLクエリは、` + "```sql ... ```" + ` のようにマークダウンのコードブロックで囲んで出力してください。

# ユーザーの質問
%[3]s`

// BuildPrompt renders the generation prompt for a question against the
// given schema description. dialect names the SQL engine, e.g. "PostgreSQL".
func BuildPrompt(dialect, schemaDescription, question string) string {
	if dialect == "" {
		dialect = "PostgreSQL"
	}
	return fmt.Sprintf(promptTemplate, dialect, strings.TrimSpace(schemaDescription), strings.TrimSpace(question))
}

var sqlBlock = regexp.MustCompile("(?s)```sql\\s*(.*?)\\s*```")

// ExtractSQL returns the contents of the first ```sql fenced block, or the
// trimmed text when there is none.
func ExtractSQL(text string) string {
	if m := sqlBlock.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// Explanation returns whatever prose surrounds the first ```sql block.
// Text without a block has no explanation.
func Explanation(text string) string {
	loc := sqlBlock.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	before := strings.TrimSpace(text[:loc[0]])
	after := strings.TrimSpace(text[loc[1]:])
	return strings.TrimSpace(before + " " + after)
}
