package nl2sql

import (
	"strings"
	"unicode"

	"govis/internal/core"
)

// mutating lists keywords that never belong in a read-only statement.
var mutating = map[string]bool{
	"INSERT": true, "UPDATE": true, "DELETE": true, "DROP": true, "ALTER": true,
	"CREATE": true, "ATTACH": true, "DETACH": true, "PRAGMA": true, "TRUNCATE": true,
	"GRANT": true, "REVOKE": true, "VACUUM": true, "COPY": true, "CALL": true,
	"MERGE": true, "REINDEX": true, "EXECUTE": true, "LOCK": true, "INTO": true,
}

// ValidateReadOnly checks that query is a single SELECT (or WITH ... SELECT)
// statement touching only allowed tables, and returns it without a trailing
// semicolon. A nil or empty allowed set skips the table check.
//
// This is a lexical check, not a parser: it is a guard for a trusted
// internal console, not a sandbox.
func ValidateReadOnly(query string, allowed map[string]bool) (string, error) {
	stmt := strings.TrimSpace(query)
	if stmt == "" {
		return "", core.RejectQuery("empty statement")
	}

	toks := tokenize(stripComments(stmt))
	// A single trailing semicolon is fine.
	if n := len(toks); n > 0 && toks[n-1].is(";") {
		toks = toks[:n-1]
		stmt = strings.TrimSpace(strings.TrimSuffix(strings.TrimRight(stmt, " \t\r\n"), ";"))
	}
	if len(toks) == 0 {
		return "", core.RejectQuery("empty statement")
	}

	for _, t := range toks {
		if t.is(";") {
			return "", core.RejectQuery("multiple statements are not allowed")
		}
	}

	first := toks[0]
	if !first.isKeyword("SELECT") && !first.isKeyword("WITH") {
		return "", core.RejectQuery("only SELECT statements are allowed")
	}

	for _, t := range toks {
		if t.kind == tokWord && mutating[strings.ToUpper(t.text)] {
			return "", core.RejectQuery("keyword %s is not allowed", strings.ToUpper(t.text))
		}
	}

	if len(allowed) > 0 {
		tables, err := referencedTables(toks)
		if err != nil {
			return "", err
		}
		ctes := cteNames(toks)
		for _, table := range tables {
			name := strings.ToLower(table)
			if !allowed[name] && !ctes[name] {
				return "", core.RejectQuery("table %q is not allowed", table)
			}
		}
	}

	return stmt, nil
}

type tokKind int

const (
	tokWord tokKind = iota
	tokQuoted
	tokString
	tokPunct
)

type token struct {
	kind tokKind
	text string
}

// is reports whether t is the punctuation p.
func (t token) is(p string) bool {
	return t.kind == tokPunct && t.text == p
}

func (t token) isKeyword(kw string) bool {
	return t.kind == tokWord && strings.EqualFold(t.text, kw)
}

func (t token) isIdent() bool {
	return t.kind == tokQuoted || (t.kind == tokWord && !reserved[strings.ToUpper(t.text)])
}

var reserved = map[string]bool{
	"SELECT": true, "WITH": true, "FROM": true, "JOIN": true, "WHERE": true, "GROUP": true,
	"ORDER": true, "LIMIT": true, "ON": true, "USING": true, "AS": true, "LEFT": true,
	"RIGHT": true, "INNER": true, "OUTER": true, "FULL": true, "CROSS": true, "UNION": true,
	"HAVING": true, "LATERAL": true, "NATURAL": true, "OFFSET": true, "WINDOW": true,
	"EXCEPT": true, "INTERSECT": true, "RECURSIVE": true,
}

// stripComments replaces -- and /* */ comments with a space, leaving
// string literals and quoted identifiers intact.
func stripComments(s string) string {
	var b strings.Builder
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		switch {
		case rs[i] == '\'' || rs[i] == '"' || rs[i] == '`':
			q := rs[i]
			b.WriteRune(q)
			for i++; i < len(rs); i++ {
				b.WriteRune(rs[i])
				if rs[i] == q {
					if i+1 < len(rs) && rs[i+1] == q {
						i++
						b.WriteRune(q)
						continue
					}
					break
				}
			}
		case rs[i] == '-' && i+1 < len(rs) && rs[i+1] == '-':
			for i < len(rs) && rs[i] != '\n' {
				i++
			}
			b.WriteRune(' ')
		case rs[i] == '/' && i+1 < len(rs) && rs[i+1] == '*':
			i += 2
			for i+1 < len(rs) && !(rs[i] == '*' && rs[i+1] == '/') {
				i++
			}
			i++
			b.WriteRune(' ')
		default:
			b.WriteRune(rs[i])
		}
	}
	return b.String()
}

func tokenize(s string) []token {
	var toks []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '[':
			j := i + 1
			for j < len(rs) && rs[j] != ']' {
				j++
			}
			toks = append(toks, token{kind: tokQuoted, text: string(rs[i+1 : j])})
			i = j + 1
		case r == '\'' || r == '"' || r == '`':
			j := i + 1
			var b strings.Builder
			for j < len(rs) {
				if rs[j] == r {
					if j+1 < len(rs) && rs[j+1] == r {
						b.WriteRune(r)
						j += 2
						continue
					}
					break
				}
				b.WriteRune(rs[j])
				j++
			}
			kind := tokString
			if r != '\'' {
				kind = tokQuoted
			}
			toks = append(toks, token{kind: kind, text: b.String()})
			i = j + 1
		case isWordRune(r):
			j := i
			for j < len(rs) && isWordRune(rs[j]) {
				j++
			}
			toks = append(toks, token{kind: tokWord, text: string(rs[i:j])})
			i = j
		default:
			toks = append(toks, token{kind: tokPunct, text: string(r)})
			i++
		}
	}
	return toks
}

func isWordRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// fromEnders close the FROM clause of the current scope.
var fromEnders = map[string]bool{
	"WHERE": true, "GROUP": true, "HAVING": true, "ORDER": true, "LIMIT": true,
	"OFFSET": true, "FETCH": true, "FOR": true, "WINDOW": true, "UNION": true,
	"EXCEPT": true, "INTERSECT": true, "SELECT": true, "VALUES": true,
}

// scope is one parenthesis level. query is false inside function calls and
// expression lists, where FROM is not a clause.
type scope struct {
	query  bool
	inFrom bool
}

// referencedTables returns the names used as table references: after FROM
// or JOIN, after a comma inside a FROM clause, and inside parenthesized
// references such as FROM (t). FROM inside a function call, as in
// EXTRACT(YEAR FROM x), is ignored. A reference it cannot read is an error.
func referencedTables(toks []token) ([]string, error) {
	var (
		tables    []string
		scopes    = []scope{{query: true}}
		expectRef bool
	)

	for i := 0; i < len(toks); i++ {
		t := toks[i]

		if expectRef {
			switch {
			case t.isKeyword("LATERAL") || t.isKeyword("ONLY"):
				continue
			case t.is("("):
				sub := opensQuery(toks, i)
				scopes = append(scopes, scope{query: true, inFrom: !sub})
				// (t) and (a JOIN b) hold references of their own.
				expectRef = !sub
				continue
			}
			expectRef = false
			name, next := tableRef(toks, i)
			if name == "" {
				return nil, core.RejectQuery("unrecognized table reference near %q", t.text)
			}
			tables = append(tables, name)
			i = next - 1
			continue
		}

		cur := &scopes[len(scopes)-1]
		switch {
		case t.is("("):
			scopes = append(scopes, scope{query: opensQuery(toks, i)})
		case t.is(")"):
			if len(scopes) > 1 {
				scopes = scopes[:len(scopes)-1]
			}
		case !cur.query:
		case t.isKeyword("FROM") || t.isKeyword("JOIN"):
			cur.inFrom = true
			expectRef = true
		case t.is(",") && cur.inFrom:
			expectRef = true
		case t.kind == tokWord && fromEnders[strings.ToUpper(t.text)]:
			cur.inFrom = false
		}
	}
	return tables, nil
}

func opensQuery(toks []token, i int) bool {
	return i+1 < len(toks) && (toks[i+1].isKeyword("SELECT") || toks[i+1].isKeyword("WITH"))
}

// tableRef reads [schema.]table [AS] [alias] starting at i and returns the
// table name and the index after the reference. SQLite also accepts a
// string literal as a table name.
func tableRef(toks []token, i int) (string, int) {
	if i >= len(toks) || !(toks[i].isIdent() || toks[i].kind == tokString) {
		return "", i
	}
	name := toks[i].text
	i++
	if i+1 < len(toks) && toks[i].is(".") && (toks[i+1].isIdent() || toks[i+1].kind == tokString) {
		name = toks[i+1].text
		i += 2
	}
	// Table valued function call; its name is checked like a table.
	if i < len(toks) && toks[i].is("(") {
		return name, skipParens(toks, i)
	}
	if i < len(toks) && toks[i].isKeyword("AS") {
		i++
	}
	if i < len(toks) && toks[i].isIdent() {
		i++
	}
	return name, i
}

func skipParens(toks []token, i int) int {
	depth := 0
	for ; i < len(toks); i++ {
		switch {
		case toks[i].is("("):
			depth++
		case toks[i].is(")"):
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return i
}

// cteNames collects names defined as "name AS (" or "name(cols) AS (".
func cteNames(toks []token) map[string]bool {
	names := make(map[string]bool)
	for i := 0; i+2 < len(toks); i++ {
		if !toks[i].isIdent() {
			continue
		}
		j := i + 1
		if toks[j].is("(") {
			j = skipParens(toks, j)
		}
		if j+1 < len(toks) && toks[j].isKeyword("AS") && toks[j+1].is("(") {
			names[strings.ToLower(toks[i].text)] = true
		}
	}
	return names
}
