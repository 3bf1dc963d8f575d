package google

import (
	"fmt"
	"strconv"
	"strings"

	"govis/internal/core"
)

// rowsFromValues turns a values matrix into rows keyed by the header row.
// Blank header cells drop their column; fully blank rows are skipped.
func rowsFromValues(values [][]interface{}) []core.Row {
	if len(values) == 0 {
		return nil
	}

	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		headers[i] = strings.TrimSpace(cellString(h))
	}

	rows := make([]core.Row, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make(core.Row, len(headers))
		blank := true
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i >= len(raw) {
				row[h] = nil
				continue
			}
			s := cellString(raw[i])
			if s != "" {
				blank = false
			}
			row[h] = s
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows
}

// cellString renders a cell as text. Whole floats print without a
// fractional part so that amounts and years round-trip cleanly.
func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
