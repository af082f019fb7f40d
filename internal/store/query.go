package store

import (
	"fmt"
	"strings"
)

// QueryResult is the opaque row set a passthrough Query returns: column
// names plus one map per row, keyed by column name.
type QueryResult struct {
	Columns []string
	Rows    []map[string]any
}

// Query is the opaque passthrough spec.md §4.8 names: text is handed to
// the driver verbatim alongside positional params. It does not check
// that the statement is read-only, and it applies no timeout: the
// configured query_timeout is not consulted here or by its callers.
func (s *Store) Query(text string, params ...any) (*QueryResult, error) {
	rows, err := s.q.Query(text, params...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}

	result := &QueryResult{Columns: cols}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("query scan: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = normalizeScanned(raw[i])
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}

func normalizeScanned(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// EscapeQueryString escapes a string literal for interpolation into the
// store's query language, per spec.md §4.8's exact order: backslashes
// first, then double-quote, single-quote, newline, carriage return, tab.
func EscapeQueryString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		`'`, `\'`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}
