package main

import (
	"fmt"
	"strings"

	"github.com/codegraph/codegraph/internal/store"
)

// runQuery passes a query string straight through to the store, per
// spec.md §4.8's opaque query(text, params) contract, and prints the
// result as a simple tab-separated table.
func runQuery(args []string) error {
	positional := positionalArgs(args)
	if len(positional) == 0 {
		return fmt.Errorf("query: expected a query string argument")
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.Query(positional[0])
	if err != nil {
		return err
	}

	printQueryResult(result)
	return nil
}

func printQueryResult(r *store.QueryResult) {
	if len(r.Rows) == 0 {
		fmt.Println("0 rows")
		return
	}
	fmt.Println(strings.Join(r.Columns, "\t"))
	for _, row := range r.Rows {
		vals := make([]string, len(r.Columns))
		for i, col := range r.Columns {
			vals[i] = fmt.Sprintf("%v", row[col])
		}
		fmt.Println(strings.Join(vals, "\t"))
	}
	fmt.Printf("%d row(s)\n", len(r.Rows))
}
