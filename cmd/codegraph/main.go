// Command codegraph is the thin CLI adapter spec.md §6 calls for:
// init/update/query/status/reset over the core extraction pipeline and
// store, grounded on the teacher's cmd/codebase-memory-mcp/main.go
// hand-rolled flag dispatch.
package main

import (
	"fmt"
	"log/slog"
	"os"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println("codegraph", version)
		return
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		usage()
		return
	}

	installLogger(args)

	var err error
	switch cmd {
	case "init":
		err = runInit(args)
	case "update":
		err = runUpdate(args)
	case "query":
		err = runQuery(args)
	case "status":
		err = runStatus(args)
	case "reset":
		err = runReset(args)
	case "dump-ast":
		err = runDumpAST(args)
	default:
		fmt.Fprintf(os.Stderr, "codegraph: unknown command %q\n\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: codegraph <command> [flags]

Commands:
  init              create the graph database and verify its schema
  update [--full]   extract the project into the graph (incremental by default)
  query <text>      run a query against the graph
  status            report entity/relationship/file counts
  reset             drop and recreate the graph schema

Flags:
  -c, --config <path>   config file path (default codegraph.yml)
  -v, --verbose         enable debug logging
`)
}

// installLogger sets up log/slog the way the teacher's main.go does:
// a plain text handler on stderr, level raised by -v/--verbose.
func installLogger(args []string) {
	level := slog.LevelInfo
	if hasFlag(args, "-v", "--verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
