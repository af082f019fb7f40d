package main

import (
	"strings"

	"github.com/codegraph/codegraph/internal/config"
)

// flagValue scans args for the first occurrence of any of names, as
// either "-c value" or "-c=value", the same manual style the teacher's
// runCLI uses for --raw.
func flagValue(args []string, names ...string) (string, bool) {
	for i, a := range args {
		for _, n := range names {
			if a == n && i+1 < len(args) {
				return args[i+1], true
			}
			if v, ok := strings.CutPrefix(a, n+"="); ok {
				return v, true
			}
		}
	}
	return "", false
}

func hasFlag(args []string, names ...string) bool {
	for _, a := range args {
		for _, n := range names {
			if a == n {
				return true
			}
		}
	}
	return false
}

// positionalArgs returns every arg that isn't a flag or a flag's value.
func positionalArgs(args []string) []string {
	var out []string
	skipNext := false
	for _, a := range args {
		if skipNext {
			skipNext = false
			continue
		}
		switch a {
		case "-c", "--config":
			skipNext = true
			continue
		case "--full", "-v", "--verbose":
			continue
		}
		if strings.HasPrefix(a, "-") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func configPath(args []string) string {
	if p, ok := flagValue(args, "-c", "--config"); ok {
		return p
	}
	return "codegraph.yml"
}

func loadConfig(args []string) (*config.Config, error) {
	return config.Load(configPath(args))
}
