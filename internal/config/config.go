// Package config loads the Extractor's configuration: a YAML file with
// environment-variable overrides, per spec.md §6's recognized-key list.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parsing holds the FileWalker/ParserSet-facing knobs.
type Parsing struct {
	FileExtensions    []string `yaml:"file_extensions"`
	ExcludePatterns   []string `yaml:"exclude_patterns"`
	MaxFileSize       int64    `yaml:"max_file_size"`
	FollowSymlinks    bool     `yaml:"follow_symlinks"`
	IncludeDocstrings bool     `yaml:"include_docstrings"`
}

// Database holds the StoreAdapter-facing knobs.
type Database struct {
	Path         string `yaml:"path"`
	QueryTimeout int    `yaml:"query_timeout"` // seconds
	BatchSize    int    `yaml:"batch_size"`
}

// Web holds the read limits downstream visualizations are exposed but
// the core never enforces itself.
type Web struct {
	MaxNodes int `yaml:"max_nodes"`
	MaxEdges int `yaml:"max_edges"`
}

// Config is the full recognized-key set spec.md §6 names.
type Config struct {
	ProjectRoot string   `yaml:"project_root"`
	Parsing     Parsing  `yaml:"parsing"`
	Database    Database `yaml:"database"`
	Web         Web      `yaml:"web"`
}

// ConfigurationError wraps a fatal startup configuration failure, per
// spec.md §7's error table.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Defaults returns the configuration defaults applied before a file or
// environment overrides are read.
func Defaults() *Config {
	return &Config{
		ProjectRoot: ".",
		Parsing: Parsing{
			FileExtensions:    []string{".py", ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".html", ".css", ".scss", ".sass"},
			ExcludePatterns:   nil,
			MaxFileSize:       1 << 20, // 1 MiB
			FollowSymlinks:    false,
			IncludeDocstrings: true,
		},
		Database: Database{
			Path:         "codegraph.db",
			QueryTimeout: 30,
			BatchSize:    999,
		},
		Web: Web{
			MaxNodes: 5000,
			MaxEdges: 10000,
		},
	}
}

// Load reads path (if non-empty and present) over the defaults, then
// applies CODEGRAPH_<SECTION>_<KEY> environment overrides. A malformed
// file is a fatal ConfigurationError.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return applyEnv(cfg), nil
			}
			return nil, &ConfigurationError{Path: path, Err: err}
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigurationError{Path: path, Err: err}
		}
	}

	return applyEnv(cfg), nil
}

// applyEnv overrides recognized keys from CODEGRAPH_<SECTION>_<KEY>
// environment variables (e.g. CODEGRAPH_DATABASE_PATH,
// CODEGRAPH_PARSING_MAX_FILE_SIZE), grounded on the plain os.Getenv
// override style other_examples/simik394-osobni_wf's jules-go config
// loader uses.
func applyEnv(cfg *Config) *Config {
	if v, ok := os.LookupEnv("CODEGRAPH_PROJECT_ROOT"); ok {
		cfg.ProjectRoot = v
	}

	if v, ok := os.LookupEnv("CODEGRAPH_PARSING_FILE_EXTENSIONS"); ok {
		cfg.Parsing.FileExtensions = splitList(v)
	}
	if v, ok := os.LookupEnv("CODEGRAPH_PARSING_EXCLUDE_PATTERNS"); ok {
		cfg.Parsing.ExcludePatterns = splitList(v)
	}
	if v, ok := os.LookupEnv("CODEGRAPH_PARSING_MAX_FILE_SIZE"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Parsing.MaxFileSize = n
		}
	}
	if v, ok := os.LookupEnv("CODEGRAPH_PARSING_FOLLOW_SYMLINKS"); ok {
		cfg.Parsing.FollowSymlinks = parseBool(v)
	}
	if v, ok := os.LookupEnv("CODEGRAPH_PARSING_INCLUDE_DOCSTRINGS"); ok {
		cfg.Parsing.IncludeDocstrings = parseBool(v)
	}

	if v, ok := os.LookupEnv("CODEGRAPH_DATABASE_PATH"); ok {
		cfg.Database.Path = v
	}
	if v, ok := os.LookupEnv("CODEGRAPH_DATABASE_QUERY_TIMEOUT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.QueryTimeout = n
		}
	}
	if v, ok := os.LookupEnv("CODEGRAPH_DATABASE_BATCH_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.BatchSize = n
		}
	}

	if v, ok := os.LookupEnv("CODEGRAPH_WEB_MAX_NODES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Web.MaxNodes = n
		}
	}
	if v, ok := os.LookupEnv("CODEGRAPH_WEB_MAX_EDGES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Web.MaxEdges = n
		}
	}

	return cfg
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
