// Package discover implements the FileWalker: a deterministic,
// fail-soft traversal of a repository root that yields the sorted
// list of parseable files.
package discover

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/codegraph/codegraph/internal/lang"
)

// ignoreDirs are directory names skipped during discovery regardless
// of exclude_patterns configuration.
var ignoreDirs = map[string]bool{
	".cache": true, ".claude": true, ".eclipse": true, ".eggs": true,
	".env": true, ".git": true, ".gradle": true, ".hg": true,
	".idea": true, ".maven": true, ".mypy_cache": true, ".nox": true,
	".npm": true, ".nyc_output": true, ".pnpm-store": true,
	".pytest_cache": true, ".ruff_cache": true, ".svn": true,
	".tmp": true, ".tox": true, ".venv": true, ".vs": true,
	".vscode": true, ".yarn": true, "__pycache__": true, "bin": true,
	"bower_components": true, "build": true, "coverage": true,
	"dist": true, "env": true, "htmlcov": true, "node_modules": true,
	"obj": true, "out": true, "Pods": true, "site-packages": true,
	"target": true, "temp": true, "tmp": true, "vendor": true,
	"venv": true,
}

// ignoreSuffixes are file suffixes skipped during discovery.
var ignoreSuffixes = []string{".tmp", "~", ".pyc", ".pyo", ".o", ".a", ".so", ".dll", ".class"}

// FileInfo represents a discovered, classified source file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // slash-separated, relative to repo root
	Language lang.Language // classified language (composite-aware)
}

// Options configures traversal per spec.md §4.2: exclude_patterns,
// max_file_size, follow_symlinks, plus an optional ignore-file path.
type Options struct {
	IgnoreFile      string   // path to an ignore file (one glob per line); default: "<root>/.codegraphignore"
	ExcludePatterns []string // additional glob patterns matched against name, rel path, and any path component
	MaxFileSize     int64    // bytes; 0 means unlimited
	FollowSymlinks  bool     // default false
}

func shouldSkipDir(name, rel string, extraIgnore []string) bool {
	if ignoreDirs[name] {
		return true
	}
	for _, pattern := range extraIgnore {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func shouldSkipFile(path, rel string, info os.FileInfo, opts *Options, extraIgnore []string) bool {
	for _, suffix := range ignoreSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	if opts != nil && opts.MaxFileSize > 0 && info.Size() > opts.MaxFileSize {
		return true
	}
	name := filepath.Base(path)
	for _, pattern := range extraIgnore {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
		for _, part := range strings.Split(rel, string(filepath.Separator)) {
			if matched, _ := filepath.Match(pattern, part); matched {
				return true
			}
		}
	}
	return false
}

// Discover walks repoPath and returns the classified files it finds.
// filepath.Walk already visits entries in lexical order, so the
// result is order-deterministic by construction. Permission and stat
// errors are fail-soft: the offending directory is skipped and the
// walk continues.
func Discover(ctx context.Context, repoPath string, opts *Options) ([]FileInfo, error) {
	repoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var extraIgnore []string
	if opts != nil {
		extraIgnore = append(extraIgnore, opts.ExcludePatterns...)
	}
	ignoreFile := filepath.Join(repoPath, ".codegraphignore")
	if opts != nil && opts.IgnoreFile != "" {
		ignoreFile = opts.IgnoreFile
	}
	if patterns, err := loadIgnoreFile(ignoreFile); err == nil {
		extraIgnore = append(extraIgnore, patterns...)
	}

	followSymlinks := opts != nil && opts.FollowSymlinks

	var files []FileInfo

	walkFn := func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return filepath.SkipDir
		}

		rel, _ := filepath.Rel(repoPath, path)
		rel = filepath.ToSlash(rel)

		if info.Mode()&os.ModeSymlink != 0 && !followSymlinks {
			return nil
		}

		if info.IsDir() {
			if path != repoPath && shouldSkipDir(info.Name(), rel, extraIgnore) {
				return filepath.SkipDir
			}
			return nil
		}

		if shouldSkipFile(path, rel, info, opts, extraIgnore) {
			return nil
		}

		l, ok := lang.Classify(path)
		if !ok {
			return nil
		}
		files = append(files, FileInfo{Path: path, RelPath: rel, Language: l})
		return nil
	}

	err = filepath.Walk(repoPath, walkFn)
	return files, err
}

func loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}
