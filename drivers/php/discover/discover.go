// Package discover finds the PHP source files of a checked out tree.
package discover

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	".idea":        {},
}

// Options tune a walk.
type Options struct {
	// IncludeVendor also descends into vendor directories.
	IncludeVendor bool
	// Ignore holds extra gitignore-style patterns.
	Ignore []string
}

// Files returns the .php files under root, relative to root and sorted.
// Patterns in root/.gitignore are honored. A missing root is an error.
func Files(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "discover", Path: root, Err: errors.New("not a directory")}
	}
	gi, err := loadGitignore(root, opts.Ignore)
	if err != nil {
		return nil, err
	}

	var results []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		slashed := filepath.ToSlash(rel)
		name := d.Name()

		if d.IsDir() {
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if name == "vendor" && !opts.IncludeVendor {
				return filepath.SkipDir
			}
			if gi.MatchesPath(slashed + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&os.ModeSymlink != 0 || !strings.EqualFold(filepath.Ext(name), ".php") {
			return nil
		}
		if gi.MatchesPath(slashed) {
			return nil
		}
		results = append(results, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(results)
	return results, nil
}

func loadGitignore(root string, extra []string) (*ignore.GitIgnore, error) {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return ignore.CompileIgnoreLines(extra...), nil
	}
	return ignore.CompileIgnoreFileAndLines(path, extra...)
}
