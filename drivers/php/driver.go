// Package php implements the language driver for PHP libraries managed with
// composer.
package php

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/emenda-labs/bccheck/core/driver"
	"github.com/emenda-labs/bccheck/core/symbols"
	"github.com/emenda-labs/bccheck/drivers/php/composer"
	"github.com/emenda-labs/bccheck/drivers/php/discover"
	"github.com/emenda-labs/bccheck/drivers/php/phpparse"
	"github.com/emenda-labs/bccheck/pkg/logging"
)

var _ driver.LanguageDriver = (*Driver)(nil)

// Installer installs composer dependencies.
type Installer interface {
	Install(ctx context.Context, root string, dev bool) error
}

// Driver implements driver.LanguageDriver for composer packages.
type Driver struct {
	parser    *phpparse.Parser
	installer Installer
	logger    *slog.Logger
	jobs      int
}

// Option configures a Driver.
type Option func(*Driver)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

// WithJobs sets how many files are parsed concurrently.
func WithJobs(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.jobs = n
		}
	}
}

func WithInstaller(installer Installer) Option {
	return func(d *Driver) { d.installer = installer }
}

// NewDriver creates a Driver that installs through the composer executable.
func NewDriver(opts ...Option) *Driver {
	d := &Driver{
		parser:    phpparse.New(),
		installer: composer.Installer{},
		logger:    logging.Discard(),
		jobs:      runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// InstallDependencies runs composer install in root. Trees without a
// composer.json have nothing to install.
func (d *Driver) InstallDependencies(ctx context.Context, root string, dev bool) error {
	if _, err := os.Stat(filepath.Join(root, composer.ManifestFile)); errors.Is(err, os.ErrNotExist) {
		d.logger.Debug("no composer manifest, skipping installation", "root", root)
		return nil
	}
	d.logger.Info("installing dependencies", "root", root, "dev", dev)
	return d.installer.Install(ctx, root, dev)
}

// BuildSnapshot parses the library sources of root and, when requested,
// the autoloaded code of its installed dependencies.
func (d *Driver) BuildSnapshot(ctx context.Context, root string, opts driver.BuildOptions) (*symbols.Snapshot, error) {
	paths := []string{opts.SourcesPath}
	if opts.SourcesPath == "" {
		var err error
		if paths, err = composer.SourcePaths(root); err != nil {
			return nil, fmt.Errorf("locating sources: %w", err)
		}
	}

	files, err := collect(root, paths, discover.Options{})
	if err != nil {
		return nil, err
	}
	classes, functions, err := d.parseAll(ctx, root, files)
	if err != nil {
		return nil, err
	}
	d.logger.Info("parsed sources", "root", root, "files", len(files), "classes", len(classes), "functions", len(functions))

	var dependencies []*symbols.Class
	if opts.Dependencies {
		depPaths, err := composer.DependencyPaths(root)
		if err != nil {
			return nil, fmt.Errorf("locating dependencies: %w", err)
		}
		rel := make([]string, 0, len(depPaths))
		for _, p := range depPaths {
			if r, err := filepath.Rel(root, p); err == nil {
				rel = append(rel, r)
			}
		}
		depFiles, err := collect(root, rel, discover.Options{IncludeVendor: true})
		if err != nil {
			return nil, err
		}
		if dependencies, _, err = d.parseAll(ctx, root, depFiles); err != nil {
			return nil, err
		}
		d.logger.Info("parsed dependencies", "files", len(depFiles), "classes", len(dependencies))
	}

	return symbols.NewSnapshot(classes, functions, dependencies), nil
}

// collect expands paths relative to root into PHP files, relative to root,
// without duplicates.
func collect(root string, paths []string, opts discover.Options) ([]string, error) {
	seen := map[string]struct{}{}
	var files []string
	add := func(rel string) {
		if _, dup := seen[rel]; !dup {
			seen[rel] = struct{}{}
			files = append(files, rel)
		}
	}

	for _, p := range paths {
		abs := filepath.Join(root, p)
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("source path %s: %w", p, err)
		}
		if !info.IsDir() {
			if strings.EqualFold(filepath.Ext(p), ".php") {
				add(filepath.Clean(p))
			}
			continue
		}
		found, err := discover.Files(abs, opts)
		if err != nil {
			return nil, fmt.Errorf("discovering %s: %w", p, err)
		}
		for _, f := range found {
			add(filepath.Join(filepath.Clean(p), f))
		}
	}
	return files, nil
}

// parseAll parses files concurrently and merges the results in file order.
// The first declaration of a name wins.
func (d *Driver) parseAll(ctx context.Context, root string, files []string) ([]*symbols.Class, []*symbols.Function, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}
	results := make([]*phpparse.Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(d.jobs, len(files)))
	for i, rel := range files {
		g.Go(func() error {
			result, err := d.parser.ParseFile(gctx, filepath.Join(root, rel), filepath.ToSlash(rel))
			if errors.Is(err, phpparse.ErrFileTooLarge) {
				d.logger.Warn("skipping file", "file", rel, "error", err)
				return nil
			}
			if err != nil {
				return fmt.Errorf("parsing %s: %w", rel, err)
			}
			if result.HasErrors {
				d.logger.Warn("file contains syntax errors", "file", rel)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var classes []*symbols.Class
	var functions []*symbols.Function
	classNames := map[string]struct{}{}
	functionNames := map[string]struct{}{}
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, c := range r.Classes {
			key := strings.ToLower(c.Name)
			if _, dup := classNames[key]; dup {
				d.logger.Debug("duplicate declaration ignored", "symbol", c.Name, "file", r.Path)
				continue
			}
			classNames[key] = struct{}{}
			classes = append(classes, c)
		}
		for _, f := range r.Functions {
			key := strings.ToLower(f.Name)
			if _, dup := functionNames[key]; dup {
				continue
			}
			functionNames[key] = struct{}{}
			functions = append(functions, f)
		}
	}
	return classes, functions, nil
}
