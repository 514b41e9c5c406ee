package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/emenda-labs/bccheck/core/cli"
	"github.com/emenda-labs/bccheck/core/compare"
	"github.com/emenda-labs/bccheck/core/config"
	"github.com/emenda-labs/bccheck/core/driver"
	"github.com/emenda-labs/bccheck/core/format"
	"github.com/emenda-labs/bccheck/core/pipeline"
	"github.com/emenda-labs/bccheck/drivers/php"
	"github.com/emenda-labs/bccheck/drivers/php/composer"
	"github.com/emenda-labs/bccheck/pkg/git"
	"github.com/emenda-labs/bccheck/pkg/logging"
	"github.com/emenda-labs/bccheck/pkg/snapcache"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runAssert := func(ctx context.Context, opts cli.AssertOptions) error {
		repo, err := git.Open(ctx, opts.Repo)
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig(repo.Path, opts.Config)
		if err != nil {
			return err
		}
		opts.Apply(cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		baseline, err := cfg.CompileBaseline()
		if err != nil {
			return err
		}

		var cache *snapcache.Cache
		if !opts.NoCache {
			if cache, err = openCache(cfg); err != nil {
				logger.Warn("snapshot cache disabled", "error", err)
			}
		}

		lang := php.NewDriver(
			php.WithLogger(logger),
			php.WithInstaller(composer.Installer{Output: os.Stderr}),
		)
		p := pipeline.New(repo, lang,
			pipeline.WithLogger(logger),
			pipeline.WithCache(cache),
			pipeline.WithBaseline(baseline),
			pipeline.WithComparator(compare.New(compare.WithLogger(logger))),
		)

		report, err := p.Run(ctx, pipeline.Request{
			Repository:                     repo.Path,
			From:                           opts.From,
			To:                             opts.To,
			SourcesPath:                    cfg.SourcesPath,
			InstallDependencies:            cfg.InstallDependencies,
			InstallDevelopmentDependencies: cfg.InstallDevelopmentDependencies,
		})
		if err != nil {
			return err
		}

		formatters, closeAll, err := buildFormatters(cfg, os.Stdout)
		if err != nil {
			return err
		}
		defer closeAll()
		if err := formatters.Write(report); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		if report.Changes.HasBreaks() {
			return cli.ErrBreaksFound
		}
		return nil
	}

	runSnapshot := func(ctx context.Context, opts cli.SnapshotOptions) error {
		cfg, err := config.LoadConfig(opts.Path, "")
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		sources := opts.SourcesPath
		if sources == "" {
			sources = cfg.SourcesPath
		}

		snap, err := php.NewDriver(php.WithLogger(logger)).BuildSnapshot(ctx, opts.Path, driver.BuildOptions{
			SourcesPath:  sources,
			Dependencies: opts.WithDependencies,
		})
		if err != nil {
			return err
		}
		return cli.EncodeSnapshot(os.Stdout, snap, opts.Output)
	}

	clearCache := func(ctx context.Context) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		cfg, err := config.LoadConfig(cwd, "")
		if err != nil {
			return err
		}
		cache, err := openCache(cfg)
		if err != nil {
			return err
		}
		return cache.DropAll()
	}

	root := cli.NewRootCmd(version)
	root.AddCommand(cli.NewAssertCmd(runAssert))
	root.AddCommand(cli.NewSnapshotCmd(runSnapshot))
	root.AddCommand(cli.NewCacheCmd(clearCache))

	err := root.ExecuteContext(ctx)
	if code := cli.ExitCode(err); code != cli.ExitOK {
		if code == cli.ExitFailure {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(code)
	}
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(os.Stderr, logging.LevelFromString(cfg.Log.Level), logging.Format(cfg.Log.Format))
}

func openCache(cfg *config.Config) (*snapcache.Cache, error) {
	dir := cfg.CacheDir
	if dir == "" {
		var err error
		if dir, err = snapcache.DefaultDir(); err != nil {
			return nil, err
		}
	}
	return snapcache.Open(dir)
}

// buildFormatters creates one formatter per configured format. The markdown
// report goes to its own file when markdown-file is set.
func buildFormatters(cfg *config.Config, stdout io.Writer) (format.Multi, func(), error) {
	var out format.Multi
	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	for _, name := range cfg.Formats {
		w := stdout
		if name == "markdown" && cfg.MarkdownFile != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.MarkdownFile), 0o755); err != nil {
				closeAll()
				return nil, nil, err
			}
			f, err := os.Create(cfg.MarkdownFile)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			files = append(files, f)
			w = f
		}
		formatter, err := format.New(name, w)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		out = append(out, formatter)
	}
	return out, closeAll, nil
}
