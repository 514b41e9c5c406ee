// Package pipeline runs one comparison end to end: resolve two revisions,
// build a snapshot of each and compare them.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/emenda-labs/bccheck/core/changespec"
	"github.com/emenda-labs/bccheck/core/compare"
	"github.com/emenda-labs/bccheck/core/config"
	"github.com/emenda-labs/bccheck/core/driver"
	"github.com/emenda-labs/bccheck/core/symbols"
	"github.com/emenda-labs/bccheck/pkg/logging"
	"github.com/emenda-labs/bccheck/pkg/snapcache"
)

// Request describes one comparison.
type Request struct {
	Repository string
	// From is the baseline revision. Empty picks the last minor version
	// from the repository tags.
	From string
	To   string

	SourcesPath                    string
	InstallDependencies            bool
	InstallDevelopmentDependencies bool
}

// Pipeline wires a revision provider and a language driver to the comparator.
type Pipeline struct {
	revisions  driver.RevisionProvider
	lang       driver.LanguageDriver
	comparator *compare.Comparator
	cache      *snapcache.Cache
	baseline   *config.Baseline
	logger     *slog.Logger
}

type Option func(*Pipeline)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithCache reuses snapshots of revisions that were already analysed.
func WithCache(cache *snapcache.Cache) Option {
	return func(p *Pipeline) { p.cache = cache }
}

// WithBaseline drops changes matched by the baseline from every report.
func WithBaseline(baseline *config.Baseline) Option {
	return func(p *Pipeline) { p.baseline = baseline }
}

func WithComparator(c *compare.Comparator) Option {
	return func(p *Pipeline) { p.comparator = c }
}

func New(revisions driver.RevisionProvider, lang driver.LanguageDriver, opts ...Option) *Pipeline {
	p := &Pipeline{
		revisions: revisions,
		lang:      lang,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.comparator == nil {
		p.comparator = compare.New(compare.WithLogger(p.logger))
	}
	return p
}

// Run executes req. The report carries resolved commit ids.
func (p *Pipeline) Run(ctx context.Context, req Request) (changespec.Report, error) {
	from := req.From
	if from == "" {
		version, err := p.revisions.LastMinorVersion(ctx)
		if err != nil {
			return changespec.Report{}, fmt.Errorf("picking baseline version: %w", err)
		}
		p.logger.Info("comparing against last minor version", "version", version)
		from = version
	}
	to := req.To
	if to == "" {
		to = "HEAD"
	}

	fromSHA, err := p.revisions.ResolveRevision(ctx, from)
	if err != nil {
		return changespec.Report{}, err
	}
	toSHA, err := p.revisions.ResolveRevision(ctx, to)
	if err != nil {
		return changespec.Report{}, err
	}
	p.logger.Info("comparing revisions", "from", fromSHA, "to", toSHA)

	var fromSnap, toSnap *symbols.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fromSnap, err = p.snapshot(gctx, fromSHA, req)
		return err
	})
	g.Go(func() error {
		var err error
		toSnap, err = p.snapshot(gctx, toSHA, req)
		return err
	})
	if err := g.Wait(); err != nil {
		return changespec.Report{}, err
	}

	changes, err := p.comparator.Compare(fromSnap, toSnap)
	if err != nil {
		return changespec.Report{}, fmt.Errorf("comparing %s..%s: %w", fromSHA, toSHA, err)
	}
	if p.baseline != nil {
		before := changes.Len()
		changes = p.baseline.Apply(changes)
		if n := before - changes.Len(); n > 0 {
			p.logger.Info("baseline ignored changes", "count", n)
		}
	}

	return changespec.Report{
		Repository:   req.Repository,
		FromRevision: fromSHA,
		ToRevision:   toSHA,
		Changes:      changes,
	}, nil
}

// snapshot returns the symbol model of a resolved revision, from the cache
// when possible.
func (p *Pipeline) snapshot(ctx context.Context, sha string, req Request) (*symbols.Snapshot, error) {
	key := snapcache.Key{
		Revision:        sha,
		SourcesPath:     req.SourcesPath,
		Dependencies:    req.InstallDependencies,
		DevDependencies: req.InstallDependencies && req.InstallDevelopmentDependencies,
	}
	if snap, ok, err := p.cache.Get(key); err != nil {
		p.logger.Warn("snapshot cache read failed", "revision", sha, "error", err)
	} else if ok {
		p.logger.Debug("snapshot cache hit", "revision", sha)
		return snap, nil
	}

	dir, cleanup, err := p.revisions.Checkout(ctx, sha)
	if err != nil {
		return nil, fmt.Errorf("checking out %s: %w", sha, err)
	}
	defer cleanup()

	if req.InstallDependencies {
		if err := p.lang.InstallDependencies(ctx, dir, req.InstallDevelopmentDependencies); err != nil {
			return nil, fmt.Errorf("installing dependencies of %s: %w", sha, err)
		}
	}

	snap, err := p.lang.BuildSnapshot(ctx, dir, driver.BuildOptions{
		SourcesPath:  req.SourcesPath,
		Dependencies: req.InstallDependencies,
	})
	if err != nil {
		return nil, fmt.Errorf("analysing %s: %w", sha, err)
	}

	if err := p.cache.Put(key, snap); err != nil {
		p.logger.Warn("snapshot cache write failed", "revision", sha, "error", err)
	}
	return snap, nil
}
