// Package compare matches the top-level symbols of two snapshots and runs
// the configured check trees over every retained pair.
package compare

import (
	"fmt"
	"log/slog"

	"github.com/emenda-labs/bccheck/core/bcbreak"
	"github.com/emenda-labs/bccheck/core/changespec"
	"github.com/emenda-labs/bccheck/core/check"
	"github.com/emenda-labs/bccheck/core/symbols"
	"github.com/emenda-labs/bccheck/pkg/logging"
)

// Comparator compares two snapshots. It holds no per-run state and may be
// shared between goroutines.
type Comparator struct {
	trees  bcbreak.Trees
	logger *slog.Logger
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithTrees replaces the default check trees.
func WithTrees(trees bcbreak.Trees) Option {
	return func(c *Comparator) { c.trees = trees }
}

// WithLogger sets the logger used for run summaries and skipped checks.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Comparator) { c.logger = logger }
}

// New creates a Comparator using bcbreak.DefaultTrees unless overridden.
func New(opts ...Option) *Comparator {
	c := &Comparator{
		trees:  bcbreak.DefaultTrees(),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare reports every change between from and to. The returned error is
// non-nil only when a check's preconditions were violated, which aborts
// the comparison.
func (c *Comparator) Compare(from, to *symbols.Snapshot) (changespec.Changes, error) {
	scopes := check.Scopes{From: from, To: to}
	result := changespec.Empty()

	for _, old := range from.Classes {
		if old.Anonymous || old.Internal() {
			c.logger.Debug("skipping non-api symbol", "symbol", old.Name)
			continue
		}
		changes, err := c.compareClass(scopes, old)
		if err != nil {
			return changespec.Empty(), err
		}
		result = result.Merge(changes)
	}

	for _, old := range from.Functions {
		if old.Internal() {
			continue
		}
		changes, err := c.compareFunction(scopes, old)
		if err != nil {
			return changespec.Empty(), err
		}
		result = result.Merge(changes)
	}

	result = result.Deduplicate()
	c.logSummary(result)
	return result, nil
}

func (c *Comparator) compareClass(scopes check.Scopes, old *symbols.Class) (changespec.Changes, error) {
	current, ok := scopes.To.Class(old.Name)
	if !ok {
		return changespec.FromList(changespec.Removed(
			fmt.Sprintf("%s %s has been deleted", old.Kind.Title(), old.Name), true)), nil
	}

	transitions := changespec.Empty()
	if c.trees.Transitions != nil {
		var err error
		transitions, err = c.trees.Transitions.Check(scopes, old, current)
		if err != nil {
			return changespec.Empty(), fmt.Errorf("comparing %s: %w", old.Name, err)
		}
		if transitions.HasBreaks() {
			return transitions, nil
		}
	}

	tree := c.trees.ForKind(current.Kind)
	if tree == nil {
		return transitions, nil
	}
	changes, err := tree.Check(scopes, old, current)
	if err != nil {
		return changespec.Empty(), fmt.Errorf("comparing %s: %w", old.Name, err)
	}
	return transitions.Merge(changes), nil
}

func (c *Comparator) compareFunction(scopes check.Scopes, old *symbols.Function) (changespec.Changes, error) {
	current, ok := scopes.To.Function(old.Name)
	if !ok {
		return changespec.FromList(changespec.Removed(
			fmt.Sprintf("Function %s has been deleted", old.DisplayName()), true)), nil
	}
	if c.trees.Function == nil {
		return changespec.Empty(), nil
	}
	changes, err := c.trees.Function.Check(scopes, old, current)
	if err != nil {
		return changespec.Empty(), fmt.Errorf("comparing %s: %w", old.DisplayName(), err)
	}
	return changes, nil
}

func (c *Comparator) logSummary(result changespec.Changes) {
	skipped := 0
	for _, ch := range result.List() {
		if ch.Kind() == changespec.ChangeKindSkipped {
			skipped++
			c.logger.Warn("check skipped", "reason", ch.Message())
		}
	}
	c.logger.Info("comparison finished",
		"changes", result.Len(),
		"breaks", result.CountBreaks(),
		"skipped", skipped)
}
