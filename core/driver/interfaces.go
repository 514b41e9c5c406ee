package driver

import (
	"context"

	"github.com/emenda-labs/bccheck/core/symbols"
)

// BuildOptions controls how a snapshot is built from a checked out tree.
type BuildOptions struct {
	// SourcesPath restricts the analysed sources to one directory relative
	// to the tree root. Empty means the language's own source layout.
	SourcesPath string
	// Dependencies also loads installed third-party code so that types
	// declared outside the library resolve.
	Dependencies bool
}

// LanguageDriver is the interface each analysed language must implement.
type LanguageDriver interface {
	// InstallDependencies installs the third-party packages of the tree at
	// root, including development packages when dev is set. Implementations
	// must not change the process working directory.
	InstallDependencies(ctx context.Context, root string, dev bool) error

	// BuildSnapshot parses the tree at root into its symbol model.
	BuildSnapshot(ctx context.Context, root string, opts BuildOptions) (*symbols.Snapshot, error)
}

// RevisionProvider materializes revisions of the analysed repository.
type RevisionProvider interface {
	// ResolveRevision turns a user supplied revision into a full commit id.
	ResolveRevision(ctx context.Context, rev string) (string, error)

	// LastMinorVersion picks the default baseline from the version tags.
	LastMinorVersion(ctx context.Context) (string, error)

	// Checkout writes the tree of a resolved revision to a temporary
	// directory. Returns the path and a cleanup function that removes it.
	Checkout(ctx context.Context, revision string) (path string, cleanup func(), err error)
}
